// Package motion computes per-frame orbital positions and spin angles.
//
// Orbital positions are a pure function of simulated elapsed time. Spin is
// accumulated per frame so that pausing and resuming keep the current
// orientation exactly.
package motion

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/litescript/ls-orrery/internal/bodies"
	"github.com/litescript/ls-orrery/internal/state"
)

// StarfieldDrift is the starfield spin per frame at speed 1.
const StarfieldDrift = 0.0001

// OrbitalPosition returns a body's position relative to its parent after
// elapsed simulated seconds. Stationary bodies stay at the origin.
func OrbitalPosition(d bodies.Descriptor, elapsed float64) mgl64.Vec3 {
	if d.Stationary() {
		return mgl64.Vec3{}
	}
	angle := elapsed * d.OrbitalSpeed
	return mgl64.Vec3{
		math.Cos(angle) * d.OrbitalDistance,
		0,
		math.Sin(angle) * d.OrbitalDistance,
	}
}

// Clock accumulates simulated seconds. Real time only counts while the
// simulation is running, scaled by the speed multiplier at that moment.
type Clock struct {
	elapsed float64
}

// Advance adds dt of real time and returns the new simulated elapsed time.
func (c *Clock) Advance(dt time.Duration, snap state.Snapshot) float64 {
	if snap.Running && dt > 0 {
		c.elapsed += dt.Seconds() * snap.Speed
	}
	return c.elapsed
}

// Elapsed returns simulated seconds so far.
func (c *Clock) Elapsed() float64 {
	return c.elapsed
}

// Set jumps the clock to a simulated time. Positions follow immediately
// because they are derived from elapsed time alone.
func (c *Clock) Set(elapsed float64) {
	c.elapsed = elapsed
}

// Transform is a body's pose for one frame, relative to its parent.
type Transform struct {
	Position mgl64.Vec3
	Spin     float64 // Accumulated rotation about the local Y axis, radians
	Tilt     float64 // Axial tilt about the local X axis, radians
}

// Frame is the output of one Updater step.
type Frame struct {
	Elapsed       float64
	Bodies        map[bodies.ID]Transform
	StarfieldSpin float64
}

// Updater advances the clock and spin accumulators for a registry.
type Updater struct {
	registry *bodies.Registry
	sim      *state.Simulation
	clock    Clock

	spins         map[bodies.ID]float64
	starfieldSpin float64
}

// NewUpdater creates an updater reading speed and running state from sim.
func NewUpdater(registry *bodies.Registry, sim *state.Simulation) *Updater {
	return &Updater{
		registry: registry,
		sim:      sim,
		spins:    make(map[bodies.ID]float64, registry.Len()),
	}
}

// Step advances by dt of real time and returns every body's transform.
// While paused, nothing moves: the clock holds and spins are not incremented.
func (u *Updater) Step(dt time.Duration) Frame {
	snap := u.sim.Snapshot()
	elapsed := u.clock.Advance(dt, snap)

	if snap.Running {
		for _, d := range u.registry.All() {
			u.spins[d.ID] += d.RotationSpeed * snap.Speed
		}
		u.starfieldSpin += StarfieldDrift * snap.Speed
	}

	return u.frame(elapsed)
}

// Current returns the transforms at the current clock without advancing.
func (u *Updater) Current() Frame {
	return u.frame(u.clock.Elapsed())
}

// Seek jumps the simulated clock; spins are left as they are.
func (u *Updater) Seek(elapsed float64) Frame {
	u.clock.Set(elapsed)
	return u.frame(elapsed)
}

func (u *Updater) frame(elapsed float64) Frame {
	all := u.registry.All()
	f := Frame{
		Elapsed:       elapsed,
		Bodies:        make(map[bodies.ID]Transform, len(all)),
		StarfieldSpin: u.starfieldSpin,
	}
	for _, d := range all {
		f.Bodies[d.ID] = Transform{
			Position: OrbitalPosition(d, elapsed),
			Spin:     u.spins[d.ID],
			Tilt:     d.AxialTiltRadians(),
		}
	}
	return f
}
