package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Controls orbits the camera around its target. Input accumulates as
// pending deltas that Update bleeds off with damping.
type Controls struct {
	MinDistance float64
	MaxDistance float64
	Damping     float64 // Fraction of pending rotation applied per update
	RotateSpeed float64 // Radians per input unit
	ZoomSpeed   float64

	enabled bool
	dTheta  float64
	dPhi    float64
	dolly   float64 // Pending distance multiplier, 1 = none
}

// NewControls returns controls with the main viewport's limits.
func NewControls() *Controls {
	return &Controls{
		MinDistance: 50,
		MaxDistance: 800,
		Damping:     0.05,
		RotateSpeed: 0.08,
		ZoomSpeed:   0.5,
		enabled:     true,
		dolly:       1,
	}
}

// Enabled reports whether user input is accepted.
func (c *Controls) Enabled() bool {
	return c.enabled
}

// SetEnabled enables or suspends user input. Suspending drops pending motion.
func (c *Controls) SetEnabled(enabled bool) {
	c.enabled = enabled
	if !enabled {
		c.reset()
	}
}

func (c *Controls) reset() {
	c.dTheta, c.dPhi, c.dolly = 0, 0, 1
}

// Rotate queues an orbit by dx (around the up axis) and dy (toward the poles).
func (c *Controls) Rotate(dx, dy float64) {
	if !c.enabled {
		return
	}
	c.dTheta -= dx * c.RotateSpeed
	c.dPhi -= dy * c.RotateSpeed
}

// Zoom queues a dolly; positive steps move closer.
func (c *Controls) Zoom(steps float64) {
	if !c.enabled {
		return
	}
	c.dolly *= math.Pow(0.95, steps*c.ZoomSpeed*2)
}

// Update applies pending input to p and returns the new pose.
func (c *Controls) Update(p Pose) Pose {
	if !c.enabled {
		return p
	}

	offset := p.Position.Sub(p.Target)
	radius := offset.Len()
	if radius == 0 {
		return p
	}

	theta := math.Atan2(offset.X(), offset.Z())
	phi := math.Acos(mgl64.Clamp(offset.Y()/radius, -1, 1))

	theta += c.dTheta * c.Damping
	phi += c.dPhi * c.Damping
	const eps = 0.01
	phi = mgl64.Clamp(phi, eps, math.Pi-eps)

	radius = mgl64.Clamp(radius*c.dolly, c.MinDistance, c.MaxDistance)

	c.dTheta *= 1 - c.Damping
	c.dPhi *= 1 - c.Damping
	c.dolly = 1
	if math.Abs(c.dTheta) < 1e-6 {
		c.dTheta = 0
	}
	if math.Abs(c.dPhi) < 1e-6 {
		c.dPhi = 0
	}

	sinPhi := math.Sin(phi)
	offset = mgl64.Vec3{
		radius * sinPhi * math.Sin(theta),
		radius * math.Cos(phi),
		radius * sinPhi * math.Cos(theta),
	}
	return Pose{Position: p.Target.Add(offset), Target: p.Target}
}
