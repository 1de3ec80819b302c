package camera

import (
	"time"
)

// Rig owns the main camera and arbitrates between the orbit controls and
// the transition engine. Controls are suspended while a transition runs.
type Rig struct {
	Camera   Camera
	Controls *Controls
	engine   *Engine
}

// NewRig creates a rig.
func NewRig(cam Camera, controls *Controls, engine *Engine) *Rig {
	return &Rig{Camera: cam, Controls: controls, engine: engine}
}

// Pose returns the live camera pose.
func (r *Rig) Pose() Pose {
	return r.Camera.Pose
}

// AnimateTo starts an eased move from the live pose, replacing any move in
// flight, and suspends user input until it completes.
func (r *Rig) AnimateTo(target Pose, d time.Duration) {
	r.engine.Begin(r.Camera.Pose, target, d)
	r.Controls.SetEnabled(false)
}

// Animating reports whether a transition is in flight.
func (r *Rig) Animating() bool {
	return r.engine.Active()
}

// Update advances the camera for one frame. It returns true on the frame a
// transition completes.
func (r *Rig) Update(now time.Time) bool {
	if r.engine.Active() {
		res := r.engine.Step(now)
		r.Camera.Pose = res.Pose
		if res.Completed {
			r.Controls.SetEnabled(true)
			return true
		}
		return false
	}
	r.Camera.Pose = r.Controls.Update(r.Camera.Pose)
	return false
}
