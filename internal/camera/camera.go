// Package camera holds camera poses, eased transitions between them and the
// interactive orbit controller.
package camera

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Up is the world up axis.
var Up = mgl64.Vec3{0, 1, 0}

// Pose is a camera position and the point it looks at.
type Pose struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
}

var (
	// InitialPose is where the main camera starts.
	InitialPose = Pose{Position: mgl64.Vec3{0, 50, 200}}

	// OverviewPose frames the whole system; animated returns end here.
	OverviewPose = Pose{Position: mgl64.Vec3{0, 300, 500}}
)

// Lerp interpolates position and target independently.
func (p Pose) Lerp(to Pose, t float64) Pose {
	return Pose{
		Position: lerpVec(p.Position, to.Position, t),
		Target:   lerpVec(p.Target, to.Target, t),
	}
}

// ApproxEqual reports whether two poses match within floating-point tolerance.
func (p Pose) ApproxEqual(o Pose) bool {
	return p.Position.ApproxEqual(o.Position) && p.Target.ApproxEqual(o.Target)
}

// Distance returns the distance from the camera to its target.
func (p Pose) Distance() float64 {
	return p.Position.Sub(p.Target).Len()
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// EaseOutCubic maps linear progress in [0, 1] to 1-(1-x)^3.
func EaseOutCubic(x float64) float64 {
	inv := 1 - x
	return 1 - inv*inv*inv
}

// Camera is a perspective camera.
type Camera struct {
	Pose
	FovY float64 // Vertical field of view, degrees
	Near float64
	Far  float64
}

// NewMain returns the main viewport camera at InitialPose.
func NewMain() Camera {
	return Camera{Pose: InitialPose, FovY: 50, Near: 0.1, Far: 6000}
}

// NewMini returns the secondary viewport camera.
func NewMini() Camera {
	return Camera{Pose: Pose{Position: mgl64.Vec3{0, 0, 10}}, FovY: 60, Near: 0.1, Far: 1000}
}

// View returns the world-to-camera matrix.
func (c Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target, Up)
}

// Projection returns the perspective matrix for the given aspect ratio.
func (c Camera) Projection(aspect float64) mgl64.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl64.Perspective(mgl64.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

// ViewProjection returns Projection × View.
func (c Camera) ViewProjection(aspect float64) mgl64.Mat4 {
	return c.Projection(aspect).Mul4(c.View())
}
