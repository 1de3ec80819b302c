package camera

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// fakeClock returns a settable now function.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestEaseOutCubic(t *testing.T) {
	tests := []struct {
		x, want float64
	}{
		{0, 0},
		{1, 1},
		{0.5, 0.875},
	}
	for _, tt := range tests {
		if got := EaseOutCubic(tt.x); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("EaseOutCubic(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestPoseLerp(t *testing.T) {
	a := Pose{Position: mgl64.Vec3{0, 0, 0}, Target: mgl64.Vec3{10, 0, 0}}
	b := Pose{Position: mgl64.Vec3{10, 20, 30}, Target: mgl64.Vec3{0, 0, 0}}

	mid := a.Lerp(b, 0.5)
	want := Pose{Position: mgl64.Vec3{5, 10, 15}, Target: mgl64.Vec3{5, 0, 0}}
	if !mid.ApproxEqual(want) {
		t.Errorf("Lerp(0.5) = %+v, want %+v", mid, want)
	}
}

func TestEngine_StartAndEndAreExact(t *testing.T) {
	clk := &fakeClock{t: epoch}
	e := NewEngine(clk.now)

	start := Pose{Position: mgl64.Vec3{12.3, -4.56, 78.9}, Target: mgl64.Vec3{1, 2, 3}}
	e.Begin(start, OverviewPose, 2500*time.Millisecond)

	res := e.Step(epoch)
	if !res.Active || res.Completed {
		t.Fatalf("step at progress 0 = %+v, want active, not completed", res)
	}
	if res.Pose != start {
		t.Errorf("pose at progress 0 = %+v, want exactly %+v", res.Pose, start)
	}

	mid := e.Step(epoch.Add(1250 * time.Millisecond))
	if mid.Completed {
		t.Fatal("completed halfway")
	}
	// Ease-out: halfway in time is 87.5% of the way.
	wantY := start.Position.Y() + (300-start.Position.Y())*0.875
	if math.Abs(mid.Pose.Position.Y()-wantY) > 1e-9 {
		t.Errorf("mid y = %v, want %v", mid.Pose.Position.Y(), wantY)
	}

	end := e.Step(epoch.Add(10 * time.Second))
	if !end.Completed || end.Pose != OverviewPose {
		t.Errorf("final step = %+v, want completed at exactly OverviewPose", end)
	}

	// Completion is reported once; afterwards Step is a no-op.
	after := e.Step(epoch.Add(11 * time.Second))
	if after.Active || after.Completed {
		t.Errorf("step after completion = %+v, want inactive", after)
	}
	if e.Active() {
		t.Error("engine still active after completion")
	}
}

func TestEngine_NonPositiveDurationCompletesImmediately(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		clk := &fakeClock{t: epoch}
		e := NewEngine(clk.now)
		e.Begin(InitialPose, OverviewPose, d)

		res := e.Step(epoch)
		if !res.Completed || res.Pose != OverviewPose {
			t.Errorf("duration %v: first step = %+v, want completed at target", d, res)
		}
	}
}

func TestEngine_EqualPosesCompleteOnFirstStep(t *testing.T) {
	clk := &fakeClock{t: epoch}
	e := NewEngine(clk.now)
	e.Begin(OverviewPose, OverviewPose, 2500*time.Millisecond)

	res := e.Step(epoch)
	if !res.Completed {
		t.Errorf("degenerate transition did not complete on first step: %+v", res)
	}
}

func TestEngine_LastWriteWins(t *testing.T) {
	clk := &fakeClock{t: epoch}
	e := NewEngine(clk.now)

	e.Begin(InitialPose, OverviewPose, time.Second)
	clk.t = epoch.Add(500 * time.Millisecond)
	other := Pose{Position: mgl64.Vec3{0, 0, 900}}
	e.Begin(InitialPose, other, time.Second)

	tr, ok := e.Current()
	if !ok || tr.Target != other || !tr.StartedAt.Equal(clk.t) {
		t.Fatalf("Current = %+v, %v; want new transition started at %v", tr, ok, clk.t)
	}

	res := e.Step(clk.t.Add(2 * time.Second))
	if res.Pose != other {
		t.Errorf("final pose = %+v, want %+v", res.Pose, other)
	}
}

func TestEngine_StepWithoutTransition(t *testing.T) {
	e := NewEngine(nil)
	if res := e.Step(time.Now()); res.Active || res.Completed {
		t.Errorf("idle step = %+v, want zero result", res)
	}
}

func TestControls_DisabledIgnoresInput(t *testing.T) {
	c := NewControls()
	c.SetEnabled(false)
	c.Rotate(10, 10)
	c.Zoom(5)

	p := InitialPose
	if got := c.Update(p); got != p {
		t.Errorf("disabled Update moved the camera: %+v", got)
	}
}

func TestControls_ZoomClampsDistance(t *testing.T) {
	c := NewControls()

	p := InitialPose
	for i := 0; i < 200; i++ {
		c.Zoom(5)
		p = c.Update(p)
	}
	if d := p.Distance(); math.Abs(d-c.MinDistance) > 1e-6 {
		t.Errorf("zoomed-in distance = %v, want %v", d, c.MinDistance)
	}

	for i := 0; i < 200; i++ {
		c.Zoom(-5)
		p = c.Update(p)
	}
	if d := p.Distance(); math.Abs(d-c.MaxDistance) > 1e-6 {
		t.Errorf("zoomed-out distance = %v, want %v", d, c.MaxDistance)
	}
}

func TestControls_RotateKeepsDistance(t *testing.T) {
	c := NewControls()
	p := InitialPose
	d0 := p.Distance()

	c.Rotate(5, 2)
	for i := 0; i < 30; i++ {
		p = c.Update(p)
	}
	if math.Abs(p.Distance()-d0) > 1e-6 {
		t.Errorf("orbit changed distance: %v -> %v", d0, p.Distance())
	}
	if p.ApproxEqual(InitialPose) {
		t.Error("rotation had no effect")
	}
}

func TestRig_SuspendsControlsDuringTransition(t *testing.T) {
	clk := &fakeClock{t: epoch}
	rig := NewRig(NewMain(), NewControls(), NewEngine(clk.now))

	rig.AnimateTo(OverviewPose, 2500*time.Millisecond)
	if rig.Controls.Enabled() {
		t.Fatal("controls enabled during transition")
	}

	if done := rig.Update(epoch.Add(time.Second)); done {
		t.Fatal("completed early")
	}
	if !rig.Animating() {
		t.Fatal("not animating mid-transition")
	}

	if done := rig.Update(epoch.Add(3 * time.Second)); !done {
		t.Fatal("transition did not complete")
	}
	if !rig.Controls.Enabled() {
		t.Error("controls not re-enabled on completion")
	}
	if rig.Pose() != OverviewPose {
		t.Errorf("pose = %+v, want OverviewPose", rig.Pose())
	}
}

func TestCameraMatrices(t *testing.T) {
	cam := NewMain()
	vp := cam.ViewProjection(2)

	// The target projects to the centre of clip space.
	clip := vp.Mul4x1(cam.Target.Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip.W())
	if math.Abs(ndc.X()) > 1e-9 || math.Abs(ndc.Y()) > 1e-9 {
		t.Errorf("target projects to %v, want centre", ndc)
	}
}
