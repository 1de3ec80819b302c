package camera

import (
	"time"
)

// Transition is an in-flight eased move between two poses.
type Transition struct {
	Start     Pose
	Target    Pose
	StartedAt time.Time
	Duration  time.Duration
}

// Progress returns linear progress in [0, 1] at now. Zero or negative
// durations, and moves between equal poses, are complete immediately.
func (t Transition) Progress(now time.Time) float64 {
	if t.Duration <= 0 || t.Start.ApproxEqual(t.Target) {
		return 1
	}
	p := float64(now.Sub(t.StartedAt)) / float64(t.Duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// StepResult is the outcome of one Engine step.
type StepResult struct {
	Pose      Pose
	Active    bool // A transition produced this pose
	Completed bool // True exactly once, on the step that reached the target
}

// Engine runs at most one transition. Beginning a new one discards the old.
type Engine struct {
	now     func() time.Time
	current *Transition
}

// NewEngine creates an engine; now defaults to time.Now.
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Begin starts a transition from current to target, replacing any in flight.
func (e *Engine) Begin(current, target Pose, duration time.Duration) {
	e.current = &Transition{
		Start:     current,
		Target:    target,
		StartedAt: e.now(),
		Duration:  duration,
	}
}

// Active reports whether a transition is in flight.
func (e *Engine) Active() bool {
	return e.current != nil
}

// Current returns the in-flight transition, if any.
func (e *Engine) Current() (Transition, bool) {
	if e.current == nil {
		return Transition{}, false
	}
	return *e.current, true
}

// Step evaluates the transition at now. With nothing in flight it is a no-op
// returning an inactive result.
func (e *Engine) Step(now time.Time) StepResult {
	if e.current == nil {
		return StepResult{}
	}

	tr := *e.current
	progress := tr.Progress(now)
	if progress >= 1 {
		e.current = nil
		return StepResult{Pose: tr.Target, Active: true, Completed: true}
	}

	eased := EaseOutCubic(progress)
	if eased == 0 {
		return StepResult{Pose: tr.Start, Active: true}
	}
	return StepResult{Pose: tr.Start.Lerp(tr.Target, eased), Active: true}
}
