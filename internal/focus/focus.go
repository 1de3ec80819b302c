// Package focus implements the overview / single-body focus state machine
// and drives the mini viewport that isolates the focused body.
package focus

import (
	"errors"
	"fmt"
	"time"

	"github.com/litescript/ls-orrery/internal/bodies"
	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/state"
)

// ReturnDuration is the length of the animated return to overview.
const ReturnDuration = 2500 * time.Millisecond

// SpinFactor scales the mini view's spin relative to the main view.
const SpinFactor = 0.3

// ErrNotSelectable is returned for ids that cannot be focused.
var ErrNotSelectable = errors.New("body is not selectable")

// ViewMode is either overview (Focused false) or focused on Body.
type ViewMode struct {
	Focused bool
	Body    bodies.ID
}

// Overview is the default mode.
var Overview = ViewMode{}

// FocusedOn returns the mode focused on id.
func FocusedOn(id bodies.ID) ViewMode {
	return ViewMode{Focused: true, Body: id}
}

func (m ViewMode) String() string {
	if !m.Focused {
		return "overview"
	}
	return "focused(" + string(m.Body) + ")"
}

// Source looks up the main scene's render node for a body.
type Source interface {
	BodyNode(id bodies.ID) (*scene.Node, bool)
}

// Animator moves the main camera. *camera.Rig satisfies it.
type Animator interface {
	AnimateTo(target camera.Pose, d time.Duration)
}

// Config holds the tunables of a Controller.
type Config struct {
	MiniWidth      int
	MiniHeight     int
	SpinFactor     float64
	ReturnDuration time.Duration
}

// DefaultConfig returns the stock tunables.
func DefaultConfig() Config {
	return Config{MiniWidth: 36, MiniHeight: 16, SpinFactor: SpinFactor, ReturnDuration: ReturnDuration}
}

// Controller owns the view mode. The mini viewport is visible exactly when
// the mode is focused.
type Controller struct {
	registry *bodies.Registry
	source   Source
	sim      *state.Simulation
	animator Animator
	factory  MiniFactory
	log      *logging.Logger
	cfg      Config

	mode ViewMode
	mini *MiniView
	gen  uint64
}

// New creates a controller in overview mode. The mini view is built on
// first selection by factory; a nil factory uses NewMiniView.
func New(reg *bodies.Registry, source Source, sim *state.Simulation, animator Animator, factory MiniFactory, cfg Config, log *logging.Logger) *Controller {
	if factory == nil {
		factory = NewMiniView
	}
	if log == nil {
		log = logging.Discard()
	}
	def := DefaultConfig()
	if cfg.MiniWidth <= 0 || cfg.MiniHeight <= 0 {
		cfg.MiniWidth, cfg.MiniHeight = def.MiniWidth, def.MiniHeight
	}
	if cfg.SpinFactor == 0 {
		cfg.SpinFactor = def.SpinFactor
	}
	if cfg.ReturnDuration == 0 {
		cfg.ReturnDuration = def.ReturnDuration
	}
	return &Controller{
		registry: reg,
		source:   source,
		sim:      sim,
		animator: animator,
		factory:  factory,
		log:      log.Named("focus"),
		cfg:      cfg,
	}
}

// Mode returns the current view mode.
func (c *Controller) Mode() ViewMode {
	return c.mode
}

// MiniVisible reports whether the mini viewport is shown.
func (c *Controller) MiniVisible() bool {
	return c.mode.Focused
}

// Mini returns the mini view while focused, else nil.
func (c *Controller) Mini() *MiniView {
	if !c.mode.Focused {
		return nil
	}
	return c.mini
}

// Generation identifies the current mini render loop. It changes on every
// mode change; a loop holding an older value must stop.
func (c *Controller) Generation() uint64 {
	return c.gen
}

// SelectBody focuses id. Selecting the focused body again returns to
// overview without moving the main camera. On failure the mode is left as
// overview and the error is returned for display.
func (c *Controller) SelectBody(id bodies.ID) error {
	d, ok := c.registry.Get(id)
	if !ok || !d.Selectable() {
		return fmt.Errorf("%w: %q", ErrNotSelectable, id)
	}

	if c.mode.Focused && c.mode.Body == id {
		c.ReturnToOverview(false)
		return nil
	}

	node, ok := c.source.BodyNode(id)
	if !ok {
		c.abort()
		return fmt.Errorf("no render node for %q", id)
	}

	if c.mini == nil {
		mini, err := c.factory(c.cfg.MiniWidth, c.cfg.MiniHeight)
		if err != nil {
			c.log.Error("mini view for %s: %v", id, err)
			c.abort()
			return fmt.Errorf("create mini view: %w", err)
		}
		c.mini = mini
	}

	c.mini.Load(c.mini.Graph.Clone(node), id, MiniDistance(d.Radius))
	c.mode = FocusedOn(id)
	c.gen++
	c.sim.RecordEvent(state.EventFocus, string(id))
	c.log.Debug("focused %s at distance %.2f", id, MiniDistance(d.Radius))
	return nil
}

// abort drops any focus after a failed selection.
func (c *Controller) abort() {
	if c.mode.Focused {
		c.hide()
	}
}

// ReturnToOverview hides the mini viewport. When animated, the main camera
// also eases back to the overview pose.
func (c *Controller) ReturnToOverview(animated bool) {
	if c.mode.Focused {
		c.hide()
		c.sim.RecordEvent(state.EventOverview, "")
	}
	if animated && c.animator != nil {
		c.animator.AnimateTo(camera.OverviewPose, c.cfg.ReturnDuration)
	}
}

func (c *Controller) hide() {
	c.mode = Overview
	c.gen++
}

// ResizeMini changes the mini surface size, now and for later construction.
func (c *Controller) ResizeMini(w, h int) {
	c.cfg.MiniWidth, c.cfg.MiniHeight = w, h
	if c.mini != nil && w > 0 && h > 0 {
		c.mini.Resize(w, h)
	}
}

// RenderMini advances and draws one mini frame for loop gen. It returns
// false when the loop should stop: the token is stale, the mode is
// overview, the view is not built yet, or rendering failed. A render
// failure is logged and returns the controller to overview.
func (c *Controller) RenderMini(gen uint64) bool {
	if gen != c.gen || !c.mode.Focused {
		return false
	}
	if c.mini == nil {
		return false
	}

	// The mini view keeps turning while the main animation is paused.
	if d, ok := c.registry.Get(c.mode.Body); ok {
		c.mini.Spin(d.RotationSpeed * c.sim.Speed() * c.cfg.SpinFactor)
	}

	if err := c.mini.Render(); err != nil {
		c.log.Error("mini view render for %s: %v; disabling", c.mode.Body, err)
		c.mini = nil
		c.hide()
		c.sim.RecordEvent(state.EventOverview, "")
		return false
	}
	return true
}
