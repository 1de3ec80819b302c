// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-orrery/internal/assets"
	"github.com/litescript/ls-orrery/internal/bodies"
	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/focus"
	"github.com/litescript/ls-orrery/internal/interact"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/motion"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/state"
)

const (
	headerHeight       = 2
	footerHeight       = 2
	sidebarWidth       = 38
	minWidthForSidebar = 80

	// maxFrameStep caps the simulated step after a stall (suspend, slow terminal).
	maxFrameStep = 250 * time.Millisecond

	noticeDuration = 2 * time.Second
	readyDelay     = 400 * time.Millisecond
	speedStep      = 0.1
)

// Msg types for Bubble Tea
type (
	// AssetsProgressMsg reports one texture finished loading.
	AssetsProgressMsg assets.Progress

	// AssetsReadyMsg is the readiness event: every texture has been
	// decoded or replaced by its fallback colour.
	AssetsReadyMsg struct {
		Textures assets.Result
		Err      error
	}

	// frameMsg drives the main viewport.
	frameMsg time.Time

	// miniFrameMsg drives the mini viewport loop identified by gen.
	miniFrameMsg struct {
		gen uint64
	}

	// sceneReadyMsg ends the loading screen.
	sceneReadyMsg struct{}
)

// Deps are the shared components the model drives.
type Deps struct {
	Config   config.Config
	Registry *bodies.Registry
	Sim      *state.Simulation
	System   *scene.System
	Log      *logging.Logger

	// StartAt seeks the simulated clock before the first frame.
	StartAt float64

	// Now is the clock used for camera transitions; nil means time.Now.
	Now func() time.Time
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	cfg      config.Config
	registry *bodies.Registry
	sim      *state.Simulation
	system   *scene.System
	updater  *motion.Updater
	rig      *camera.Rig
	focus    *focus.Controller
	dispatch *interact.Dispatcher
	renderer *render.Renderer
	surface  *render.Surface
	log      *logging.Logger
	now      func() time.Time
	interval time.Duration

	// UI state
	width     int
	height    int
	ready     bool
	loading   bool
	tick      int
	labels    render.LabelMode
	showStars bool
	canvas    string
	lastFrame time.Time

	// Loading screen
	loadStatus string
	progress   assets.Progress

	// Transient footer message
	notice      string
	noticeErr   bool
	noticeUntil time.Time

	// returning is set while an animated move to the overview pose is in flight.
	returning bool

	// Pointer drag on the main canvas
	dragging     bool
	dragMoved    bool
	dragX, dragY int
}

// New creates the root model. It starts on the loading screen; send
// AssetsReadyMsg once textures are available.
func New(d Deps) Model {
	log := d.Log
	if log == nil {
		log = logging.Discard()
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}

	updater := motion.NewUpdater(d.Registry, d.Sim)
	if d.StartAt != 0 {
		updater.Seek(d.StartAt)
	}
	d.System.Apply(updater.Current())

	cam := camera.NewMain()
	cam.Pose = camera.InitialPose
	rig := camera.NewRig(cam, camera.NewControls(), camera.NewEngine(now))

	ctrl := focus.New(d.Registry, d.System, d.Sim, rig, nil, focus.Config{
		MiniWidth:      d.Config.MiniView.Width,
		MiniHeight:     d.Config.MiniView.Height,
		SpinFactor:     d.Config.MiniView.SpinFactor,
		ReturnDuration: d.Config.Transition,
	}, log)

	labels := render.LabelFocused
	if d.Config.Labels {
		labels = render.LabelAll
	}

	fps := d.Config.FPS
	if fps <= 0 {
		fps = 30
	}

	m := Model{
		cfg:        d.Config,
		registry:   d.Registry,
		sim:        d.Sim,
		system:     d.System,
		updater:    updater,
		rig:        rig,
		focus:      ctrl,
		renderer:   render.New(render.Options{}),
		surface:    render.NewSurface(0, 0),
		log:        log.Named("ui"),
		now:        now,
		interval:   time.Second / time.Duration(fps),
		loading:    true,
		loadStatus: "Loading textures...",
		labels:     labels,
		showStars:  d.Config.Stars.Enabled(),
	}
	m.dispatch = interact.New(d.System, ctrl, func() camera.Camera { return rig.Camera }, log)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.frameCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key := msg.String(); key == "q" || key == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.loading {
			cmds = append(cmds, m.handleKey(msg.String()))
		}

	case tea.MouseMsg:
		if !m.loading {
			cmds = append(cmds, m.handleMouse(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()

	case AssetsProgressMsg:
		m.progress = assets.Progress(msg)
		m.loadStatus = fmt.Sprintf("Loading %s... (%d/%d)", msg.File, msg.Done, msg.Total)

	case AssetsReadyMsg:
		if msg.Err != nil {
			m.log.Warn("textures: %v", msg.Err)
		}
		for id, tex := range msg.Textures {
			m.system.SetTexture(id, tex)
		}
		m.loadStatus = "Initializing 3D scene..."
		cmds = append(cmds, tea.Tick(readyDelay, func(time.Time) tea.Msg { return sceneReadyMsg{} }))

	case sceneReadyMsg:
		if !m.loading {
			break
		}
		m.loading = false
		m.setNotice("Ready!", false)
		cmds = append(cmds, m.focusDefault())

	case frameMsg:
		m.tick++
		cmds = append(cmds, m.frameCmd())
		if !m.loading {
			m.advance(time.Time(msg))
		}

	case miniFrameMsg:
		live := m.focus.MiniVisible() && msg.gen == m.focus.Generation()
		if m.focus.RenderMini(msg.gen) {
			cmds = append(cmds, m.miniCmd(msg.gen))
		} else if live && !m.focus.MiniVisible() {
			m.setNotice("Focus view disabled", true)
		}
	}

	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(key string) tea.Cmd {
	if m.dispatch.KeyDown(key) {
		return nil
	}

	switch key {
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		sel := m.registry.Selectable()
		if i := int(key[0] - '1'); i < len(sel) {
			return m.selectBody(sel[i].ID)
		}

	case "j":
		return m.selectBody(m.registry.Next(m.focus.Mode().Body))
	case "k":
		return m.selectBody(m.registry.Prev(m.focus.Mode().Body))

	case " ", "space":
		m.sim.ToggleRunning()

	case "[":
		m.sim.SetSpeed(roundSpeed(m.sim.Speed() - speedStep))
	case "]":
		m.sim.SetSpeed(roundSpeed(m.sim.Speed() + speedStep))

	case "+", "=":
		m.rig.Controls.Zoom(1)
	case "-":
		m.rig.Controls.Zoom(-1)

	case "left":
		m.rig.Controls.Rotate(-1, 0)
	case "right":
		m.rig.Controls.Rotate(1, 0)
	case "up":
		m.rig.Controls.Rotate(0, -1)
	case "down":
		m.rig.Controls.Rotate(0, 1)

	case "b":
		m.focus.ReturnToOverview(true)
		m.returning = true

	case "o":
		m.rig.AnimateTo(camera.OverviewPose, m.cfg.Transition)
		m.returning = true

	case "l":
		m.labels = m.labels.Next()
	case "t":
		m.showStars = !m.showStars
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	l := m.layout()
	x, y := msg.X, msg.Y-headerHeight
	inCanvas := x >= 0 && x < l.canvasW && y >= 0 && y < l.canvasH

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			if inCanvas {
				m.dragging, m.dragMoved = true, false
				m.dragX, m.dragY = x, y
				return nil
			}
			if id, ok := m.sidebarButton(x, y); ok {
				return m.selectBody(id)
			}
		case tea.MouseButtonWheelUp:
			if inCanvas {
				m.rig.Controls.Zoom(1)
			}
		case tea.MouseButtonWheelDown:
			if inCanvas {
				m.rig.Controls.Zoom(-1)
			}
		}

	case tea.MouseActionMotion:
		if m.dragging && (x != m.dragX || y != m.dragY) {
			m.rig.Controls.Rotate(float64(x-m.dragX), float64(y-m.dragY))
			m.dragX, m.dragY = x, y
			m.dragMoved = true
		}

	case tea.MouseActionRelease:
		if !m.dragging {
			return nil
		}
		m.dragging = false
		if m.dragMoved || !inCanvas {
			return nil
		}
		id, hit, err := m.dispatch.Click(interact.Click{X: x, Y: y, Width: l.canvasW, Height: l.canvasH})
		if err != nil {
			m.log.Warn("click on %s: %v", id, err)
			m.setNotice(err.Error(), true)
			return nil
		}
		if hit {
			m.returning = false
			return m.miniCmd(m.focus.Generation())
		}
	}
	return nil
}

// selectBody focuses id and starts a fresh mini loop.
func (m *Model) selectBody(id bodies.ID) tea.Cmd {
	if err := m.focus.SelectBody(id); err != nil {
		m.log.Warn("select %s: %v", id, err)
		m.setNotice(err.Error(), true)
		return nil
	}
	m.returning = false
	return m.miniCmd(m.focus.Generation())
}

func (m *Model) focusDefault() tea.Cmd {
	id := bodies.ID(m.cfg.DefaultFocus)
	if id == "" || id == "none" {
		return nil
	}
	return m.selectBody(id)
}

// advance moves the camera and bodies one frame and redraws the canvas.
func (m *Model) advance(now time.Time) {
	var dt time.Duration
	if !m.lastFrame.IsZero() {
		dt = now.Sub(m.lastFrame)
		if dt < 0 {
			dt = 0
		}
		if dt > maxFrameStep {
			dt = maxFrameStep
		}
	}
	m.lastFrame = now

	if m.rig.Update(now) && m.returning {
		m.returning = false
		m.setNoticeAt("Overview Mode Active", false, now)
	}
	if m.notice != "" && now.After(m.noticeUntil) {
		m.notice = ""
	}

	m.system.Apply(m.updater.Step(dt))
	m.renderMain()
}

func (m *Model) renderMain() {
	if !m.surface.Valid() {
		return
	}
	opts := render.Options{Labels: m.labels, HideStars: !m.showStars}
	if mode := m.focus.Mode(); mode.Focused {
		if n, ok := m.system.BodyNode(mode.Body); ok {
			opts.Focus = n.ID
		}
	}
	m.renderer.Options = opts

	if err := m.renderer.Render(m.system.Graph, m.rig.Camera, m.surface); err != nil {
		m.log.Warn("render: %v", err)
		return
	}
	m.canvas = m.surface.String()
}

type layout struct {
	canvasW, canvasH int
	sideW            int
	miniW, miniH     int
}

func (m Model) layout() layout {
	l := layout{canvasW: m.width, canvasH: m.height - headerHeight - footerHeight}
	if m.width >= minWidthForSidebar {
		l.sideW = sidebarWidth
		l.canvasW -= sidebarWidth
		l.miniW = sidebarWidth - 2
		l.miniH = m.cfg.MiniView.Height
		if l.miniH <= 0 || l.miniH > l.canvasH/2 {
			l.miniH = l.canvasH / 2
		}
	}
	if l.canvasW < 1 {
		l.canvasW = 1
	}
	if l.canvasH < 1 {
		l.canvasH = 1
	}
	return l
}

func (m *Model) resize() {
	l := m.layout()
	m.surface.Resize(l.canvasW, l.canvasH)
	if l.miniW > 0 && l.miniH > 0 {
		m.focus.ResizeMini(l.miniW, l.miniH)
	}
	m.canvas = ""
	if !m.loading {
		m.renderMain()
	}
}

func (m *Model) setNotice(text string, isErr bool) {
	m.setNoticeAt(text, isErr, m.now())
}

func (m *Model) setNoticeAt(text string, isErr bool, now time.Time) {
	m.notice = text
	m.noticeErr = isErr
	m.noticeUntil = now.Add(noticeDuration)
}

func roundSpeed(v float64) float64 {
	return math.Round(v*10) / 10
}

func (m Model) frameCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m Model) miniCmd(gen uint64) tea.Cmd {
	if !m.focus.MiniVisible() {
		return nil
	}
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return miniFrameMsg{gen: gen}
	})
}

// SendAssetsReady creates a command that delivers the readiness event.
func SendAssetsReady(textures assets.Result, err error) tea.Cmd {
	return func() tea.Msg {
		return AssetsReadyMsg{Textures: textures, Err: err}
	}
}
