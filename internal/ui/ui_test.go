package ui

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/assets"
	"github.com/litescript/ls-orrery/internal/bodies"
	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/focus"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/state"
)

type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time { return c.t }

func newTestModel(t *testing.T) (Model, *testClock) {
	t.Helper()
	clock := &testClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	reg := bodies.Default()
	m := New(Deps{
		Config:   config.Default(),
		Registry: reg,
		Sim:      state.NewSimulation(state.DefaultConfig()),
		System:   scene.Build(reg, scene.StarfieldConfig{}),
		Now:      clock.now,
	})
	return m, clock
}

// newReadyModel returns a 120×40 model past the loading screen, focused on
// the default body.
func newReadyModel(t *testing.T) (Model, *testClock) {
	t.Helper()
	m, clock := newTestModel(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = update(t, m, AssetsReadyMsg{})
	m = update(t, m, sceneReadyMsg{})
	return m, clock
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(x, y int, action tea.MouseAction, button tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

func TestLoadingScreen(t *testing.T) {
	m, _ := newTestModel(t)
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View before size = %q", got)
	}

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if !strings.Contains(m.View(), "Loading textures...") {
		t.Errorf("loading screen missing:\n%s", m.View())
	}

	m = update(t, m, AssetsProgressMsg{Body: bodies.Earth, File: "earth.jpeg", Done: 3, Total: 10})
	if !strings.Contains(m.View(), "Loading earth.jpeg... (3/10)") {
		t.Errorf("progress missing:\n%s", m.View())
	}

	// Input waits for the scene.
	m = update(t, m, key("4"))
	if m.focus.Mode() != focus.Overview {
		t.Errorf("mode = %v during loading, want overview", m.focus.Mode())
	}

	earthTex := assets.Flat{Color: colorful.Color{R: 0, G: 0, B: 1}}
	m, cmd := updateCmd(t, m, AssetsReadyMsg{Textures: assets.Result{bodies.Earth: earthTex}})
	if cmd == nil {
		t.Fatal("no follow-up after the readiness event")
	}
	if !strings.Contains(m.View(), "Initializing 3D scene...") {
		t.Errorf("init stage missing:\n%s", m.View())
	}
	if n, _ := m.system.BodyNode(bodies.Earth); n.Texture != earthTex {
		t.Errorf("earth texture = %v, want the loaded sampler", n.Texture)
	}

	m = update(t, m, sceneReadyMsg{})
	if m.loading {
		t.Fatal("still loading after scene ready")
	}
	if m.focus.Mode() != focus.FocusedOn(bodies.Earth) {
		t.Errorf("mode = %v, want default focus earth", m.focus.Mode())
	}
	if !strings.Contains(m.View(), "Ready!") {
		t.Errorf("ready notice missing:\n%s", m.View())
	}
}

func TestDefaultFocusNone(t *testing.T) {
	m, _ := newTestModel(t)
	m.cfg.DefaultFocus = "none"
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = update(t, m, sceneReadyMsg{})
	if m.focus.Mode() != focus.Overview {
		t.Errorf("mode = %v, want overview", m.focus.Mode())
	}
}

func TestNumberKeys(t *testing.T) {
	tests := []struct {
		key  string
		want focus.ViewMode
	}{
		{"1", focus.FocusedOn(bodies.Sun)},
		{"5", focus.FocusedOn(bodies.Mars)},
		{"9", focus.FocusedOn(bodies.Neptune)},
		{"4", focus.Overview}, // Earth is already focused
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, _ := newReadyModel(t)
			m = update(t, m, key(tt.key))
			if m.focus.Mode() != tt.want {
				t.Errorf("mode = %v, want %v", m.focus.Mode(), tt.want)
			}
			if m.focus.MiniVisible() != tt.want.Focused {
				t.Errorf("mini visible = %v", m.focus.MiniVisible())
			}
		})
	}
}

func TestNextPrevKeys(t *testing.T) {
	m, _ := newReadyModel(t)

	m = update(t, m, key("j"))
	if m.focus.Mode().Body != bodies.Mars {
		t.Errorf("j from earth = %v, want mars", m.focus.Mode())
	}
	m = update(t, m, key("k"))
	m = update(t, m, key("k"))
	if m.focus.Mode().Body != bodies.Venus {
		t.Errorf("k k from mars = %v, want venus", m.focus.Mode())
	}
}

func TestPauseAndSpeedKeys(t *testing.T) {
	m, _ := newReadyModel(t)

	m = update(t, m, key(" "))
	if m.sim.Running() {
		t.Error("space did not pause")
	}
	m = update(t, m, key(" "))
	if !m.sim.Running() {
		t.Error("space did not resume")
	}

	tests := []struct {
		key  string
		want float64
	}{
		{"]", 1.1},
		{"]", 1.2},
		{"[", 1.1},
		{"[", 1.0},
		{"[", 0.9},
	}
	for _, tt := range tests {
		m = update(t, m, key(tt.key))
		if got := m.sim.Speed(); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("after %q speed = %v, want %v", tt.key, got, tt.want)
		}
	}

	// Clamped at the bottom of the range.
	for i := 0; i < 20; i++ {
		m = update(t, m, key("["))
	}
	if got := m.sim.Speed(); got != state.MinSpeed {
		t.Errorf("speed = %v, want %v", got, state.MinSpeed)
	}
}

func TestEscapeReturnsImmediately(t *testing.T) {
	for _, k := range []string{"esc", "backspace"} {
		t.Run(k, func(t *testing.T) {
			m, _ := newReadyModel(t)
			m = update(t, m, key(k))
			if m.focus.Mode() != focus.Overview {
				t.Errorf("mode = %v, want overview", m.focus.Mode())
			}
			if m.rig.Animating() {
				t.Error("escape moved the main camera")
			}
		})
	}
}

func TestBackAnimatesAndShowsIndicator(t *testing.T) {
	m, clock := newReadyModel(t)

	m = update(t, m, key("b"))
	if m.focus.Mode() != focus.Overview {
		t.Errorf("mode = %v, want overview", m.focus.Mode())
	}
	if !m.rig.Animating() {
		t.Fatal("b did not start a camera transition")
	}
	if m.rig.Controls.Enabled() {
		t.Error("controls enabled during the transition")
	}

	m = update(t, m, frameMsg(clock.t.Add(time.Second)))
	if strings.Contains(m.View(), "Overview Mode Active") {
		t.Error("indicator shown before the transition completed")
	}

	m = update(t, m, frameMsg(clock.t.Add(3*time.Second)))
	if m.rig.Animating() {
		t.Error("transition still active after its duration")
	}
	if !m.rig.Pose().ApproxEqual(camera.OverviewPose) {
		t.Errorf("pose = %+v, want overview pose", m.rig.Pose())
	}
	if !strings.Contains(m.View(), "Overview Mode Active") {
		t.Errorf("indicator missing:\n%s", m.View())
	}

	// The notice expires.
	m = update(t, m, frameMsg(clock.t.Add(10*time.Second)))
	if strings.Contains(m.View(), "Overview Mode Active") {
		t.Error("indicator did not expire")
	}
}

func TestResetKeyShowsIndicatorAndKeepsFocus(t *testing.T) {
	m, clock := newReadyModel(t)

	m = update(t, m, key("o"))
	if !m.rig.Animating() {
		t.Fatal("o did not start a camera transition")
	}
	m = update(t, m, frameMsg(clock.t.Add(time.Second)))
	if strings.Contains(m.View(), "Overview Mode Active") {
		t.Error("indicator shown before the camera reset completed")
	}

	m = update(t, m, frameMsg(clock.t.Add(3*time.Second)))
	if m.focus.Mode() != focus.FocusedOn(bodies.Earth) {
		t.Errorf("mode = %v, want focused(earth)", m.focus.Mode())
	}
	if !m.rig.Pose().ApproxEqual(camera.OverviewPose) {
		t.Errorf("pose = %+v, want overview pose", m.rig.Pose())
	}
	if !strings.Contains(m.View(), "Overview Mode Active") {
		t.Errorf("camera reset did not show the overview indicator:\n%s", m.View())
	}
}

func TestToggleKeys(t *testing.T) {
	m, _ := newReadyModel(t)

	if m.labels != render.LabelFocused {
		t.Fatalf("labels = %v, want focus", m.labels)
	}
	m = update(t, m, key("l"))
	if m.labels != render.LabelAll {
		t.Errorf("labels = %v after l, want all", m.labels)
	}

	stars := m.showStars
	m = update(t, m, key("t"))
	if m.showStars == stars {
		t.Error("t did not toggle the starfield")
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := updateCmd(t, m, key("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestClickPicksBody(t *testing.T) {
	m, _ := newReadyModel(t)
	l := m.layout()
	cx, cy := l.canvasW/2, l.canvasH/2+headerHeight

	// The initial camera looks straight at the Sun.
	m = update(t, m, mouse(cx, cy, tea.MouseActionPress, tea.MouseButtonLeft))
	m, cmd := updateCmd(t, m, mouse(cx, cy, tea.MouseActionRelease, tea.MouseButtonLeft))
	if m.focus.Mode() != focus.FocusedOn(bodies.Sun) {
		t.Fatalf("mode = %v, want focused(sun)", m.focus.Mode())
	}
	if cmd == nil {
		t.Error("no mini loop started")
	}

	// Empty sky: no change.
	m = update(t, m, mouse(0, headerHeight, tea.MouseActionPress, tea.MouseButtonLeft))
	m = update(t, m, mouse(0, headerHeight, tea.MouseActionRelease, tea.MouseButtonLeft))
	if m.focus.Mode() != focus.FocusedOn(bodies.Sun) {
		t.Errorf("miss changed mode to %v", m.focus.Mode())
	}
}

func TestDragOrbitsWithoutPicking(t *testing.T) {
	m, clock := newReadyModel(t)
	l := m.layout()
	cx, cy := l.canvasW/2, l.canvasH/2+headerHeight
	before := m.rig.Pose()

	m = update(t, m, mouse(cx, cy, tea.MouseActionPress, tea.MouseButtonLeft))
	m = update(t, m, mouse(cx+5, cy, tea.MouseActionMotion, tea.MouseButtonLeft))
	m = update(t, m, mouse(cx+5, cy, tea.MouseActionRelease, tea.MouseButtonLeft))
	if m.focus.Mode() != focus.FocusedOn(bodies.Earth) {
		t.Errorf("drag changed mode to %v", m.focus.Mode())
	}

	m = update(t, m, frameMsg(clock.t))
	if m.rig.Pose().ApproxEqual(before) {
		t.Error("drag did not orbit the camera")
	}
}

func TestWheelZooms(t *testing.T) {
	m, clock := newReadyModel(t)
	before := m.rig.Pose().Distance()

	m = update(t, m, mouse(10, 10, tea.MouseActionPress, tea.MouseButtonWheelUp))
	m = update(t, m, frameMsg(clock.t))
	if after := m.rig.Pose().Distance(); after >= before {
		t.Errorf("distance %v -> %v, want closer", before, after)
	}
}

func TestSidebarButtons(t *testing.T) {
	m, _ := newReadyModel(t)
	l := m.layout()

	// Row 0 of the sidebar is the heading; button i sits on row i+1.
	m = update(t, m, mouse(l.canvasW+4, headerHeight+1+4, tea.MouseActionPress, tea.MouseButtonLeft))
	if m.focus.Mode() != focus.FocusedOn(bodies.Mars) {
		t.Errorf("mode = %v, want focused(mars)", m.focus.Mode())
	}

	// The heading is not a button.
	m = update(t, m, mouse(l.canvasW+4, headerHeight, tea.MouseActionPress, tea.MouseButtonLeft))
	if m.focus.Mode() != focus.FocusedOn(bodies.Mars) {
		t.Errorf("heading click changed mode to %v", m.focus.Mode())
	}
}

func TestMiniLoop(t *testing.T) {
	m, _ := newReadyModel(t)
	gen := m.focus.Generation()

	m, cmd := updateCmd(t, m, miniFrameMsg{gen: gen})
	if cmd == nil {
		t.Fatal("live mini loop stopped")
	}
	if mini := m.focus.Mini(); mini == nil || mini.View() == "" {
		t.Error("mini view not rendered")
	}

	// Selecting another body retires the old loop.
	m = update(t, m, key("5"))
	if _, cmd := updateCmd(t, m, miniFrameMsg{gen: gen}); cmd != nil {
		t.Error("stale mini loop kept running")
	}
	if _, cmd := updateCmd(t, m, miniFrameMsg{gen: m.focus.Generation()}); cmd == nil {
		t.Error("new mini loop stopped")
	}
}

func TestLayout(t *testing.T) {
	m, clock := newReadyModel(t)
	m = update(t, m, frameMsg(clock.t))

	l := m.layout()
	if l.canvasW != 120-sidebarWidth || l.canvasH != 40-headerHeight-footerHeight {
		t.Errorf("canvas = %dx%d", l.canvasW, l.canvasH)
	}
	if l.miniW != sidebarWidth-2 || l.miniH != 16 {
		t.Errorf("mini = %dx%d", l.miniW, l.miniH)
	}

	view := m.View()
	if got := strings.Count(view, "\n") + 1; got != 40 {
		t.Errorf("view has %d lines, want 40", got)
	}
	for _, want := range []string{"LS-ORRERY", "Bodies", "[4] Earth", "628.3 days", "Moons", "Speed:", "b: back"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	// Narrow terminals drop the sidebar.
	m = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	if l := m.layout(); l.sideW != 0 || l.canvasW != 60 {
		t.Errorf("narrow layout = %+v", l)
	}
}

func TestGradientColor(t *testing.T) {
	tests := []struct {
		col, width int
		want       string
	}{
		{0, 10, "#3b82f6"},
		{9, 10, "#ec4899"},
		{0, 1, "#3b82f6"},
	}
	for _, tt := range tests {
		if got := gradientColor(tt.col, tt.width); got != tt.want {
			t.Errorf("gradientColor(%d, %d) = %s, want %s", tt.col, tt.width, got, tt.want)
		}
	}
}

func TestMustHex(t *testing.T) {
	if got := mustHex("#8B5CF6").Hex(); got != "#8b5cf6" {
		t.Errorf("mustHex(#8B5CF6) = %s, want #8b5cf6", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("mustHex on a malformed colour should panic")
		}
	}()
	mustHex("not-a-colour")
}
