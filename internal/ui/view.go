package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/bodies"
	"github.com/litescript/ls-orrery/internal/version"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Title gradient stops: blue, purple, magenta, pink.
var titleStops = []colorful.Color{
	mustHex("#3B82F6"),
	mustHex("#8B5CF6"),
	mustHex("#D946EF"),
	mustHex("#EC4899"),
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.loading {
		return m.renderLoading()
	}

	body := m.renderCanvas()
	if side := m.renderSidebar(); side != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, side)
	}
	return m.renderHeader() + "\n" + body + "\n" + m.renderFooter()
}

// renderHeader is headerHeight lines including the trailing blank line.
func (m Model) renderHeader() string {
	return renderTitle() + mutedStyle.Render(fmt.Sprintf("  Solar System Explorer · v%s", version.Version)) + "\n"
}

func renderTitle() string {
	const title = "  ☉ LS-ORRERY"
	runes := []rune(title)

	var b strings.Builder
	for col, r := range runes {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(col, len(runes)))).Bold(true)
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}

// gradientColor returns the hex colour at column col of a width-wide run.
func gradientColor(col, width int) string {
	last := len(titleStops) - 1
	if width <= 1 {
		return titleStops[0].Hex()
	}
	x := float64(col) / float64(width-1) * float64(last)
	i := int(x)
	if i >= last {
		return titleStops[last].Hex()
	}
	return titleStops[i].BlendLuv(titleStops[i+1], x-float64(i)).Clamped().Hex()
}

func (m Model) renderLoading() string {
	spinner := spinnerFrames[m.tick%len(spinnerFrames)]

	lines := []string{
		renderTitle(),
		"",
		accentStyle.Render(spinner) + " " + valueStyle.Render(m.loadStatus),
	}
	if m.progress.Total > 0 {
		lines = append(lines, progressBar(m.progress.Done, m.progress.Total, 30))
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, strings.Join(lines, "\n"))
}

func progressBar(done, total, width int) string {
	if total <= 0 {
		return ""
	}
	filled := done * width / total
	if filled > width {
		filled = width
	}
	return activeStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled))
}

func (m Model) renderCanvas() string {
	l := m.layout()
	if m.canvas == "" {
		return lipgloss.NewStyle().Width(l.canvasW).Height(l.canvasH).Render("")
	}
	return m.canvas
}

// renderSidebar lays out, top to bottom: the body buttons (one per row,
// starting one row below the top), the info panel and the mini view.
func (m Model) renderSidebar() string {
	l := m.layout()
	if l.sideW == 0 {
		return ""
	}

	var b strings.Builder
	mode := m.focus.Mode()

	b.WriteString(" " + headerStyle.Render("Bodies") + "\n")
	for i, d := range m.registry.Selectable() {
		label := fmt.Sprintf("[%d] %s", i+1, d.Name)
		if mode.Focused && mode.Body == d.ID {
			b.WriteString(" " + activeStyle.Render("▶ "+label) + "\n")
		} else {
			b.WriteString(" " + dimStyle.Render("  "+label) + "\n")
		}
	}
	b.WriteString("\n")

	if mode.Focused {
		if d, ok := m.registry.Get(mode.Body); ok {
			b.WriteString(m.renderInfo(d, l.sideW-2))
		}
		if mini := m.focus.Mini(); mini != nil {
			b.WriteString("\n")
			b.WriteString(mini.View())
		}
	} else {
		b.WriteString(" " + headerStyle.Render("☉ Overview") + "\n")
		b.WriteString(" " + mutedStyle.Render("click a body or press 1-9") + "\n")
	}

	return lipgloss.NewStyle().Width(l.sideW).MaxHeight(l.canvasH).Render(b.String())
}

func (m Model) renderInfo(d bodies.Descriptor, width int) string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(" " + labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}

	b.WriteString(" " + headerStyle.Render("◆ "+d.Name) + "\n")
	row("Distance", d.FormatDistance())
	row("Orbit", d.FormatOrbitalPeriod())
	row("Rotation", d.FormatRotationPeriod())
	row("Tilt", d.FormatAxialTilt())
	if sats := m.registry.Satellites(d.ID); len(sats) > 0 {
		names := make([]string, len(sats))
		for i, s := range sats {
			names[i] = s.Name
		}
		row("Moons", strings.Join(names, ", "))
	}
	if d.Description != "" {
		desc := mutedStyle.Width(width).Render(d.Description)
		for _, line := range strings.Split(desc, "\n") {
			b.WriteString(" " + line + "\n")
		}
	}
	return b.String()
}

// sidebarButton maps a click at canvas-relative (x, y) onto a body button.
func (m Model) sidebarButton(x, y int) (bodies.ID, bool) {
	l := m.layout()
	if l.sideW == 0 || x < l.canvasW || x >= l.canvasW+l.sideW {
		return "", false
	}
	sel := m.registry.Selectable()
	i := y - 1
	if i < 0 || i >= len(sel) {
		return "", false
	}
	return sel[i].ID, true
}

func (m Model) renderFooter() string {
	snap := m.sim.Snapshot()

	var status string
	if snap.Running {
		status = accentStyle.Render("▶") + valueStyle.Render(" running")
	} else {
		status = errorStyle.Render("⏸") + valueStyle.Render(" paused")
	}

	stars := "off"
	if m.showStars {
		stars = "on"
	}

	line := "  " + status +
		"  " + dimStyle.Render("Speed:") + valueStyle.Render(fmt.Sprintf("%.1fx", snap.Speed)) +
		"  " + dimStyle.Render("View:") + valueStyle.Render(m.focus.Mode().String()) +
		"  " + dimStyle.Render("Labels:") + valueStyle.Render(m.labels.String()) +
		"  " + dimStyle.Render("Stars:") + valueStyle.Render(stars)

	if n := len(snap.Events); n > 0 {
		e := snap.Events[n-1]
		text := string(e.Type)
		switch {
		case e.Body != "":
			text += " " + e.Body
		case e.Speed != 0:
			text += fmt.Sprintf(" %.1fx", e.Speed)
		}
		line += "  " + dimStyle.Render("|") + "  " + mutedStyle.Render(e.Timestamp.Format("15:04:05")+" "+text)
	}

	if m.notice != "" {
		style := noticeStyle
		if m.noticeErr {
			style = errorStyle
		}
		line += "  " + style.Render(m.notice)
	}

	help := dimStyle.Render("  1-9/j/k: focus | space: pause | [ ]: speed | +/-: zoom | arrows: orbit | b: back | o: reset | esc: close | l: labels | t: stars | q: quit")
	return line + "\n" + help
}
