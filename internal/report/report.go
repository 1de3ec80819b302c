// Package report produces the headless outputs: a body summary table, a
// JSON snapshot of body transforms and a single rendered frame.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-orrery/internal/bodies"
	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/motion"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/scene"
)

// SnapshotExport is the JSON-serializable state of every body at one
// simulated time.
type SnapshotExport struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Elapsed     float64      `json:"elapsed"`
	Bodies      []BodyExport `json:"bodies"`
}

// BodyExport is a JSON-friendly body transform.
type BodyExport struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Parent   string     `json:"parent,omitempty"`
	Local    [3]float64 `json:"local"`
	World    [3]float64 `json:"world"`
	Spin     float64    `json:"spin"`
	Tilt     float64    `json:"tilt"`
	Distance float64    `json:"distance"`
}

// ExportSnapshot applies f to sys and records every body's transform.
func ExportSnapshot(reg *bodies.Registry, sys *scene.System, f motion.Frame, generatedAt time.Time) *SnapshotExport {
	sys.Apply(f)

	export := &SnapshotExport{GeneratedAt: generatedAt, Elapsed: f.Elapsed}
	for _, d := range reg.All() {
		tr := f.Bodies[d.ID]
		b := BodyExport{
			ID:       string(d.ID),
			Name:     d.Name,
			Parent:   string(d.Parent),
			Local:    tr.Position,
			Spin:     tr.Spin,
			Tilt:     tr.Tilt,
			Distance: tr.Position.Len(),
		}
		if n, ok := sys.BodyNode(d.ID); ok {
			b.World = n.WorldPosition()
		}
		export.Bodies = append(export.Bodies, b)
	}
	return export
}

// WriteJSON writes the snapshot as indented JSON.
func (s *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// SummaryRow is one line of the body table.
type SummaryRow struct {
	Name     string
	Radius   float64
	Distance string
	Orbit    string
	Rotation string
	Tilt     string
	Parent   string
}

// GenerateSummaryRows creates one row per body in table order.
func GenerateSummaryRows(reg *bodies.Registry) []SummaryRow {
	var rows []SummaryRow
	for _, d := range reg.All() {
		parent := ""
		if d.Parent != "" {
			if p, ok := reg.Get(d.Parent); ok {
				parent = p.Name
			}
		}
		rows = append(rows, SummaryRow{
			Name:     d.Name,
			Radius:   d.Radius,
			Distance: d.FormatDistance(),
			Orbit:    d.FormatOrbitalPeriod(),
			Rotation: d.FormatRotationPeriod(),
			Tilt:     d.FormatAxialTilt(),
			Parent:   parent,
		})
	}
	return rows
}

// WriteSummaryTable writes a text table of the registry.
func WriteSummaryTable(w io.Writer, reg *bodies.Registry) {
	rows := GenerateSummaryRows(reg)

	fmt.Fprintln(w, "Solar System Bodies")
	fmt.Fprintln(w, strings.Repeat("─", 78))

	if len(rows) == 0 {
		fmt.Fprintln(w, "No bodies")
		return
	}

	fmt.Fprintf(w, "%-10s %6s %-8s %-14s %-14s %-7s %-10s\n",
		"Body", "Radius", "Dist", "Orbit", "Rotation", "Tilt", "Orbits")
	fmt.Fprintln(w, strings.Repeat("─", 78))

	for _, r := range rows {
		fmt.Fprintf(w, "%-10s %6.1f %-8s %-14s %-14s %-7s %-10s\n",
			truncateStr(r.Name, 10),
			r.Radius,
			r.Distance,
			r.Orbit,
			r.Rotation,
			r.Tilt,
			truncateStr(r.Parent, 10),
		)
	}

	fmt.Fprintf(w, "\nTotal: %d bodies (%d selectable)\n", len(rows), len(reg.Selectable()))
}

// FrameOptions controls RenderFrame.
type FrameOptions struct {
	Width  int
	Height int
	Color  bool // Truecolor half blocks; otherwise ASCII shading
	Render render.Options
}

// RenderFrame draws sys from the overview pose at the given size.
func RenderFrame(sys *scene.System, f motion.Frame, opts FrameOptions) (string, error) {
	sys.Apply(f)

	cam := camera.NewMain()
	cam.Pose = camera.OverviewPose

	surf := render.NewSurface(opts.Width, opts.Height)
	if err := render.New(opts.Render).Render(sys.Graph, cam, surf); err != nil {
		return "", fmt.Errorf("render frame: %w", err)
	}
	if opts.Color {
		return surf.String(), nil
	}
	return surf.Plain(), nil
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
