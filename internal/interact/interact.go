// Package interact maps pointer clicks and key presses onto view mode
// changes.
package interact

import (
	"fmt"

	"github.com/litescript/ls-orrery/internal/bodies"
	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/focus"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/scene"
)

// CellAspect is the width / height ratio of a terminal cell.
const CellAspect = 0.5

// Picker returns the first body-tagged object along a ray.
type Picker interface {
	Pick(r scene.Ray) (bodies.ID, bool)
}

// Focuser is the part of the focus controller the dispatcher drives.
type Focuser interface {
	Mode() focus.ViewMode
	SelectBody(id bodies.ID) error
	ReturnToOverview(animated bool)
}

// Click is a pointer press at cell (X, Y) inside a viewport of
// Width × Height cells.
type Click struct {
	X, Y          int
	Width, Height int
}

// NDC returns the click in normalized device coordinates, y up.
func (c Click) NDC() (float64, float64) {
	x := (float64(c.X)+0.5)/float64(c.Width)*2 - 1
	y := 1 - (float64(c.Y)+0.5)/float64(c.Height)*2
	return x, y
}

// Aspect returns the viewport aspect ratio in square units.
func (c Click) Aspect() float64 {
	return float64(c.Width) * CellAspect / float64(c.Height)
}

// Dispatcher routes input to the focus controller.
type Dispatcher struct {
	picker Picker
	focus  Focuser
	camera func() camera.Camera
	log    *logging.Logger
}

// New creates a dispatcher. cam returns the live main camera.
func New(picker Picker, f Focuser, cam func() camera.Camera, log *logging.Logger) *Dispatcher {
	if log == nil {
		log = logging.Discard()
	}
	return &Dispatcher{picker: picker, focus: f, camera: cam, log: log.Named("interact")}
}

// Click selects the nearest body under the pointer. It reports the body
// hit; a miss is a no-op.
func (d *Dispatcher) Click(c Click) (bodies.ID, bool, error) {
	if c.Width <= 0 || c.Height <= 0 || c.X < 0 || c.Y < 0 || c.X >= c.Width || c.Y >= c.Height {
		return "", false, nil
	}

	x, y := c.NDC()
	ray, err := scene.RayFromNDC(d.camera(), c.Aspect(), x, y)
	if err != nil {
		return "", false, fmt.Errorf("pick ray: %w", err)
	}

	id, ok := d.picker.Pick(ray)
	if !ok {
		return "", false, nil
	}
	d.log.Debug("click (%d,%d) hit %s", c.X, c.Y, id)
	return id, true, d.focus.SelectBody(id)
}

// KeyDown handles esc and backspace: while focused they return to the
// overview immediately, without moving the main camera. It reports whether
// the key was consumed.
func (d *Dispatcher) KeyDown(key string) bool {
	switch key {
	case "esc", "backspace":
		if !d.focus.Mode().Focused {
			return false
		}
		d.focus.ReturnToOverview(false)
		return true
	}
	return false
}
