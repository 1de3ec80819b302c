package focus

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/litescript/ls-orrery/internal/bodies"
	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/scene"
)

// MiniDistance returns how far the mini camera sits from a body of the
// given radius. Large bodies get extra room to stay framed.
func MiniDistance(radius float64) float64 {
	d := radius * 2.2
	if radius > 2 {
		d *= 1.2
	}
	return d
}

// MiniView is the secondary viewport: its own graph holding one body copy,
// its own camera and lights, rendered to its own surface.
type MiniView struct {
	Graph   *scene.Graph
	Camera  camera.Camera
	Surface *render.Surface

	renderer *render.Renderer
	body     *scene.Node
	bodyID   bodies.ID
}

// MiniFactory builds a mini view for a surface of w × h cells.
type MiniFactory func(w, h int) (*MiniView, error)

// NewMiniView creates an empty mini view.
func NewMiniView(w, h int) (*MiniView, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("mini view size %dx%d", w, h)
	}
	g := scene.NewGraph()
	g.Lights = scene.MiniLights()
	return &MiniView{
		Graph:    g,
		Camera:   camera.NewMini(),
		Surface:  render.NewSurface(w, h),
		renderer: render.New(render.Options{HideStars: true}),
	}, nil
}

// Load replaces the graph contents with n, centred at the origin, and
// moves the camera out along +Z to distance.
func (v *MiniView) Load(n *scene.Node, id bodies.ID, distance float64) {
	v.Graph.Clear()
	v.Graph.Lights = scene.MiniLights()

	n.Position = mgl64.Vec3{}
	v.Graph.Root.Add(n)
	v.body = n
	v.bodyID = id

	v.Camera.Pose = camera.Pose{Position: mgl64.Vec3{0, 0, distance}}
}

// Body returns the loaded body id and its copy, or nil.
func (v *MiniView) Body() (bodies.ID, *scene.Node) {
	return v.bodyID, v.body
}

// Spin rotates the body copy about its own axis.
func (v *MiniView) Spin(delta float64) {
	if v.body != nil {
		v.body.Spin += delta
	}
}

// Resize changes the surface size.
func (v *MiniView) Resize(w, h int) {
	v.Surface.Resize(w, h)
}

// Render draws the mini scene to its surface.
func (v *MiniView) Render() error {
	return v.renderer.Render(v.Graph, v.Camera, v.Surface)
}

// View returns the last rendered frame.
func (v *MiniView) View() string {
	return v.Surface.String()
}
