package render

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/scene"
)

// LabelMode controls which bodies get a name label.
type LabelMode int

const (
	LabelNone    LabelMode = iota // No labels
	LabelFocused                  // Only the focused body
	LabelAll                      // Every body
)

// Next cycles none → focused → all.
func (m LabelMode) Next() LabelMode {
	return (m + 1) % 3
}

func (m LabelMode) String() string {
	switch m {
	case LabelNone:
		return "off"
	case LabelFocused:
		return "focus"
	case LabelAll:
		return "all"
	}
	return "?"
}

// Options tune one render call.
type Options struct {
	Labels     LabelMode
	Focus      scene.NodeID // Node labelled in LabelFocused mode
	HideStars  bool
	Background colorful.Color
}

// Renderer ray-casts sphere and band nodes and splats point clouds.
type Renderer struct {
	Options Options
}

// New creates a renderer.
func New(opts Options) *Renderer {
	return &Renderer{Options: opts}
}

type spherePrim struct {
	node   *scene.Node
	center mgl64.Vec3
	radius float64
	inv    mgl64.Mat4
}

type bandPrim struct {
	node *scene.Node
	inv  mgl64.Mat4
	up   mgl64.Vec3 // World-space plane normal
}

type bandHit struct {
	t     float64
	color colorful.Color
	alpha float64
}

// Render draws g as seen by cam into surf.
func (r *Renderer) Render(g *scene.Graph, cam camera.Camera, surf *Surface) error {
	if !surf.Valid() {
		return fmt.Errorf("invalid surface %dx%d", surf.Width, surf.Height)
	}
	if g == nil {
		return fmt.Errorf("nil scene")
	}

	aspect := surf.Aspect()
	vp := cam.ViewProjection(aspect)
	inv := vp.Inv()
	if inv == (mgl64.Mat4{}) {
		return fmt.Errorf("camera matrix is singular")
	}

	surf.Clear(r.Options.Background)

	var (
		spheres []spherePrim
		bands   []bandPrim
		clouds  []*scene.Node
		orbits  []*scene.Node
	)
	g.Root.Walk(func(n *scene.Node) bool {
		switch n.Kind {
		case scene.KindSphere:
			w := n.World()
			spheres = append(spheres, spherePrim{node: n, center: w.Col(3).Vec3(), radius: n.Radius, inv: w.Inv()})
		case scene.KindBand:
			w := n.World()
			bands = append(bands, bandPrim{node: n, inv: w.Inv(), up: w.Mul4x1(mgl64.Vec4{0, 1, 0, 0}).Vec3()})
		case scene.KindPoints:
			clouds = append(clouds, n)
		case scene.KindOrbit:
			orbits = append(orbits, n)
		}
		return true
	})

	if !r.Options.HideStars {
		for _, n := range clouds {
			r.splatPoints(n, vp, surf)
		}
	}

	for _, n := range orbits {
		r.splatOrbit(n, vp, surf)
	}

	pw, ph := surf.PixelSize()
	var hits []bandHit
	for py := 0; py < ph; py++ {
		ny := 1 - (float64(py)+0.5)/float64(ph)*2
		for px := 0; px < pw; px++ {
			nx := (float64(px)+0.5)/float64(pw)*2 - 1
			ray := castRay(inv, nx, ny)

			depth := math.Inf(1)
			var color colorful.Color
			solid := false
			for i := range spheres {
				sp := &spheres[i]
				t, ok := scene.IntersectSphere(ray, sp.center, sp.radius)
				if !ok || t >= depth {
					continue
				}
				depth = t
				color = r.shadeSphere(g.Lights, sp, ray.At(t))
				solid = true
			}
			if solid {
				surf.Plot(px, py, color, depth)
			}

			hits = hits[:0]
			for i := range bands {
				if h, ok := intersectBand(ray, &bands[i], g.Lights); ok && h.t < depth {
					hits = append(hits, h)
				}
			}
			if len(hits) == 0 {
				continue
			}
			// Composite back to front over whatever is behind.
			sort.Slice(hits, func(a, b int) bool { return hits[a].t > hits[b].t })
			base := surf.Pixel(px, py)
			for _, h := range hits {
				base = base.BlendRgb(h.color, h.alpha)
			}
			surf.pixels[py*surf.Width+px] = base
			surf.depth[py*surf.Width+px] = hits[len(hits)-1].t
		}
	}

	if r.Options.Labels != LabelNone {
		r.drawLabels(spheres, vp, surf)
	}
	return nil
}

func castRay(inv mgl64.Mat4, x, y float64) scene.Ray {
	near := inv.Mul4x1(mgl64.Vec4{x, y, -1, 1})
	far := inv.Mul4x1(mgl64.Vec4{x, y, 1, 1})
	n := near.Vec3().Mul(1 / near.W())
	f := far.Vec3().Mul(1 / far.W())
	return scene.Ray{Origin: n, Dir: f.Sub(n).Normalize()}
}

func (r *Renderer) shadeSphere(lights []scene.Light, sp *spherePrim, p mgl64.Vec3) colorful.Color {
	n := sp.node
	base := n.Color
	if n.Texture != nil {
		local := sp.inv.Mul4x1(p.Vec4(1)).Vec3()
		if l := local.Len(); l > 0 {
			local = local.Mul(1 / l)
			u := 0.5 - math.Atan2(local.Z(), local.X())/(2*math.Pi)
			v := math.Acos(mgl64.Clamp(local.Y(), -1, 1)) / math.Pi
			base = n.Texture.Sample(u, v)
		}
	}
	if n.Emissive {
		return base
	}

	normal := p.Sub(sp.center).Normalize()
	return light(base, lights, p, normal, false)
}

// light applies Lambert shading. twoSided lights both faces of a plane.
func light(base colorful.Color, lights []scene.Light, p, normal mgl64.Vec3, twoSided bool) colorful.Color {
	var lr, lg, lb float64
	for _, l := range lights {
		var k float64
		switch l.Kind {
		case scene.LightAmbient:
			k = l.Intensity
		case scene.LightPoint:
			dir := l.Position.Sub(p)
			dist := dir.Len()
			if dist == 0 {
				continue
			}
			ndl := normal.Dot(dir.Mul(1 / dist))
			if twoSided {
				ndl = math.Abs(ndl)
			}
			k = math.Max(0, ndl) * l.Intensity
			if l.Range > 0 {
				k *= math.Max(0, 1-dist/l.Range)
			}
		case scene.LightDirectional:
			if l.Position.Len() == 0 {
				continue
			}
			ndl := normal.Dot(l.Position.Normalize())
			if twoSided {
				ndl = math.Abs(ndl)
			}
			k = math.Max(0, ndl) * l.Intensity
		}
		lr += k * l.Color.R
		lg += k * l.Color.G
		lb += k * l.Color.B
	}
	return colorful.Color{
		R: base.R * math.Min(lr, 1),
		G: base.G * math.Min(lg, 1),
		B: base.B * math.Min(lb, 1),
	}
}

func intersectBand(ray scene.Ray, b *bandPrim, lights []scene.Light) (bandHit, bool) {
	o := b.inv.Mul4x1(ray.Origin.Vec4(1)).Vec3()
	d := b.inv.Mul4x1(ray.Dir.Vec4(0)).Vec3()
	if math.Abs(d.Y()) < 1e-9 {
		return bandHit{}, false
	}
	t := -o.Y() / d.Y()
	if t <= 0 {
		return bandHit{}, false
	}
	p := o.Add(d.Mul(t))
	rad := math.Hypot(p.X(), p.Z())
	if rad < b.node.Inner || rad > b.node.Outer {
		return bandHit{}, false
	}

	c := b.node.Color
	if !b.node.Emissive {
		c = light(c, lights, ray.At(t), b.up, true)
	}
	return bandHit{t: t, color: c, alpha: b.node.Opacity}, true
}

func (r *Renderer) splatPoints(n *scene.Node, vp mgl64.Mat4, surf *Surface) {
	m := vp.Mul4(n.World())
	pw, ph := surf.PixelSize()
	for _, s := range n.Stars {
		clip := m.Mul4x1(s.Position.Vec4(1))
		if clip.W() <= 0 {
			continue
		}
		ndc := clip.Vec3().Mul(1 / clip.W())
		if ndc.Z() < -1 || ndc.Z() > 1 {
			continue
		}
		x := int(math.Floor((ndc.X() + 1) / 2 * float64(pw)))
		y := int(math.Floor((1 - ndc.Y()) / 2 * float64(ph)))
		// Smaller stars are dimmer.
		c := s.Color
		k := math.Min(1, 0.35+s.Size*0.3)
		c = colorful.Color{R: c.R * k, G: c.G * k, B: c.B * k}
		surf.Plot(x, y, c, clip.W())
	}
}

// orbitSteps is the number of samples per orbit circle.
const orbitSteps = 720

func (r *Renderer) splatOrbit(n *scene.Node, vp mgl64.Mat4, surf *Surface) {
	m := vp.Mul4(n.World())
	pw, ph := surf.PixelSize()
	for i := 0; i < orbitSteps; i++ {
		theta := 2 * math.Pi * float64(i) / orbitSteps
		local := mgl64.Vec4{n.Radius * math.Cos(theta), 0, n.Radius * math.Sin(theta), 1}
		clip := m.Mul4x1(local)
		if clip.W() <= 0 {
			continue
		}
		ndc := clip.Vec3().Mul(1 / clip.W())
		x := int(math.Floor((ndc.X() + 1) / 2 * float64(pw)))
		y := int(math.Floor((1 - ndc.Y()) / 2 * float64(ph)))
		if x < 0 || x >= pw || y < 0 || y >= ph || clip.W() >= surf.Depth(x, y) {
			continue
		}
		c := surf.Pixel(x, y).BlendRgb(n.Color, n.Opacity)
		surf.Plot(x, y, c, clip.W())
	}
}

func (r *Renderer) drawLabels(spheres []spherePrim, vp mgl64.Mat4, surf *Surface) {
	for _, sp := range spheres {
		focused := sp.node.ID == r.Options.Focus
		if r.Options.Labels == LabelFocused && !focused {
			continue
		}
		clip := vp.Mul4x1(sp.center.Vec4(1))
		if clip.W() <= 0 {
			continue
		}
		ndc := clip.Vec3().Mul(1 / clip.W())
		if math.Abs(ndc.X()) > 1 || math.Abs(ndc.Y()) > 1 {
			continue
		}
		cx := int((ndc.X() + 1) / 2 * float64(surf.Width))
		cy := int((1 - ndc.Y()) / 2 * float64(surf.Height))

		text := sp.node.Name
		if focused {
			text = "◄ " + text
		}
		surf.Text(cx+2, cy, text, focused)
	}
}
