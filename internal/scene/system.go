package scene

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/bodies"
	"github.com/litescript/ls-orrery/internal/motion"
)

// StarfieldConfig controls the background point cloud.
type StarfieldConfig struct {
	Count     int
	Seed      uint64
	MinRadius float64
	MaxRadius float64
}

// DefaultStarfield returns the stock starfield: 15000 stars on a shell
// between 2000 and 4500 units.
func DefaultStarfield() StarfieldConfig {
	return StarfieldConfig{Count: 15000, Seed: 1, MinRadius: 2000, MaxRadius: 4500}
}

// MainLights returns the lighting of the main viewport: a dim ambient fill,
// a point light at the sun and a directional key light.
func MainLights() []Light {
	white := colorful.Color{R: 1, G: 1, B: 1}
	return []Light{
		{Kind: LightAmbient, Intensity: 0.3, Color: white},
		{Kind: LightPoint, Position: mgl64.Vec3{}, Intensity: 3, Color: white},
		{Kind: LightDirectional, Position: mgl64.Vec3{100, 100, 100}, Intensity: 1, Color: white},
	}
}

// MiniLights returns the brighter lighting of the focus viewport.
func MiniLights() []Light {
	white := colorful.Color{R: 1, G: 1, B: 1}
	return []Light{
		{Kind: LightAmbient, Intensity: 0.6, Color: white},
		{Kind: LightDirectional, Position: mgl64.Vec3{10, 10, 10}, Intensity: 1, Color: white},
	}
}

// ParseColor parses a #rrggbb colour, falling back to mid grey.
func ParseColor(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	}
	return c
}

// System is the main scene: one sphere per body, ring bands, orbit
// guides and the starfield, with body tags on every pickable node.
type System struct {
	Graph     *Graph
	Tags      *Tags
	Starfield *Node

	bodyNodes  map[bodies.ID]*Node
	orbitNodes []*Node
}

// Build creates the main scene for a registry.
func Build(reg *bodies.Registry, stars StarfieldConfig) *System {
	g := NewGraph()
	g.Lights = MainLights()

	s := &System{
		Graph:     g,
		Tags:      NewTags(),
		bodyNodes: make(map[bodies.ID]*Node, reg.Len()),
	}

	// Primaries first so satellites can attach to them.
	for _, d := range reg.All() {
		if d.Parent != "" {
			continue
		}
		n := s.bodyNode(d)
		g.Root.Add(n)
		if !d.Stationary() {
			s.addOrbit(g.Root, d)
		}
	}
	for _, d := range reg.All() {
		if d.Parent == "" {
			continue
		}
		parent := s.bodyNodes[d.Parent]
		parent.Add(s.bodyNode(d))
	}

	if stars.Count > 0 {
		s.Starfield = NewStarfield(g, stars)
		g.Root.Add(s.Starfield)
	}
	return s
}

func (s *System) bodyNode(d bodies.Descriptor) *Node {
	n := s.Graph.NewNode(KindSphere, d.Name)
	n.Radius = d.Radius
	n.Tilt = d.AxialTiltRadians()
	n.Color = ParseColor(d.Color)
	n.Emissive = d.Stationary() && d.Parent == ""

	for i, r := range d.Rings {
		band := s.Graph.NewNode(KindBand, d.Name+" ring")
		band.Inner = r.Inner
		band.Outer = r.Outer
		band.Opacity = r.Opacity
		band.Color = ParseColor(r.Color)
		band.Position = mgl64.Vec3{0, 1e-3 * float64(i), 0}
		n.Add(band)
	}

	s.bodyNodes[d.ID] = n
	if d.Selectable() {
		s.Tags.Tag(n.ID, d.ID)
	}
	return n
}

func (s *System) addOrbit(parent *Node, d bodies.Descriptor) {
	o := s.Graph.NewNode(KindOrbit, d.Name+" orbit")
	o.Radius = d.OrbitalDistance
	o.Opacity = 0.3
	o.Color = colorful.Color{R: 1, G: 1, B: 1}
	o.Emissive = true
	parent.Add(o)
	s.orbitNodes = append(s.orbitNodes, o)
}

// BodyNode returns the render node of a body.
func (s *System) BodyNode(id bodies.ID) (*Node, bool) {
	n, ok := s.bodyNodes[id]
	return n, ok
}

// Orbits returns the orbit guide nodes.
func (s *System) Orbits() []*Node {
	return s.orbitNodes
}

// SetTexture attaches a surface texture to a body's sphere.
func (s *System) SetTexture(id bodies.ID, tex Sampler) {
	if n, ok := s.bodyNodes[id]; ok {
		n.Texture = tex
	}
}

// Apply copies one frame of motion onto the graph.
func (s *System) Apply(f motion.Frame) {
	for id, tr := range f.Bodies {
		n, ok := s.bodyNodes[id]
		if !ok {
			continue
		}
		n.Position = tr.Position
		n.Spin = tr.Spin
		n.Tilt = tr.Tilt
	}
	if s.Starfield != nil {
		s.Starfield.Spin = f.StarfieldSpin
	}
}

// Pick returns the body of the first tagged node hit by r.
func (s *System) Pick(r Ray) (bodies.ID, bool) {
	for _, h := range s.Graph.Intersect(r) {
		if id, ok := s.Tags.Body(h.Node.ID); ok {
			return id, true
		}
	}
	return "", false
}

// NewStarfield generates a point cloud uniformly distributed over
// directions, at radii in [MinRadius, MaxRadius). Most stars are white;
// the rest are split between blue and yellow tints.
func NewStarfield(g *Graph, cfg StarfieldConfig) *Node {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	n := g.NewNode(KindPoints, "starfield")
	n.Emissive = true
	n.Stars = make([]Star, cfg.Count)
	for i := range n.Stars {
		radius := cfg.MinRadius + rng.Float64()*(cfg.MaxRadius-cfg.MinRadius)
		theta := rng.Float64() * 2 * math.Pi
		phi := math.Acos(2*rng.Float64() - 1)

		light := 0.7 + rng.Float64()*0.3
		var c colorful.Color
		switch r := rng.Float64(); {
		case r < 0.7:
			c = colorful.Hsl(0, 0, light)
		case r < 0.85:
			c = colorful.Hsl(216, 0.8, light)
		default:
			c = colorful.Hsl(36, 0.8, light)
		}

		n.Stars[i] = Star{
			Position: mgl64.Vec3{
				radius * math.Sin(phi) * math.Cos(theta),
				radius * math.Sin(phi) * math.Sin(theta),
				radius * math.Cos(phi),
			},
			Color: c,
			Size:  0.5 + rng.Float64()*1.5,
		}
	}
	return n
}
