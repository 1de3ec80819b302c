// Package scene is a small scene graph: labelled nodes with parent/child
// transforms, lights, a node → body tag registry and ray picking.
package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// NodeID identifies a node within its graph.
type NodeID uint64

// Kind selects how a node is drawn and picked.
type Kind int

const (
	KindGroup  Kind = iota // Transform only
	KindSphere             // Lit sphere of Radius
	KindBand               // Flat annulus Inner..Outer in the local XZ plane
	KindPoints             // Point cloud (Stars)
	KindOrbit              // Circle of Radius in the local XZ plane
)

// Sampler returns a surface colour at texture coordinates u, v in [0, 1].
type Sampler interface {
	Sample(u, v float64) colorful.Color
}

// Star is one point of a point cloud.
type Star struct {
	Position mgl64.Vec3
	Color    colorful.Color
	Size     float64
}

// Node is one element of the graph.
type Node struct {
	ID       NodeID
	Name     string
	Kind     Kind
	Position mgl64.Vec3 // Relative to parent
	Spin     float64    // Rotation about local Y, radians
	Tilt     float64    // Rotation about local X, radians

	Radius   float64
	Inner    float64
	Outer    float64
	Color    colorful.Color
	Opacity  float64
	Texture  Sampler
	Emissive bool // Ignores lighting
	Stars    []Star

	parent   *Node
	children []*Node
}

// Add attaches child to n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child from n.
func (n *Node) Remove(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Children returns the node's children.
func (n *Node) Children() []*Node {
	return n.children
}

// Parent returns the node's parent, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// Local returns T · Rx(tilt) · Ry(spin).
func (n *Node) Local() mgl64.Mat4 {
	return mgl64.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z()).
		Mul4(mgl64.HomogRotate3DX(n.Tilt)).
		Mul4(mgl64.HomogRotate3DY(n.Spin))
}

// World returns the node's local-to-world matrix.
func (n *Node) World() mgl64.Mat4 {
	if n.parent == nil {
		return n.Local()
	}
	return n.parent.World().Mul4(n.Local())
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() mgl64.Vec3 {
	return n.World().Col(3).Vec3()
}

// Walk visits n and its descendants depth-first until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// LightKind selects a light model.
type LightKind int

const (
	LightAmbient LightKind = iota
	LightPoint
	LightDirectional
)

// Light illuminates sphere and band nodes.
type Light struct {
	Kind      LightKind
	Position  mgl64.Vec3 // Point: location. Directional: direction the light comes from.
	Intensity float64
	Range     float64 // Point only; 0 means unbounded
	Color     colorful.Color
}

// Graph owns a root node, its lights and the node id sequence.
type Graph struct {
	Root   *Node
	Lights []Light
	nextID NodeID
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	g := &Graph{}
	g.Root = g.NewNode(KindGroup, "root")
	return g
}

// NewNode creates a detached node with a fresh id.
func (g *Graph) NewNode(kind Kind, name string) *Node {
	g.nextID++
	return &Node{ID: g.nextID, Name: name, Kind: kind, Opacity: 1}
}

// Clone deep-copies n and its descendants with fresh ids. The copy is
// detached and shares no mutable state with the original.
func (g *Graph) Clone(n *Node) *Node {
	c := g.NewNode(n.Kind, n.Name)
	id := c.ID
	*c = *n
	c.ID = id
	c.parent = nil
	c.children = nil
	if n.Stars != nil {
		c.Stars = append([]Star(nil), n.Stars...)
	}
	for _, child := range n.children {
		c.Add(g.Clone(child))
	}
	return c
}

// Clear removes every node under the root and all lights.
func (g *Graph) Clear() {
	for _, c := range append([]*Node(nil), g.Root.children...) {
		g.Root.Remove(c)
	}
	g.Lights = nil
}

// Find returns the node with id, or nil.
func (g *Graph) Find(id NodeID) *Node {
	var found *Node
	g.Root.Walk(func(n *Node) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}
