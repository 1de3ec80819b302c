package scene

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/litescript/ls-orrery/internal/bodies"
	"github.com/litescript/ls-orrery/internal/camera"
)

// Tags maps render nodes to the bodies they represent. Only tagged nodes
// are selectable.
type Tags struct {
	byNode map[NodeID]bodies.ID
	byBody map[bodies.ID]NodeID
}

// NewTags creates an empty tag registry.
func NewTags() *Tags {
	return &Tags{
		byNode: make(map[NodeID]bodies.ID),
		byBody: make(map[bodies.ID]NodeID),
	}
}

// Tag associates node with body.
func (t *Tags) Tag(node NodeID, body bodies.ID) {
	t.byNode[node] = body
	t.byBody[body] = node
}

// Body returns the body a node represents.
func (t *Tags) Body(node NodeID) (bodies.ID, bool) {
	id, ok := t.byNode[node]
	return id, ok
}

// Node returns the node representing body.
func (t *Tags) Node(body bodies.ID) (NodeID, bool) {
	id, ok := t.byBody[body]
	return id, ok
}

// Ray is a half-line in world space. Dir is unit length.
type Ray struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// RayFromNDC casts a ray from the camera through normalized device
// coordinates x, y in [-1, 1] (y up).
func RayFromNDC(cam camera.Camera, aspect, x, y float64) (Ray, error) {
	inv := cam.ViewProjection(aspect).Inv()
	if inv == (mgl64.Mat4{}) {
		return Ray{}, fmt.Errorf("camera matrix is singular")
	}

	near := unproject(inv, x, y, -1)
	far := unproject(inv, x, y, 1)
	dir := far.Sub(near)
	if dir.Len() == 0 {
		return Ray{}, fmt.Errorf("degenerate ray")
	}
	return Ray{Origin: near, Dir: dir.Normalize()}, nil
}

func unproject(inv mgl64.Mat4, x, y, z float64) mgl64.Vec3 {
	v := inv.Mul4x1(mgl64.Vec4{x, y, z, 1})
	return v.Vec3().Mul(1 / v.W())
}

// IntersectSphere returns the nearest non-negative distance at which r
// enters the sphere, or false if it misses.
func IntersectSphere(r Ray, center mgl64.Vec3, radius float64) (float64, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Dir)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Hit is one ray/sphere intersection.
type Hit struct {
	Node     *Node
	Distance float64
	Point    mgl64.Vec3
}

// Intersect returns every sphere node hit by r, nearest first.
func (g *Graph) Intersect(r Ray) []Hit {
	var hits []Hit
	g.Root.Walk(func(n *Node) bool {
		if n.Kind != KindSphere {
			return true
		}
		if t, ok := IntersectSphere(r, n.WorldPosition(), n.Radius); ok {
			hits = append(hits, Hit{Node: n, Distance: t, Point: r.At(t)})
		}
		return true
	})
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}
