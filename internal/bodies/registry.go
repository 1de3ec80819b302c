package bodies

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Registry is an immutable, ordered set of body descriptors.
type Registry struct {
	bodies []Descriptor
	byID   map[ID]int
}

// NewRegistry validates descriptors and builds a registry. Order is preserved.
func NewRegistry(descs []Descriptor) (*Registry, error) {
	if len(descs) == 0 {
		return nil, fmt.Errorf("empty body table")
	}

	r := &Registry{
		bodies: make([]Descriptor, len(descs)),
		byID:   make(map[ID]int, len(descs)),
	}
	copy(r.bodies, descs)

	for i, d := range r.bodies {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate body id %q", d.ID)
		}
		r.byID[d.ID] = i
	}

	for _, d := range r.bodies {
		if d.Parent == "" {
			continue
		}
		p, ok := r.byID[d.Parent]
		if !ok {
			return nil, fmt.Errorf("body %s: unknown parent %q", d.ID, d.Parent)
		}
		if r.bodies[p].Parent != "" {
			return nil, fmt.Errorf("body %s: nested satellites are not supported", d.ID)
		}
	}

	return r, nil
}

// Default returns the registry of the built-in table.
func Default() *Registry {
	r, err := NewRegistry(DefaultDescriptors())
	if err != nil {
		// The built-in table is covered by tests.
		panic(fmt.Sprintf("bodies: built-in table invalid: %v", err))
	}
	return r
}

// tableFile is the on-disk YAML layout.
type tableFile struct {
	Bodies []Descriptor `yaml:"bodies"`
}

// LoadFile reads a YAML body table that replaces the built-in one.
func LoadFile(path string) (*Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read body table: %w", err)
	}
	return Parse(b)
}

// Parse decodes a YAML body table.
func Parse(b []byte) (*Registry, error) {
	var tf tableFile
	if err := yaml.Unmarshal(b, &tf); err != nil {
		return nil, fmt.Errorf("parse body table: %w", err)
	}
	return NewRegistry(tf.Bodies)
}

// Get returns the descriptor for id.
func (r *Registry) Get(id ID) (Descriptor, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Descriptor{}, false
	}
	return r.bodies[i], true
}

// MustGet is Get for ids known to be present; it panics otherwise.
func (r *Registry) MustGet(id ID) Descriptor {
	d, ok := r.Get(id)
	if !ok {
		panic(fmt.Sprintf("bodies: unknown id %q", id))
	}
	return d
}

// Index returns the position of id among the selectable bodies, or -1.
func (r *Registry) Index(id ID) int {
	for i, d := range r.Selectable() {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// All returns every descriptor in table order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, len(r.bodies))
	copy(out, r.bodies)
	return out
}

// Selectable returns the bodies that can be focused, in table order.
func (r *Registry) Selectable() []Descriptor {
	var out []Descriptor
	for _, d := range r.bodies {
		if d.Selectable() {
			out = append(out, d)
		}
	}
	return out
}

// Satellites returns the bodies whose parent is id.
func (r *Registry) Satellites(id ID) []Descriptor {
	var out []Descriptor
	for _, d := range r.bodies {
		if d.Parent == id {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of bodies.
func (r *Registry) Len() int {
	return len(r.bodies)
}

// Next returns the selectable body after id, wrapping around. An unknown or
// empty id yields the first selectable body.
func (r *Registry) Next(id ID) ID {
	return r.step(id, 1)
}

// Prev returns the selectable body before id, wrapping around.
func (r *Registry) Prev(id ID) ID {
	return r.step(id, -1)
}

func (r *Registry) step(id ID, dir int) ID {
	sel := r.Selectable()
	if len(sel) == 0 {
		return ""
	}
	for i, d := range sel {
		if d.ID == id {
			return sel[(i+dir+len(sel))%len(sel)].ID
		}
	}
	if dir < 0 {
		return sel[len(sel)-1].ID
	}
	return sel[0].ID
}
