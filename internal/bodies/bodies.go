// Package bodies holds the static table of celestial bodies shown by the orrery.
package bodies

import (
	"fmt"
	"math"
)

// ID identifies a body (e.g., "earth").
type ID string

const (
	Sun     ID = "sun"
	Mercury ID = "mercury"
	Venus   ID = "venus"
	Earth   ID = "earth"
	Mars    ID = "mars"
	Jupiter ID = "jupiter"
	Saturn  ID = "saturn"
	Uranus  ID = "uranus"
	Neptune ID = "neptune"
	Moon    ID = "moon"
)

// Ring is one band of a ring system, in the body's local frame.
type Ring struct {
	Inner   float64 `yaml:"inner"`
	Outer   float64 `yaml:"outer"`
	Opacity float64 `yaml:"opacity"`
	Color   string  `yaml:"color"`
}

// Descriptor describes one body. Values are scene units, radians per
// simulated second (orbit) and radians per frame (spin).
type Descriptor struct {
	ID              ID      `yaml:"id"`
	Name            string  `yaml:"name"`
	Radius          float64 `yaml:"radius"`
	OrbitalDistance float64 `yaml:"distance"`
	OrbitalSpeed    float64 `yaml:"orbital_speed"`
	RotationSpeed   float64 `yaml:"rotation_speed"`
	AxialTiltDeg    float64 `yaml:"axial_tilt"`
	Description     string  `yaml:"description"`
	Texture         string  `yaml:"texture"`
	Color           string  `yaml:"color"` // Fallback colour when the texture is unavailable
	Parent          ID      `yaml:"parent"`
	Rings           []Ring  `yaml:"rings"`
}

// AxialTiltRadians returns the axial tilt in radians.
func (d Descriptor) AxialTiltRadians() float64 {
	return d.AxialTiltDeg * math.Pi / 180
}

// Stationary reports whether the body sits at its parent's origin.
func (d Descriptor) Stationary() bool {
	return d.OrbitalDistance == 0
}

// Selectable reports whether the body can be focused. Satellites ride on
// their parent's render node and are not pickable on their own.
func (d Descriptor) Selectable() bool {
	return d.Parent == ""
}

// OrbitalPeriod returns 2π / orbital speed, or 0 for bodies that do not orbit.
func (d Descriptor) OrbitalPeriod() float64 {
	return period(d.OrbitalSpeed)
}

// RotationPeriod returns 2π / rotation speed, or 0 for bodies that do not spin.
func (d Descriptor) RotationPeriod() float64 {
	return period(d.RotationSpeed)
}

func period(speed float64) float64 {
	if speed == 0 {
		return 0
	}
	return 2 * math.Pi / speed
}

// FormatDistance renders the orbital distance for the info panel.
func (d Descriptor) FormatDistance() string {
	return fmt.Sprintf("%g AU", d.OrbitalDistance)
}

// FormatOrbitalPeriod renders the orbital period for the info panel.
func (d Descriptor) FormatOrbitalPeriod() string {
	p := d.OrbitalPeriod()
	if p == 0 {
		return "—"
	}
	return fmt.Sprintf("%.1f days", p)
}

// FormatRotationPeriod renders the rotation period for the info panel.
func (d Descriptor) FormatRotationPeriod() string {
	p := d.RotationPeriod()
	if p == 0 {
		return "—"
	}
	return fmt.Sprintf("%.1f hours", p)
}

// FormatAxialTilt renders the axial tilt for the info panel.
func (d Descriptor) FormatAxialTilt() string {
	return fmt.Sprintf("%.1f°", d.AxialTiltDeg)
}

// Validate checks a descriptor on its own. Cross-body checks live in NewRegistry.
func (d Descriptor) Validate() error {
	switch {
	case d.ID == "":
		return fmt.Errorf("body without id")
	case d.Name == "":
		return fmt.Errorf("body %s: name is required", d.ID)
	case d.Radius <= 0:
		return fmt.Errorf("body %s: radius must be > 0", d.ID)
	case d.OrbitalDistance < 0:
		return fmt.Errorf("body %s: distance must be >= 0", d.ID)
	case d.OrbitalSpeed < 0 || d.RotationSpeed < 0:
		return fmt.Errorf("body %s: speeds must be >= 0", d.ID)
	}
	for i, r := range d.Rings {
		if r.Inner <= 0 || r.Outer <= r.Inner {
			return fmt.Errorf("body %s: ring %d has invalid radii", d.ID, i)
		}
	}
	return nil
}
