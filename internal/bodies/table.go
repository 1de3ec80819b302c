package bodies

// saturnRings are the five thin bands plus the faint glow band behind them.
var saturnRings = []Ring{
	{Inner: 18, Outer: 19.5, Opacity: 0.8, Color: "#f4d03f"},
	{Inner: 19.5, Outer: 21, Opacity: 0.6, Color: "#f7dc6f"},
	{Inner: 21, Outer: 22.5, Opacity: 0.7, Color: "#f8d78a"},
	{Inner: 22.5, Outer: 24, Opacity: 0.5, Color: "#f9e79f"},
	{Inner: 24, Outer: 25.5, Opacity: 0.4, Color: "#fdf2e9"},
	{Inner: 17, Outer: 26, Opacity: 0.1, Color: "#f39c12"},
}

// defaultBodies is the built-in table, star first, then planets outward, then satellites.
var defaultBodies = []Descriptor{
	{
		ID: Sun, Name: "Sun",
		Radius: 30, RotationSpeed: 0.01,
		Texture: "sun.png", Color: "#ffff00",
		Description: "The star at the center of our Solar System. It provides light and heat to all the planets through nuclear fusion.",
	},
	{
		ID: Mercury, Name: "Mercury",
		Radius: 2, OrbitalDistance: 40, OrbitalSpeed: 0.04, RotationSpeed: 0.01, AxialTiltDeg: 0.03,
		Texture: "Mercury.jpeg", Color: "#8c7853",
		Description: "The smallest and innermost planet. It has extreme temperature variations and no atmosphere.",
	},
	{
		ID: Venus, Name: "Venus",
		Radius: 4, OrbitalDistance: 50, OrbitalSpeed: 0.015, RotationSpeed: 0.004, AxialTiltDeg: 3.1,
		Texture: "vernus.jpeg", Color: "#ffa500",
		Description: "The second planet from the Sun. Known for its thick atmosphere and extreme greenhouse effect.",
	},
	{
		ID: Earth, Name: "Earth",
		Radius: 8, OrbitalDistance: 70, OrbitalSpeed: 0.01, RotationSpeed: 0.02, AxialTiltDeg: 0.4,
		Texture: "earth.jpeg", Color: "#0077be",
		Description: "Our home planet. The only known planet with life, abundant water, and a protective atmosphere.",
	},
	{
		ID: Mars, Name: "Mars",
		Radius: 5, OrbitalDistance: 100, OrbitalSpeed: 0.008, RotationSpeed: 0.018, AxialTiltDeg: 0.4,
		Texture: "mars.jpeg", Color: "#ff4500",
		Description: "The Red Planet. Has the largest volcano and canyon in the solar system.",
	},
	{
		ID: Jupiter, Name: "Jupiter",
		Radius: 15, OrbitalDistance: 180, OrbitalSpeed: 0.002, RotationSpeed: 0.04, AxialTiltDeg: 0.05,
		Texture: "jupiter.jpeg", Color: "#d8ca9d",
		Description: "The largest planet. A gas giant with a Great Red Spot storm that has raged for centuries.",
	},
	{
		ID: Saturn, Name: "Saturn",
		Radius: 13, OrbitalDistance: 230, OrbitalSpeed: 0.0009, RotationSpeed: 0.038, AxialTiltDeg: 0.5,
		Texture: "saturn.jpeg", Color: "#fad5a5",
		Rings:       saturnRings,
		Description: "Famous for its spectacular ring system. The second largest planet in our solar system.",
	},
	{
		ID: Uranus, Name: "Uranus",
		Radius: 7.5, OrbitalDistance: 300, OrbitalSpeed: 0.0004, RotationSpeed: 0.03, AxialTiltDeg: 1.7,
		Texture: "uranaus.jpeg", Color: "#4fd0e7",
		Description: "An ice giant with a tilted axis. It rotates on its side compared to other planets.",
	},
	{
		ID: Neptune, Name: "Neptune",
		Radius: 7, OrbitalDistance: 400, OrbitalSpeed: 0.0001, RotationSpeed: 0.032, AxialTiltDeg: 0.5,
		Texture: "neptune.jpeg", Color: "#4b70dd",
		Description: "The windiest planet with speeds up to 2,100 km/h. An ice giant with a deep blue color.",
	},
	{
		ID: Moon, Name: "Moon", Parent: Earth,
		Radius: 1, OrbitalDistance: 15, OrbitalSpeed: 0.05,
		Texture: "moon.jpeg", Color: "#bbbbbb",
		Description: "Earth's only natural satellite.",
	},
}

// DefaultDescriptors returns a copy of the built-in body table.
func DefaultDescriptors() []Descriptor {
	out := make([]Descriptor, len(defaultBodies))
	for i, d := range defaultBodies {
		d.Rings = append([]Ring(nil), d.Rings...)
		out[i] = d
	}
	return out
}
