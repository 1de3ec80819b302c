// Package render rasterizes a scene graph into terminal cells.
//
// Each cell holds two vertically stacked pixels drawn with an upper half
// block, so pixels are roughly square on a typical terminal font.
package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

const halfBlock = "▀"

// Surface is a cell grid with a pixel buffer of Width × 2·Height and a
// text overlay for labels.
type Surface struct {
	Width  int
	Height int

	pixels []colorful.Color
	depth  []float64
	text   []rune
	strong []bool
}

// NewSurface allocates a surface of w × h cells.
func NewSurface(w, h int) *Surface {
	s := &Surface{}
	s.Resize(w, h)
	return s
}

// Resize reallocates the buffers when the size changes.
func (s *Surface) Resize(w, h int) {
	if w == s.Width && h == s.Height && s.pixels != nil {
		return
	}
	s.Width, s.Height = w, h
	if w <= 0 || h <= 0 {
		s.pixels, s.depth, s.text, s.strong = nil, nil, nil, nil
		return
	}
	s.pixels = make([]colorful.Color, w*h*2)
	s.depth = make([]float64, w*h*2)
	s.text = make([]rune, w*h)
	s.strong = make([]bool, w*h)
}

// Valid reports whether the surface can be drawn to.
func (s *Surface) Valid() bool {
	return s != nil && s.Width > 0 && s.Height > 0 && len(s.pixels) == s.Width*s.Height*2
}

// PixelSize returns the pixel buffer dimensions.
func (s *Surface) PixelSize() (int, int) {
	return s.Width, s.Height * 2
}

// Aspect returns the pixel aspect ratio for the projection.
func (s *Surface) Aspect() float64 {
	return float64(s.Width) / float64(s.Height*2)
}

// Clear fills every pixel with bg at infinite depth and drops all text.
func (s *Surface) Clear(bg colorful.Color) {
	for i := range s.pixels {
		s.pixels[i] = bg
		s.depth[i] = math.Inf(1)
	}
	for i := range s.text {
		s.text[i] = 0
		s.strong[i] = false
	}
}

// Pixel returns the colour at pixel (x, y).
func (s *Surface) Pixel(x, y int) colorful.Color {
	return s.pixels[y*s.Width+x]
}

// Depth returns the depth at pixel (x, y).
func (s *Surface) Depth(x, y int) float64 {
	return s.depth[y*s.Width+x]
}

// Plot writes c at pixel (x, y) if d is nearer than what is there.
func (s *Surface) Plot(x, y int, c colorful.Color, d float64) bool {
	w, h := s.PixelSize()
	if x < 0 || x >= w || y < 0 || y >= h {
		return false
	}
	i := y*s.Width + x
	if d >= s.depth[i] {
		return false
	}
	s.pixels[i] = c
	s.depth[i] = d
	return true
}

// Text writes str starting at cell (x, y), clipped to the surface.
func (s *Surface) Text(x, y int, str string, strong bool) {
	if y < 0 || y >= s.Height {
		return
	}
	for _, r := range str {
		if x >= s.Width {
			return
		}
		if x >= 0 {
			s.text[y*s.Width+x] = r
			s.strong[y*s.Width+x] = strong
		}
		x++
	}
}

// TextAt returns the overlay rune at cell (x, y), or 0.
func (s *Surface) TextAt(x, y int) rune {
	return s.text[y*s.Width+x]
}

var (
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("249"))
	strongStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
)

// String renders the surface with truecolor half blocks. Runs of cells with
// identical colours share one style.
func (s *Surface) String() string {
	if !s.Valid() {
		return ""
	}

	var b strings.Builder
	for y := 0; y < s.Height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}

		x := 0
		for x < s.Width {
			if r := s.text[y*s.Width+x]; r != 0 {
				style := labelStyle
				if s.strong[y*s.Width+x] {
					style = strongStyle
				}
				b.WriteString(style.Render(string(r)))
				x++
				continue
			}

			top, bot := s.cellColors(x, y)
			run := 1
			for x+run < s.Width && s.text[y*s.Width+x+run] == 0 {
				t2, b2 := s.cellColors(x+run, y)
				if t2 != top || b2 != bot {
					break
				}
				run++
			}

			if top == "#000000" && bot == "#000000" {
				b.WriteString(strings.Repeat(" ", run))
			} else {
				style := lipgloss.NewStyle().
					Foreground(lipgloss.Color(top)).
					Background(lipgloss.Color(bot))
				b.WriteString(style.Render(strings.Repeat(halfBlock, run)))
			}
			x += run
		}
	}
	return b.String()
}

func (s *Surface) cellColors(x, y int) (string, string) {
	top := s.pixels[(2*y)*s.Width+x].Clamped().Hex()
	bot := s.pixels[(2*y+1)*s.Width+x].Clamped().Hex()
	return top, bot
}

// asciiRamp maps brightness to glyphs for uncoloured output.
const asciiRamp = " .:-=+*#%@"

// Plain renders the surface as ASCII shading with labels, one line per row.
func (s *Surface) Plain() string {
	if !s.Valid() {
		return ""
	}

	ramp := []rune(asciiRamp)
	var b strings.Builder
	for y := 0; y < s.Height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < s.Width; x++ {
			if r := s.text[y*s.Width+x]; r != 0 {
				b.WriteRune(r)
				continue
			}
			top := s.pixels[(2*y)*s.Width+x]
			bot := s.pixels[(2*y+1)*s.Width+x]
			l := (luminance(top) + luminance(bot)) / 2
			i := int(l * float64(len(ramp)))
			if i >= len(ramp) {
				i = len(ramp) - 1
			}
			if i < 0 {
				i = 0
			}
			b.WriteRune(ramp[i])
		}
	}
	return b.String()
}

func luminance(c colorful.Color) float64 {
	c = c.Clamped()
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}
