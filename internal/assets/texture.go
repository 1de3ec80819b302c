// Package assets loads body surface textures.
package assets

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"math"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
)

// MaxTextureWidth bounds decoded textures; terminal cells never need more.
const MaxTextureWidth = 512

// Texture is an equirectangular surface map. It is immutable once decoded
// and safe for concurrent sampling.
type Texture struct {
	img *image.RGBA
}

// Decode reads a PNG or JPEG and downsamples it to at most MaxTextureWidth.
func Decode(r io.Reader) (*Texture, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("empty image")
	}

	w, h := b.Dx(), b.Dy()
	if w > MaxTextureWidth {
		h = int(math.Max(1, math.Round(float64(h)*MaxTextureWidth/float64(w))))
		w = MaxTextureWidth
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return &Texture{img: dst}, nil
}

// DecodeFile decodes the image at path.
func DecodeFile(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tex, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return tex, nil
}

// Size returns the decoded dimensions.
func (t *Texture) Size() (int, int) {
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

// Sample returns the texel nearest to (u, v). u wraps around the sphere;
// v runs from 0 at the north pole to 1 at the south pole and is clamped.
func (t *Texture) Sample(u, v float64) colorful.Color {
	w, h := t.Size()
	u -= math.Floor(u)
	x := int(u * float64(w))
	if x >= w {
		x = w - 1
	}
	y := int(math.Max(0, math.Min(1, v)) * float64(h))
	if y >= h {
		y = h - 1
	}
	c, _ := colorful.MakeColor(t.img.RGBAAt(x, y))
	return c
}

// Flat is a uniform surface used when a texture is unavailable.
type Flat struct {
	Color colorful.Color
}

// Sample returns the flat colour.
func (f Flat) Sample(u, v float64) colorful.Color {
	return f.Color
}
