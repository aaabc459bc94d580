package models

import (
	"image"
	"image/color"
	"math"

	"github.com/taigrr/tinyraster/pkg/imagebuf"
	"github.com/taigrr/tinyraster/pkg/math3d"
)

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota // Tile the texture
	WrapClamp                  // Clamp to edge
)

// Texture is a diffuse map sampled with nearest-texel lookup.
// Its pixels are stored top row first; V=0 addresses the bottom row.
type Texture struct {
	img   *imagebuf.Image
	WrapU WrapMode
	WrapV WrapMode
}

// NewTexture wraps an image buffer.
func NewTexture(img *imagebuf.Image) *Texture {
	return &Texture{img: img}
}

// LoadTexture loads a texture from a TGA, PNG or JPEG file.
func LoadTexture(path string) (*Texture, error) {
	img, err := imagebuf.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewTexture(img), nil
}

// TextureFromImage creates a texture from an image.Image.
func TextureFromImage(img image.Image) *Texture {
	return NewTexture(imagebuf.FromImage(img))
}

// Width returns the texture width in texels.
func (t *Texture) Width() int { return t.img.Width }

// Height returns the texture height in texels.
func (t *Texture) Height() int { return t.img.Height }

// Sample returns the texel at (u*width, v*height), V measured from the bottom.
func (t *Texture) Sample(uv math3d.Vec2) color.RGBA {
	w, h := t.img.Width, t.img.Height
	x := texel(wrapCoord(uv.X, t.WrapU), w)
	y := texel(wrapCoord(uv.Y, t.WrapV), h)
	return t.img.Get(x, h-1-y)
}

func wrapCoord(coord float64, mode WrapMode) float64 {
	switch mode {
	case WrapClamp:
		return math.Max(0, math.Min(1, coord))
	default:
		return coord - math.Floor(coord)
	}
}

func texel(coord float64, size int) int {
	i := int(coord * float64(size))
	if i >= size {
		i = size - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
