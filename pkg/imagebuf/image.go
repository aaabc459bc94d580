// Package imagebuf provides the pixel buffers the rasterizer draws into and
// writes them to disk.
package imagebuf

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned for unknown channel modes or file types.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Format is the channel layout of an Image.
type Format int

const (
	Grayscale Format = 1 // single channel
	RGB       Format = 3
	RGBA      Format = 4
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case Grayscale:
		return "grayscale"
	case RGB:
		return "rgb"
	case RGBA:
		return "rgba"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Image is a bounds-checked 2D pixel grid. Row 0 is stored first; the
// rasterizer treats it as the bottom row until FlipVertically is called.
type Image struct {
	Width  int
	Height int
	Format Format
	Pix    []uint8 // Row-major, Format bytes per pixel in R, G, B, A order
}

// New creates a zeroed image.
func New(width, height int, format Format) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	switch format {
	case Grayscale, RGB, RGBA:
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	return &Image{
		Width:  width,
		Height: height,
		Format: format,
		Pix:    make([]uint8, width*height*int(format)),
	}, nil
}

// In reports whether (x, y) lies inside the image.
func (m *Image) In(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

func (m *Image) offset(x, y int) int {
	return (y*m.Width + x) * int(m.Format)
}

// Get returns the color at (x, y).
// Returns transparent black if out of bounds. Grayscale pixels come back as
// R=G=B=value; pixels without an alpha channel are opaque.
func (m *Image) Get(x, y int) color.RGBA {
	if !m.In(x, y) {
		return color.RGBA{}
	}
	i := m.offset(x, y)
	switch m.Format {
	case Grayscale:
		v := m.Pix[i]
		return color.RGBA{v, v, v, 255}
	case RGB:
		return color.RGBA{m.Pix[i], m.Pix[i+1], m.Pix[i+2], 255}
	default:
		return color.RGBA{m.Pix[i], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3]}
	}
}

// Set writes the color at (x, y). Out-of-bounds writes are ignored.
// Grayscale images store the red channel.
func (m *Image) Set(x, y int, c color.RGBA) {
	if !m.In(x, y) {
		return
	}
	i := m.offset(x, y)
	switch m.Format {
	case Grayscale:
		m.Pix[i] = c.R
	case RGB:
		m.Pix[i], m.Pix[i+1], m.Pix[i+2] = c.R, c.G, c.B
	default:
		m.Pix[i], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3] = c.R, c.G, c.B, c.A
	}
}

// Gray returns the first channel at (x, y), 0 when out of bounds.
func (m *Image) Gray(x, y int) uint8 {
	if !m.In(x, y) {
		return 0
	}
	return m.Pix[m.offset(x, y)]
}

// SetGray writes v into every color channel at (x, y), leaving alpha opaque.
func (m *Image) SetGray(x, y int, v uint8) {
	m.Set(x, y, color.RGBA{v, v, v, 255})
}

// Fill sets every pixel to c.
func (m *Image) Fill(c color.RGBA) {
	for y := range m.Height {
		for x := range m.Width {
			m.Set(x, y, c)
		}
	}
}

// FlipVertically swaps rows top to bottom in place.
func (m *Image) FlipVertically() {
	stride := m.Width * int(m.Format)
	tmp := make([]uint8, stride)
	for top, bot := 0, m.Height-1; top < bot; top, bot = top+1, bot-1 {
		a := m.Pix[top*stride : (top+1)*stride]
		b := m.Pix[bot*stride : (bot+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

// Clone returns a deep copy.
func (m *Image) Clone() *Image {
	c := *m
	c.Pix = append([]uint8(nil), m.Pix...)
	return &c
}

// ToImage converts the buffer to a standard library image with row 0 at the
// top, as currently stored.
func (m *Image) ToImage() image.Image {
	r := image.Rect(0, 0, m.Width, m.Height)
	if m.Format == Grayscale {
		g := image.NewGray(r)
		copy(g.Pix, m.Pix)
		return g
	}
	img := image.NewNRGBA(r)
	for y := range m.Height {
		for x := range m.Width {
			c := m.Get(x, y)
			img.SetNRGBA(x, y, color.NRGBA(c))
		}
	}
	return img
}

// FromImage copies an arbitrary image into a new RGBA buffer.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	m := &Image{
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: RGBA,
		Pix:    make([]uint8, b.Dx()*b.Dy()*4),
	}
	for y := range m.Height {
		for x := range m.Width {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			m.Set(x, y, color.RGBA(c))
		}
	}
	return m
}

// Encode writes the image in the named encoding: "tga", "png", "bmp" or "tiff".
func (m *Image) Encode(w io.Writer, encoding string) error {
	switch encoding {
	case "tga":
		return EncodeTGA(w, m)
	case "png":
		return png.Encode(w, m.ToImage())
	case "bmp":
		return bmp.Encode(w, m.ToImage())
	case "tiff", "tif":
		return tiff.Encode(w, m.ToImage(), nil)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, encoding)
	}
}

// EncodingFor maps a file extension to an encoding name. Unknown or missing
// extensions fall back to TGA.
func EncodingFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	default:
		return "tga"
	}
}

// WriteFile saves the image, choosing the encoding from the extension.
func (m *Image) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := m.Encode(f, EncodingFor(path)); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// ReadFile loads an image file. TGA is decoded here; everything else goes
// through image.Decode.
func ReadFile(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".tga") {
		m, err := DecodeTGA(f)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return m, nil
	}

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return FromImage(src), nil
}
