// Package render implements the software render pipeline: camera matrices,
// shaders, and a barycentric triangle rasterizer with depth testing and alpha
// compositing.
package render

import (
	"fmt"

	"github.com/taigrr/tinyraster/pkg/imagebuf"
)

// FrameBuffer pairs a color image with a grayscale depth image of the same
// size. Depth values are integers in [0, 255]; larger is nearer the camera.
type FrameBuffer struct {
	Color *imagebuf.Image
	Depth *imagebuf.Image
}

// NewFrameBuffer creates zeroed color and depth buffers.
// colorFormat is imagebuf.RGB or imagebuf.RGBA.
func NewFrameBuffer(width, height int, colorFormat imagebuf.Format) (*FrameBuffer, error) {
	if colorFormat != imagebuf.RGB && colorFormat != imagebuf.RGBA {
		return nil, fmt.Errorf("%w: color buffer must be rgb or rgba, got %v", imagebuf.ErrUnsupportedFormat, colorFormat)
	}
	c, err := imagebuf.New(width, height, colorFormat)
	if err != nil {
		return nil, fmt.Errorf("color buffer: %w", err)
	}
	d, err := imagebuf.New(width, height, imagebuf.Grayscale)
	if err != nil {
		return nil, fmt.Errorf("depth buffer: %w", err)
	}
	return &FrameBuffer{Color: c, Depth: d}, nil
}

// Width returns the buffer width.
func (fb *FrameBuffer) Width() int { return fb.Color.Width }

// Height returns the buffer height.
func (fb *FrameBuffer) Height() int { return fb.Color.Height }

// Clear fills the color buffer with c and resets depth to 0.
func (fb *FrameBuffer) Clear(c Color) {
	fb.Color.Fill(c)
	clear(fb.Depth.Pix)
}

// FlipVertically flips both buffers so row 0 becomes the top of the picture.
func (fb *FrameBuffer) FlipVertically() {
	fb.Color.FlipVertically()
	fb.Depth.FlipVertically()
}

// WriteFiles saves the color and depth buffers. An empty depthPath skips the
// depth image.
func (fb *FrameBuffer) WriteFiles(colorPath, depthPath string) error {
	if err := fb.Color.WriteFile(colorPath); err != nil {
		return fmt.Errorf("write color buffer: %w", err)
	}
	if depthPath == "" {
		return nil
	}
	if err := fb.Depth.WriteFile(depthPath); err != nil {
		return fmt.Errorf("write depth buffer: %w", err)
	}
	return nil
}
