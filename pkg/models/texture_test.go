package models

import (
	"image"
	"image/color"
	"testing"

	"github.com/taigrr/tinyraster/pkg/imagebuf"
	"github.com/taigrr/tinyraster/pkg/math3d"
)

func quadrantTexture() *Texture {
	img, _ := imagebuf.New(2, 2, imagebuf.RGBA)
	img.Set(0, 0, color.RGBA{1, 0, 0, 255}) // top-left
	img.Set(1, 0, color.RGBA{2, 0, 0, 255}) // top-right
	img.Set(0, 1, color.RGBA{3, 0, 0, 255}) // bottom-left
	img.Set(1, 1, color.RGBA{4, 0, 0, 255}) // bottom-right
	return NewTexture(img)
}

func TestTextureSampleOrigin(t *testing.T) {
	tex := quadrantTexture()

	tests := []struct {
		name string
		uv   math3d.Vec2
		want uint8
	}{
		{"bottom-left", math3d.V2(0.25, 0.25), 3},
		{"bottom-right", math3d.V2(0.75, 0.25), 4},
		{"top-left", math3d.V2(0.25, 0.75), 1},
		{"top-right", math3d.V2(0.75, 0.75), 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tex.Sample(tc.uv).R; got != tc.want {
				t.Errorf("Sample(%v).R = %d, want %d", tc.uv, got, tc.want)
			}
		})
	}
}

func TestTextureWrapModes(t *testing.T) {
	tex := quadrantTexture()

	// Repeat: 1.25 wraps to 0.25
	if got := tex.Sample(math3d.V2(1.25, 0.25)).R; got != 3 {
		t.Errorf("repeat sample = %d, want 3", got)
	}

	tex.WrapU, tex.WrapV = WrapClamp, WrapClamp
	if got := tex.Sample(math3d.V2(5, 5)).R; got != 2 {
		t.Errorf("clamp sample = %d, want 2 (top-right)", got)
	}
	if got := tex.Sample(math3d.V2(-5, -5)).R; got != 3 {
		t.Errorf("clamp sample = %d, want 3 (bottom-left)", got)
	}
}

func TestTextureFromImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(2, 1, color.NRGBA{9, 9, 9, 255})
	tex := TextureFromImage(src)

	if tex.Width() != 3 || tex.Height() != 2 {
		t.Fatalf("size = %dx%d, want 3x2", tex.Width(), tex.Height())
	}
	if got := tex.Sample(math3d.V2(0.9, 0.1)); got.R != 9 {
		t.Errorf("Sample = %v, want 9", got)
	}
}
