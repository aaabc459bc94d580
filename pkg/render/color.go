package render

import (
	"image/color"
	"math"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorRed   = color.RGBA{255, 0, 0, 255}
	ColorGreen = color.RGBA{0, 255, 0, 255}
	ColorBlue  = color.RGBA{0, 0, 255, 255}
)

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) color.RGBA {
	return color.RGBA{r, g, b, a}
}

// MultiplyColor scales the color channels by intensity clamped to [0, 1].
// Alpha is left untouched.
func MultiplyColor(c Color, intensity float64) Color {
	intensity = math.Max(0, math.Min(1, intensity))
	return Color{
		R: uint8(float64(c.R) * intensity),
		G: uint8(float64(c.G) * intensity),
		B: uint8(float64(c.B) * intensity),
		A: c.A,
	}
}

// Blend composites fg over bg with the given alpha:
// bg*(1-alpha) + fg*alpha per channel. The result is opaque.
func Blend(bg, fg Color, alpha float64) Color {
	mix := func(b, f uint8) uint8 {
		return uint8(float64(b)*(1-alpha) + float64(f)*alpha)
	}
	return Color{
		R: mix(bg.R, fg.R),
		G: mix(bg.G, fg.G),
		B: mix(bg.B, fg.B),
		A: 255,
	}
}
