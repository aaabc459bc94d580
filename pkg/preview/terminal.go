// Package preview shows rendered frames in a terminal using half-block
// characters, two pixel rows per cell.
package preview

import (
	"context"
	"fmt"
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
	xdraw "golang.org/x/image/draw"

	"github.com/taigrr/tinyraster/pkg/imagebuf"
)

// Fit scales src down so it fits in cols × rows terminal cells, keeping its
// aspect ratio. Images that already fit are returned unchanged.
func Fit(src image.Image, cols, rows int) image.Image {
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || cols <= 0 || rows <= 0 {
		return src
	}

	s := min(float64(cols)/float64(b.Dx()), float64(rows*2)/float64(b.Dy()))
	if s >= 1 {
		return src
	}
	w := max(1, int(float64(b.Dx())*s))
	h := max(1, int(float64(b.Dy())*s))

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// Draw paints img centered in area.
// We use ▀ (upper half block) with fg=top pixel and bg=bottom pixel.
func Draw(scr uv.Screen, area uv.Rectangle, img image.Image) {
	b := img.Bounds()
	cellRows := (b.Dy() + 1) / 2
	offX := area.Min.X + max(0, (area.Dx()-b.Dx())/2)
	offY := area.Min.Y + max(0, (area.Dy()-cellRows)/2)

	for row := range cellRows {
		y := offY + row
		if y >= area.Max.Y {
			break
		}
		topY := b.Min.Y + row*2
		botY := topY + 1

		for col := range b.Dx() {
			x := offX + col
			if x >= area.Max.X {
				break
			}
			top := pixel(img, b.Min.X+col, topY)
			var bot color.Color
			if botY < b.Max.Y {
				bot = pixel(img, b.Min.X+col, botY)
			}

			scr.SetCell(x, y, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: top,
					Bg: bot,
				},
			})
		}
	}
}

// pixel returns the color at (x, y) as color.RGBA, or nil when fully
// transparent so the terminal background shows through.
func pixel(img image.Image, x, y int) color.Color {
	c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
	if c.A == 0 {
		return nil
	}
	return c
}

// Show displays img on the alternate screen until a key is pressed or ctx is
// cancelled. The image is refitted when the window is resized.
func Show(ctx context.Context, img *imagebuf.Image) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		_ = term.Shutdown(context.Background())
	}()

	src := img.ToImage()
	redraw := func() error {
		if err := term.Resize(width, height); err != nil {
			return fmt.Errorf("resize: %w", err)
		}
		term.Clear()
		Draw(term, uv.Rect(0, 0, width, height), Fit(src, width, height))
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}
		return nil
	}
	if err := redraw(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-term.Events():
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				if err := redraw(); err != nil {
					return err
				}
			case uv.KeyPressEvent:
				return nil
			}
		}
	}
}
