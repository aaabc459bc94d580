// tinyraster - offline software rasterizer
// Renders an OBJ or glTF model with diffuse lighting, composites translucent
// solids over it and writes the color and depth buffers as images.
//
// Usage:
//
//	tinyraster [flags] [model.obj|model.glb]
//	tinyraster --config scene.yaml
//
// Without flags it reproduces the reference render: 800x800, eye (1,2,3)
// looking at the origin, output.tga and zbuffer.tga.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/taigrr/tinyraster/pkg/preview"
	"github.com/taigrr/tinyraster/pkg/render"
	"github.com/taigrr/tinyraster/pkg/scene"
)

var version = "dev"

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(&options{}),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tinyraster [model]",
		Short: "Render a model to TGA with a software rasterizer",
		Long: `tinyraster draws a textured mesh with per-vertex diffuse lighting into a
color buffer and an 8-bit depth buffer, then composites any translucent
solids from the scene file on top.

Flags override values from --config.`,
		Example: `  tinyraster obj/african_head.obj
  tinyraster --config scene.yaml --frames 36 --out spin.png
  tinyraster head.glb --width 200 --height 200 --preview`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd, o, args)
		},
	}
	o.register(cmd)
	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, o *options, args []string) error {
	logger := newLogger(o.verbose)
	render.SetLogger(logger)

	cfg, err := o.build(cmd.Flags(), args)
	if err != nil {
		return err
	}

	opts := scene.Options{Logger: logger}
	if o.progress {
		opts.Progress = func(desc string, total int) scene.ProgressBar {
			return progressbar.Default(int64(total), desc)
		}
	}

	s, err := scene.New(cfg, opts)
	if err != nil {
		return err
	}

	frames, err := s.Run(ctx)
	if err != nil {
		return err
	}

	last := frames[len(frames)-1]
	if o.preview {
		if err := preview.Show(ctx, last.FrameBuffer.Color); err != nil {
			return fmt.Errorf("preview: %w", err)
		}
	}
	return nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
