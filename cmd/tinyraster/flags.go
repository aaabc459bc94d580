package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/taigrr/tinyraster/pkg/scene"
)

// options holds the command line flags.
type options struct {
	config  string
	texture string
	out     string
	zbuffer string

	width, height, depth int
	frames               int

	eye, center, up, light []float64
	background             []int

	alpha     bool
	noZBuffer bool
	preview   bool
	progress  bool
	verbose   bool
}

func (o *options) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.config, "config", "c", "", "scene file (YAML)")
	f.StringVar(&o.texture, "texture", "", "diffuse map, overrides <model>_diffuse.tga")
	f.StringVarP(&o.out, "out", "o", scene.DefaultOutput, "color output (.tga, .png, .bmp, .tiff)")
	f.StringVar(&o.zbuffer, "zbuffer", scene.DefaultDepthOutput, "depth output")
	f.BoolVar(&o.noZBuffer, "no-zbuffer", false, "skip writing the depth image")

	f.IntVar(&o.width, "width", scene.DefaultWidth, "image width")
	f.IntVar(&o.height, "height", scene.DefaultHeight, "image height")
	f.IntVar(&o.depth, "depth", scene.DefaultDepth, "depth buffer resolution (1-255)")
	f.BoolVar(&o.alpha, "alpha", false, "write an RGBA color buffer")
	f.IntSliceVar(&o.background, "background", []int{0, 0, 0}, "background color r,g,b")

	f.Float64SliceVar(&o.eye, "eye", []float64{1, 2, 3}, "camera position x,y,z")
	f.Float64SliceVar(&o.center, "center", []float64{0, 0, 0}, "point the camera looks at")
	f.Float64SliceVar(&o.up, "up", []float64{0, 1, 0}, "camera up direction")
	f.Float64SliceVar(&o.light, "light", []float64{1, 1, 1}, "direction towards the light")

	f.IntVar(&o.frames, "frames", 1, "turntable frames; more than one adds _NNN to file names")
	f.BoolVar(&o.preview, "preview", false, "show the last frame in the terminal")
	f.BoolVar(&o.progress, "progress", false, "show a progress bar per pass")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "debug logging")
}

// build loads the scene file, if any, and applies the flags that were set.
func (o *options) build(flags *pflag.FlagSet, args []string) (scene.Config, error) {
	var cfg scene.Config
	if o.config != "" {
		var err error
		if cfg, err = scene.ReadFile(o.config); err != nil {
			return cfg, err
		}
	}

	if len(args) > 0 {
		cfg.Model.Path = args[0]
	}

	// Without a scene file every flag applies, defaults included.
	set := func(name string) bool {
		return o.config == "" || flags.Changed(name)
	}

	if set("texture") && o.texture != "" {
		cfg.Model.Texture = o.texture
	}
	if set("out") {
		cfg.Output.Color = o.out
	}
	if set("zbuffer") {
		cfg.Output.Depth = o.zbuffer
	}
	if set("no-zbuffer") && o.noZBuffer {
		cfg.Output.NoDepth = true
	}
	if set("width") {
		cfg.Width = o.width
	}
	if set("height") {
		cfg.Height = o.height
	}
	if set("depth") {
		cfg.Depth = o.depth
	}
	if set("alpha") && o.alpha {
		cfg.Alpha = true
	}
	if set("frames") {
		cfg.Turntable.Frames = o.frames
	}
	if set("background") {
		c, err := toRGB("background", o.background)
		if err != nil {
			return cfg, err
		}
		cfg.Background = c
	}

	vectors := []struct {
		name string
		val  []float64
		dst  **scene.Vector
	}{
		{"eye", o.eye, &cfg.Camera.Eye},
		{"center", o.center, &cfg.Camera.Center},
		{"up", o.up, &cfg.Camera.Up},
		{"light", o.light, &cfg.Light},
	}
	for _, v := range vectors {
		if !set(v.name) {
			continue
		}
		vec, err := toVector(v.name, v.val)
		if err != nil {
			return cfg, err
		}
		*v.dst = vec
	}

	if err := cfg.Finalize(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func toVector(name string, xs []float64) (*scene.Vector, error) {
	if len(xs) != 3 {
		return nil, fmt.Errorf("--%s needs 3 comma-separated values, got %d", name, len(xs))
	}
	return &scene.Vector{X: xs[0], Y: xs[1], Z: xs[2]}, nil
}

func toRGB(name string, xs []int) (scene.RGB, error) {
	var c scene.RGB
	if len(xs) != 3 {
		return c, fmt.Errorf("--%s needs 3 comma-separated values, got %d", name, len(xs))
	}
	for i, x := range xs {
		if x < 0 || x > 255 {
			return c, fmt.Errorf("--%s component %d outside 0..255", name, x)
		}
		c[i] = uint8(x)
	}
	return c, nil
}
