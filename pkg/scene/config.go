// Package scene describes a render job in YAML and runs it: load the mesh,
// draw the opaque pass, composite translucent solids and write the buffers.
package scene

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/taigrr/tinyraster/pkg/math3d"
	"github.com/taigrr/tinyraster/pkg/render"
)

// ErrInvalidConfig is returned for scene files that cannot be rendered.
var ErrInvalidConfig = errors.New("invalid scene config")

const (
	DefaultWidth       = 800
	DefaultHeight      = 800
	DefaultDepth       = 255
	DefaultOutput      = "output.tga"
	DefaultDepthOutput = "zbuffer.tga"

	// DefaultTransparency is the opacity of a solid that does not set one.
	DefaultTransparency = 0.5
)

// Solid kinds.
const (
	SolidBox  = "box"
	SolidQuad = "quad"
	SolidMesh = "mesh"
)

// Vector is a YAML [x, y, z] sequence.
type Vector math3d.Vec3

// UnmarshalYAML implements yaml.Unmarshaler for Vector.
func (v *Vector) UnmarshalYAML(value *yaml.Node) error {
	var xs []float64
	if err := value.Decode(&xs); err != nil {
		return err
	}
	if len(xs) != 3 {
		return fmt.Errorf("line %d: vector needs 3 components, got %d", value.Line, len(xs))
	}
	*v = Vector{X: xs[0], Y: xs[1], Z: xs[2]}
	return nil
}

// MarshalYAML implements yaml.Marshaler for Vector.
func (v Vector) MarshalYAML() (any, error) {
	return []float64{v.X, v.Y, v.Z}, nil
}

// Vec3 converts to math3d.
func (v Vector) Vec3() math3d.Vec3 { return math3d.Vec3(v) }

func vec(x, y, z float64) *Vector {
	return &Vector{X: x, Y: y, Z: z}
}

// RGB is a YAML [r, g, b] sequence with components in 0..255.
type RGB [3]uint8

// UnmarshalYAML implements yaml.Unmarshaler for RGB.
func (c *RGB) UnmarshalYAML(value *yaml.Node) error {
	var xs []int
	if err := value.Decode(&xs); err != nil {
		return err
	}
	if len(xs) != 3 {
		return fmt.Errorf("line %d: color needs 3 components, got %d", value.Line, len(xs))
	}
	for i, x := range xs {
		if x < 0 || x > 255 {
			return fmt.Errorf("line %d: color component %d outside 0..255", value.Line, x)
		}
		c[i] = uint8(x)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler for RGB.
func (c RGB) MarshalYAML() (any, error) {
	return []int{int(c[0]), int(c[1]), int(c[2])}, nil
}

// Color converts to an opaque render color.
func (c RGB) Color() render.Color { return render.RGB(c[0], c[1], c[2]) }

// Config is a scene file.
type Config struct {
	Width      int  `yaml:"width,omitempty"`
	Height     int  `yaml:"height,omitempty"`
	Depth      int  `yaml:"depth,omitempty"` // Depth buffer resolution
	Alpha      bool `yaml:"alpha,omitempty"` // RGBA color buffer instead of RGB
	Background RGB  `yaml:"background,omitempty"`

	Camera   CameraConfig    `yaml:"camera"`
	Light    *Vector         `yaml:"light,omitempty"`
	Viewport *ViewportConfig `yaml:"viewport,omitempty"`

	Model  ModelConfig   `yaml:"model,omitempty"`
	Solids []SolidConfig `yaml:"solids,omitempty"`

	Output    OutputConfig    `yaml:"output"`
	Turntable TurntableConfig `yaml:"turntable,omitempty"`
}

type CameraConfig struct {
	Eye    *Vector `yaml:"eye,omitempty"`
	Center *Vector `yaml:"center,omitempty"`
	Up     *Vector `yaml:"up,omitempty"`
}

// ViewportConfig is the screen rectangle the unit cube maps onto.
type ViewportConfig struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type ModelConfig struct {
	Path    string `yaml:"path,omitempty"`    // .obj, .gltf or .glb
	Texture string `yaml:"texture,omitempty"` // Overrides the discovered diffuse map

	Scale     float64 `yaml:"scale,omitempty"`
	RotateY   float64 `yaml:"rotateY,omitempty"` // Degrees
	Translate *Vector `yaml:"translate,omitempty"`
}

// Matrix returns translate * rotateY * scale.
func (m ModelConfig) Matrix() math3d.Mat4 {
	s := m.Scale
	if s == 0 {
		s = 1
	}
	t := math3d.Zero3()
	if m.Translate != nil {
		t = m.Translate.Vec3()
	}
	return math3d.Translate(t).
		Mul(math3d.RotateY(m.RotateY * math.Pi / 180)).
		Mul(math3d.Scale(math3d.V3(s, s, s)))
}

// SolidConfig is a flat-colored, possibly translucent shape drawn after the
// model. Kind selects which geometry fields are read.
type SolidConfig struct {
	Kind string `yaml:"kind"`

	// box
	Center *Vector `yaml:"center,omitempty"`
	Size   *Vector `yaml:"size,omitempty"`

	// quad: four corners in order
	Corners []Vector `yaml:"corners,omitempty"`

	// mesh
	Vertices []Vector `yaml:"vertices,omitempty"`
	Faces    [][]int  `yaml:"faces,omitempty"`

	Color        RGB      `yaml:"color"`
	Transparency *float64 `yaml:"transparency,omitempty"` // Opacity in [0, 1]
}

type OutputConfig struct {
	Color string `yaml:"color,omitempty"`
	Depth string `yaml:"depth,omitempty"`
	// NoDepth skips writing the depth image.
	NoDepth bool `yaml:"noDepth,omitempty"`
}

type TurntableConfig struct {
	Frames int     `yaml:"frames,omitempty"`
	Sweep  float64 `yaml:"sweep,omitempty"` // Degrees, default 360
}

// Default returns the reference scene settings without a model.
func Default() Config {
	var c Config
	c.normalize()
	return c
}

func (c *Config) normalize() {
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	if c.Depth == 0 {
		c.Depth = DefaultDepth
	}
	if c.Camera.Eye == nil {
		c.Camera.Eye = vec(1, 2, 3)
	}
	if c.Camera.Center == nil {
		c.Camera.Center = vec(0, 0, 0)
	}
	if c.Camera.Up == nil {
		c.Camera.Up = vec(0, 1, 0)
	}
	if c.Light == nil {
		c.Light = vec(1, 1, 1)
	}
	if c.Viewport == nil {
		c.Viewport = &ViewportConfig{
			X:      c.Width / 8,
			Y:      c.Height / 8,
			Width:  c.Width * 3 / 4,
			Height: c.Height * 3 / 4,
		}
	}
	if c.Model.Scale == 0 {
		c.Model.Scale = 1
	}
	for i := range c.Solids {
		if c.Solids[i].Transparency == nil {
			t := DefaultTransparency
			c.Solids[i].Transparency = &t
		}
	}
	if c.Output.Color == "" {
		c.Output.Color = DefaultOutput
	}
	if c.Output.Depth == "" {
		c.Output.Depth = DefaultDepthOutput
	}
	if c.Turntable.Frames == 0 {
		c.Turntable.Frames = 1
	}
	if c.Turntable.Sweep == 0 {
		c.Turntable.Sweep = 360
	}
}

// Validate reports the first problem that would stop the scene from
// rendering. It expects a normalized config.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.Depth <= 0 || c.Depth > 255 {
		return fmt.Errorf("%w: depth %d outside 1..255", ErrInvalidConfig, c.Depth)
	}
	if c.Model.Path == "" && len(c.Solids) == 0 {
		return fmt.Errorf("%w: nothing to draw, set model.path or solids", ErrInvalidConfig)
	}
	if c.Light.Vec3().Len() == 0 {
		return fmt.Errorf("%w: zero light direction", ErrInvalidConfig)
	}
	if _, err := render.NewCamera(c.Camera.Eye.Vec3(), c.Camera.Center.Vec3(), c.Camera.Up.Vec3()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("%w: viewport %dx%d", ErrInvalidConfig, c.Viewport.Width, c.Viewport.Height)
	}
	if c.Turntable.Frames < 1 {
		return fmt.Errorf("%w: turntable frames %d", ErrInvalidConfig, c.Turntable.Frames)
	}
	for i, s := range c.Solids {
		if _, err := s.Geometry(); err != nil {
			return fmt.Errorf("%w: solid %d: %w", ErrInvalidConfig, i, err)
		}
		if t := *s.Transparency; math.IsNaN(t) || t < 0 || t > 1 {
			return fmt.Errorf("%w: solid %d: transparency %v outside [0, 1]", ErrInvalidConfig, i, t)
		}
	}
	return nil
}

// Decode unmarshals a scene file without applying defaults, so callers can
// layer overrides before Finalize.
func Decode(data []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return c, nil
}

// Parse decodes, normalizes and validates a scene file.
func Parse(data []byte) (Config, error) {
	c, err := Decode(data)
	if err != nil {
		return Config{}, err
	}
	if err := c.Finalize(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ReadFile decodes the scene file at path without applying defaults.
// Relative model and texture paths are resolved against the file's
// directory; output paths stay relative to the working directory.
func ReadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read scene: %w", err)
	}
	c, err := Decode(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	c.Model.Path = resolve(dir, c.Model.Path)
	c.Model.Texture = resolve(dir, c.Model.Texture)
	return c, nil
}

// Load reads, normalizes and validates the scene file at path.
func Load(path string) (Config, error) {
	c, err := ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := c.Finalize(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Finalize fills defaults and validates a config assembled in code.
func (c *Config) Finalize() error {
	c.normalize()
	return c.Validate()
}
