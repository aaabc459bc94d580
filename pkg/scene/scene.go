package scene

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/taigrr/tinyraster/pkg/imagebuf"
	"github.com/taigrr/tinyraster/pkg/math3d"
	"github.com/taigrr/tinyraster/pkg/models"
	"github.com/taigrr/tinyraster/pkg/render"
)

// ProgressBar is a closable render.Progress. *progressbar.ProgressBar
// satisfies it.
type ProgressBar interface {
	render.Progress
	io.Closer
}

// Options configures a Scene beyond its file.
type Options struct {
	// Logger receives load and render events. Nil discards them.
	Logger *slog.Logger

	// Progress, if set, is called at the start of each pass with the number
	// of faces it will draw.
	Progress func(desc string, total int) ProgressBar
}

// solid is a SolidConfig resolved to geometry.
type solid struct {
	geo          models.Solid
	color        render.Color
	transparency float64
}

// Scene is a loaded, validated render job.
type Scene struct {
	cfg    Config
	mesh   *models.Mesh
	solids []solid
	opts   Options
	logger *slog.Logger
}

// New loads the model and resolves solids for a finalized config.
func New(cfg Config, opts Options) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Scene{cfg: cfg, opts: opts, logger: logger}

	if cfg.Model.Path != "" {
		mesh, err := LoadMesh(cfg.Model.Path)
		if err != nil {
			return nil, err
		}
		if cfg.Model.Texture != "" {
			tex, err := models.LoadTexture(cfg.Model.Texture)
			if err != nil {
				return nil, fmt.Errorf("load texture: %w", err)
			}
			mesh.Texture = tex
		}
		s.mesh = mesh
		logger.Info("mesh loaded",
			"path", cfg.Model.Path,
			"vertices", mesh.VertexCount(),
			"faces", mesh.FaceCount(),
			"textured", mesh.Texture != nil,
		)
	}

	for i, sc := range cfg.Solids {
		geo, err := sc.Geometry()
		if err != nil {
			return nil, fmt.Errorf("solid %d: %w", i, err)
		}
		s.solids = append(s.solids, solid{
			geo:          geo,
			color:        sc.Color.Color(),
			transparency: *sc.Transparency,
		})
	}

	return s, nil
}

// LoadMesh loads a model file, choosing the loader by extension.
func LoadMesh(path string) (*models.Mesh, error) {
	var (
		mesh *models.Mesh
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		mesh, err = models.LoadOBJ(path)
	case ".gltf", ".glb":
		mesh, err = models.LoadGLTF(path)
	default:
		return nil, fmt.Errorf("unsupported model format %q (use .obj, .gltf or .glb)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return mesh, nil
}

// Config returns the scene's settings.
func (s *Scene) Config() Config {
	return s.cfg
}

// Mesh returns the loaded model, or nil for solids-only scenes.
func (s *Scene) Mesh() *models.Mesh {
	return s.mesh
}

// RenderFrame draws the scene seen from eye: the model in the opaque pass,
// then every solid, in file order, in the transparency pass. The returned
// buffers are flipped so row 0 is the top of the picture.
func (s *Scene) RenderFrame(ctx context.Context, eye math3d.Vec3) (*render.FrameBuffer, render.Stats, error) {
	var total render.Stats
	cfg := s.cfg

	format := imagebuf.RGB
	if cfg.Alpha {
		format = imagebuf.RGBA
	}
	fb, err := render.NewFrameBuffer(cfg.Width, cfg.Height, format)
	if err != nil {
		return nil, total, err
	}
	fb.Clear(cfg.Background.Color())

	cam, err := render.NewCamera(eye, cfg.Camera.Center.Vec3(), cfg.Camera.Up.Vec3())
	if err != nil {
		return nil, total, err
	}
	vp := cfg.Viewport
	rctx := render.NewContext(cam, render.Viewport(vp.X, vp.Y, vp.Width, vp.Height, cfg.Depth), cfg.Light.Vec3())
	renderer := render.NewRenderer(fb)

	if s.mesh != nil {
		rctx.Model = cfg.Model.Matrix()
		shader, err := render.NewDiffuseShader(rctx, s.mesh)
		if err != nil {
			return nil, total, fmt.Errorf("model: %w", err)
		}
		stats, err := s.draw(ctx, renderer, shader, render.PassOpaque, "model")
		total = total.Add(stats)
		if err != nil {
			return nil, total, err
		}
	}

	// Solids are placed in world space.
	rctx.Model = math3d.Identity()
	for i, sd := range s.solids {
		shader, err := render.NewSolidShader(rctx, sd.geo.Vertices, sd.geo.Faces, sd.color, sd.transparency)
		if err != nil {
			return nil, total, fmt.Errorf("solid %d: %w", i, err)
		}
		stats, err := s.draw(ctx, renderer, shader, render.PassTransparent, fmt.Sprintf("solid %d", i))
		total = total.Add(stats)
		if err != nil {
			return nil, total, err
		}
	}

	fb.FlipVertically()
	return fb, total, nil
}

func (s *Scene) draw(ctx context.Context, r *render.Renderer, shader render.FaceShader, pass render.Pass, desc string) (render.Stats, error) {
	r.Progress = nil
	if s.opts.Progress != nil {
		bar := s.opts.Progress(desc, shader.Faces())
		defer bar.Close()
		r.Progress = bar
	}
	return r.Draw(ctx, shader, pass)
}

// Frame is one rendered and saved turntable frame.
type Frame struct {
	Index       int
	Eye         math3d.Vec3
	ColorPath   string
	DepthPath   string // Empty when depth output is disabled
	Stats       render.Stats
	FrameBuffer *render.FrameBuffer // Set on the last frame only
}

// Run renders every turntable frame and writes its buffers.
func (s *Scene) Run(ctx context.Context) ([]Frame, error) {
	cfg := s.cfg
	tt := NewTurntable(cfg.Turntable)
	eye0 := cfg.Camera.Eye.Vec3()
	center := cfg.Camera.Center.Vec3()

	frames := make([]Frame, 0, tt.Frames)
	for i, angle := range tt.Angles() {
		start := time.Now()
		eye := Eye(eye0, center, angle)

		fb, stats, err := s.RenderFrame(ctx, eye)
		if err != nil {
			return frames, fmt.Errorf("frame %d: %w", i, err)
		}

		f := Frame{
			Index:     i,
			Eye:       eye,
			ColorPath: FramePath(cfg.Output.Color, i, tt.Frames),
			Stats:     stats,
		}
		if !cfg.Output.NoDepth {
			f.DepthPath = FramePath(cfg.Output.Depth, i, tt.Frames)
		}
		if err := fb.WriteFiles(f.ColorPath, f.DepthPath); err != nil {
			return frames, fmt.Errorf("frame %d: %w", i, err)
		}
		if i == tt.Frames-1 {
			f.FrameBuffer = fb
		}

		s.logger.Info("frame written",
			"frame", i,
			"color", f.ColorPath,
			"depth", f.DepthPath,
			"triangles", stats.Triangles,
			"written", stats.Written,
			"blended", stats.Blended,
			"elapsed", time.Since(start),
		)
		frames = append(frames, f)
	}
	return frames, nil
}
