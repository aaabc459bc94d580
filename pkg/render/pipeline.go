package render

import (
	"context"
	"fmt"
	"time"

	"github.com/taigrr/tinyraster/pkg/math3d"
)

// Pass selects how the rasterizer treats fragments.
type Pass int

const (
	// PassOpaque depth-tests every fragment and ignores alpha.
	PassOpaque Pass = iota
	// PassTransparent composites translucent fragments over the color buffer.
	PassTransparent
)

func (p Pass) String() string {
	switch p {
	case PassOpaque:
		return "opaque"
	case PassTransparent:
		return "transparent"
	default:
		return fmt.Sprintf("Pass(%d)", int(p))
	}
}

// FaceShader is a Shader that knows how many faces it can emit.
type FaceShader interface {
	Shader
	Faces() int
}

// Progress receives the number of faces drawn since the last call.
// *progressbar.ProgressBar satisfies it.
type Progress interface {
	Add(n int) error
}

// progressStep is the number of faces between Progress updates and
// cancellation checks.
const progressStep = 256

// Renderer runs shader passes over a FrameBuffer.
type Renderer struct {
	fb   *FrameBuffer
	rast *Rasterizer

	// Progress, if set, is advanced as faces are drawn.
	Progress Progress
}

// NewRenderer creates a renderer drawing into fb.
func NewRenderer(fb *FrameBuffer) *Renderer {
	return &Renderer{fb: fb, rast: NewRasterizer(fb)}
}

// FrameBuffer returns the target buffer.
func (r *Renderer) FrameBuffer() *FrameBuffer {
	return r.fb
}

// Draw runs the vertex stage for every face of shader, in face order, and
// rasterizes the result with the given pass. It returns the pass statistics
// and ctx.Err() if the context is cancelled between faces.
func (r *Renderer) Draw(ctx context.Context, shader FaceShader, pass Pass) (Stats, error) {
	r.rast.ResetStats()
	start := time.Now()

	draw := r.rast.DrawTriangle
	if pass == PassTransparent {
		draw = r.rast.DrawTriangleBlended
	}

	n := shader.Faces()
	pending := 0
	for face := range n {
		if face%progressStep == 0 {
			if err := ctx.Err(); err != nil {
				return r.rast.Stats, err
			}
		}

		var pts [3]math3d.Vec4
		for nth := range 3 {
			pts[nth] = shader.Vertex(face, nth)
		}
		draw(pts, shader)

		pending++
		if r.Progress != nil && pending == progressStep {
			_ = r.Progress.Add(pending)
			pending = 0
		}
	}
	if r.Progress != nil && pending > 0 {
		_ = r.Progress.Add(pending)
	}

	s := r.rast.Stats
	Logger().Debug("render pass done",
		"pass", pass,
		"faces", n,
		"skipped", s.Skipped,
		"fragments", s.Fragments,
		"written", s.Written,
		"blended", s.Blended,
		"elapsed", time.Since(start),
	)
	return s, nil
}
