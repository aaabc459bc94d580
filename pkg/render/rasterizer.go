package render

import (
	"math"

	"github.com/taigrr/tinyraster/pkg/math3d"
)

const (
	// degenerateArea is the smallest |cross.z| treated as a real triangle.
	degenerateArea = 1e-2

	// minW is the smallest |w| the rasterizer divides by.
	minW = 1e-9

	// maxDepth is the largest value the depth buffer holds.
	maxDepth = 255

	// alphaFloor is the alpha at or below which translucent fragments are dropped.
	alphaFloor = 0.1
)

// Stats counts rasterizer work for debugging and logging.
type Stats struct {
	Triangles int // Triangles submitted
	Skipped   int // Triangles dropped before scanning (|w| near zero, non-finite)
	Fragments int // Covered pixels handed to the shader
	Written   int // Depth-tested writes
	Blended   int // Translucent composites
}

// Add returns the field-wise sum.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Triangles: s.Triangles + o.Triangles,
		Skipped:   s.Skipped + o.Skipped,
		Fragments: s.Fragments + o.Fragments,
		Written:   s.Written + o.Written,
		Blended:   s.Blended + o.Blended,
	}
}

// Rasterizer fills triangles into a FrameBuffer.
type Rasterizer struct {
	fb    *FrameBuffer
	Stats Stats
}

// NewRasterizer creates a rasterizer drawing into fb.
func NewRasterizer(fb *FrameBuffer) *Rasterizer {
	return &Rasterizer{fb: fb}
}

// ResetStats zeroes the counters.
func (r *Rasterizer) ResetStats() {
	r.Stats = Stats{}
}

// Barycentric returns the weights of p with respect to triangle abc. For a
// triangle whose doubled area is at most 1e-2 it returns (-1, 1, 1), which
// every inside test rejects.
func Barycentric(a, b, c, p math3d.Vec2) math3d.Vec3 {
	sx := math3d.V3(c.X-a.X, b.X-a.X, a.X-p.X)
	sy := math3d.V3(c.Y-a.Y, b.Y-a.Y, a.Y-p.Y)
	u := sx.Cross(sy)
	if math.Abs(u.Z) > degenerateArea {
		return math3d.V3(1-(u.X+u.Y)/u.Z, u.Y/u.Z, u.X/u.Z)
	}
	return math3d.V3(-1, 1, 1)
}

// fragment is a covered pixel with its weights and quantized depth.
type fragment struct {
	x, y  int
	bar   math3d.Vec3
	depth int
}

// scan visits every pixel of the triangle's screen bounding box, clamped to
// the buffer, whose barycentric weights are all non-negative.
func (r *Rasterizer) scan(pts [3]math3d.Vec4, visit func(f fragment)) {
	r.Stats.Triangles++

	var screen [3]math3d.Vec2
	for i, p := range pts {
		if math.Abs(p.W) < minW {
			r.Stats.Skipped++
			return
		}
		screen[i] = math3d.V2(p.X/p.W, p.Y/p.W)
		if !finite(screen[i].X) || !finite(screen[i].Y) {
			r.Stats.Skipped++
			return
		}
	}

	minX := math.Max(0, min(screen[0].X, screen[1].X, screen[2].X))
	minY := math.Max(0, min(screen[0].Y, screen[1].Y, screen[2].Y))
	maxX := math.Min(float64(r.fb.Width()-1), max(screen[0].X, screen[1].X, screen[2].X))
	maxY := math.Min(float64(r.fb.Height()-1), max(screen[0].Y, screen[1].Y, screen[2].Y))
	if minX > maxX || minY > maxY {
		return
	}

	for x := int(minX); x <= int(maxX); x++ {
		for y := int(minY); y <= int(maxY); y++ {
			bar := Barycentric(screen[0], screen[1], screen[2], math3d.V2(float64(x), float64(y)))
			if bar.X < 0 || bar.Y < 0 || bar.Z < 0 {
				continue
			}

			// z and w are interpolated linearly in screen space.
			z := pts[0].Z*bar.X + pts[1].Z*bar.Y + pts[2].Z*bar.Z
			w := pts[0].W*bar.X + pts[1].W*bar.Y + pts[2].W*bar.Z
			if math.Abs(w) < minW {
				continue
			}

			visit(fragment{x: x, y: y, bar: bar, depth: quantizeDepth(z / w)})
		}
	}
}

func quantizeDepth(d float64) int {
	if math.IsNaN(d) {
		return 0
	}
	return int(math.Max(0, math.Min(maxDepth, d+0.5)))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// DrawTriangle rasterizes an opaque triangle. pts are homogeneous
// post-viewport positions. A covered pixel is shaded unless the stored depth
// is greater than the fragment's, so the larger depth wins and ties go to
// the later triangle.
func (r *Rasterizer) DrawTriangle(pts [3]math3d.Vec4, shader Shader) {
	r.scan(pts, func(f fragment) {
		if int(r.fb.Depth.Gray(f.x, f.y)) > f.depth {
			return
		}
		r.Stats.Fragments++
		c, discard := shader.Fragment(f.bar)
		if discard {
			return
		}
		r.fb.Depth.SetGray(f.x, f.y, uint8(f.depth))
		r.fb.Color.Set(f.x, f.y, c)
		r.Stats.Written++
	})
}

// DrawTriangleBlended rasterizes a triangle that may be translucent.
//
// Fully opaque fragments (alpha 255) are written only when the stored depth
// is strictly less than theirs. Other fragments with alpha above 10% are
// composited over the current color without any depth test or depth write,
// in submission order.
func (r *Rasterizer) DrawTriangleBlended(pts [3]math3d.Vec4, shader Shader) {
	r.scan(pts, func(f fragment) {
		r.Stats.Fragments++
		c, discard := shader.Fragment(f.bar)
		if discard {
			return
		}

		if c.A == 255 {
			if int(r.fb.Depth.Gray(f.x, f.y)) < f.depth {
				r.fb.Depth.SetGray(f.x, f.y, uint8(f.depth))
				r.fb.Color.Set(f.x, f.y, c)
				r.Stats.Written++
			}
			return
		}

		alpha := float64(c.A) / 255
		if alpha <= alphaFloor {
			return
		}
		r.fb.Color.Set(f.x, f.y, Blend(r.fb.Color.Get(f.x, f.y), c, alpha))
		r.Stats.Blended++
	})
}
