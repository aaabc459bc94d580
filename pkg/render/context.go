package render

import "github.com/taigrr/tinyraster/pkg/math3d"

// Context is the transform and lighting state a shader reads during a pass.
// It is built once per render and never changed by the rasterizer.
type Context struct {
	Model      math3d.Mat4
	View       math3d.Mat4
	Projection math3d.Mat4
	Viewport   math3d.Mat4
	LightDir   math3d.Vec3 // Unit vector towards the light
}

// NewContext builds a context from a camera and a viewport matrix with an
// identity model matrix. lightDir is normalized.
func NewContext(cam *Camera, viewport math3d.Mat4, lightDir math3d.Vec3) Context {
	return Context{
		Model:      math3d.Identity(),
		View:       cam.View(),
		Projection: cam.Projection(),
		Viewport:   viewport,
		LightDir:   lightDir.Normalize(),
	}
}

// Transform carries a model-space point through model, view, projection and
// viewport, in that order, and returns the homogeneous screen position.
func (c Context) Transform(p math3d.Vec3) math3d.Vec4 {
	v := p.Embed(1)
	v = c.Model.MulVec4(v)
	v = c.View.MulVec4(v)
	v = c.Projection.MulVec4(v)
	return c.Viewport.MulVec4(v)
}
