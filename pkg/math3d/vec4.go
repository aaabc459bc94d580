package math3d

// Vec4 is a homogeneous point as produced by the vertex stage. W carries the
// perspective weight the rasterizer divides by.
type Vec4 struct {
	X, Y, Z, W float64
}

func V4(x, y, z, w float64) Vec4 { return Vec4{x, y, z, w} }

// Project drops W without dividing.
func (v Vec4) Project() Vec3 { return Vec3{v.X, v.Y, v.Z} }

func (v Vec4) XY() Vec2 { return Vec2{v.X, v.Y} }

// PerspectiveDivide maps v back to 3D. Points at infinity (W == 0) keep
// their raw coordinates.
func (v Vec4) PerspectiveDivide() Vec3 {
	if v.W == 0 {
		return v.Project()
	}
	return v.Project().Scale(1 / v.W)
}

func (v Vec4) Dot(o Vec4) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z + v.W*o.W
}
