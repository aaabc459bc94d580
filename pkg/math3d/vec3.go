// Package math3d provides the fixed-size vector and homogeneous matrix
// primitives used by the tinyraster pipeline.
package math3d

import "math"

// Vec3 is a point, direction or barycentric triple.
type Vec3 struct {
	X, Y, Z float64
}

func V3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func Zero3() Vec3 { return Vec3{} }

// Up is the default camera up direction, +Y.
func Up() Vec3 { return Vec3{Y: 1} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Min(o Vec3) Vec3 { return v.zip(o, math.Min) }
func (v Vec3) Max(o Vec3) Vec3 { return v.zip(o, math.Max) }

func (v Vec3) Scale(k float64) Vec3 { return Vec3{k * v.X, k * v.Y, k * v.Z} }

// zip combines v and o component by component.
func (v Vec3) zip(o Vec3, f func(p, q float64) float64) Vec3 {
	return Vec3{f(v.X, o.X), f(v.Y, o.Y), f(v.Z, o.Z)}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross follows the right-hand rule: X.Cross(Y) is Z.
func (v Vec3) Cross(o Vec3) Vec3 {
	x := v.Y*o.Z - v.Z*o.Y
	y := v.Z*o.X - v.X*o.Z
	z := v.X*o.Y - v.Y*o.X
	return Vec3{x, y, z}
}

func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize scales v to unit length. A zero-length v stays zero.
func (v Vec3) Normalize() Vec3 {
	if n := v.Len(); n > 0 {
		return v.Scale(1 / n)
	}
	return Vec3{}
}

// Index addresses the components as 0, 1, 2. Anything past 1 reads Z.
func (v Vec3) Index(i int) float64 {
	c := [3]float64{v.X, v.Y, v.Z}
	return c[min(max(i, 0), 2)]
}

// Embed lifts v into homogeneous space: w=1 for points, w=0 for directions.
func (v Vec3) Embed(w float64) Vec4 { return Vec4{v.X, v.Y, v.Z, w} }

func (v Vec3) XY() Vec2 { return Vec2{v.X, v.Y} }
