package math3d

import "math"

// Mat4 is a 4x4 homogeneous matrix stored in row-major order and applied to
// column vectors, so a chain reads right to left:
//
//	viewport * projection * view * model * p
//
// Memory layout (indices):
// | 0  1  2  3  |
// | 4  5  6  7  |
// | 8  9  10 11 |
// | 12 13 14 15 |
type Mat4 [16]float64

func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate moves points by v. Directions are unaffected.
func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, v.X,
		0, 1, 0, v.Y,
		0, 0, 1, v.Z,
		0, 0, 0, 1,
	}
}

// Scale stretches each axis independently.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// RotateY turns about +Y by angle radians; +Z swings toward +X.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	}
}

func (m Mat4) Get(row, col int) float64 { return m[row*4+col] }

func (m *Mat4) Set(row, col int, val float64) { m[row*4+col] = val }

func (m Mat4) Row(i int) Vec4 { return Vec4{m[i*4], m[i*4+1], m[i*4+2], m[i*4+3]} }

// Col is row i of the transpose.
func (m Mat4) Col(j int) Vec4 { return Vec4{m[j], m[4+j], m[8+j], m[12+j]} }

// Mul composes m after n: (m * n) * p == m * (n * p).
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for i := range 4 {
		r := m.Row(i)
		for j := range 4 {
			out[i*4+j] = r.Dot(n.Col(j))
		}
	}
	return out
}

// MulVec4 applies m to a column vector. W is not normalized.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{m.Row(0).Dot(v), m.Row(1).Dot(v), m.Row(2).Dot(v), m.Row(3).Dot(v)}
}

// MulVec3 treats v as a point and returns the divided result.
func (m Mat4) MulVec3(v Vec3) Vec3 { return m.MulVec4(v.Embed(1)).PerspectiveDivide() }

// MulVec3Dir treats v as a direction, so translation has no effect.
func (m Mat4) MulVec3Dir(v Vec3) Vec3 { return m.MulVec4(v.Embed(0)).Project() }

func (m Mat4) Transpose() Mat4 {
	var t Mat4
	for j := range 4 {
		c := m.Col(j)
		t[j*4], t[j*4+1], t[j*4+2], t[j*4+3] = c.X, c.Y, c.Z, c.W
	}
	return t
}
