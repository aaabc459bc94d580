// Package models loads triangle meshes and diffuse textures for tinyraster,
// and builds the procedural solids drawn in the transparency pass.
package models

import (
	"image/color"

	"github.com/taigrr/tinyraster/pkg/math3d"
)

// Mesh is an indexed triangle list. Loaders deduplicate corners, so several
// faces may share one Vertex.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Faces    []Face

	// Texture is sampled by Diffuse. Without one every face is BaseColor.
	Texture   *Texture
	BaseColor color.RGBA

	// Axis-aligned bounds, refreshed by UpdateBounds.
	BoundsMin, BoundsMax math3d.Vec3
}

type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Face indexes three entries of Mesh.Vertices, counter-clockwise.
type Face [3]int

func NewMesh(name string) *Mesh {
	return &Mesh{Name: name, BaseColor: color.RGBA{255, 255, 255, 255}}
}

// UpdateBounds recomputes BoundsMin and BoundsMax. An empty mesh keeps its
// current bounds.
func (m *Mesh) UpdateBounds() {
	for i, v := range m.Vertices {
		if i == 0 {
			m.BoundsMin, m.BoundsMax = v.Position, v.Position
			continue
		}
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

func (m *Mesh) VertexCount() int { return len(m.Vertices) }
func (m *Mesh) FaceCount() int   { return len(m.Faces) }

// HasNormals is false when every vertex normal is (near) zero, which is how
// loaders leave files that carry no normals.
func (m *Mesh) HasNormals() bool {
	const eps = 1e-3
	for _, v := range m.Vertices {
		if v.Normal.Len() > eps {
			return true
		}
	}
	return false
}

// SmoothNormals replaces every vertex normal with the sum of the unnormalized
// normals of the faces around it, so larger faces weigh more.
func (m *Mesh) SmoothNormals() {
	acc := make([]math3d.Vec3, len(m.Vertices))
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]].Position, m.Vertices[f[1]].Position, m.Vertices[f[2]].Position
		n := b.Sub(a).Cross(c.Sub(a))
		for _, i := range f {
			acc[i] = acc[i].Add(n)
		}
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = acc[i].Normalize()
	}
}

// finish is the common tail of every loader.
func (m *Mesh) finish(smooth bool) {
	if smooth && !m.HasNormals() {
		m.SmoothNormals()
	}
	m.UpdateBounds()
}

func (m *Mesh) corner(face, nth int) *Vertex {
	return &m.Vertices[m.Faces[face][nth]]
}

func (m *Mesh) Position(face, nth int) math3d.Vec3 { return m.corner(face, nth).Position }
func (m *Mesh) Normal(face, nth int) math3d.Vec3   { return m.corner(face, nth).Normal }
func (m *Mesh) UV(face, nth int) math3d.Vec2       { return m.corner(face, nth).UV }

// Diffuse returns the surface color at uv.
func (m *Mesh) Diffuse(uv math3d.Vec2) color.RGBA {
	if m.Texture != nil {
		return m.Texture.Sample(uv)
	}
	return m.BaseColor
}
