package models

import (
	"fmt"

	"github.com/taigrr/tinyraster/pkg/math3d"
)

// Solid is explicit geometry that does not come from a mesh file: a vertex
// list plus index triples into it.
type Solid struct {
	Vertices []math3d.Vec3
	Faces    [][3]int
}

// Validate checks that the solid has geometry and every index is in range.
func (s Solid) Validate() error {
	if len(s.Vertices) == 0 || len(s.Faces) == 0 {
		return fmt.Errorf("solid has %d vertices and %d faces", len(s.Vertices), len(s.Faces))
	}
	for i, f := range s.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(s.Vertices) {
				return fmt.Errorf("face %d: vertex index %d out of range [0,%d)", i, idx, len(s.Vertices))
			}
		}
	}
	return nil
}

// Box returns an axis-aligned box centered at center.
func Box(center, size math3d.Vec3) Solid {
	h := size.Scale(0.5)
	lo, hi := center.Sub(h), center.Add(h)

	return Solid{
		Vertices: []math3d.Vec3{
			{X: lo.X, Y: lo.Y, Z: lo.Z}, // 0: left-bottom-back
			{X: hi.X, Y: lo.Y, Z: lo.Z}, // 1: right-bottom-back
			{X: hi.X, Y: hi.Y, Z: lo.Z}, // 2: right-top-back
			{X: lo.X, Y: hi.Y, Z: lo.Z}, // 3: left-top-back
			{X: lo.X, Y: lo.Y, Z: hi.Z}, // 4: left-bottom-front
			{X: hi.X, Y: lo.Y, Z: hi.Z}, // 5: right-bottom-front
			{X: hi.X, Y: hi.Y, Z: hi.Z}, // 6: right-top-front
			{X: lo.X, Y: hi.Y, Z: hi.Z}, // 7: left-top-front
		},
		Faces: quads(
			[4]int{0, 1, 2, 3}, // Back
			[4]int{5, 4, 7, 6}, // Front
			[4]int{4, 0, 3, 7}, // Left
			[4]int{1, 5, 6, 2}, // Right
			[4]int{3, 2, 6, 7}, // Top
			[4]int{4, 5, 1, 0}, // Bottom
		),
	}
}

// Quad returns the planar quad a-b-c-d as two triangles.
func Quad(a, b, c, d math3d.Vec3) Solid {
	return Solid{
		Vertices: []math3d.Vec3{a, b, c, d},
		Faces:    quads([4]int{0, 1, 2, 3}),
	}
}

func quads(qs ...[4]int) [][3]int {
	faces := make([][3]int, 0, 2*len(qs))
	for _, q := range qs {
		faces = append(faces, [3]int{q[0], q[1], q[2]}, [3]int{q[0], q[2], q[3]})
	}
	return faces
}
