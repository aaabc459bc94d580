package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/tinyraster/pkg/math3d"
	"github.com/taigrr/tinyraster/pkg/models"
)

// Geometry builds the solid's vertex and face lists.
func (s SolidConfig) Geometry() (models.Solid, error) {
	var solid models.Solid
	switch s.Kind {
	case SolidBox:
		if s.Center == nil || s.Size == nil {
			return solid, errors.New("box needs center and size")
		}
		solid = models.Box(s.Center.Vec3(), s.Size.Vec3())
	case SolidQuad:
		if len(s.Corners) != 4 {
			return solid, fmt.Errorf("quad needs 4 corners, got %d", len(s.Corners))
		}
		c := s.Corners
		solid = models.Quad(c[0].Vec3(), c[1].Vec3(), c[2].Vec3(), c[3].Vec3())
	case SolidMesh:
		solid.Vertices = make([]math3d.Vec3, len(s.Vertices))
		for i, v := range s.Vertices {
			solid.Vertices[i] = v.Vec3()
		}
		solid.Faces = make([][3]int, len(s.Faces))
		for i, f := range s.Faces {
			if len(f) != 3 {
				return solid, fmt.Errorf("face %d has %d indices, want 3", i, len(f))
			}
			solid.Faces[i] = [3]int{f[0], f[1], f[2]}
		}
	default:
		return solid, fmt.Errorf("unknown solid kind %q", s.Kind)
	}

	if err := solid.Validate(); err != nil {
		return solid, err
	}
	return solid, nil
}
