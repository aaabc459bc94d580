package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/tinyraster/pkg/math3d"
)

// Shader contract violations reported at construction time.
var (
	ErrNilMesh       = errors.New("shader has no mesh")
	ErrEmptyGeometry = errors.New("shader has no geometry")
	ErrFaceIndex     = errors.New("face index out of range")
	ErrTransparency  = errors.New("transparency outside [0, 1]")
)

// Shader is the programmable part of the pipeline.
//
// Vertex returns the homogeneous screen-space position of corner nth
// (0..2) of a face and may record per-vertex varyings. Fragment receives the
// barycentric weights of a covered pixel and returns its color, or
// discard=true to leave the pixel untouched.
type Shader interface {
	Vertex(face, nth int) math3d.Vec4
	Fragment(bar math3d.Vec3) (c Color, discard bool)
}

// Mesh is the geometry source the diffuse shader reads.
// This interface keeps the render package free of model loaders.
type Mesh interface {
	FaceCount() int
	Position(face, nth int) math3d.Vec3
	Normal(face, nth int) math3d.Vec3
	UV(face, nth int) math3d.Vec2
	Diffuse(uv math3d.Vec2) Color
}

// DiffuseShader shades a textured mesh with per-vertex diffuse lighting
// interpolated across the triangle (Gouraud).
type DiffuseShader struct {
	ctx  Context
	mesh Mesh

	varyingIntensity math3d.Vec3 // One light intensity per corner
	varyingUV        [3]math3d.Vec2
}

// NewDiffuseShader creates a diffuse shader over mesh.
func NewDiffuseShader(ctx Context, mesh Mesh) (*DiffuseShader, error) {
	if mesh == nil {
		return nil, ErrNilMesh
	}
	if mesh.FaceCount() == 0 {
		return nil, fmt.Errorf("%w: mesh has no faces", ErrEmptyGeometry)
	}
	return &DiffuseShader{ctx: ctx, mesh: mesh}, nil
}

// Faces returns the number of faces the shader can emit.
func (s *DiffuseShader) Faces() int {
	return s.mesh.FaceCount()
}

// Vertex records the corner's UV and clamped N·L intensity, then transforms
// its position.
func (s *DiffuseShader) Vertex(face, nth int) math3d.Vec4 {
	s.varyingUV[nth] = s.mesh.UV(face, nth)
	intensity := math.Max(0, s.mesh.Normal(face, nth).Dot(s.ctx.LightDir))
	switch nth {
	case 0:
		s.varyingIntensity.X = intensity
	case 1:
		s.varyingIntensity.Y = intensity
	default:
		s.varyingIntensity.Z = intensity
	}
	return s.ctx.Transform(s.mesh.Position(face, nth))
}

// Fragment samples the diffuse map at the interpolated UV and scales it by
// the interpolated intensity. It never discards.
func (s *DiffuseShader) Fragment(bar math3d.Vec3) (Color, bool) {
	intensity := s.varyingIntensity.Dot(bar)
	uv := math3d.Weighted(s.varyingUV[0], s.varyingUV[1], s.varyingUV[2], bar)
	return MultiplyColor(s.mesh.Diffuse(uv), intensity), false
}

// SolidShader draws explicit geometry in one flat color with a fixed
// transparency.
type SolidShader struct {
	ctx      Context
	vertices []math3d.Vec3
	faces    [][3]int
	color    Color
}

// NewSolidShader creates a flat shader. transparency is the opacity
// fraction in [0, 1]; the fragment alpha is transparency*255.
func NewSolidShader(ctx Context, vertices []math3d.Vec3, faces [][3]int, rgb Color, transparency float64) (*SolidShader, error) {
	if len(vertices) == 0 || len(faces) == 0 {
		return nil, fmt.Errorf("%w: %d vertices, %d faces", ErrEmptyGeometry, len(vertices), len(faces))
	}
	for i, f := range faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("%w: face %d references vertex %d of %d", ErrFaceIndex, i, idx, len(vertices))
			}
		}
	}
	if math.IsNaN(transparency) || transparency < 0 || transparency > 1 {
		return nil, fmt.Errorf("%w: %v", ErrTransparency, transparency)
	}

	rgb.A = uint8(transparency * 255)
	return &SolidShader{
		ctx:      ctx,
		vertices: vertices,
		faces:    faces,
		color:    rgb,
	}, nil
}

// Faces returns the number of faces the shader can emit.
func (s *SolidShader) Faces() int {
	return len(s.faces)
}

// Vertex transforms the referenced vertex.
func (s *SolidShader) Vertex(face, nth int) math3d.Vec4 {
	return s.ctx.Transform(s.vertices[s.faces[face][nth]])
}

// Fragment returns the constant color. It never discards.
func (s *SolidShader) Fragment(math3d.Vec3) (Color, bool) {
	return s.color, false
}
