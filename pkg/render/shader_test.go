package render

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/tinyraster/pkg/math3d"
)

// mockMesh is a single-material triangle list.
type mockMesh struct {
	positions [][3]math3d.Vec3
	normals   [][3]math3d.Vec3
	uvs       [][3]math3d.Vec2
	diffuse   func(uv math3d.Vec2) Color
}

func (m *mockMesh) FaceCount() int                     { return len(m.positions) }
func (m *mockMesh) Position(face, nth int) math3d.Vec3 { return m.positions[face][nth] }
func (m *mockMesh) Normal(face, nth int) math3d.Vec3   { return m.normals[face][nth] }
func (m *mockMesh) UV(face, nth int) math3d.Vec2       { return m.uvs[face][nth] }
func (m *mockMesh) Diffuse(uv math3d.Vec2) Color       { return m.diffuse(uv) }

func identityContext(light math3d.Vec3) Context {
	return Context{
		Model:      math3d.Identity(),
		View:       math3d.Identity(),
		Projection: math3d.Identity(),
		Viewport:   math3d.Identity(),
		LightDir:   light.Normalize(),
	}
}

func flatMesh(normal math3d.Vec3) *mockMesh {
	return &mockMesh{
		positions: [][3]math3d.Vec3{{
			math3d.V3(1, 1, 0), math3d.V3(9, 1, 0), math3d.V3(1, 9, 0),
		}},
		normals: [][3]math3d.Vec3{{normal, normal, normal}},
		uvs: [][3]math3d.Vec2{{
			math3d.V2(0, 0), math3d.V2(1, 0), math3d.V2(0, 1),
		}},
		diffuse: func(math3d.Vec2) Color { return ColorWhite },
	}
}

func TestDiffuseShader(t *testing.T) {
	tests := []struct {
		name   string
		normal math3d.Vec3
		want   Color
	}{
		{"facing light", math3d.V3(0, 0, 1), ColorWhite},
		{"facing away", math3d.V3(0, 0, -1), ColorBlack},
		{"oblique", math3d.V3(0, math.Sqrt(3)/2, 0.5), RGB(127, 127, 127)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := NewDiffuseShader(identityContext(math3d.V3(0, 0, 1)), flatMesh(tc.normal))
			if err != nil {
				t.Fatalf("NewDiffuseShader: %v", err)
			}
			for nth := range 3 {
				s.Vertex(0, nth)
			}
			got, discard := s.Fragment(math3d.V3(0.5, 0.25, 0.25))
			if discard {
				t.Fatal("diffuse shader discarded a fragment")
			}
			if got != tc.want {
				t.Errorf("Fragment = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDiffuseShaderVertex(t *testing.T) {
	s, err := NewDiffuseShader(identityContext(math3d.V3(0, 0, 1)), flatMesh(math3d.V3(0, 0, 1)))
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Vertex(0, 1); got != math3d.V4(9, 1, 0, 1) {
		t.Errorf("Vertex(0, 1) = %v, want (9, 1, 0, 1)", got)
	}
	if s.Faces() != 1 {
		t.Errorf("Faces = %d, want 1", s.Faces())
	}
}

func TestDiffuseShaderInterpolatesUV(t *testing.T) {
	mesh := flatMesh(math3d.V3(0, 0, 1))
	var sampled math3d.Vec2
	mesh.diffuse = func(uv math3d.Vec2) Color {
		sampled = uv
		return ColorWhite
	}

	s, err := NewDiffuseShader(identityContext(math3d.V3(0, 0, 1)), mesh)
	if err != nil {
		t.Fatal(err)
	}
	for nth := range 3 {
		s.Vertex(0, nth)
	}
	s.Fragment(math3d.V3(0.5, 0.25, 0.25))

	if !near(sampled.X, 0.25) || !near(sampled.Y, 0.25) {
		t.Errorf("sampled uv = %v, want (0.25, 0.25)", sampled)
	}
}

func TestDiffuseShaderIntensityGradient(t *testing.T) {
	mesh := flatMesh(math3d.V3(0, 0, 1))
	mesh.normals[0][1] = math3d.V3(0, 0, -1)

	s, err := NewDiffuseShader(identityContext(math3d.V3(0, 0, 1)), mesh)
	if err != nil {
		t.Fatal(err)
	}
	for nth := range 3 {
		s.Vertex(0, nth)
	}

	lit, _ := s.Fragment(math3d.V3(1, 0, 0))
	dark, _ := s.Fragment(math3d.V3(0, 1, 0))
	mid, _ := s.Fragment(math3d.V3(0.5, 0.5, 0))
	if lit != ColorWhite || dark != ColorBlack || mid != RGB(127, 127, 127) {
		t.Errorf("gradient = %v, %v, %v", lit, mid, dark)
	}
}

func TestNewDiffuseShaderErrors(t *testing.T) {
	ctx := identityContext(math3d.V3(0, 0, 1))
	if _, err := NewDiffuseShader(ctx, nil); !errors.Is(err, ErrNilMesh) {
		t.Errorf("nil mesh error = %v, want ErrNilMesh", err)
	}
	if _, err := NewDiffuseShader(ctx, &mockMesh{}); !errors.Is(err, ErrEmptyGeometry) {
		t.Errorf("empty mesh error = %v, want ErrEmptyGeometry", err)
	}
}

func TestSolidShader(t *testing.T) {
	verts := []math3d.Vec3{math3d.V3(0, 0, 0), math3d.V3(4, 0, 0), math3d.V3(0, 4, 0)}
	faces := [][3]int{{0, 1, 2}}

	tests := []struct {
		name         string
		transparency float64
		wantAlpha    uint8
	}{
		{"opaque", 1, 255},
		{"half", 0.5, 127},
		{"invisible", 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := NewSolidShader(identityContext(math3d.V3(0, 0, 1)), verts, faces, RGB(10, 20, 30), tc.transparency)
			if err != nil {
				t.Fatalf("NewSolidShader: %v", err)
			}
			got, discard := s.Fragment(math3d.V3(1, 0, 0))
			if discard {
				t.Fatal("solid shader discarded a fragment")
			}
			if got != RGBA(10, 20, 30, tc.wantAlpha) {
				t.Errorf("Fragment = %v, want alpha %d", got, tc.wantAlpha)
			}
			if v := s.Vertex(0, 1); v != math3d.V4(4, 0, 0, 1) {
				t.Errorf("Vertex(0, 1) = %v", v)
			}
		})
	}
}

func TestNewSolidShaderErrors(t *testing.T) {
	ctx := identityContext(math3d.V3(0, 0, 1))
	verts := []math3d.Vec3{math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)}

	tests := []struct {
		name         string
		verts        []math3d.Vec3
		faces        [][3]int
		transparency float64
		want         error
	}{
		{"no vertices", nil, [][3]int{{0, 1, 2}}, 1, ErrEmptyGeometry},
		{"no faces", verts, nil, 1, ErrEmptyGeometry},
		{"index too large", verts, [][3]int{{0, 1, 3}}, 1, ErrFaceIndex},
		{"negative index", verts, [][3]int{{-1, 1, 2}}, 1, ErrFaceIndex},
		{"transparency below zero", verts, [][3]int{{0, 1, 2}}, -0.1, ErrTransparency},
		{"transparency above one", verts, [][3]int{{0, 1, 2}}, 1.5, ErrTransparency},
		{"transparency nan", verts, [][3]int{{0, 1, 2}}, math.NaN(), ErrTransparency},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSolidShader(ctx, tc.verts, tc.faces, ColorRed, tc.transparency)
			if !errors.Is(err, tc.want) {
				t.Errorf("error = %v, want %v", err, tc.want)
			}
		})
	}
}
