package models

import (
	"image/color"
	"math"
	"testing"

	"github.com/taigrr/tinyraster/pkg/imagebuf"
	"github.com/taigrr/tinyraster/pkg/math3d"
)

func triangleMesh() *Mesh {
	m := NewMesh("tri")
	m.Vertices = []Vertex{
		{Position: math3d.V3(0, 0, 0), UV: math3d.V2(0, 0)},
		{Position: math3d.V3(1, 0, 0), UV: math3d.V2(1, 0)},
		{Position: math3d.V3(0, 1, 0), UV: math3d.V2(0, 1)},
	}
	m.Faces = []Face{{0, 1, 2}}
	return m
}

func TestMeshFaceQueries(t *testing.T) {
	m := triangleMesh()

	if m.FaceCount() != 1 {
		t.Fatalf("FaceCount = %d, want 1", m.FaceCount())
	}
	if got := m.Position(0, 1); got != math3d.V3(1, 0, 0) {
		t.Errorf("Position(0, 1) = %v", got)
	}
	if got := m.UV(0, 2); got != math3d.V2(0, 1) {
		t.Errorf("UV(0, 2) = %v", got)
	}
}

func TestSmoothNormals(t *testing.T) {
	m := triangleMesh()
	if m.HasNormals() {
		t.Fatal("fresh mesh should have no normals")
	}
	m.SmoothNormals()

	for i := range 3 {
		n := m.Normal(0, i)
		if math.Abs(n.Z-1) > 1e-9 {
			t.Errorf("normal %d = %v, want +Z", i, n)
		}
	}
	if !m.HasNormals() {
		t.Error("HasNormals should be true after calculation")
	}
}

func TestUpdateBounds(t *testing.T) {
	m := triangleMesh()
	m.UpdateBounds()

	if m.BoundsMin != math3d.V3(0, 0, 0) || m.BoundsMax != math3d.V3(1, 1, 0) {
		t.Errorf("bounds = %v..%v", m.BoundsMin, m.BoundsMax)
	}
	m.Vertices[0].Position = math3d.V3(-2, 0, 3)
	m.UpdateBounds()
	if m.BoundsMin != math3d.V3(-2, 0, 0) || m.BoundsMax != math3d.V3(1, 1, 3) {
		t.Errorf("bounds after move = %v..%v", m.BoundsMin, m.BoundsMax)
	}
}

func TestDiffuseWithoutTexture(t *testing.T) {
	m := triangleMesh()
	m.BaseColor = color.RGBA{1, 2, 3, 255}
	if got := m.Diffuse(math3d.V2(0.3, 0.3)); got != m.BaseColor {
		t.Errorf("Diffuse = %v, want base color", got)
	}
}

func TestDiffuseWithTexture(t *testing.T) {
	img, _ := imagebuf.New(2, 2, imagebuf.RGB)
	img.Set(0, 1, color.RGBA{255, 0, 0, 255}) // bottom-left in picture space
	m := triangleMesh()
	m.Texture = NewTexture(img)

	if got := m.Diffuse(math3d.V2(0.1, 0.1)); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("Diffuse = %v, want red", got)
	}
}
