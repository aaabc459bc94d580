package models

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/tinyraster/pkg/math3d"
)

func TestLoadGLTFInvalidPath(t *testing.T) {
	_, err := LoadGLTF("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if loader == nil {
		t.Fatal("NewGLTFLoader returned nil")
	}
	if !loader.CalculateNormals {
		t.Error("CalculateNormals should default to true")
	}
	if !loader.LoadTexture {
		t.Error("LoadTexture should default to true")
	}
}

// writeTriangleGLTF writes a .gltf file with one indexed triangle and an
// embedded base64 buffer.
func writeTriangleGLTF(t *testing.T) string {
	t.Helper()

	var buf bytes.Buffer
	for _, f := range []float32{0, 0, 0, 1, 0, 0, 0, 1, 0} {
		binary.Write(&buf, binary.LittleEndian, f)
	}
	for _, i := range []uint16{0, 1, 2, 0} { // Last index pads to 4 bytes
		binary.Write(&buf, binary.LittleEndian, i)
	}
	data := base64.StdEncoding.EncodeToString(buf.Bytes())

	doc := fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "buffers": [{"byteLength": %d, "uri": "data:application/octet-stream;base64,%s"}],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 6}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3", "min": [0, 0, 0], "max": [1, 1, 0]},
    {"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ],
  "meshes": [{"name": "tri", "primitives": [{"attributes": {"POSITION": 0}, "indices": 1}]}],
  "nodes": [{"mesh": 0}],
  "scenes": [{"nodes": [0]}],
  "scene": 0
}`, buf.Len(), data)

	path := filepath.Join(t.TempDir(), "tri.gltf")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadGLTFTriangle(t *testing.T) {
	mesh, err := LoadGLTF(writeTriangleGLTF(t))
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}

	if mesh.FaceCount() != 1 || mesh.VertexCount() != 3 {
		t.Fatalf("mesh has %d faces, %d vertices", mesh.FaceCount(), mesh.VertexCount())
	}
	if got := mesh.Position(0, 1); got != math3d.V3(1, 0, 0) {
		t.Errorf("Position(0, 1) = %v", got)
	}
	if got := mesh.Normal(0, 0); got.Sub(math3d.V3(0, 0, 1)).Len() > 1e-9 {
		t.Errorf("computed normal = %v, want +Z", got)
	}
	if mesh.Texture != nil {
		t.Error("texture loaded from a file without images")
	}
	if mesh.BoundsMax != math3d.V3(1, 1, 0) {
		t.Errorf("bounds max = %v", mesh.BoundsMax)
	}
}
