package models

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/tinyraster/pkg/math3d"
)

// GLTFLoader reads .gltf and .glb files. Every triangle primitive of every
// mesh in the document is merged into one Mesh; lines, points and strips are
// ignored.
type GLTFLoader struct {
	CalculateNormals bool // smooth normals for files without NORMAL
	LoadTexture      bool // first decodable image becomes the diffuse map
}

func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{CalculateNormals: true, LoadTexture: true}
}

// LoadGLTF is NewGLTFLoader().Load(path).
func LoadGLTF(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	for _, m := range doc.Meshes {
		for i, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			if err := appendPrimitive(doc, prim, mesh); err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, i, err)
			}
		}
	}
	mesh.finish(l.CalculateNormals)

	if l.LoadTexture {
		if img := firstImage(doc, filepath.Dir(path)); img != nil {
			mesh.Texture = TextureFromImage(img)
		}
	}
	return mesh, nil
}

// attribute returns the accessor bound to name, or nil.
func attribute(doc *gltf.Document, prim *gltf.Primitive, name string) *gltf.Accessor {
	if idx, ok := prim.Attributes[name]; ok && idx < len(doc.Accessors) {
		return doc.Accessors[idx]
	}
	return nil
}

func appendPrimitive(doc *gltf.Document, prim *gltf.Primitive, mesh *Mesh) error {
	acc := attribute(doc, prim, gltf.POSITION)
	if acc == nil {
		return nil
	}
	positions, err := modeler.ReadPosition(doc, acc, nil)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if acc := attribute(doc, prim, gltf.NORMAL); acc != nil {
		if normals, err = modeler.ReadNormal(doc, acc, nil); err != nil {
			return fmt.Errorf("normals: %w", err)
		}
	}
	var uvs [][2]float32
	if acc := attribute(doc, prim, gltf.TEXCOORD_0); acc != nil {
		if uvs, err = modeler.ReadTextureCoord(doc, acc, nil); err != nil {
			return fmt.Errorf("texcoords: %w", err)
		}
	}

	base := len(mesh.Vertices)
	for i, p := range positions {
		v := Vertex{Position: f32vec(p)}
		if i < len(normals) {
			v.Normal = f32vec(normals[i])
		}
		if i < len(uvs) {
			// V runs downward in glTF images.
			v.UV = math3d.V2(float64(uvs[i][0]), 1-float64(uvs[i][1]))
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}

	indices, err := primitiveIndices(doc, prim, len(positions))
	if err != nil {
		return err
	}
	for i := 0; i+2 < len(indices); i += 3 {
		var f Face
		for k := range f {
			idx := int(indices[i+k])
			if idx >= len(positions) {
				return fmt.Errorf("index %d out of range [0,%d)", idx, len(positions))
			}
			f[k] = base + idx
		}
		mesh.Faces = append(mesh.Faces, f)
	}
	return nil
}

// primitiveIndices reads the index accessor, or numbers the vertices in order
// for non-indexed geometry.
func primitiveIndices(doc *gltf.Document, prim *gltf.Primitive, count int) ([]uint32, error) {
	if prim.Indices == nil {
		seq := make([]uint32, count)
		for i := range seq {
			seq[i] = uint32(i)
		}
		return seq, nil
	}
	if *prim.Indices >= len(doc.Accessors) {
		return nil, errors.New("indices accessor out of range")
	}
	indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
	if err != nil {
		return nil, fmt.Errorf("indices: %w", err)
	}
	return indices, nil
}

func f32vec(f [3]float32) math3d.Vec3 {
	return math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
}

// firstImage decodes the first usable image, whether it lives in a buffer
// view or in a file next to the document.
func firstImage(doc *gltf.Document, dir string) image.Image {
	for _, img := range doc.Images {
		data := imageBytes(doc, img, dir)
		if len(data) == 0 {
			continue
		}
		if decoded, _, err := image.Decode(bytes.NewReader(data)); err == nil {
			return decoded
		}
	}
	return nil
}

func imageBytes(doc *gltf.Document, img *gltf.Image, dir string) []byte {
	if img.BufferView != nil {
		bv := doc.BufferViews[*img.BufferView]
		data := doc.Buffers[bv.Buffer].Data
		if end := bv.ByteOffset + bv.ByteLength; end <= len(data) {
			return data[bv.ByteOffset:end]
		}
		return nil
	}
	if img.URI == "" {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(dir, img.URI))
	if err != nil {
		return nil
	}
	return data
}
