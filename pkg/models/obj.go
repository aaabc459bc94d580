package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/tinyraster/pkg/math3d"
)

// DefaultDiffuseSuffix names the diffuse map that sits next to an OBJ file:
// head.obj pairs with head_diffuse.tga.
const DefaultDiffuseSuffix = "_diffuse.tga"

// OBJLoader loads Wavefront OBJ files into Mesh format.
type OBJLoader struct {
	CalculateNormals bool   // Compute smooth normals when the file has none
	DiffuseSuffix    string // Sibling texture suffix; empty disables lookup
}

// NewOBJLoader creates a new OBJ loader with default options.
func NewOBJLoader() *OBJLoader {
	return &OBJLoader{
		CalculateNormals: true,
		DiffuseSuffix:    DefaultDiffuseSuffix,
	}
}

// LoadOBJ loads an OBJ file and its sibling diffuse map, if present.
func LoadOBJ(path string) (*Mesh, error) {
	return NewOBJLoader().Load(path)
}

// Load parses the file at path.
func (l *OBJLoader) Load(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := l.Parse(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if l.DiffuseSuffix != "" {
		texPath := strings.TrimSuffix(path, filepath.Ext(path)) + l.DiffuseSuffix
		tex, err := LoadTexture(texPath)
		switch {
		case err == nil:
			mesh.Texture = tex
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("load diffuse map: %w", err)
		}
	}

	return mesh, nil
}

// objCorner is one v/vt/vn reference; -1 marks an absent attribute.
type objCorner [3]int

// Parse reads OBJ data from r. Polygons are fan-triangulated.
func (l *OBJLoader) Parse(r io.Reader, name string) (*Mesh, error) {
	var (
		positions []math3d.Vec3
		uvs       []math3d.Vec2
		normals   []math3d.Vec3
	)

	mesh := NewMesh(name)
	corners := make(map[objCorner]int)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			positions = append(positions, math3d.V3(v[0], v[1], v[2]))
		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			uvs = append(uvs, math3d.V2(v[0], v[1]))
		case "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			normals = append(normals, math3d.V3(v[0], v[1], v[2]))
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				c, err := parseCorner(ref, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				vi, ok := corners[c]
				if !ok {
					v := Vertex{Position: positions[c[0]]}
					if c[1] >= 0 {
						v.UV = uvs[c[1]]
					}
					if c[2] >= 0 {
						v.Normal = normals[c[2]]
					}
					vi = len(mesh.Vertices)
					mesh.Vertices = append(mesh.Vertices, v)
					corners[c] = vi
				}
				idx = append(idx, vi)
			}
			for i := 1; i+1 < len(idx); i++ {
				mesh.Faces = append(mesh.Faces, Face{idx[0], idx[i], idx[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	mesh.finish(l.CalculateNormals)

	return mesh, nil
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := range n {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", fields[i], err)
		}
		out[i] = v
	}
	return out, nil
}

// parseCorner parses "v", "v/vt", "v//vn" or "v/vt/vn" into zero-based
// indices. Negative OBJ indices count back from the current end.
func parseCorner(ref string, nv, nt, nn int) (objCorner, error) {
	c := objCorner{-1, -1, -1}
	counts := [3]int{nv, nt, nn}
	parts := strings.Split(ref, "/")
	if len(parts) > 3 {
		return c, fmt.Errorf("bad face vertex %q", ref)
	}
	for i, p := range parts {
		if p == "" {
			if i == 0 {
				return c, fmt.Errorf("bad face vertex %q", ref)
			}
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return c, fmt.Errorf("bad face vertex %q: %w", ref, err)
		}
		switch {
		case n > 0:
			n--
		case n < 0:
			n += counts[i]
		default:
			return c, fmt.Errorf("bad face vertex %q: zero index", ref)
		}
		if n < 0 || n >= counts[i] {
			return c, fmt.Errorf("face vertex %q: index out of range", ref)
		}
		c[i] = n
	}
	return c, nil
}
