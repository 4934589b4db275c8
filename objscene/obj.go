// Package objscene implements svdag.Scene over a minimal Wavefront OBJ mesh:
// vertex positions ("v") and triangular faces ("f"). It supplements the
// distillation's dropped mesh-importer feature (the original used an
// Assimp-backed importer exposing materials/normals/textures — none of
// which the core svdag.Scene contract needs, and Assimp has no idiomatic Go
// binding in this pack) with the narrowest loader that satisfies that
// contract: positions and triangle indices only.
package objscene

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/zzenonn/svdag"
)

// Scene is a triangle mesh loaded from a Wavefront OBJ file. It implements
// svdag.Scene.
type Scene struct {
	vertices []r3.Vector
	faces    [][3]int // 0-based vertex indices
	min, max r3.Vector
}

// Load reads the OBJ file at path. Only "v" (vertex) and "f" (triangular
// face) records are interpreted; all other record types (normals,
// texture coordinates, groups, materials) are ignored, matching the core's
// "occupancy only" contract (spec.md §6.1).
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "objscene: open mesh file")
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads an OBJ-formatted mesh from r.
func Parse(r io.Reader) (*Scene, error) {
	s := &Scene{}
	haveBounds := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, errors.Errorf("objscene: line %d: malformed vertex", lineNo)
			}
			v, err := parseVertex(fields[1:4])
			if err != nil {
				return nil, errors.Wrapf(err, "objscene: line %d", lineNo)
			}
			s.vertices = append(s.vertices, v)
			if !haveBounds {
				s.min, s.max = v, v
				haveBounds = true
			} else {
				s.min = componentMin(s.min, v)
				s.max = componentMax(s.max, v)
			}
		case "f":
			if len(fields) < 4 {
				return nil, errors.Errorf("objscene: line %d: malformed face", lineNo)
			}
			face, err := parseFace(fields[1:], len(s.vertices))
			if err != nil {
				return nil, errors.Wrapf(err, "objscene: line %d", lineNo)
			}
			// Fan-triangulate faces with more than 3 vertices.
			for i := 1; i+1 < len(face); i++ {
				s.faces = append(s.faces, [3]int{face[0], face[i], face[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "objscene: read mesh file")
	}
	return s, nil
}

func parseVertex(fields []string) (r3.Vector, error) {
	var v [3]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return r3.Vector{}, errors.Wrapf(err, "invalid vertex component %q", f)
		}
		v[i] = x
	}
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}, nil
}

// parseFace parses the vertex-index portion of an OBJ face record, which
// may contain "v", "v/vt", "v//vn", or "v/vt/vn" per token; only the
// leading vertex index is used. Negative (relative) indices are resolved
// against the current vertex count.
func parseFace(tokens []string, vertexCount int) ([]int, error) {
	out := make([]int, len(tokens))
	for i, tok := range tokens {
		idxStr := strings.SplitN(tok, "/", 2)[0]
		idx, err := strconv.Atoi(idxStr)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid face index %q", tok)
		}
		if idx < 0 {
			idx = vertexCount + idx + 1
		}
		if idx < 1 || idx > vertexCount {
			return nil, errors.Errorf("face index %d out of range (%d vertices)", idx, vertexCount)
		}
		out[i] = idx - 1
	}
	return out, nil
}

func componentMin(a, b r3.Vector) r3.Vector {
	return r3.Vector{X: minf(a.X, b.X), Y: minf(a.Y, b.Y), Z: minf(a.Z, b.Z)}
}

func componentMax(a, b r3.Vector) r3.Vector {
	return r3.Vector{X: maxf(a.X, b.X), Y: maxf(a.Y, b.Y), Z: maxf(a.Z, b.Z)}
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// TriangleCount implements svdag.Scene.
func (s *Scene) TriangleCount() int {
	return len(s.faces)
}

// Triangle implements svdag.Scene.
func (s *Scene) Triangle(i int) svdag.Triangle {
	f := s.faces[i]
	return svdag.Triangle{
		P0: s.vertices[f[0]],
		P1: s.vertices[f[1]],
		P2: s.vertices[f[2]],
	}
}

// Bounds implements svdag.Scene.
func (s *Scene) Bounds() (min, max r3.Vector) {
	return s.min, s.max
}
