package geometry

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidParameter is returned by builders for out-of-range input
var ErrInvalidParameter = errors.New("invalid parameter")

// Mesh holds CPU-side vertex attributes and triangle indices.
// Normals are index-aligned with Positions; Indices holds triangles as consecutive triples.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Indices   []uint32
}

// VertexCount returns the number of vertices
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Validate checks the attribute and index invariants of the mesh.
func (m *Mesh) Validate() error {
	if len(m.Normals) != len(m.Positions) {
		return fmt.Errorf("mesh has %d normals for %d positions", len(m.Normals), len(m.Positions))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh index count %d is not a multiple of 3", len(m.Indices))
	}
	n := uint32(len(m.Positions))
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("mesh index %d at %d out of range (%d vertices)", idx, i, n)
		}
	}
	return nil
}

// FlatPositions packs positions as x,y,z float triples for upload
func (m *Mesh) FlatPositions() []float32 {
	return flatten(m.Positions)
}

// FlatNormals packs normals as x,y,z float triples for upload
func (m *Mesh) FlatNormals() []float32 {
	return flatten(m.Normals)
}

func flatten(vs []mgl32.Vec3) []float32 {
	out := make([]float32, 0, len(vs)*3)
	for _, v := range vs {
		out = append(out, v[0], v[1], v[2])
	}
	return out
}
