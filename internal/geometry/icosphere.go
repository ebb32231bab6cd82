package geometry

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxIcosphereLevel is the highest accepted subdivision level.
// Level 8 already produces 655362 vertices.
const MaxIcosphereLevel = 8

// IcosphereVertexCount returns 10*4^level + 2
func IcosphereVertexCount(level int) int {
	return 10*(1<<(2*level)) + 2
}

// IcosphereTriangleCount returns 20*4^level
func IcosphereTriangleCount(level int) int {
	return 20 * (1 << (2 * level))
}

// icosahedron faces, counter-clockwise seen from outside
var icosahedronFaces = [20][3]uint32{
	{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
	{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
	{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
	{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
}

func icosahedronVertices() []mgl32.Vec3 {
	t := (1 + math32.Sqrt(5)) / 2
	raw := []mgl32.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	for i := range raw {
		raw[i] = unit(raw[i])
	}
	return raw
}

// Icosphere builds a sphere approximation by subdividing a unit icosahedron
// level times, then scaling by radius and translating to center.
// Normals are the unit-sphere directions and do not depend on radius.
func Icosphere(center mgl32.Vec3, radius float32, level int) (*Mesh, error) {
	if level < 0 || level > MaxIcosphereLevel {
		return nil, fmt.Errorf("icosphere level %d outside [0,%d]: %w", level, MaxIcosphereLevel, ErrInvalidParameter)
	}
	if !(radius > 0) || math32.IsInf(radius, 0) {
		return nil, fmt.Errorf("icosphere radius %v: %w", radius, ErrInvalidParameter)
	}

	verts := make([]mgl32.Vec3, 0, IcosphereVertexCount(level))
	verts = append(verts, icosahedronVertices()...)
	faces := make([]uint32, 0, 3*IcosphereTriangleCount(level))
	for _, f := range icosahedronFaces {
		faces = append(faces, f[0], f[1], f[2])
	}

	for i := 0; i < level; i++ {
		verts, faces = subdivide(verts, faces)
	}

	m := &Mesh{
		Positions: make([]mgl32.Vec3, len(verts)),
		Normals:   verts,
		Indices:   faces,
	}
	for i, n := range verts {
		m.Positions[i] = center.Add(n.Mul(radius))
	}
	return m, nil
}

// subdivide splits every triangle into four, sharing one midpoint per edge.
func subdivide(verts []mgl32.Vec3, faces []uint32) ([]mgl32.Vec3, []uint32) {
	// each edge is shared by exactly two triangles
	midpoints := make(map[uint64]uint32, len(faces)/2)
	midpoint := func(a, b uint32) uint32 {
		key := edgeKey(a, b)
		if idx, ok := midpoints[key]; ok {
			return idx
		}
		idx := uint32(len(verts))
		verts = append(verts, unit(verts[a].Add(verts[b]).Mul(0.5)))
		midpoints[key] = idx
		return idx
	}

	out := make([]uint32, 0, len(faces)*4)
	for i := 0; i < len(faces); i += 3 {
		a, b, c := faces[i], faces[i+1], faces[i+2]
		ab := midpoint(a, b)
		bc := midpoint(b, c)
		ca := midpoint(c, a)
		out = append(out,
			a, ab, ca,
			b, bc, ab,
			c, ca, bc,
			ab, bc, ca,
		)
	}
	return verts, out
}

func edgeKey(a, b uint32) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(a)<<32 | uint64(b)
}

func unit(v mgl32.Vec3) mgl32.Vec3 {
	l := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	return mgl32.Vec3{v[0] / l, v[1] / l, v[2] / l}
}
