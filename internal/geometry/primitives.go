package geometry

import "github.com/go-gl/mathgl/mgl32"

type face struct {
	normal, u, v mgl32.Vec3
}

// u x v == normal for every entry, so (0,1,2),(0,2,3) winds CCW seen from outside
var cubeFaces = [6]face{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}},
}

// Cube builds a unit cube centered at center.
// Vertices are duplicated per face (24 vertices, 12 triangles) so every face
// carries its own axis-aligned normal and shades flat.
func Cube(center mgl32.Vec3) *Mesh {
	m := &Mesh{
		Positions: make([]mgl32.Vec3, 0, 24),
		Normals:   make([]mgl32.Vec3, 0, 24),
		Indices:   make([]uint32, 0, 36),
	}
	for _, f := range cubeFaces {
		appendQuad(m, center.Add(f.normal.Mul(0.5)), f)
	}
	return m
}

// Square builds a unit quad in the XY plane facing +Z.
func Square(center mgl32.Vec3) *Mesh {
	m := &Mesh{}
	appendQuad(m, center, face{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}})
	return m
}

func appendQuad(m *Mesh, mid mgl32.Vec3, f face) {
	base := uint32(len(m.Positions))
	u := f.u.Mul(0.5)
	v := f.v.Mul(0.5)
	m.Positions = append(m.Positions,
		mid.Sub(u).Sub(v),
		mid.Add(u).Sub(v),
		mid.Add(u).Add(v),
		mid.Sub(u).Add(v),
	)
	m.Normals = append(m.Normals, f.normal, f.normal, f.normal, f.normal)
	m.Indices = append(m.Indices,
		base, base+1, base+2,
		base, base+2, base+3,
	)
}
