package geometry

import "github.com/eulertour/manim-opengl-tutorial/pkg/math"

// face describes one quad of an axis-aligned box: its outward normal and
// the two in-plane axes, chosen so (u x v) == normal for CCW winding.
type face struct {
	normal, u, v math.Vec3
}

var boxFaces = [6]face{
	{normal: math.Vec3{X: 1}, u: math.Vec3{Z: -1}, v: math.Vec3{Y: 1}},
	{normal: math.Vec3{X: -1}, u: math.Vec3{Z: 1}, v: math.Vec3{Y: 1}},
	{normal: math.Vec3{Y: 1}, u: math.Vec3{X: 1}, v: math.Vec3{Z: -1}},
	{normal: math.Vec3{Y: -1}, u: math.Vec3{X: 1}, v: math.Vec3{Z: 1}},
	{normal: math.Vec3{Z: 1}, u: math.Vec3{X: 1}, v: math.Vec3{Y: 1}},
	{normal: math.Vec3{Z: -1}, u: math.Vec3{X: -1}, v: math.Vec3{Y: 1}},
}

// Box builds an indexed box centered on the origin.
// Zero dimensions default to 1.
func Box(width, height, depth float32) *Geometry {
	half := math.Vec3{X: orOne(width) / 2, Y: orOne(height) / 2, Z: orOne(depth) / 2}
	g := &Geometry{}
	for _, f := range boxFaces {
		g.addQuad(f.normal.MulVec(half), f.u.MulVec(half), f.v.MulVec(half), f.normal)
	}
	return g
}

// Plane builds an indexed rectangle in the XY plane facing +Z.
// Zero dimensions default to 1.
func Plane(width, height float32) *Geometry {
	g := &Geometry{}
	g.addQuad(math.Vec3{}, math.Vec3{X: orOne(width) / 2}, math.Vec3{Y: orOne(height) / 2}, math.UnitZ)
	return g
}

// Grid builds a line-list grid in the XY plane covering
// [-half, half] on both axes with divisions cells per side.
func Grid(half float32, divisions int) *Geometry {
	if divisions < 1 {
		divisions = 1
	}
	half = orOne(half)
	g := &Geometry{Lines: true}
	step := 2 * half / float32(divisions)
	for i := 0; i <= divisions; i++ {
		c := -half + float32(i)*step
		g.Positions = append(g.Positions,
			c, -half, 0, c, half, 0,
			-half, c, 0, half, c, 0,
		)
	}
	return g
}

// Wireframe returns a line-list geometry containing every triangle edge of g.
func Wireframe(g *Geometry) *Geometry {
	out := &Geometry{Lines: true}
	tri := func(a, b, c int) {
		for _, e := range [3][2]int{{a, b}, {b, c}, {c, a}} {
			p, q := g.Position(e[0]), g.Position(e[1])
			out.Positions = append(out.Positions, p.X, p.Y, p.Z, q.X, q.Y, q.Z)
		}
	}
	if len(g.Indices) > 0 {
		for i := 0; i+2 < len(g.Indices); i += 3 {
			tri(int(g.Indices[i]), int(g.Indices[i+1]), int(g.Indices[i+2]))
		}
	} else {
		for i := 0; i+2 < g.VertexCount(); i += 3 {
			tri(i, i+1, i+2)
		}
	}
	return out
}

// addQuad appends the quad center±u±v as two triangles.
func (g *Geometry) addQuad(center, u, v, normal math.Vec3) {
	base := uint32(g.VertexCount())
	corners := [4]math.Vec3{
		center.Sub(u).Sub(v),
		center.Add(u).Sub(v),
		center.Add(u).Add(v),
		center.Sub(u).Add(v),
	}
	for _, c := range corners {
		g.Positions = append(g.Positions, c.X, c.Y, c.Z)
		g.Normals = append(g.Normals, normal.X, normal.Y, normal.Z)
	}
	g.Indices = append(g.Indices, base, base+1, base+2, base, base+2, base+3)
}

func orOne(v float32) float32 {
	if v == 0 {
		return 1
	}
	return v
}
