package geometry

import (
	"github.com/chewxy/math32"

	"github.com/eulertour/manim-opengl-tutorial/pkg/math"
)

// Sphere builds a UV sphere centered on the origin with its poles on the
// Y axis. Zero radius defaults to 1; segment counts are raised to their
// minimums of 3 around and 2 from pole to pole.
func Sphere(radius float32, widthSegments, heightSegments int) *Geometry {
	radius = orOne(radius)
	widthSegments = atLeast(widthSegments, 3)
	heightSegments = atLeast(heightSegments, 2)

	g := &Geometry{}
	rows := make([][]uint32, heightSegments+1)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float32(iy) / float32(heightSegments)
		sinT, cosT := math32.Sincos(v * math32.Pi)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float32(ix) / float32(widthSegments)
			sinP, cosP := math32.Sincos(u * 2 * math32.Pi)
			n := math.Vec3{X: -cosP * sinT, Y: cosT, Z: sinP * sinT}
			rows[iy] = append(rows[iy], g.addVertex(n.Scale(radius), n))
		}
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a, b := rows[iy][ix+1], rows[iy][ix]
			c, d := rows[iy+1][ix], rows[iy+1][ix+1]
			// The pole rows would only add degenerate triangles.
			if iy != 0 {
				g.Indices = append(g.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				g.Indices = append(g.Indices, b, c, d)
			}
		}
	}
	return g
}

// Cylinder builds a closed cylinder along the Y axis centered on the
// origin. Different top and bottom radii make a truncated cone; a zero
// radius omits that cap. Zero height defaults to 1 and radialSegments is
// raised to at least 3.
func Cylinder(radiusTop, radiusBottom, height float32, radialSegments int) *Geometry {
	height = orOne(height)
	radialSegments = atLeast(radialSegments, 3)
	half := height / 2
	slope := (radiusBottom - radiusTop) / height

	g := &Geometry{}
	var rows [2][]uint32
	for iy, r := range [2]float32{radiusTop, radiusBottom} {
		y := half - float32(iy)*height
		for ix := 0; ix <= radialSegments; ix++ {
			sin, cos := math32.Sincos(float32(ix) / float32(radialSegments) * 2 * math32.Pi)
			n := math.Vec3{X: sin, Y: slope, Z: cos}.Normalize()
			rows[iy] = append(rows[iy], g.addVertex(math.Vec3{X: r * sin, Y: y, Z: r * cos}, n))
		}
	}
	for ix := 0; ix < radialSegments; ix++ {
		a, b := rows[0][ix], rows[1][ix]
		c, d := rows[1][ix+1], rows[0][ix+1]
		g.Indices = append(g.Indices, a, b, d, b, c, d)
	}

	if radiusTop > 0 {
		g.addCap(radiusTop, half, radialSegments, true)
	}
	if radiusBottom > 0 {
		g.addCap(radiusBottom, -half, radialSegments, false)
	}
	return g
}

// Cone builds a cone along the Y axis with its apex at +height/2.
func Cone(radius, height float32, radialSegments int) *Geometry {
	return Cylinder(0, orOne(radius), height, radialSegments)
}

// Circle builds a disc in the XY plane facing +Z.
// Zero radius defaults to 1 and segments is raised to at least 3.
func Circle(radius float32, segments int) *Geometry {
	radius = orOne(radius)
	segments = atLeast(segments, 3)

	g := &Geometry{}
	center := g.addVertex(math.Vec3{}, math.UnitZ)
	for i := 0; i <= segments; i++ {
		sin, cos := math32.Sincos(float32(i) / float32(segments) * 2 * math32.Pi)
		g.addVertex(math.Vec3{X: radius * cos, Y: radius * sin}, math.UnitZ)
	}
	for i := uint32(1); i <= uint32(segments); i++ {
		g.Indices = append(g.Indices, center, i, i+1)
	}
	return g
}

// addCap appends a disc at height y facing +Y (top) or -Y.
func (g *Geometry) addCap(radius, y float32, segments int, top bool) {
	normal := math.Vec3{Y: -1}
	if top {
		normal = math.UnitY
	}
	center := g.addVertex(math.Vec3{Y: y}, normal)
	for i := 0; i <= segments; i++ {
		sin, cos := math32.Sincos(float32(i) / float32(segments) * 2 * math32.Pi)
		g.addVertex(math.Vec3{X: radius * sin, Y: y, Z: radius * cos}, normal)
	}
	for i := uint32(1); i <= uint32(segments); i++ {
		if top {
			g.Indices = append(g.Indices, center, center+i, center+i+1)
		} else {
			g.Indices = append(g.Indices, center, center+i+1, center+i)
		}
	}
}

func (g *Geometry) addVertex(p, n math.Vec3) uint32 {
	idx := uint32(g.VertexCount())
	g.Positions = append(g.Positions, p.X, p.Y, p.Z)
	g.Normals = append(g.Normals, n.X, n.Y, n.Z)
	return idx
}

func atLeast(n, floor int) int {
	if n < floor {
		return floor
	}
	return n
}
