package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eulertour/manim-opengl-tutorial/pkg/math"
)

func TestBoxBounds(t *testing.T) {
	g := Box(2, 4, 6)
	require.NoError(t, g.Validate())

	assert.Equal(t, 24, g.VertexCount())
	assert.Len(t, g.Indices, 36)
	assert.Equal(t, AABB{Min: math.Vec3{X: -1, Y: -2, Z: -3}, Max: math.Vec3{X: 1, Y: 2, Z: 3}}, g.Bounds())
}

func TestBoxWinding(t *testing.T) {
	g := Box(1, 1, 1)
	for i := 0; i < len(g.Indices); i += 3 {
		a := g.Position(int(g.Indices[i]))
		b := g.Position(int(g.Indices[i+1]))
		c := g.Position(int(g.Indices[i+2]))
		n := b.Sub(a).Cross(c.Sub(a))
		// Outward facing: the triangle normal points away from the center.
		assert.Greater(t, n.Dot(a), float32(0), "triangle %d winds inward", i/3)
	}
}

func TestPlaneDefaults(t *testing.T) {
	g := Plane(0, 0)
	box := g.Bounds()
	assert.Equal(t, math.Vec3{X: -0.5, Y: -0.5}, box.Min)
	assert.Equal(t, math.Vec3{X: 0.5, Y: 0.5}, box.Max)
}

func TestGrid(t *testing.T) {
	g := Grid(5, 10)
	require.NoError(t, g.Validate())
	assert.True(t, g.Lines)
	assert.False(t, g.HasNormals())
	// 11 lines per axis, two vertices each.
	assert.Equal(t, 44, g.VertexCount())
	assert.Equal(t, AABB{Min: math.Vec3{X: -5, Y: -5}, Max: math.Vec3{X: 5, Y: 5}}, g.Bounds())

	assert.Equal(t, 8, Grid(1, 0).VertexCount())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		geo  Geometry
		ok   bool
	}{
		{"ok", Geometry{Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, Indices: []uint32{0, 1, 2}}, true},
		{"ragged positions", Geometry{Positions: []float32{0, 0}}, false},
		{"normals mismatch", Geometry{Positions: []float32{0, 0, 0}, Normals: []float32{0, 0, 1, 0, 0, 1}}, false},
		{"index out of range", Geometry{Positions: []float32{0, 0, 0}, Indices: []uint32{1}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.geo.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestWireframe(t *testing.T) {
	w := Wireframe(Plane(1, 1))
	assert.True(t, w.Lines)
	assert.False(t, w.HasNormals())
	// Two triangles, three edges each, two endpoints per edge.
	assert.Equal(t, 12, w.VertexCount())
}

func TestAABB(t *testing.T) {
	box := NewAABB(math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{X: -1, Y: -1, Z: -1})
	assert.Equal(t, math.Vec3{X: -1, Y: -1, Z: -1}, box.Min)
	assert.True(t, box.ContainsXY(math.Vec3{Z: 50}))
	assert.False(t, box.Contains(math.Vec3{Z: 50}))
	assert.True(t, box.ContainsXY(math.Vec3{X: 1, Y: -1}), "edges are inclusive")
	assert.False(t, box.ContainsXY(math.Vec3{X: 1.001}))

	assert.True(t, EmptyAABB().IsEmpty())
	assert.Equal(t, box, EmptyAABB().Union(box))
	assert.Equal(t, math.Vec3{X: 2, Y: 2, Z: 2}, box.Size())
	assert.Equal(t, math.Vec3{}, box.Center())
}

func TestAABBTransform(t *testing.T) {
	box := NewAABB(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})
	moved := box.Transform(math.Translate(5, 0, 0).Mul(math.Scale(2, 1, 1)))
	assert.Equal(t, math.Vec3{X: 3, Y: -1, Z: -1}, moved.Min)
	assert.Equal(t, math.Vec3{X: 7, Y: 1, Z: 1}, moved.Max)
}

func assertUnitNormals(t *testing.T, g *Geometry) {
	t.Helper()
	require.NoError(t, g.Validate())
	require.True(t, g.HasNormals())
	for i := 0; i < g.VertexCount(); i++ {
		n := math.Vec3{X: g.Normals[i*3], Y: g.Normals[i*3+1], Z: g.Normals[i*3+2]}
		assert.InDelta(t, 1, n.Length(), 1e-5, "normal %d", i)
	}
}

// assertOutward checks that every non-degenerate triangle of a convex
// solid around the origin winds counter-clockwise seen from outside.
func assertOutward(t *testing.T, g *Geometry) {
	t.Helper()
	for i := 0; i < len(g.Indices); i += 3 {
		a := g.Position(int(g.Indices[i]))
		b := g.Position(int(g.Indices[i+1]))
		c := g.Position(int(g.Indices[i+2]))
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Length() < 1e-6 {
			continue
		}
		centroid := a.Add(b).Add(c).Scale(1.0 / 3)
		assert.Greater(t, n.Dot(centroid), float32(0), "triangle %d winds inward", i/3)
	}
}

func assertBounds(t *testing.T, want AABB, got AABB) {
	t.Helper()
	assert.True(t, want.Min.ApproxEqual(got.Min, 1e-5), "min %v", got.Min)
	assert.True(t, want.Max.ApproxEqual(got.Max, 1e-5), "max %v", got.Max)
}

func TestSphere(t *testing.T) {
	g := Sphere(2, 8, 6)
	assertUnitNormals(t, g)
	assertOutward(t, g)
	assertBounds(t, NewAABB(math.Vec3{X: -2, Y: -2, Z: -2}, math.Vec3{X: 2, Y: 2, Z: 2}), g.Bounds())

	// Smooth shading: every normal points along its position.
	for i := 0; i < g.VertexCount(); i++ {
		n := math.Vec3{X: g.Normals[i*3], Y: g.Normals[i*3+1], Z: g.Normals[i*3+2]}
		assert.True(t, g.Position(i).Scale(0.5).ApproxEqual(n, 1e-5))
	}

	assert.Equal(t, (8+1)*(6+1), g.VertexCount())
	// Two triangles per quad except one in each pole row.
	assert.Len(t, g.Indices, 3*(2*8*6-2*8))

	small := Sphere(0, 0, 0)
	assert.Equal(t, (3+1)*(2+1), small.VertexCount())
	assertUnitNormals(t, small)
}

func TestCylinder(t *testing.T) {
	g := Cylinder(1, 1, 3, 8)
	assertUnitNormals(t, g)
	assertOutward(t, g)
	assertBounds(t, NewAABB(math.Vec3{X: -1, Y: -1.5, Z: -1}, math.Vec3{X: 1, Y: 1.5, Z: 1}), g.Bounds())
	// Side rows plus a center and ring per cap.
	assert.Equal(t, 2*9+2*(1+9), g.VertexCount())

	// Straight sides have horizontal normals.
	assert.InDelta(t, 0, g.Normals[1], 1e-6)
}

func TestCone(t *testing.T) {
	g := Cone(0.5, 0.6, 40)
	assertUnitNormals(t, g)
	assertOutward(t, g)
	assertBounds(t, NewAABB(math.Vec3{X: -0.5, Y: -0.3, Z: -0.5}, math.Vec3{X: 0.5, Y: 0.3, Z: 0.5}), g.Bounds())
	// No top cap.
	assert.Equal(t, 2*41+1+41, g.VertexCount())
	// Side normals lean toward the apex.
	assert.Greater(t, g.Normals[1], float32(0))
}

func TestCircle(t *testing.T) {
	g := Circle(1.5, 8)
	assertUnitNormals(t, g)
	assertBounds(t, NewAABB(math.Vec3{X: -1.5, Y: -1.5}, math.Vec3{X: 1.5, Y: 1.5}), g.Bounds())
	assert.Len(t, g.Indices, 3*8)
	for i := 0; i < len(g.Indices); i += 3 {
		a := g.Position(int(g.Indices[i]))
		b := g.Position(int(g.Indices[i+1]))
		c := g.Position(int(g.Indices[i+2]))
		assert.Greater(t, b.Sub(a).Cross(c.Sub(a)).Z, float32(0))
	}
}
