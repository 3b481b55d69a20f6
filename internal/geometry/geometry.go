// Package geometry holds flattened vertex attribute arrays as delivered by
// a geometry provider, plus local-space bounds derived from them.
package geometry

import (
	"fmt"

	"github.com/eulertour/manim-opengl-tutorial/pkg/math"
)

// Geometry is a flattened triangle mesh.
// Positions and Normals hold three floats per vertex. Indices is optional;
// without it every three consecutive vertices form a triangle. A wireframe
// geometry has Lines set and no normals.
type Geometry struct {
	Positions []float32
	Normals   []float32
	Indices   []uint32
	Lines     bool
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// Position returns vertex i.
func (g *Geometry) Position(i int) math.Vec3 {
	return math.Vec3{X: g.Positions[i*3], Y: g.Positions[i*3+1], Z: g.Positions[i*3+2]}
}

// HasNormals reports whether per-vertex normals are present.
func (g *Geometry) HasNormals() bool {
	return len(g.Normals) > 0
}

// Validate checks that the attribute arrays are consistent.
func (g *Geometry) Validate() error {
	if len(g.Positions)%3 != 0 {
		return fmt.Errorf("positions length %d is not a multiple of 3", len(g.Positions))
	}
	if g.HasNormals() && len(g.Normals) != len(g.Positions) {
		return fmt.Errorf("normals length %d does not match positions length %d", len(g.Normals), len(g.Positions))
	}
	n := uint32(g.VertexCount())
	for i, idx := range g.Indices {
		if idx >= n {
			return fmt.Errorf("index %d at %d out of range (%d vertices)", idx, i, n)
		}
	}
	return nil
}

// Bounds returns the local-space bounding box of all vertices.
func (g *Geometry) Bounds() AABB {
	box := EmptyAABB()
	for i := 0; i < g.VertexCount(); i++ {
		box = box.Extend(g.Position(i))
	}
	return box
}
