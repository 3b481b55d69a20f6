package geometry

import (
	gomath "math"

	"github.com/eulertour/manim-opengl-tutorial/pkg/math"
)

// AABB represents an axis-aligned bounding box in a node's local space.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// NewAABB creates an AABB from two corners, handling swapped (negative-scale) extents.
func NewAABB(a, b math.Vec3) AABB {
	box := AABB{Min: a, Max: b}
	if box.Min.X > box.Max.X {
		box.Min.X, box.Max.X = box.Max.X, box.Min.X
	}
	if box.Min.Y > box.Max.Y {
		box.Min.Y, box.Max.Y = box.Max.Y, box.Min.Y
	}
	if box.Min.Z > box.Max.Z {
		box.Min.Z, box.Max.Z = box.Max.Z, box.Min.Z
	}
	return box
}

// EmptyAABB returns a box that contains nothing; extending it by any point
// yields a box around that point.
func EmptyAABB() AABB {
	inf := float32(gomath.MaxFloat32)
	return AABB{
		Min: math.Vec3{X: inf, Y: inf, Z: inf},
		Max: math.Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

// IsEmpty reports whether the box contains no points.
func (b AABB) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend returns the box grown to include p.
func (b AABB) Extend(p math.Vec3) AABB {
	b.Min.X = min(b.Min.X, p.X)
	b.Min.Y = min(b.Min.Y, p.Y)
	b.Min.Z = min(b.Min.Z, p.Z)
	b.Max.X = max(b.Max.X, p.X)
	b.Max.Y = max(b.Max.Y, p.Y)
	b.Max.Z = max(b.Max.Z, p.Z)
	return b
}

// Union returns the smallest box containing both b and other.
func (b AABB) Union(other AABB) AABB {
	if other.IsEmpty() {
		return b
	}
	return b.Extend(other.Min).Extend(other.Max)
}

// Center returns the midpoint of the box.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent along each axis.
func (b AABB) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// ContainsXY reports whether p lies within the box's X and Y ranges,
// inclusive. Z is ignored.
func (b AABB) ContainsXY(p math.Vec3) bool {
	return b.Min.X <= p.X && p.X <= b.Max.X &&
		b.Min.Y <= p.Y && p.Y <= b.Max.Y
}

// Contains reports whether p lies within the box on all three axes, inclusive.
func (b AABB) Contains(p math.Vec3) bool {
	return b.ContainsXY(p) && b.Min.Z <= p.Z && p.Z <= b.Max.Z
}

// Transform returns the box enclosing all eight corners of b under m.
func (b AABB) Transform(m math.Mat4) AABB {
	out := EmptyAABB()
	for i := 0; i < 8; i++ {
		c := math.Vec3{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z}
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		out = out.Extend(m.TransformVec3(c))
	}
	return out
}
