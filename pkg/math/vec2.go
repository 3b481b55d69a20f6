package math

import "github.com/chewxy/math32"

// Vec2 is a point in viewport or camera-frame coordinates.
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 { return Vec2{v.X + other.X, v.Y + other.Y} }

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 { return Vec2{v.X - other.X, v.Y - other.Y} }

// Length returns the magnitude.
func (v Vec2) Length() float32 { return math32.Hypot(v.X, v.Y) }

// Normalize returns a unit vector, or the zero vector unchanged.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return Vec2{v.X / l, v.Y / l}
}
