// Package camera provides a scene-node backed camera: view and projection
// matrices, look-at orientation and a spherical orbit helper.
package camera

import (
	gomath "math"

	"github.com/eulertour/manim-opengl-tutorial/internal/scene"
	"github.com/eulertour/manim-opengl-tutorial/pkg/math"
)

// WorldUp is the default up direction. Scenes are z-up.
var WorldUp = math.UnitZ

// Params holds projection settings and the orbit polar clamp.
type Params struct {
	Orthographic bool

	// Perspective projection. FovY is in radians.
	FovY   float32
	Aspect float32

	// Orthographic half extents.
	HalfWidth  float32
	HalfHeight float32

	Near float32
	Far  float32

	MinPolarAngle float32
	MaxPolarAngle float32
}

// DefaultParams returns a 45 degree perspective projection for a 16:9 viewport.
func DefaultParams() Params {
	return Params{
		FovY:          float32(gomath.Pi / 4),
		Aspect:        16.0 / 9.0,
		HalfWidth:     7.1,
		HalfHeight:    4,
		Near:          0.1,
		Far:           100,
		MinPolarAngle: 0.0001,
		MaxPolarAngle: float32(gomath.Pi / 2),
	}
}

// DefaultOrthographicParams returns the orthographic variant of DefaultParams.
func DefaultOrthographicParams() Params {
	p := DefaultParams()
	p.Orthographic = true
	p.Near = 1
	p.Far = 21
	return p
}

// Camera is a node in a scene tree with projection settings. Children
// attached to its node follow it.
type Camera struct {
	Params

	// DefaultTransform is restored by Reset.
	DefaultTransform math.Mat4
	// FacingAxis is the local axis pointed at look-at targets.
	FacingAxis scene.FacingAxis

	tree *scene.Tree
	id   scene.NodeID
}

// New adds a root camera node named name to tree.
func New(tree *scene.Tree, name string, p Params) *Camera {
	return &Camera{
		Params:           p,
		DefaultTransform: math.Identity(),
		FacingAxis:       scene.FacingNegZ,
		tree:             tree,
		id:               tree.Add(name),
	}
}

// Node returns the camera's node id.
func (c *Camera) Node() scene.NodeID { return c.id }

// Tree returns the tree holding the camera node.
func (c *Camera) Tree() *scene.Tree { return c.tree }

// Name returns the camera node's name.
func (c *Camera) Name() string { return c.tree.Name(c.id) }

// ViewMatrix returns the inverse of the camera's world transform.
func (c *Camera) ViewMatrix() math.Mat4 {
	return c.tree.HierarchicalTransform(c.id).Inverse()
}

// ProjectionMatrix returns the orthographic or perspective projection.
func (c *Camera) ProjectionMatrix() math.Mat4 {
	if c.Orthographic {
		return math.OrthoSymmetric(c.HalfWidth, c.HalfHeight, c.Near, c.Far)
	}
	return math.Perspective(c.FovY, c.Aspect, c.Near, c.Far)
}

// SetAspect updates the perspective aspect ratio after a viewport resize.
// A zero height is ignored.
func (c *Camera) SetAspect(width, height int) {
	if height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// Position returns the camera's position in its parent's space.
func (c *Camera) Position() math.Vec3 {
	return c.tree.Position(c.id)
}

// SetPosition moves the camera without changing its orientation.
func (c *Camera) SetPosition(p math.Vec3) {
	c.tree.SetPosition(c.id, p)
}

// WorldPosition returns the camera's position in world space.
func (c *Camera) WorldPosition() math.Vec3 {
	return c.tree.HierarchicalTransform(c.id).Translation()
}

// Basis returns the camera's right, up and forward directions in world
// space. Forward follows FacingAxis.
func (c *Camera) Basis() (right, up, forward math.Vec3) {
	m := c.tree.HierarchicalTransform(c.id)
	right = m.Column(0).Normalize()
	up = m.Column(1).Normalize()
	forward = m.Column(2).Normalize()
	if c.FacingAxis == scene.FacingNegZ {
		forward = forward.Negate()
	}
	return right, up, forward
}

// LookAt points the camera's facing axis at target.
func (c *Camera) LookAt(target, up math.Vec3) error {
	return c.tree.LookAt(c.id, target, up, c.FacingAxis)
}

// LookAtAxis points the given local axis at target.
func (c *Camera) LookAtAxis(target, up math.Vec3, axis scene.FacingAxis) error {
	return c.tree.LookAt(c.id, target, up, axis)
}

// SaveDefault records the current local transform for Reset.
func (c *Camera) SaveDefault() {
	c.DefaultTransform = c.tree.Local(c.id)
}

// Reset restores the saved default transform.
func (c *Camera) Reset() {
	c.tree.SetLocal(c.id, c.DefaultTransform)
}

// ClampPolar limits a polar angle to [MinPolarAngle, MaxPolarAngle].
func (c *Camera) ClampPolar(theta float32) float32 {
	return math.Clamp(theta, c.MinPolarAngle, c.MaxPolarAngle)
}

// Orbit moves the camera over the sphere around target that passes through
// its current position: dPhi turns the azimuth, dTheta tilts the polar
// angle, which is clamped. The camera then looks at target with WorldUp.
func (c *Camera) Orbit(dPhi, dTheta float32, target math.Vec3) error {
	r, theta, phi := math.CartesianToSpherical(c.Position().Sub(target))
	if r == 0 {
		return nil
	}
	theta = c.ClampPolar(theta + dTheta)
	c.SetPosition(target.Add(math.SphericalToCartesian(r, theta, phi+dPhi)))
	return c.LookAt(target, WorldUp)
}
