package scene

import (
	"github.com/pkg/errors"

	"github.com/eulertour/manim-opengl-tutorial/pkg/math"
)

// Local returns the node's local transform.
func (t *Tree) Local(id NodeID) math.Mat4 {
	return t.must(id).local
}

// SetLocal replaces the node's local transform.
func (t *Tree) SetLocal(id NodeID, m math.Mat4) {
	t.must(id).local = m
	t.markDirty(id)
}

// Apply pre-multiplies the node's local transform by m (local = m * local),
// so m acts in the parent's space after everything already applied.
func (t *Tree) Apply(id NodeID, m math.Mat4) {
	n := t.must(id)
	n.local = m.Mul(n.local)
	t.markDirty(id)
}

// Position returns the translation column of the local transform.
func (t *Tree) Position(id NodeID) math.Vec3 {
	return t.must(id).local.Translation()
}

// SetPosition replaces only the translation column of the local transform.
func (t *Tree) SetPosition(id NodeID, p math.Vec3) {
	n := t.must(id)
	n.local = n.local.WithTranslation(p)
	t.markDirty(id)
}

// Axes returns the local X, Y and Z axis columns, normalized.
func (t *Tree) Axes(id NodeID) (x, y, z math.Vec3) {
	m := t.must(id).local
	return m.Column(0).Normalize(), m.Column(1).Normalize(), m.Column(2).Normalize()
}

// markDirty invalidates the cached world transform of id and its subtree.
func (t *Tree) markDirty(id NodeID) {
	t.walk(id, func(cur NodeID) {
		t.nodes[cur].dirty = true
	})
}

// HierarchicalTransform returns the world transform of id: every
// ancestor's local transform, root first, times the node's own.
// The result is cached until the node or an ancestor changes.
func (t *Tree) HierarchicalTransform(id NodeID) math.Mat4 {
	n := t.must(id)
	if !n.dirty {
		return n.world
	}
	if n.parent == NoNode {
		n.world = n.local
	} else {
		n.world = t.HierarchicalTransform(n.parent).Mul(n.local)
	}
	n.dirty = false
	return n.world
}

// HierarchicalNormalTransform returns the matrix for transforming the
// node's vertex normals into world space: the inverse-transpose of the
// linear part of HierarchicalTransform, with no translation. It is derived
// on every read, so it cannot drift from the model transform.
func (t *Tree) HierarchicalNormalTransform(id NodeID) math.Mat4 {
	return math.FromMat3(math.NormalMatrix(t.HierarchicalTransform(id)))
}

// FacingAxis selects which local axis LookAt points at the target.
type FacingAxis int

const (
	// FacingNegZ points the node's -Z axis at the target (cameras).
	FacingNegZ FacingAxis = iota
	// FacingPosZ points the node's +Z axis at the target (labels, indicators).
	FacingPosZ
)

// ErrFacingAxis is returned by LookAt for a facing axis it does not know.
var ErrFacingAxis = errors.New("unknown facing axis")

func (a FacingAxis) String() string {
	switch a {
	case FacingNegZ:
		return "-z"
	case FacingPosZ:
		return "z"
	default:
		return "invalid"
	}
}

// ParseFacingAxis converts "-z" or "z"/"+z" to a FacingAxis.
func ParseFacingAxis(s string) (FacingAxis, error) {
	switch s {
	case "-z":
		return FacingNegZ, nil
	case "z", "+z":
		return FacingPosZ, nil
	default:
		return 0, errors.Wrapf(ErrFacingAxis, "%q", s)
	}
}

// facing returns the node's facing direction in parent space.
func facing(m math.Mat4, axis FacingAxis) math.Vec3 {
	if axis == FacingNegZ {
		return m.Column(2).Negate()
	}
	return m.Column(2)
}

// LookAt orients the node so its facing axis points at target and its
// +Y axis is as close to up as possible. target and up are expressed in
// the node's parent space (world space for roots).
//
// The node rotates in place about its own position in two steps: first
// the facing axis is turned onto the direction to the target, then the
// resulting +Y axis is turned onto up projected onto the plane
// perpendicular to that direction. The second step reads the +Y axis
// produced by the first. A target at the node's position leaves it as is.
func (t *Tree) LookAt(id NodeID, target, up math.Vec3, axis FacingAxis) error {
	if axis != FacingNegZ && axis != FacingPosZ {
		return errors.Wrapf(ErrFacingAxis, "look at: %d", int(axis))
	}
	n, err := t.get(id)
	if err != nil {
		return errors.Wrap(err, "look at")
	}

	pos := n.local.Translation()
	toTarget := target.Sub(pos).Normalize()
	if toTarget == (math.Vec3{}) {
		return nil
	}

	face := math.RotationBetween(facing(n.local, axis), toTarget)
	n.local = math.RotateAbout(pos, face).Mul(n.local)

	projectedUp := up.Sub(toTarget.Scale(up.Dot(toTarget))).Normalize()
	// Turning the up axis about toTarget keeps the facing axis fixed,
	// including the half-turn case where up is upside down.
	roll := math.RotationBetweenFallback(n.local.Column(1), projectedUp, toTarget)
	n.local = math.RotateAbout(pos, roll).Mul(n.local)

	t.markDirty(id)
	return nil
}
