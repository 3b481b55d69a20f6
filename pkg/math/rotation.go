package math

import (
	"math"

	"github.com/chewxy/math32"
)

// parallelEpsilon is the squared cross-product length below which two
// directions are treated as parallel.
const parallelEpsilon = 1e-12

// RotationBetween returns the rotation matrix carrying the direction of a
// onto the direction of b. Neither vector needs to be unit length.
//
// The angle is computed as 2*atan2(|na-nb|, |na+nb|) on the normalized
// inputs, which stays accurate near 0 and pi where acos(dot) does not.
// Equal directions and zero vectors give the identity. Opposite
// directions rotate by pi about an arbitrary axis orthogonal to a.
func RotationBetween(a, b Vec3) Mat4 {
	return RotationBetweenFallback(a, b, Vec3{})
}

// RotationBetweenFallback is RotationBetween with the axis used for
// opposite directions chosen by the caller. A zero fallback picks one.
func RotationBetweenFallback(a, b, fallback Vec3) Mat4 {
	na := a.Normalize()
	nb := b.Normalize()
	if na == (Vec3{}) || nb == (Vec3{}) {
		return Identity()
	}

	angle := 2 * math32.Atan2(na.Sub(nb).Length(), na.Add(nb).Length())

	axis := na.Cross(nb)
	if axis.Dot(axis) < parallelEpsilon {
		if angle < math.Pi/2 {
			return Identity()
		}
		axis = fallback
		if axis == (Vec3{}) {
			axis = orthogonal(na)
		}
	}

	return RotateAxis(axis, angle)
}

// orthogonal returns some unit vector perpendicular to v.
func orthogonal(v Vec3) Vec3 {
	if math32.Abs(v.X) > math32.Abs(v.Z) {
		return Vec3{-v.Y, v.X, 0}.Normalize()
	}
	return Vec3{0, -v.Z, v.Y}.Normalize()
}

// ApproxEqual reports whether a and b differ by at most tol.
func ApproxEqual(a, b, tol float32) bool {
	return math32.Abs(a-b) <= tol
}
