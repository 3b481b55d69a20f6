package math

import "github.com/chewxy/math32"

// SphericalToCartesian converts spherical coordinates to a point.
// theta is the polar angle measured from +Z, phi the azimuth in the XY
// plane measured from +X.
func SphericalToCartesian(r, theta, phi float32) Vec3 {
	sinTheta, cosTheta := math32.Sincos(theta)
	sinPhi, cosPhi := math32.Sincos(phi)
	return Vec3{
		X: r * sinTheta * cosPhi,
		Y: r * sinTheta * sinPhi,
		Z: r * cosTheta,
	}
}

// CartesianToSpherical is the inverse of SphericalToCartesian.
// The origin maps to (0, 0, 0).
func CartesianToSpherical(v Vec3) (r, theta, phi float32) {
	r = v.Length()
	if r == 0 {
		return 0, 0, 0
	}
	theta = math32.Acos(clamp(v.Z/r, -1, 1))
	phi = math32.Atan2(v.Y, v.X)
	return r, theta, phi
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	return clamp(x, lo, hi)
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
