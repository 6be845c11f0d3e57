package vmath

import (
	"math"
)

// Vec3 is a float64 3D vector, passed and returned by value
type Vec3 struct {
	X, Y, Z float64
}

// Basis vectors
var (
	V3Zero  = Vec3{}
	V3One   = Vec3{1, 1, 1}
	V3UnitX = Vec3{1, 0, 0}
	V3UnitY = Vec3{0, 1, 0}
	V3UnitZ = Vec3{0, 0, 1}
)

// DefaultAxis is returned by V3Normalize for vectors shorter than Epsilon
var DefaultAxis = V3UnitY

func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

func V3Add(a, b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func V3Sub(a, b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func V3Scale(v Vec3, s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// V3AddScaled returns a + b*s without an intermediate value
func V3AddScaled(a, b Vec3, s float64) Vec3 {
	return Vec3{a.X + b.X*s, a.Y + b.Y*s, a.Z + b.Z*s}
}

// V3Mul is the component-wise product
func V3Mul(a, b Vec3) Vec3 {
	return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z}
}

func V3Neg(v Vec3) Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

func V3Dot(a, b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func V3Cross(a, b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func V3MagSq(v Vec3) float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func V3Mag(v Vec3) float64 {
	return math.Sqrt(V3MagSq(v))
}

func V3Dist(a, b Vec3) float64 {
	return V3Mag(V3Sub(a, b))
}

// V3Normalize returns the unit vector of v, or DefaultAxis when |v| < Epsilon
func V3Normalize(v Vec3) Vec3 {
	magSq := V3MagSq(v)
	if magSq < EpsilonSq || !IsFinite(magSq) {
		return DefaultAxis
	}
	inv := 1.0 / math.Sqrt(magSq)
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// V3NormalizeLen returns the unit vector and the original length
// Length is 0 when DefaultAxis was substituted
func V3NormalizeLen(v Vec3) (Vec3, float64) {
	magSq := V3MagSq(v)
	if magSq < EpsilonSq || !IsFinite(magSq) {
		return DefaultAxis, 0
	}
	mag := math.Sqrt(magSq)
	inv := 1.0 / mag
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}, mag
}

func V3Lerp(a, b Vec3, t float64) Vec3 {
	return Vec3{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// V3ClampMagnitude limits vector magnitude
func V3ClampMagnitude(v Vec3, maxMag float64) Vec3 {
	magSq := V3MagSq(v)
	if magSq <= maxMag*maxMag {
		return v
	}
	return V3Scale(V3Normalize(v), maxMag)
}

// V3Min and V3Max are component-wise, used for bounds
func V3Min(a, b Vec3) Vec3 {
	return Vec3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

func V3Max(a, b Vec3) Vec3 {
	return Vec3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

// V3IsFinite reports whether all components are finite
func V3IsFinite(v Vec3) bool {
	return IsFinite(v.X) && IsFinite(v.Y) && IsFinite(v.Z)
}

// V3ApproxEqual compares component-wise with an absolute tolerance
func V3ApproxEqual(a, b Vec3, tol float64) bool {
	return ApproxEqual(a.X, b.X, tol) && ApproxEqual(a.Y, b.Y, tol) && ApproxEqual(a.Z, b.Z, tol)
}
