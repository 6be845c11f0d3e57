package vmath

import (
	"math"
)

// Quat is a rotation quaternion (X, Y, Z vector part, W scalar part)
// Composition renormalizes to bound drift from repeated multiplication
type Quat struct {
	X, Y, Z, W float64
}

// QIdentity is the no-rotation quaternion
var QIdentity = Quat{0, 0, 0, 1}

// QFromAxisAngle builds a rotation of angle radians around axis
// A zero axis falls back to DefaultAxis through V3Normalize
func QFromAxisAngle(axis Vec3, angle float64) Quat {
	n := V3Normalize(axis)
	s, c := math.Sincos(angle * 0.5)
	return Quat{n.X * s, n.Y * s, n.Z * s, c}
}

// QFromEuler builds a rotation from yaw (Y), pitch (X) and roll (Z), applied roll, pitch, yaw
func QFromEuler(pitch, yaw, roll float64) Quat {
	qx := QFromAxisAngle(V3UnitX, pitch)
	qy := QFromAxisAngle(V3UnitY, yaw)
	qz := QFromAxisAngle(V3UnitZ, roll)
	return QMul(qy, QMul(qx, qz))
}

func QDot(a, b Quat) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

// QNormalize returns the unit quaternion, identity for zero or non-finite input
func QNormalize(q Quat) Quat {
	magSq := QDot(q, q)
	if magSq < EpsilonSq || !IsFinite(magSq) {
		return QIdentity
	}
	inv := 1.0 / math.Sqrt(magSq)
	return Quat{q.X * inv, q.Y * inv, q.Z * inv, q.W * inv}
}

// qMulRaw is the Hamilton product without renormalization
func qMulRaw(a, b Quat) Quat {
	return Quat{
		a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y,
		a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X,
		a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W,
		a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z,
	}
}

// QMul composes rotations: the result applies b first, then a
func QMul(a, b Quat) Quat {
	return QNormalize(qMulRaw(a, b))
}

// QConj is the conjugate, equal to the inverse for unit quaternions
func QConj(q Quat) Quat {
	return Quat{-q.X, -q.Y, -q.Z, q.W}
}

// QInverse handles non-unit input
func QInverse(q Quat) Quat {
	magSq := QDot(q, q)
	if magSq < EpsilonSq {
		return QIdentity
	}
	inv := 1.0 / magSq
	return Quat{-q.X * inv, -q.Y * inv, -q.Z * inv, q.W * inv}
}

// QRotate rotates v by unit quaternion q
func QRotate(q Quat, v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := V3Scale(V3Cross(u, v), 2)
	return V3Add(V3AddScaled(v, t, q.W), V3Cross(u, t))
}

// QNlerp is normalized linear interpolation along the shortest arc
func QNlerp(a, b Quat, t float64) Quat {
	if QDot(a, b) < 0 {
		b = Quat{-b.X, -b.Y, -b.Z, -b.W}
	}
	return QNormalize(Quat{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
		a.W + (b.W-a.W)*t,
	})
}

// QSlerp is spherical interpolation along the shortest arc
// Nearly parallel inputs fall back to QNlerp
func QSlerp(a, b Quat, t float64) Quat {
	d := QDot(a, b)
	if d < 0 {
		b = Quat{-b.X, -b.Y, -b.Z, -b.W}
		d = -d
	}
	if d > 0.9995 {
		return QNlerp(a, b, t)
	}
	theta := math.Acos(Clamp(d, -1, 1))
	sinTheta := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sinTheta
	wb := math.Sin(t*theta) / sinTheta
	return QNormalize(Quat{
		a.X*wa + b.X*wb,
		a.Y*wa + b.Y*wb,
		a.Z*wa + b.Z*wb,
		a.W*wa + b.W*wb,
	})
}

// QIntegrate advances q by angular velocity omega (rad/s, world frame) over dt
func QIntegrate(q Quat, omega Vec3, dt float64) Quat {
	axis, rate := V3NormalizeLen(omega)
	if rate == 0 || dt == 0 {
		return q
	}
	return QMul(QFromAxisAngle(axis, rate*dt), q)
}

// QAngle returns the rotation angle of q in [0, pi]
func QAngle(q Quat) float64 {
	w := math.Abs(Clamp(q.W, -1, 1))
	return 2 * math.Acos(w)
}

// QIsFinite reports whether all components are finite
func QIsFinite(q Quat) bool {
	return IsFinite(q.X) && IsFinite(q.Y) && IsFinite(q.Z) && IsFinite(q.W)
}

// QToMat3 converts a unit quaternion to a rotation matrix
func QToMat3(q Quat) Mat3 {
	xx, yy, zz := q.X*q.X, q.Y*q.Y, q.Z*q.Z
	xy, xz, yz := q.X*q.Y, q.X*q.Z, q.Y*q.Z
	wx, wy, wz := q.W*q.X, q.W*q.Y, q.W*q.Z
	return Mat3{
		{1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy)},
		{2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx)},
		{2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy)},
	}
}

// QFromMat3 converts a rotation matrix to a unit quaternion (Shepperd's method)
func QFromMat3(m Mat3) Quat {
	trace := m[0][0] + m[1][1] + m[2][2]
	var q Quat
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = Quat{(m[2][1] - m[1][2]) * s, (m[0][2] - m[2][0]) * s, (m[1][0] - m[0][1]) * s, 0.25 / s}
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := 2 * math.Sqrt(1+m[0][0]-m[1][1]-m[2][2])
		q = Quat{0.25 * s, (m[0][1] + m[1][0]) / s, (m[0][2] + m[2][0]) / s, (m[2][1] - m[1][2]) / s}
	case m[1][1] > m[2][2]:
		s := 2 * math.Sqrt(1+m[1][1]-m[0][0]-m[2][2])
		q = Quat{(m[0][1] + m[1][0]) / s, 0.25 * s, (m[1][2] + m[2][1]) / s, (m[0][2] - m[2][0]) / s}
	default:
		s := 2 * math.Sqrt(1+m[2][2]-m[0][0]-m[1][1])
		q = Quat{(m[0][2] + m[2][0]) / s, (m[1][2] + m[2][1]) / s, 0.25 * s, (m[1][0] - m[0][1]) / s}
	}
	return QNormalize(q)
}
