package vmath

import (
	"math"
)

// Mat3 is a row-major 3x3 matrix, m[row][col], acting on column vectors
type Mat3 [3][3]float64

// Mat4 is a row-major 4x4 affine matrix, translation in the last column
type Mat4 [4][4]float64

// --- Mat3 ---

var M3Identity = Mat3{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

func M3Mul(a, b Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = a[i][0]*b[0][j] + a[i][1]*b[1][j] + a[i][2]*b[2][j]
		}
	}
	return r
}

func M3MulVec(m Mat3, v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

func M3Transpose(m Mat3) Mat3 {
	return Mat3{
		{m[0][0], m[1][0], m[2][0]},
		{m[0][1], m[1][1], m[2][1]},
		{m[0][2], m[1][2], m[2][2]},
	}
}

func M3Add(a, b Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = a[i][j] + b[i][j]
		}
	}
	return r
}

func M3Scale(m Mat3, s float64) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][j] * s
		}
	}
	return r
}

// M3Outer returns a * b^T
func M3Outer(a, b Vec3) Mat3 {
	return Mat3{
		{a.X * b.X, a.X * b.Y, a.X * b.Z},
		{a.Y * b.X, a.Y * b.Y, a.Y * b.Z},
		{a.Z * b.X, a.Z * b.Y, a.Z * b.Z},
	}
}

// M3Col returns column i as a vector
func M3Col(m Mat3, i int) Vec3 {
	return Vec3{m[0][i], m[1][i], m[2][i]}
}

func M3Det(m Mat3) float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// M3Inverse returns the inverse and false when the matrix is singular
func M3Inverse(m Mat3) (Mat3, bool) {
	det := M3Det(m)
	if math.Abs(det) < EpsilonSq || !IsFinite(det) {
		return M3Identity, false
	}
	inv := 1.0 / det
	return Mat3{
		{
			(m[1][1]*m[2][2] - m[1][2]*m[2][1]) * inv,
			(m[0][2]*m[2][1] - m[0][1]*m[2][2]) * inv,
			(m[0][1]*m[1][2] - m[0][2]*m[1][1]) * inv,
		},
		{
			(m[1][2]*m[2][0] - m[1][0]*m[2][2]) * inv,
			(m[0][0]*m[2][2] - m[0][2]*m[2][0]) * inv,
			(m[0][2]*m[1][0] - m[0][0]*m[1][2]) * inv,
		},
		{
			(m[1][0]*m[2][1] - m[1][1]*m[2][0]) * inv,
			(m[0][1]*m[2][0] - m[0][0]*m[2][1]) * inv,
			(m[0][0]*m[1][1] - m[0][1]*m[1][0]) * inv,
		},
	}, true
}

// --- Mat4 ---

var M4Identity = Mat4{
	{1, 0, 0, 0},
	{0, 1, 0, 0},
	{0, 0, 1, 0},
	{0, 0, 0, 1},
}

func M4Mul(a, b Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = a[i][0]*b[0][j] + a[i][1]*b[1][j] + a[i][2]*b[2][j] + a[i][3]*b[3][j]
		}
	}
	return r
}

// M4MulPoint transforms a point (w = 1)
func M4MulPoint(m Mat4, p Vec3) Vec3 {
	return Vec3{
		m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3],
		m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3],
		m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3],
	}
}

// M4MulDir transforms a direction (w = 0)
func M4MulDir(m Mat4, d Vec3) Vec3 {
	return Vec3{
		m[0][0]*d.X + m[0][1]*d.Y + m[0][2]*d.Z,
		m[1][0]*d.X + m[1][1]*d.Y + m[1][2]*d.Z,
		m[2][0]*d.X + m[2][1]*d.Y + m[2][2]*d.Z,
	}
}

func M4Translation(t Vec3) Mat4 {
	m := M4Identity
	m[0][3], m[1][3], m[2][3] = t.X, t.Y, t.Z
	return m
}

func M4Scaling(s Vec3) Mat4 {
	m := M4Identity
	m[0][0], m[1][1], m[2][2] = s.X, s.Y, s.Z
	return m
}

func M4FromMat3(r Mat3) Mat4 {
	m := M4Identity
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = r[i][j]
		}
	}
	return m
}

func M4Rotation(q Quat) Mat4 {
	return M4FromMat3(QToMat3(q))
}

// M4TRS composes translation * rotation * scale in one pass
func M4TRS(t Vec3, r Quat, s Vec3) Mat4 {
	rm := QToMat3(r)
	return Mat4{
		{rm[0][0] * s.X, rm[0][1] * s.Y, rm[0][2] * s.Z, t.X},
		{rm[1][0] * s.X, rm[1][1] * s.Y, rm[1][2] * s.Z, t.Y},
		{rm[2][0] * s.X, rm[2][1] * s.Y, rm[2][2] * s.Z, t.Z},
		{0, 0, 0, 1},
	}
}

// M4Upper returns the upper-left 3x3 block
func M4Upper(m Mat4) Mat3 {
	return Mat3{
		{m[0][0], m[0][1], m[0][2]},
		{m[1][0], m[1][1], m[1][2]},
		{m[2][0], m[2][1], m[2][2]},
	}
}

// M4GetTranslation returns the translation column
func M4GetTranslation(m Mat4) Vec3 {
	return Vec3{m[0][3], m[1][3], m[2][3]}
}

// M4Decompose splits an affine matrix into translation, rotation and scale
// Shear from non-uniformly scaled parents is discarded
func M4Decompose(m Mat4) (Vec3, Quat, Vec3) {
	t := M4GetTranslation(m)
	up := M4Upper(m)
	c0, c1, c2 := M3Col(up, 0), M3Col(up, 1), M3Col(up, 2)
	s := Vec3{V3Mag(c0), V3Mag(c1), V3Mag(c2)}
	if M3Det(up) < 0 {
		s.X = -s.X
	}

	var rm Mat3
	cols := [3]Vec3{c0, c1, c2}
	scales := [3]float64{s.X, s.Y, s.Z}
	for j := 0; j < 3; j++ {
		inv := 0.0
		if math.Abs(scales[j]) > Epsilon {
			inv = 1.0 / scales[j]
		}
		col := V3Scale(cols[j], inv)
		rm[0][j], rm[1][j], rm[2][j] = col.X, col.Y, col.Z
	}
	return t, QFromMat3(rm), s
}

// M4Inverse inverts an affine matrix, returning identity and false when singular
func M4Inverse(m Mat4) (Mat4, bool) {
	up, ok := M3Inverse(M4Upper(m))
	if !ok {
		return M4Identity, false
	}
	t := V3Neg(M3MulVec(up, M4GetTranslation(m)))
	r := M4FromMat3(up)
	r[0][3], r[1][3], r[2][3] = t.X, t.Y, t.Z
	return r, true
}
