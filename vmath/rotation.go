package vmath

import (
	"math"
)

// ExtractRotation finds the rotation closest to the linear map a
// Iterative polar rotation (Müller et al. 2016), warm-started from q
// Converges for rank-deficient a (coplanar or collinear point sets) where a
// closed-form polar decomposition would divide by zero
func ExtractRotation(a Mat3, q Quat, iterations int) Quat {
	q = QNormalize(q)
	a0, a1, a2 := M3Col(a, 0), M3Col(a, 1), M3Col(a, 2)

	for i := 0; i < iterations; i++ {
		r := QToMat3(q)
		r0, r1, r2 := M3Col(r, 0), M3Col(r, 1), M3Col(r, 2)

		num := V3Add(V3Add(V3Cross(r0, a0), V3Cross(r1, a1)), V3Cross(r2, a2))
		den := math.Abs(V3Dot(r0, a0)+V3Dot(r1, a1)+V3Dot(r2, a2)) + Epsilon
		omega := V3Scale(num, 1.0/den)

		axis, w := V3NormalizeLen(omega)
		if w < Epsilon {
			break
		}
		q = QMul(QFromAxisAngle(axis, w), q)
	}
	return q
}
