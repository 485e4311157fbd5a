package common

import "github.com/chewxy/math32"

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Normalized returns the quaternion scaled to unit length. A zero quaternion
// is returned unchanged rather than dividing by zero.
//
// Returns:
//   - Quat: the unit-length quaternion
func (q Quat) Normalized() Quat {
	len2 := float32(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if len2 == 0 {
		return q
	}
	inv := float64(1 / math32.Sqrt(len2))
	return Quat{X: q.X * inv, Y: q.Y * inv, Z: q.Z * inv, W: q.W * inv}
}

// Mul returns the Hamilton product q * r, composing the rotation r followed
// by q.
//
// Parameters:
//   - r: the right-hand quaternion
//
// Returns:
//   - Quat: the composed rotation
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

// QuatFromAxisAngle builds a unit quaternion rotating by angle radians around
// the given axis. The axis does not need to be normalized.
//
// Parameters:
//   - axisX, axisY, axisZ: rotation axis
//   - angle: rotation angle in radians
//
// Returns:
//   - Quat: the unit rotation quaternion
func QuatFromAxisAngle(axisX, axisY, axisZ, angle float32) Quat {
	len2 := axisX*axisX + axisY*axisY + axisZ*axisZ
	if len2 == 0 {
		return Quat{W: 1}
	}
	inv := 1 / math32.Sqrt(len2)
	s := math32.Sin(angle / 2)
	return Quat{
		X: float64(axisX * inv * s),
		Y: float64(axisY * inv * s),
		Z: float64(axisZ * inv * s),
		W: float64(math32.Cos(angle / 2)),
	}
}

// RotationMatrix writes the 4x4 column-major rotation matrix equivalent to
// the quaternion into out. The quaternion is assumed to be unit length;
// non-unit input skews the result.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
func (q Quat) RotationMatrix(out []float32) {
	xx := float32(q.X * q.X)
	yy := float32(q.Y * q.Y)
	zz := float32(q.Z * q.Z)
	xy := float32(q.X * q.Y)
	xz := float32(q.X * q.Z)
	yz := float32(q.Y * q.Z)
	wx := float32(q.W * q.X)
	wy := float32(q.W * q.Y)
	wz := float32(q.W * q.Z)

	out[0] = 1 - 2*(yy+zz)
	out[1] = 2 * (xy + wz)
	out[2] = 2 * (xz - wy)
	out[3] = 0

	out[4] = 2 * (xy - wz)
	out[5] = 1 - 2*(xx+zz)
	out[6] = 2 * (yz + wx)
	out[7] = 0

	out[8] = 2 * (xz + wy)
	out[9] = 2 * (yz - wx)
	out[10] = 1 - 2*(xx+yy)
	out[11] = 0

	out[12] = 0
	out[13] = 0
	out[14] = 0
	out[15] = 1
}
