package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rotate applies the 4x4 column-major matrix to a 3D point (w=1).
func rotate(m []float32, x, y, z float32) (float32, float32, float32) {
	return m[0]*x + m[4]*y + m[8]*z,
		m[1]*x + m[5]*y + m[9]*z,
		m[2]*x + m[6]*y + m[10]*z
}

func TestIdentity(t *testing.T) {
	m := make([]float32, 16)
	for i := range m {
		m[i] = 42
	}
	Identity(m)

	x, y, z := rotate(m, 1, 2, 3)
	assert.Equal(t, float32(1), x)
	assert.Equal(t, float32(2), y)
	assert.Equal(t, float32(3), z)
	assert.Equal(t, float32(1), m[15])
}

func TestIdentityQuatRotationMatrix(t *testing.T) {
	m := make([]float32, 16)
	Quat{W: 1}.RotationMatrix(m)

	expected := make([]float32, 16)
	Identity(expected)
	assert.Equal(t, expected, m)
}

func TestQuarterTurnAboutZ(t *testing.T) {
	q := QuatFromAxisAngle(0, 0, 1, math.Pi/2)
	m := make([]float32, 16)
	q.RotationMatrix(m)

	// A quarter turn about +z maps +x to +y.
	x, y, z := rotate(m, 1, 0, 0)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 1, y, 1e-6)
	assert.InDelta(t, 0, z, 1e-6)
}

func TestQuatMulComposesRotations(t *testing.T) {
	// Two quarter turns about z compose to a half turn: +x maps to -x.
	quarter := QuatFromAxisAngle(0, 0, 1, math.Pi/2)
	half := quarter.Mul(quarter)

	m := make([]float32, 16)
	half.RotationMatrix(m)
	x, y, _ := rotate(m, 1, 0, 0)
	assert.InDelta(t, -1, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)
}

func TestNormalized(t *testing.T) {
	q := Quat{X: 2, Y: 0, Z: 0, W: 0}.Normalized()
	assert.InDelta(t, 1, q.X, 1e-6)

	length := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	assert.InDelta(t, 1, length, 1e-6)

	// Zero quaternion passes through instead of dividing by zero.
	zero := Quat{}.Normalized()
	assert.Equal(t, Quat{}, zero)
}

func TestQuatFromAxisAngleZeroAxis(t *testing.T) {
	q := QuatFromAxisAngle(0, 0, 0, 1.5)
	require.Equal(t, Quat{W: 1}, q)
}
