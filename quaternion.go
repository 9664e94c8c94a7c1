package dynamo

import (
	"fmt"
	"math"
)

// axisAngleEpsilon is the sin(θ/2) threshold below which AxisAngle returns
// the raw vector part instead of dividing by it.
const axisAngleEpsilon = 0.001

// Quaternion is a rotation a + b·i + c·j + d·k with A the scalar part.
// The zero value is not a rotation; use IdentityQuaternion.
type Quaternion struct {
	A, B, C, D float64
}

// IdentityQuaternion returns the rotation that leaves every vector unchanged.
func IdentityQuaternion() Quaternion {
	return Quaternion{A: 1}
}

// QuaternionFromAxisAngle builds a unit quaternion rotating by angle radians
// around (x, y, z). The axis need not be normalized but must not be zero.
func QuaternionFromAxisAngle(x, y, z, angle float64) (Quaternion, error) {
	n := math.Sqrt(x*x + y*y + z*z)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return Quaternion{}, fmt.Errorf("%w: (%v, %v, %v)", ErrDegenerateAxis, x, y, z)
	}
	sin, cos := math.Sincos(angle / 2)
	s := sin / n
	q := Quaternion{A: cos, B: x * s, C: y * s, D: z * s}
	return q.Normalize(), nil
}

// QuaternionFromValue converts an axis-angle 4-tuple.
func QuaternionFromValue(v Value) (Quaternion, error) {
	if v.Kind != KindTuple || len(v.Tuple) != 4 {
		return Quaternion{}, fmt.Errorf("%w: rotation wants a 4-tuple, got %s %v", ErrTypeMismatch, v.Kind, v)
	}
	return QuaternionFromAxisAngle(v.Tuple[0], v.Tuple[1], v.Tuple[2], v.Tuple[3])
}

// Norm returns the Euclidean length of q.
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.A*q.A + q.B*q.B + q.C*q.C + q.D*q.D)
}

// Normalize returns q rescaled to unit length. A zero quaternion is returned
// unchanged.
func (q Quaternion) Normalize() Quaternion {
	n := q.Norm()
	if n == 0 {
		return q
	}
	inv := 1 / n
	return Quaternion{A: q.A * inv, B: q.B * inv, C: q.C * inv, D: q.D * inv}
}

// Compose returns the Hamilton product q·r. Folding rotations left to right
// (IdentityQuaternion().Compose(r1).Compose(r2)...) keeps the first rotation
// leftmost, so r2 acts in the frame already rotated by r1:
// q.Compose(r).Rotate(v) equals q.Rotate(r.Rotate(v)).
func (q Quaternion) Compose(r Quaternion) Quaternion {
	return Quaternion{
		A: q.A*r.A - q.B*r.B - q.C*r.C - q.D*r.D,
		B: q.A*r.B + q.B*r.A + q.C*r.D - q.D*r.C,
		C: q.A*r.C - q.B*r.D + q.C*r.A + q.D*r.B,
		D: q.A*r.D + q.B*r.C - q.C*r.B + q.D*r.A,
	}
}

// Conjugate returns the inverse rotation of a unit quaternion.
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{A: q.A, B: -q.B, C: -q.C, D: -q.D}
}

// Rotate applies q to the vector v.
func (q Quaternion) Rotate(v [3]float64) [3]float64 {
	p := Quaternion{B: v[0], C: v[1], D: v[2]}
	r := q.Compose(p).Compose(q.Conjugate())
	return [3]float64{r.B, r.C, r.D}
}

// AxisAngle converts q back to [x, y, z, angle]. Near the identity, where
// sin(θ/2) < 0.001, the unscaled vector part is returned as the axis.
func (q Quaternion) AxisAngle() [4]float64 {
	if q.A > 1 || q.A < -1 {
		q = q.Normalize()
	}
	a := math.Max(-1, math.Min(1, q.A))
	angle := 2 * math.Acos(a)
	s := math.Sqrt(1 - a*a)
	if s < axisAngleEpsilon {
		return [4]float64{q.B, q.C, q.D, angle}
	}
	return [4]float64{q.B / s, q.C / s, q.D / s, angle}
}

// Value returns q as an axis-angle tuple.
func (q Quaternion) Value() Value {
	aa := q.AxisAngle()
	return Tuple(aa[:]...)
}

// String returns "Q[a,b,c,d]".
func (q Quaternion) String() string {
	return fmt.Sprintf("Q[%v,%v,%v,%v]", q.A, q.B, q.C, q.D)
}
