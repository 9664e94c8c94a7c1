package dynamo

import (
	"errors"
	"math"
	"testing"

	"pgregory.net/rapid"
)

const quatEpsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestQuaternionIdentity(t *testing.T) {
	q := IdentityQuaternion()
	if q != (Quaternion{A: 1}) {
		t.Errorf("IdentityQuaternion() = %v, want Q[1,0,0,0]", q)
	}
	aa := q.AxisAngle()
	if aa[3] != 0 {
		t.Errorf("identity angle = %v, want 0", aa[3])
	}
}

func TestQuaternionRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		x, y, z float64
		angle   float64
	}{
		{"y quarter turn", 0, 1, 0, math.Pi / 2},
		{"x sixth turn", 1, 0, 0, math.Pi / 3},
		{"z one radian", 0, 0, 1, 1},
		{"diagonal", 1, 1, 0, 2},
		{"unnormalized", 0, 0, 5, 0.75},
		{"half turn", 0, 1, 0, math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := QuaternionFromAxisAngle(tt.x, tt.y, tt.z, tt.angle)
			if err != nil {
				t.Fatalf("QuaternionFromAxisAngle: %v", err)
			}
			n := math.Sqrt(tt.x*tt.x + tt.y*tt.y + tt.z*tt.z)
			want := [4]float64{tt.x / n, tt.y / n, tt.z / n, tt.angle}
			got := q.AxisAngle()
			for i := range want {
				if !approxEqual(got[i], want[i], quatEpsilon) {
					t.Errorf("AxisAngle()[%d] = %v, want %v (got %v)", i, got[i], want[i], got)
				}
			}
		})
	}
}

func TestQuaternionFromAxisAngleIsUnit(t *testing.T) {
	q, err := QuaternionFromAxisAngle(3, -4, 12, 2.5)
	if err != nil {
		t.Fatal(err)
	}
	if !approxEqual(q.Norm(), 1, quatEpsilon) {
		t.Errorf("Norm() = %v, want 1", q.Norm())
	}
}

func TestQuaternionZeroAxis(t *testing.T) {
	_, err := QuaternionFromAxisAngle(0, 0, 0, 1)
	if !errors.Is(err, ErrDegenerateAxis) {
		t.Errorf("err = %v, want ErrDegenerateAxis", err)
	}
}

func TestQuaternionComposeSameAxis(t *testing.T) {
	q, _ := QuaternionFromAxisAngle(0, 1, 0, math.Pi/2)
	got := IdentityQuaternion().Compose(q).Compose(q).AxisAngle()
	want := [4]float64{0, 1, 0, math.Pi}
	for i := range want {
		if !approxEqual(got[i], want[i], quatEpsilon) {
			t.Fatalf("composed = %v, want %v", got, want)
		}
	}
}

func TestQuaternionComposeNonCommutative(t *testing.T) {
	x, _ := QuaternionFromAxisAngle(1, 0, 0, math.Pi/2)
	y, _ := QuaternionFromAxisAngle(0, 1, 0, math.Pi/2)
	xy := x.Compose(y)
	yx := y.Compose(x)
	same := approxEqual(xy.A, yx.A, 1e-6) && approxEqual(xy.B, yx.B, 1e-6) &&
		approxEqual(xy.C, yx.C, 1e-6) && approxEqual(xy.D, yx.D, 1e-6)
	if same {
		t.Errorf("x·y = %v equals y·x = %v, want different", xy, yx)
	}
}

func TestQuaternionComposeOrder(t *testing.T) {
	x, _ := QuaternionFromAxisAngle(1, 0, 0, math.Pi/2)
	z, _ := QuaternionFromAxisAngle(0, 0, 1, math.Pi/2)
	v := [3]float64{0, 1, 0}

	got := IdentityQuaternion().Compose(x).Compose(z).Rotate(v)
	// z turns v onto -x, which the x rotation leaves in place.
	want := x.Rotate(z.Rotate(v))
	for i, w := range [3]float64{-1, 0, 0} {
		if !approxEqual(want[i], w, quatEpsilon) {
			t.Fatalf("x.Rotate(z.Rotate(v)) = %v, want [-1 0 0]", want)
		}
		if !approxEqual(got[i], want[i], quatEpsilon) {
			t.Fatalf("composed Rotate = %v, want %v", got, want)
		}
	}
	// Rotating by x first, then by z about the fixed axes, gives another result.
	other := z.Rotate(x.Rotate(v))
	if approxEqual(other[0], got[0], 1e-6) && approxEqual(other[2], got[2], 1e-6) {
		t.Errorf("z.Rotate(x.Rotate(v)) = %v, want it to differ from %v", other, got)
	}
}

func TestQuaternionComposeOrderProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x1, y1, z1, a1 := drawAxisAngle(t)
		x2, y2, z2, a2 := drawAxisAngle(t)
		q1, _ := QuaternionFromAxisAngle(x1, y1, z1, a1)
		q2, _ := QuaternionFromAxisAngle(x2, y2, z2, a2)
		v := [3]float64{
			rapid.Float64Range(-10, 10).Draw(t, "vx"),
			rapid.Float64Range(-10, 10).Draw(t, "vy"),
			rapid.Float64Range(-10, 10).Draw(t, "vz"),
		}
		got := IdentityQuaternion().Compose(q1).Compose(q2).Rotate(v)
		want := q1.Rotate(q2.Rotate(v))
		for i := range want {
			if !approxEqual(got[i], want[i], 1e-9) {
				t.Fatalf("composed Rotate = %v, want %v", got, want)
			}
		}
	})
}

func TestQuaternionComposeWithIdentity(t *testing.T) {
	q, _ := QuaternionFromAxisAngle(1, 2, 3, 0.4)
	if got := IdentityQuaternion().Compose(q); got != q {
		t.Errorf("I·q = %v, want %v", got, q)
	}
	if got := q.Compose(IdentityQuaternion()); got != q {
		t.Errorf("q·I = %v, want %v", got, q)
	}
}

func TestQuaternionRotate(t *testing.T) {
	q, _ := QuaternionFromAxisAngle(0, 0, 1, math.Pi/2)
	got := q.Rotate([3]float64{1, 0, 0})
	want := [3]float64{0, 1, 0}
	for i := range want {
		if !approxEqual(got[i], want[i], quatEpsilon) {
			t.Fatalf("Rotate = %v, want %v", got, want)
		}
	}
}

func TestQuaternionNearIdentityAxisAngle(t *testing.T) {
	q := Quaternion{A: 1, B: 1e-5}
	got := q.AxisAngle()
	for i, x := range got {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			t.Fatalf("AxisAngle()[%d] = %v, want finite", i, x)
		}
	}
	if got[0] != 1e-5 {
		t.Errorf("axis x = %v, want raw vector part 1e-5", got[0])
	}
}

func TestQuaternionFromValue(t *testing.T) {
	if _, err := QuaternionFromValue(Tuple(0, 1, 0)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("3-tuple err = %v, want ErrTypeMismatch", err)
	}
	if _, err := QuaternionFromValue(Number(1)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("number err = %v, want ErrTypeMismatch", err)
	}
	if _, err := QuaternionFromValue(Tuple(0, 1, 0, 1)); err != nil {
		t.Errorf("4-tuple err = %v", err)
	}
}

func drawAxisAngle(t *rapid.T) (x, y, z, angle float64) {
	x = rapid.Float64Range(0.1, 1).Draw(t, "x")
	y = rapid.Float64Range(-1, 1).Draw(t, "y")
	z = rapid.Float64Range(-1, 1).Draw(t, "z")
	angle = rapid.Float64Range(0.01, math.Pi-0.01).Draw(t, "angle")
	return x, y, z, angle
}

func TestQuaternionRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x, y, z, angle := drawAxisAngle(t)
		q, err := QuaternionFromAxisAngle(x, y, z, angle)
		if err != nil {
			t.Fatalf("QuaternionFromAxisAngle: %v", err)
		}
		n := math.Sqrt(x*x + y*y + z*z)
		want := [4]float64{x / n, y / n, z / n, angle}
		got := q.AxisAngle()
		for i := range want {
			if !approxEqual(got[i], want[i], 1e-6) {
				t.Fatalf("AxisAngle() = %v, want %v", got, want)
			}
		}
	})
}

func TestQuaternionComposeUnitProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x1, y1, z1, a1 := drawAxisAngle(t)
		x2, y2, z2, a2 := drawAxisAngle(t)
		q1, _ := QuaternionFromAxisAngle(x1, y1, z1, a1)
		q2, _ := QuaternionFromAxisAngle(x2, y2, z2, a2)
		if n := q1.Compose(q2).Norm(); !approxEqual(n, 1, 1e-9) {
			t.Fatalf("|q1·q2| = %v, want 1", n)
		}
	})
}

func TestQuaternionNormalize(t *testing.T) {
	q := Quaternion{A: 2, B: 0, C: 0, D: 2}.Normalize()
	if !approxEqual(q.Norm(), 1, quatEpsilon) {
		t.Errorf("Norm() = %v, want 1", q.Norm())
	}
	again := q.Normalize()
	if !approxEqual(again.A, q.A, quatEpsilon) || !approxEqual(again.D, q.D, quatEpsilon) {
		t.Errorf("Normalize() not idempotent: %v then %v", q, again)
	}
	if z := (Quaternion{}).Normalize(); z != (Quaternion{}) {
		t.Errorf("zero Normalize() = %v, want zero", z)
	}
}
