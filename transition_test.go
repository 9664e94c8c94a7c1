package dynamo

import (
	"errors"
	"testing"
)

func twoSnapshots() (from, to Snapshot) {
	from = Snapshot{
		"n": {
			"translation": Tuple(0, 0, 0),
			"meanvalue":   Number(0),
			"render":      Bool(false),
		},
	}
	to = Snapshot{
		"n": {
			"translation": Tuple(2, 4, -6),
			"meanvalue":   Number(1),
			"render":      Bool(true),
		},
		"m": {
			"center": Tuple(1, 1, 1),
		},
	}
	return from, to
}

func TestEvaluateMidpoint(t *testing.T) {
	from, to := twoSnapshots()
	got, err := Evaluate(from, to, 0.5)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	tests := []struct {
		id, field string
		want      Value
	}{
		{"n", "translation", Tuple(1, 2, -3)},
		{"n", "meanvalue", Number(0.5)},
		{"n", "render", Bool(true)},
		// absent from the source: jumps straight to the target
		{"m", "center", Tuple(1, 1, 1)},
	}
	for _, tt := range tests {
		if v, _ := got.Get(tt.id, tt.field); !v.Equal(tt.want) {
			t.Errorf("%s.%s = %v, want %v", tt.id, tt.field, v, tt.want)
		}
	}
}

func TestEvaluateAbsentFromJumps(t *testing.T) {
	from, to := twoSnapshots()
	for _, tt := range []float64{0, 0.25, 0.5, 1} {
		got, err := Evaluate(from, to, tt)
		if err != nil {
			t.Fatalf("Evaluate(t=%v): %v", tt, err)
		}
		if v, ok := got.Get("m", "center"); !ok || !v.Equal(Tuple(1, 1, 1)) {
			t.Errorf("t=%v: m.center = %v %v, want 1 1 1", tt, v, ok)
		}
	}
}

func TestEvaluateEndpoints(t *testing.T) {
	from, to := twoSnapshots()

	start, err := Evaluate(from, to, 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range from.Fields("n") {
		want, _ := from.Get("n", f)
		if got, _ := start.Get("n", f); !got.Equal(want) {
			t.Errorf("t=0 %s = %v, want %v", f, got, want)
		}
	}

	end, err := Evaluate(from, to, 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range to.NodeIDs() {
		for _, f := range to.Fields(id) {
			want, _ := to.Get(id, f)
			if got, _ := end.Get(id, f); !got.Equal(want) {
				t.Errorf("t=1 %s.%s = %v, want %v", id, f, got, want)
			}
		}
	}
}

func TestEvaluateBoolThreshold(t *testing.T) {
	from := Snapshot{"n": {"render": Bool(true)}}
	to := Snapshot{"n": {"render": Bool(false)}}
	for _, tc := range []struct {
		t    float64
		want bool
	}{{0, true}, {0.49, true}, {0.5, false}, {1, false}} {
		got, err := Evaluate(from, to, tc.t)
		if err != nil {
			t.Fatal(err)
		}
		if v, _ := got.Get("n", "render"); v.Flag != tc.want {
			t.Errorf("t=%v render = %v, want %v", tc.t, v.Flag, tc.want)
		}
	}
}

func TestEvaluateIgnoresFieldsOnlyInSource(t *testing.T) {
	from := Snapshot{"n": {"translation": Tuple(1, 1, 1)}, "gone": {"render": Bool(true)}}
	to := Snapshot{"n": {"meanvalue": Number(1)}}
	got, err := Evaluate(from, to, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != 1 {
		t.Errorf("Len() = %d, want 1: %v", got.Len(), got)
	}
}

func TestEvaluateMismatch(t *testing.T) {
	from := Snapshot{"n": {
		"a": Tuple(1, 2, 3),
		"b": Number(1),
		"c": Tuple(0, 0),
	}}
	to := Snapshot{"n": {
		"a": Tuple(1, 2),
		"b": Bool(true),
		"c": Tuple(2, 2),
	}}
	got, err := Evaluate(from, to, 0.5)
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("err = %v, want ErrTypeMismatch", err)
	}
	if _, ok := got.Get("n", "a"); ok {
		t.Error("length mismatch should omit field a")
	}
	if _, ok := got.Get("n", "b"); ok {
		t.Error("kind mismatch should omit field b")
	}
	if v, _ := got.Get("n", "c"); !v.Equal(Tuple(1, 1)) {
		t.Errorf("c = %v, want 1 1", v)
	}
}

func TestEvaluateDoesNotAliasTarget(t *testing.T) {
	from := Snapshot{}
	to := Snapshot{"n": {"translation": Tuple(1, 2, 3)}}
	got, _ := Evaluate(from, to, 1)
	v, _ := got.Get("n", "translation")
	v.Tuple[0] = 42
	if to["n"]["translation"].Tuple[0] != 1 {
		t.Error("Evaluate result aliases the target snapshot")
	}
}
