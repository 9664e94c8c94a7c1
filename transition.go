package dynamo

import (
	"errors"
	"fmt"
)

// Evaluate blends from toward to at normalized time t and returns a value for
// every (node, field) pair of to.
//
// Tuples and numbers blend linearly, booleans switch at t = 0.5. A field
// missing from from jumps straight to its target. A kind or length mismatch
// is reported with ErrTypeMismatch; that field is left out of the result and
// the remaining fields are still produced.
//
// Rotations take the tuple path, so axis-angle components are blended
// elementwise rather than spherically.
func Evaluate(from, to Snapshot, t float64) (Snapshot, error) {
	out := make(Snapshot, len(to))
	var errs []error
	for _, id := range to.NodeIDs() {
		for _, field := range to.Fields(id) {
			tv := to[id][field]
			if tv.Kind == KindNone {
				errs = append(errs, fmt.Errorf("node %q field %q: %w: no target value", id, field, ErrTypeMismatch))
				continue
			}
			fv, ok := from.Get(id, field)
			if !ok || fv.Kind == KindNone {
				out.set(id, field, tv.Clone())
				continue
			}
			v, err := blend(fv, tv, t)
			if err != nil {
				errs = append(errs, fmt.Errorf("node %q field %q: %w", id, field, err))
				continue
			}
			out.set(id, field, v)
		}
	}
	return out, errors.Join(errs...)
}

func blend(fv, tv Value, t float64) (Value, error) {
	if fv.Kind != tv.Kind {
		return Value{}, fmt.Errorf("%w: %s → %s", ErrTypeMismatch, fv.Kind, tv.Kind)
	}
	t1 := 1 - t
	switch tv.Kind {
	case KindTuple:
		if len(fv.Tuple) != len(tv.Tuple) {
			return Value{}, fmt.Errorf("%w: tuple length %d → %d", ErrTypeMismatch, len(fv.Tuple), len(tv.Tuple))
		}
		out := make([]float64, len(tv.Tuple))
		for i := range tv.Tuple {
			out[i] = fv.Tuple[i]*t1 + tv.Tuple[i]*t
		}
		return Value{Kind: KindTuple, Tuple: out}, nil
	case KindNumber:
		return Number(fv.Num*t1 + tv.Num*t), nil
	case KindBool:
		if t < 0.5 {
			return fv, nil
		}
		return tv, nil
	default:
		return Value{}, fmt.Errorf("%w: cannot blend %s", ErrTypeMismatch, tv.Kind)
	}
}
