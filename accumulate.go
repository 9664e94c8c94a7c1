package dynamo

import (
	"errors"
	"fmt"
)

// Snapshot maps node id → field → resolved value. Snapshots cached by an
// Engine are shared and MUST NOT be mutated.
type Snapshot map[string]map[string]Value

// Get returns the value of field on node id.
func (s Snapshot) Get(id, field string) (Value, bool) {
	v, ok := s[id][field]
	return v, ok
}

// NodeIDs returns the node ids in sorted order.
func (s Snapshot) NodeIDs() []string {
	return sortedKeys(s)
}

// Fields returns the fields set on node id in sorted order.
func (s Snapshot) Fields(id string) []string {
	return sortedKeys(s[id])
}

// Len returns the number of (node, field) pairs.
func (s Snapshot) Len() int {
	n := 0
	for _, fields := range s {
		n += len(fields)
	}
	return n
}

func (s Snapshot) set(id, field string, v Value) {
	fields := s[id]
	if fields == nil {
		fields = make(map[string]Value)
		s[id] = fields
	}
	fields[field] = v
}

// Accumulate reduces every value list of cl to a single value. When groups
// holds a save-state value for a node/field it takes part as the first value.
// A single value is used as-is; several values are reduced by field:
// translation and center sum, rotation composes, meanvalue averages and
// render ANDs. Any other field with several values fails with
// ErrUnreducibleField.
func Accumulate(cl ChangeList, groups *GroupTable) (Snapshot, error) {
	snap := make(Snapshot, len(cl))
	var errs []error
	for _, id := range sortedKeys(cl) {
		changes := cl[id]
		for _, field := range sortedKeys(changes) {
			values := changes[field]
			if groups != nil {
				if initial, ok := groups.Saved(id, field); ok {
					values = append([]Value{initial}, values...)
				}
			}
			v, err := reduce(field, values)
			if err != nil {
				errs = append(errs, fmt.Errorf("node %q field %q: %w", id, field, err))
				continue
			}
			snap.set(id, field, v)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return snap, nil
}

func reduce(field string, values []Value) (Value, error) {
	if len(values) == 1 {
		return values[0].Clone(), nil
	}
	switch field {
	case FieldTranslation, FieldCenter:
		return sumTuples(values)
	case FieldRotation:
		return composeRotations(values)
	case FieldMeanValue:
		return meanNumbers(values)
	case FieldRender:
		return allTrue(values)
	default:
		return Value{}, fmt.Errorf("%w: %d values", ErrUnreducibleField, len(values))
	}
}

func sumTuples(values []Value) (Value, error) {
	first := values[0]
	if first.Kind != KindTuple {
		return Value{}, fmt.Errorf("%w: sum wants tuples, got %s", ErrTypeMismatch, first.Kind)
	}
	sum := make([]float64, len(first.Tuple))
	for i, v := range values {
		if v.Kind != KindTuple || len(v.Tuple) != len(sum) {
			return Value{}, fmt.Errorf("%w: value %d is %s of length %d, want tuple of length %d",
				ErrTypeMismatch, i, v.Kind, len(v.Tuple), len(sum))
		}
		for j, x := range v.Tuple {
			sum[j] += x
		}
	}
	return Value{Kind: KindTuple, Tuple: sum}, nil
}

func composeRotations(values []Value) (Value, error) {
	rot := IdentityQuaternion()
	for i, v := range values {
		q, err := QuaternionFromValue(v)
		if err != nil {
			return Value{}, fmt.Errorf("value %d: %w", i, err)
		}
		rot = rot.Compose(q)
	}
	return rot.Value(), nil
}

func meanNumbers(values []Value) (Value, error) {
	var sum float64
	for i, v := range values {
		if v.Kind != KindNumber {
			return Value{}, fmt.Errorf("%w: mean wants numbers, value %d is %s", ErrTypeMismatch, i, v.Kind)
		}
		sum += v.Num
	}
	return Number(sum / float64(len(values))), nil
}

func allTrue(values []Value) (Value, error) {
	all := true
	for i, v := range values {
		if v.Kind != KindBool {
			return Value{}, fmt.Errorf("%w: and wants booleans, value %d is %s", ErrTypeMismatch, i, v.Kind)
		}
		all = all && v.Flag
	}
	return Bool(all), nil
}
