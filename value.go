package dynamo

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseValue parses a scene attribute string. "true" and "false" become
// booleans; anything else is read as numbers separated by spaces or commas.
// A single number yields a KindNumber value, several yield a tuple.
func ParseValue(raw string) (Value, error) {
	s := strings.TrimSpace(raw)
	switch s {
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	case "":
		return Value{}, fmt.Errorf("%w: empty", ErrInvalidValue)
	}
	parts := strings.Fields(strings.ReplaceAll(s, ",", " "))
	nums := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q", ErrInvalidValue, raw)
		}
		nums = append(nums, f)
	}
	if len(nums) == 1 {
		return Number(nums[0]), nil
	}
	return Tuple(nums...), nil
}

// UnmarshalJSON accepts a JSON number, boolean, array of numbers, or a string
// in attribute syntax (see ParseValue).
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case float64:
		*v = Number(x)
	case bool:
		*v = Bool(x)
	case string:
		parsed, err := ParseValue(x)
		if err != nil {
			return err
		}
		*v = parsed
	case []any:
		nums := make([]float64, len(x))
		for i, e := range x {
			f, ok := e.(float64)
			if !ok {
				return fmt.Errorf("%w: tuple element %d is %T", ErrInvalidValue, i, e)
			}
			nums[i] = f
		}
		*v = Value{Kind: KindTuple, Tuple: nums}
	default:
		return fmt.Errorf("%w: unsupported JSON value %s", ErrInvalidValue, string(data))
	}
	return nil
}

// MarshalJSON writes numbers, booleans and tuples as their natural JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNone:
		return []byte("null"), nil
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Flag)
	case KindTuple:
		if v.Tuple == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Tuple)
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidValue, v.Kind)
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML documents.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return err
			}
			*v = Bool(b)
		case "!!int", "!!float":
			var f float64
			if err := node.Decode(&f); err != nil {
				return err
			}
			*v = Number(f)
		case "!!str":
			parsed, err := ParseValue(node.Value)
			if err != nil {
				return err
			}
			*v = parsed
		default:
			return fmt.Errorf("%w: line %d: unsupported scalar %s", ErrInvalidValue, node.Line, node.ShortTag())
		}
	case yaml.SequenceNode:
		var nums []float64
		if err := node.Decode(&nums); err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrInvalidValue, node.Line, err)
		}
		if nums == nil {
			nums = []float64{}
		}
		*v = Value{Kind: KindTuple, Tuple: nums}
	default:
		return fmt.Errorf("%w: line %d: expected scalar or sequence", ErrInvalidValue, node.Line)
	}
	return nil
}

// MarshalYAML writes v as a YAML scalar or flow sequence.
func (v Value) MarshalYAML() (any, error) {
	switch v.Kind {
	case KindNone:
		return nil, nil
	case KindNumber:
		return v.Num, nil
	case KindBool:
		return v.Flag, nil
	case KindTuple:
		n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, x := range v.Tuple {
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: formatFloat(x)})
		}
		return n, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidValue, v.Kind)
}
