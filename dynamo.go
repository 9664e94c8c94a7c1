package dynamo

import (
	"strconv"
	"strings"
)

// Field names with built-in reduction semantics. Every other field must be
// assigned by exactly one contributor per state.
const (
	FieldTranslation = "translation" // summed elementwise
	FieldCenter      = "center"      // summed elementwise
	FieldRotation    = "rotation"    // composed as quaternions
	FieldMeanValue   = "meanvalue"   // arithmetic mean
	FieldRender      = "render"      // logical AND
)

// ValueKind tags the runtime shape of a Value.
type ValueKind uint8

const (
	KindNone   ValueKind = iota // zero Value; no value present
	KindNumber                  // scalar float64
	KindBool                    // boolean such as render
	KindTuple                   // ordered numeric tuple (vectors, axis-angle)
)

// String returns the lowercase kind name.
func (k ValueKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindTuple:
		return "tuple"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a raw field value. The Kind decides which of Num, Flag or Tuple is
// meaningful; the kind is fixed when a spec or scene attribute is parsed.
// The zero Value has KindNone and stands for "absent".
type Value struct {
	Kind  ValueKind
	Num   float64
	Flag  bool
	Tuple []float64
}

// Number returns a scalar Value.
func Number(f float64) Value {
	return Value{Kind: KindNumber, Num: f}
}

// Bool returns a boolean Value.
func Bool(b bool) Value {
	return Value{Kind: KindBool, Flag: b}
}

// Tuple returns a tuple Value holding a copy of xs.
func Tuple(xs ...float64) Value {
	return Value{Kind: KindTuple, Tuple: append([]float64(nil), xs...)}
}

// Clone returns a Value that shares no memory with v.
func (v Value) Clone() Value {
	if v.Kind == KindTuple {
		return Tuple(v.Tuple...)
	}
	return v
}

// Equal reports whether v and o have the same kind and identical contents.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNone:
		return true
	case KindNumber:
		return v.Num == o.Num
	case KindBool:
		return v.Flag == o.Flag
	case KindTuple:
		if len(v.Tuple) != len(o.Tuple) {
			return false
		}
		for i := range v.Tuple {
			if v.Tuple[i] != o.Tuple[i] {
				return false
			}
		}
		return true
	}
	return false
}

// String formats v the way scene attributes are written: numbers in shortest
// form, tuples space separated, booleans as true/false.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return formatFloat(v.Num)
	case KindBool:
		return strconv.FormatBool(v.Flag)
	case KindTuple:
		var sb strings.Builder
		for i, x := range v.Tuple {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(formatFloat(x))
		}
		return sb.String()
	}
	return ""
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// EventType identifies a kind of engine lifecycle event.
type EventType uint8

const (
	EventStateChanged      EventType = iota // SetState applied a snapshot
	EventTransitionDone                     // a one-shot transition reached t=1
	EventAnimationEnabled                   // EnableAnimation started (or restarted) an instance
	EventAnimationDisabled                  // DisableAnimation stopped an instance
	EventAnimationWrapped                   // an instance completed a full pass of its sequence
	EventAnimationFinished                  // a non-cyclic instance was removed after its pass
)

// String returns a short event name used in logs.
func (e EventType) String() string {
	switch e {
	case EventStateChanged:
		return "state-changed"
	case EventTransitionDone:
		return "transition-done"
	case EventAnimationEnabled:
		return "animation-enabled"
	case EventAnimationDisabled:
		return "animation-disabled"
	case EventAnimationWrapped:
		return "animation-wrapped"
	case EventAnimationFinished:
		return "animation-finished"
	default:
		return "event(" + strconv.Itoa(int(e)) + ")"
	}
}

// Event carries engine lifecycle data for an EventSink.
type Event struct {
	Type EventType
	// State is set for EventStateChanged.
	State string
	// From and To are set for transition and animation events.
	From, To string
	// Animation and Cycles are set for animation events.
	Animation string
	Cycles    int
}

// EventSink is the interface for optional lifecycle forwarding, for example
// into an ECS world. When set on an Engine, every Event is emitted to it.
type EventSink interface {
	EmitEvent(event Event)
}
