package dynamo

import "errors"

// Configuration errors. They abort the operation that hit them; no value is
// guessed in their place.
var (
	ErrInvalidSpec      = errors.New("dynamo: invalid spec")
	ErrInvalidValue     = errors.New("dynamo: invalid value")
	ErrUnknownGroup     = errors.New("dynamo: unknown group")
	ErrUnreducibleField = errors.New("dynamo: field cannot accumulate several values")
	ErrTypeMismatch     = errors.New("dynamo: value type mismatch")
	ErrMissingRoot      = errors.New("dynamo: missing root node for group")
)

// Lookup failures.
var (
	ErrUnknownState     = errors.New("dynamo: unknown state")
	ErrUnknownAnimation = errors.New("dynamo: unknown animation")
	ErrUnknownNode      = errors.New("dynamo: unknown node")
)

// ErrDegenerateAxis reports a rotation whose axis is the zero vector.
var ErrDegenerateAxis = errors.New("dynamo: zero-length rotation axis")
