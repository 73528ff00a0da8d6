package pred

import (
	"errors"
	"fmt"
)

// Common predicate errors.
var (
	// ErrKindMismatch indicates an operation combined predicates from
	// incompatible Factory kinds.
	ErrKindMismatch = errors.New("pred: predicate kind mismatch")

	// ErrUnsatisfiable indicates an operation required a satisfiable
	// predicate but received an unsatisfiable one.
	ErrUnsatisfiable = errors.New("pred: predicate is unsatisfiable")
)

// KindError wraps a kind-mismatch with the offending kinds for diagnostics.
type KindError struct {
	Want, Got Kind
}

// Error implements the error interface.
func (e *KindError) Error() string {
	return fmt.Sprintf("pred: expected %s predicate, got %s", e.Want, e.Got)
}

// Unwrap returns the underlying sentinel error.
func (e *KindError) Unwrap() error { return ErrKindMismatch }
