package engine

import (
	"errors"
	"fmt"
)

// Runtime error codes. Execution is fail-fast, so a run surfaces at most
// one of these.
const (
	// CodeUndefinedName: an instruction reads a binding that does not
	// exist in the environment.
	CodeUndefinedName = "E301"

	// CodeEmptyAggregate: AGG_MAX or AGG_MIN over an empty list. Sum and
	// count of an empty list are defined (both 0); max and min are not.
	CodeEmptyAggregate = "E302"

	// CodeKindMismatch: a filter or aggregation source holds an int where
	// a list is required. Unreachable through the full pipeline, reachable
	// through hand-built IR.
	CodeKindMismatch = "E303"
)

// RuntimeError is a structured execution diagnostic. Instr is the 0-based
// index of the failing instruction in the executed program.
type RuntimeError struct {
	Code    string
	Message string
	Instr   int
	Name    string // the binding involved, when one is
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s (instruction %d)", e.Code, e.Message, e.Instr)
}

// IsUndefinedName reports whether err is a CodeUndefinedName diagnostic.
func IsUndefinedName(err error) bool { return hasCode(err, CodeUndefinedName) }

// IsEmptyAggregate reports whether err is a CodeEmptyAggregate diagnostic.
func IsEmptyAggregate(err error) bool { return hasCode(err, CodeEmptyAggregate) }

// IsKindMismatch reports whether err is a CodeKindMismatch diagnostic.
func IsKindMismatch(err error) bool { return hasCode(err, CodeKindMismatch) }

func hasCode(err error, code string) bool {
	var rerr *RuntimeError
	return errors.As(err, &rerr) && rerr.Code == code
}

// NewUndefinedNameError creates an E301 diagnostic for a missing binding.
func NewUndefinedNameError(name string) *RuntimeError {
	return &RuntimeError{
		Code:    CodeUndefinedName,
		Message: fmt.Sprintf("undefined name %q", name),
		Name:    name,
	}
}

// NewEmptyAggregateError creates an E302 diagnostic for max/min of an
// empty list.
func NewEmptyAggregateError(op string, name string) *RuntimeError {
	return &RuntimeError{
		Code:    CodeEmptyAggregate,
		Message: fmt.Sprintf("%s over empty list %q has no value", op, name),
		Name:    name,
	}
}

// NewKindMismatchError creates an E303 diagnostic for an int where a list
// is required.
func NewKindMismatchError(name, got string) *RuntimeError {
	return &RuntimeError{
		Code:    CodeKindMismatch,
		Message: fmt.Sprintf("%q holds %s, expected list<int>", name, got),
		Name:    name,
	}
}
