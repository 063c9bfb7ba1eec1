package sema

import (
	"errors"
	"fmt"

	"github.com/roach88/minq/internal/ast"
)

// Error codes for semantic diagnostics.
const (
	// CodeRedeclaration: a data declaration conflicts with an existing
	// symbol of a different kind.
	CodeRedeclaration = "E201"

	// CodeUndeclared: a name is used before any declaration.
	CodeUndeclared = "E202"

	// CodeTypeMismatch: a query or aggregation reads a source that is not
	// a list.
	CodeTypeMismatch = "E203"

	// CodeInvalidAssignment: an assignment's inferred type conflicts with
	// the target's existing kind.
	CodeInvalidAssignment = "E204"
)

// Error is a structured semantic diagnostic. Analysis is fail-fast, so a
// run produces at most one. Stmt is the 0-based index of the offending
// statement; Pos is the position of its first token.
type Error struct {
	Code    string
	Message string
	Stmt    int
	Pos     ast.Position
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s (statement %d)", e.Pos, e.Code, e.Message, e.Stmt)
}

// IsRedeclaration reports whether err is a CodeRedeclaration diagnostic.
func IsRedeclaration(err error) bool { return hasCode(err, CodeRedeclaration) }

// IsUndeclared reports whether err is a CodeUndeclared diagnostic.
func IsUndeclared(err error) bool { return hasCode(err, CodeUndeclared) }

// IsTypeMismatch reports whether err is a CodeTypeMismatch diagnostic.
func IsTypeMismatch(err error) bool { return hasCode(err, CodeTypeMismatch) }

// IsInvalidAssignment reports whether err is a CodeInvalidAssignment diagnostic.
func IsInvalidAssignment(err error) bool { return hasCode(err, CodeInvalidAssignment) }

func hasCode(err error, code string) bool {
	var serr *Error
	return errors.As(err, &serr) && serr.Code == code
}
