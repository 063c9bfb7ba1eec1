package ast

import "fmt"

// ValidationError reports a structural defect in a tree. The parser never
// produces one; programmatically built trees can.
type ValidationError struct {
	Stmt    int // 0-based statement index
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("statement %d: %s", e.Stmt, e.Message)
}

// Validate checks the structural invariants the parser guarantees by
// construction: non-empty names, non-nil expressions and predicates, and
// variant fields drawn from their closed sets. The pipeline validates a
// program once at the boundary so later phases can assume a sound shape.
//
// Validate is structural only; name resolution and typing belong to
// semantic analysis.
func Validate(prog *Program) error {
	if prog == nil {
		return &ValidationError{Stmt: 0, Message: "nil program"}
	}

	for i, stmt := range prog.Statements {
		if stmt == nil {
			return &ValidationError{Stmt: i, Message: "nil statement"}
		}

		var err *ValidationError
		switch s := stmt.(type) {
		case *DataDeclaration:
			if s.Name == "" {
				err = &ValidationError{Message: "data declaration with empty name"}
			}
		case *Assignment:
			switch {
			case s.Target == "":
				err = &ValidationError{Message: "assignment with empty target"}
			case s.Rhs == nil:
				err = &ValidationError{Message: "assignment with nil expression"}
			default:
				err = validateExpr(s.Rhs)
			}
		case *SelectQuery:
			err = validateExpr(s)
		case *FilterQuery:
			err = validateExpr(s)
		case *Aggregation:
			err = validateExpr(s)
		case *Print:
			if s.Name == "" {
				err = &ValidationError{Message: "print with empty name"}
			}
		default:
			// Statement is sealed; a new variant means this switch is stale.
			err = &ValidationError{Message: fmt.Sprintf("unknown statement type %T", stmt)}
		}

		if err != nil {
			err.Stmt = i
			return err
		}
	}
	return nil
}

func validateExpr(e Expr) *ValidationError {
	switch x := e.(type) {
	case *SelectQuery:
		if x.Source == "" {
			return &ValidationError{Message: "select with empty source"}
		}
		if x.Pred == nil {
			return &ValidationError{Message: "select with nil predicate"}
		}
	case *FilterQuery:
		if x.Source == "" {
			return &ValidationError{Message: "filter with empty source"}
		}
		if x.Parity != Even && x.Parity != Odd {
			return &ValidationError{Message: "filter with invalid parity"}
		}
	case *Aggregation:
		if x.Source == "" {
			return &ValidationError{Message: "aggregation with empty source"}
		}
		switch x.Op {
		case AggSum, AggMax, AggMin, AggCount:
		default:
			return &ValidationError{Message: "aggregation with invalid kind"}
		}
	case *VarRef:
		if x.Name == "" {
			return &ValidationError{Message: "reference with empty name"}
		}
	default:
		return &ValidationError{Message: fmt.Sprintf("unknown expression type %T", e)}
	}
	return nil
}
