// Package sema implements minq's semantic analysis: a single pass over the
// statement list that resolves names against the global namespace, checks
// kinds, and attaches the inferred result type to every expression node.
//
// Analysis is fail-fast: the first diagnostic aborts the pass, and nothing
// after the offending statement is registered. Diagnostics are *Error values
// with a stable code, the statement index, and the source position.
package sema

import (
	"errors"
	"fmt"

	"github.com/roach88/minq/internal/ast"
)

// Analyzer drives one semantic pass. The zero value is not usable; the
// namespace lives in an explicit Table created by NewAnalyzer.
type Analyzer struct {
	table *Table
}

// NewAnalyzer creates an analyzer with an empty namespace.
func NewAnalyzer() *Analyzer {
	return &Analyzer{table: NewTable()}
}

// Table exposes the namespace for dumps and assertions. It reflects all
// statements analyzed so far, which after a failed pass means everything
// before the offending statement.
func (a *Analyzer) Table() *Table {
	return a.table
}

// Analyze walks the program in statement order. It first checks the tree's
// structural invariants, then resolves and types each statement. On success
// every expression node carries its inferred type and the table holds every
// declared name.
func (a *Analyzer) Analyze(prog *ast.Program) error {
	if err := ast.Validate(prog); err != nil {
		return err
	}

	for i, stmt := range prog.Statements {
		if err := a.analyzeStmt(stmt, i); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) analyzeStmt(stmt ast.Statement, idx int) error {
	switch s := stmt.(type) {
	case *ast.DataDeclaration:
		err := a.table.Declare(s.Name, ast.TypeList, ast.TypeInt, len(s.Values))
		return at(err, idx, s.At)

	case *ast.Assignment:
		typ, err := a.analyzeExpr(s.Rhs, idx)
		if err != nil {
			return err
		}
		return at(a.declareTarget(s, typ), idx, s.At)

	case *ast.SelectQuery:
		_, err := a.analyzeExpr(s, idx)
		return err

	case *ast.FilterQuery:
		_, err := a.analyzeExpr(s, idx)
		return err

	case *ast.Aggregation:
		_, err := a.analyzeExpr(s, idx)
		return err

	case *ast.Print:
		_, err := a.table.Lookup(s.Name)
		return at(err, idx, s.At)

	default:
		// Statement is sealed and Validate ran; Validate rejected anything else.
		panic(fmt.Sprintf("sema: unknown statement type %T", stmt))
	}
}

// declareTarget registers the assignment target with the inferred type. A
// kind conflict surfaces as CodeInvalidAssignment: the namespace-level
// conflict is a redeclaration, but at an assignment the sharper diagnostic
// names the assigned type.
func (a *Analyzer) declareTarget(s *ast.Assignment, typ ast.Type) error {
	elem := ast.TypeInvalid
	if typ == ast.TypeList {
		elem = ast.TypeInt
	}

	err := a.table.Declare(s.Target, typ, elem, a.inferredSize(s.Rhs, typ))
	if err != nil && IsRedeclaration(err) {
		existing, _ := a.table.Lookup(s.Target)
		return &Error{
			Code:    CodeInvalidAssignment,
			Message: fmt.Sprintf("cannot assign %s to %q (declared %s)", typ, s.Target, existing.Kind),
		}
	}
	return err
}

// inferredSize derives a static list length where one exists: only a bare
// reference to a list of known size carries its size across an assignment.
// Query results have data-dependent lengths.
func (a *Analyzer) inferredSize(rhs ast.Expr, typ ast.Type) int {
	if typ != ast.TypeList {
		return SizeUnknown
	}
	if ref, ok := rhs.(*ast.VarRef); ok {
		if sym, err := a.table.Lookup(ref.Name); err == nil {
			return sym.Size
		}
	}
	return SizeUnknown
}

func (a *Analyzer) analyzeExpr(e ast.Expr, idx int) (ast.Type, error) {
	switch x := e.(type) {
	case *ast.SelectQuery:
		if err := a.requireList(x.Source, idx, x.At); err != nil {
			return ast.TypeInvalid, err
		}
		x.Inferred = ast.TypeList
		return ast.TypeList, nil

	case *ast.FilterQuery:
		if err := a.requireList(x.Source, idx, x.At); err != nil {
			return ast.TypeInvalid, err
		}
		x.Inferred = ast.TypeList
		return ast.TypeList, nil

	case *ast.Aggregation:
		if err := a.requireList(x.Source, idx, x.At); err != nil {
			return ast.TypeInvalid, err
		}
		x.Inferred = ast.TypeInt
		return ast.TypeInt, nil

	case *ast.VarRef:
		sym, err := a.table.Lookup(x.Name)
		if err != nil {
			return ast.TypeInvalid, at(err, idx, x.At)
		}
		x.Inferred = sym.Kind
		return sym.Kind, nil

	default:
		panic(fmt.Sprintf("sema: unknown expression type %T", e))
	}
}

// requireList resolves name and checks that it holds a list.
func (a *Analyzer) requireList(name string, idx int, pos ast.Position) error {
	sym, err := a.table.Lookup(name)
	if err != nil {
		return at(err, idx, pos)
	}
	if sym.Kind != ast.TypeList {
		return &Error{
			Code:    CodeTypeMismatch,
			Message: fmt.Sprintf("%q is %s, expected list<int>", name, sym.Kind),
			Stmt:    idx,
			Pos:     pos,
		}
	}
	return nil
}

// at decorates a namespace-level diagnostic with statement context.
func at(err error, idx int, pos ast.Position) error {
	if err == nil {
		return nil
	}
	var serr *Error
	if errors.As(err, &serr) {
		serr.Stmt = idx
		serr.Pos = pos
	}
	return err
}
