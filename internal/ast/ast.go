package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Position locates a node's first token in source. Line and Col are 1-based.
type Position struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// String renders "line:col".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Type is the inferred result type of an expression.
type Type int

const (
	// TypeInvalid marks an expression the analyzer has not visited.
	TypeInvalid Type = iota
	// TypeInt is a single integer.
	TypeInt
	// TypeList is a list of integers.
	TypeList
)

// String returns the surface syntax name of the type.
func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeList:
		return "list<int>"
	default:
		return "invalid"
	}
}

// Node is the common interface of all AST nodes.
type Node interface {
	Pos() Position
}

// Statement is a sealed interface over top-level statements.
//
// Statement types:
//   - DataDeclaration: introduces a named literal list
//   - Assignment: binds an expression result to a name
//   - SelectQuery, FilterQuery, Aggregation: legal standalone, result discarded
//   - Print: emits the current value of a name
type Statement interface {
	Node
	stmtNode() // marker method, seals the interface to this package
}

// Expr is a sealed interface over assignment right-hand sides.
//
// Expr types:
//   - SelectQuery: predicate filter over a list
//   - FilterQuery: parity filter over a list
//   - Aggregation: list reduction to an integer
//   - VarRef: bare reference to an existing binding
//
// ResultType reports the type attached by semantic analysis and is
// TypeInvalid before the analyzer has run.
type Expr interface {
	Node
	exprNode() // marker method, seals the interface to this package
	ResultType() Type
}

// Predicate is a sealed interface over select conditions. All variants
// compare list elements against integer literals.
type Predicate interface {
	predicateNode() // marker method, seals the interface to this package
	String() string
}

// GreaterThan keeps elements strictly greater than N.
type GreaterThan struct {
	N int64
}

func (GreaterThan) predicateNode() {}

func (p GreaterThan) String() string { return "> " + strconv.FormatInt(p.N, 10) }

// LessThan keeps elements strictly less than N.
type LessThan struct {
	N int64
}

func (LessThan) predicateNode() {}

func (p LessThan) String() string { return "< " + strconv.FormatInt(p.N, 10) }

// Equal keeps elements equal to N.
type Equal struct {
	N int64
}

func (Equal) predicateNode() {}

func (p Equal) String() string { return "= " + strconv.FormatInt(p.N, 10) }

// Between keeps elements in [Lo, Hi], inclusive on both ends.
// Lo greater than Hi is legal and simply matches nothing.
type Between struct {
	Lo int64
	Hi int64
}

func (Between) predicateNode() {}

func (p Between) String() string {
	return fmt.Sprintf("between %d and %d", p.Lo, p.Hi)
}

// Parity selects the even or odd elements in a filter statement.
type Parity int

const (
	// ParityInvalid is the zero value; valid nodes never carry it.
	ParityInvalid Parity = iota
	// Even keeps elements divisible by two.
	Even
	// Odd keeps elements not divisible by two.
	Odd
)

// String returns the keyword form, "even" or "odd".
func (p Parity) String() string {
	switch p {
	case Even:
		return "even"
	case Odd:
		return "odd"
	default:
		return "invalid"
	}
}

// AggKind identifies an aggregation function.
type AggKind int

const (
	// AggInvalid is the zero value; valid nodes never carry it.
	AggInvalid AggKind = iota
	// AggSum sums the list.
	AggSum
	// AggMax takes the maximum element.
	AggMax
	// AggMin takes the minimum element.
	AggMin
	// AggCount counts the elements.
	AggCount
)

// String returns the keyword form, e.g. "sum".
func (k AggKind) String() string {
	switch k {
	case AggSum:
		return "sum"
	case AggMax:
		return "max"
	case AggMin:
		return "min"
	case AggCount:
		return "count"
	default:
		return "invalid"
	}
}

// Program is the root node: an ordered statement list.
type Program struct {
	Statements []Statement
}

// DataDeclaration introduces a named integer list:
//
//	data nums = [1, 2, 3]
type DataDeclaration struct {
	Name   string
	Values []int64
	At     Position
}

func (*DataDeclaration) stmtNode() {}

// Pos returns the statement position.
func (d *DataDeclaration) Pos() Position { return d.At }

// Assignment binds the result of an expression to a name:
//
//	big = select > 5 from nums
type Assignment struct {
	Target string
	Rhs    Expr
	At     Position
}

func (*Assignment) stmtNode() {}

// Pos returns the statement position.
func (a *Assignment) Pos() Position { return a.At }

// SelectQuery filters a source list by a comparison predicate:
//
//	select > 5 from nums
//
// Legal standalone or as an assignment right-hand side.
type SelectQuery struct {
	Pred   Predicate
	Source string
	// Inferred is the result type attached by semantic analysis.
	Inferred Type
	At       Position
}

func (*SelectQuery) stmtNode() {}
func (*SelectQuery) exprNode() {}

// Pos returns the node position.
func (q *SelectQuery) Pos() Position { return q.At }

// ResultType reports the analyzer-attached type.
func (q *SelectQuery) ResultType() Type { return q.Inferred }

// FilterQuery keeps the even or odd elements of a source list:
//
//	filter even from nums
type FilterQuery struct {
	Parity Parity
	Source string
	// Inferred is the result type attached by semantic analysis.
	Inferred Type
	At       Position
}

func (*FilterQuery) stmtNode() {}
func (*FilterQuery) exprNode() {}

// Pos returns the node position.
func (q *FilterQuery) Pos() Position { return q.At }

// ResultType reports the analyzer-attached type.
func (q *FilterQuery) ResultType() Type { return q.Inferred }

// Aggregation reduces a source list to a single integer:
//
//	sum from nums
type Aggregation struct {
	Op     AggKind
	Source string
	// Inferred is the result type attached by semantic analysis.
	Inferred Type
	At       Position
}

func (*Aggregation) stmtNode() {}
func (*Aggregation) exprNode() {}

// Pos returns the node position.
func (a *Aggregation) Pos() Position { return a.At }

// ResultType reports the analyzer-attached type.
func (a *Aggregation) ResultType() Type { return a.Inferred }

// VarRef is a bare reference to an existing binding, legal only as an
// assignment right-hand side:
//
//	copy = nums
type VarRef struct {
	Name string
	// Inferred is the result type attached by semantic analysis.
	Inferred Type
	At       Position
}

func (*VarRef) exprNode() {}

// Pos returns the node position.
func (r *VarRef) Pos() Position { return r.At }

// ResultType reports the analyzer-attached type.
func (r *VarRef) ResultType() Type { return r.Inferred }

// Print emits the current value of a name:
//
//	print big
type Print struct {
	Name string
	At   Position
}

func (*Print) stmtNode() {}

// Pos returns the statement position.
func (p *Print) Pos() Position { return p.At }

// FormatValues renders a literal list the way runtime lists render:
// "[1, 2, 3]". Used by the tree printer and dumps.
func FormatValues(values []int64) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, n := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatInt(n, 10))
	}
	b.WriteByte(']')
	return b.String()
}
