// Package irgen lowers analyzed ASTs into linear IR.
//
// Lowering is purely structural: one statement produces one or more
// instructions, in source order, with intermediate results held in fresh
// temporaries. The generator performs no validation. It requires input
// that already passed semantic analysis, and panics on anything else.
package irgen

import (
	"fmt"

	"github.com/roach88/minq/internal/ast"
	"github.com/roach88/minq/internal/ir"
)

// Generator allocates temporaries for one lowering pass. Temporary numbers
// are strictly increasing and never reused within a compilation.
type Generator struct {
	temp int
}

// New creates a generator with a fresh temporary counter.
func New() *Generator {
	return &Generator{}
}

// Lower is a convenience wrapper: one generator, one program.
func Lower(prog *ast.Program) ir.Program {
	return New().Generate(prog)
}

// Generate lowers the whole program. The first call to newTemp yields "_t1".
func (g *Generator) Generate(prog *ast.Program) ir.Program {
	var out ir.Program
	for _, stmt := range prog.Statements {
		out = g.lowerStmt(out, stmt)
	}
	return out
}

func (g *Generator) newTemp() string {
	g.temp++
	return ir.Temp(g.temp)
}

func (g *Generator) lowerStmt(out ir.Program, stmt ast.Statement) ir.Program {
	switch s := stmt.(type) {
	case *ast.DataDeclaration:
		return append(out, ir.Instruction{
			Op:     ir.OpList,
			Values: ir.List(s.Values).Clone(),
			Result: s.Name,
		})

	case *ast.Assignment:
		out, tmp := g.lowerExpr(out, s.Rhs)
		return append(out, ir.Instruction{Op: ir.OpAssign, Src: tmp, Result: s.Target})

	case *ast.SelectQuery:
		out, _ := g.lowerExpr(out, s)
		return out

	case *ast.FilterQuery:
		out, _ := g.lowerExpr(out, s)
		return out

	case *ast.Aggregation:
		out, _ := g.lowerExpr(out, s)
		return out

	case *ast.Print:
		return append(out, ir.Instruction{Op: ir.OpPrint, Src: s.Name})

	default:
		panic(fmt.Sprintf("irgen: unknown statement type %T", stmt))
	}
}

// lowerExpr emits the instructions for an expression and returns the name
// of the binding holding its result (always a fresh temporary).
func (g *Generator) lowerExpr(out ir.Program, e ast.Expr) (ir.Program, string) {
	tmp := g.newTemp()

	switch x := e.(type) {
	case *ast.SelectQuery:
		in := ir.Instruction{Src: x.Source, Result: tmp}
		switch pred := x.Pred.(type) {
		case ast.GreaterThan:
			in.Op, in.Arg = ir.OpFilterGT, pred.N
		case ast.LessThan:
			in.Op, in.Arg = ir.OpFilterLT, pred.N
		case ast.Equal:
			in.Op, in.Arg = ir.OpFilterEQ, pred.N
		case ast.Between:
			in.Op, in.Arg, in.Arg2 = ir.OpFilterBetween, pred.Lo, pred.Hi
		default:
			panic(fmt.Sprintf("irgen: unknown predicate type %T", x.Pred))
		}
		return append(out, in), tmp

	case *ast.FilterQuery:
		op := ir.OpFilterEven
		if x.Parity == ast.Odd {
			op = ir.OpFilterOdd
		}
		return append(out, ir.Instruction{Op: op, Src: x.Source, Result: tmp}), tmp

	case *ast.Aggregation:
		var op ir.Opcode
		switch x.Op {
		case ast.AggSum:
			op = ir.OpAggSum
		case ast.AggMax:
			op = ir.OpAggMax
		case ast.AggMin:
			op = ir.OpAggMin
		case ast.AggCount:
			op = ir.OpAggCount
		default:
			panic(fmt.Sprintf("irgen: unknown aggregation kind %v", x.Op))
		}
		return append(out, ir.Instruction{Op: op, Src: x.Source, Result: tmp}), tmp

	case *ast.VarRef:
		return append(out, ir.Instruction{Op: ir.OpAssign, Src: x.Name, Result: tmp}), tmp

	default:
		panic(fmt.Sprintf("irgen: unknown expression type %T", e))
	}
}
