package opt

import "github.com/roach88/minq/internal/ir"

// FoldConstants evaluates filters and aggregations whose source is already
// known at compile time, replacing them with literal-producing instructions.
//
// A binding is "known" only when it was produced by OpList, OpConst, a fold
// earlier in this same pass, or an OpAssign from a known binding. Anything
// else, in particular a binding later overwritten with an unknown value,
// drops out of the known set at the point of redefinition.
//
// OpAggMax/OpAggMin over a statically empty list are deliberately left
// unfolded: they fail at execution, and the fold must not turn a failing
// program into a succeeding one.
func FoldConstants(p ir.Program) ir.Program {
	known := make(map[string]ir.Value)
	out := make(ir.Program, 0, len(p))

	for _, in := range p {
		switch {
		case in.Op == ir.OpList:
			known[in.Result] = in.Values.Clone()

		case in.Op == ir.OpConst:
			known[in.Result] = ir.Int(in.Arg)

		case ir.FilterOp(in.Op):
			src, ok := known[in.Src].(ir.List)
			if !ok {
				delete(known, in.Result)
				break
			}
			folded := ir.Filter(in.Op, src, in.Arg, in.Arg2)
			known[in.Result] = folded
			in = ir.Instruction{Op: ir.OpList, Values: folded, Result: in.Result}

		case ir.AggOp(in.Op):
			src, ok := known[in.Src].(ir.List)
			if !ok {
				delete(known, in.Result)
				break
			}
			n, ok := ir.Reduce(in.Op, src)
			if !ok {
				// Empty max/min: preserve the runtime failure.
				delete(known, in.Result)
				break
			}
			known[in.Result] = ir.Int(n)
			in = ir.Instruction{Op: ir.OpConst, Arg: n, Result: in.Result}

		case in.Op == ir.OpAssign:
			if v, ok := known[in.Src]; ok {
				known[in.Result] = v
			} else {
				delete(known, in.Result)
			}

		case in.Op == ir.OpPrint:
			// Defines nothing; the known set carries across.
		}

		out = append(out, in)
	}
	return out
}
