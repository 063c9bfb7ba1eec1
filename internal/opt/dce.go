package opt

import "github.com/roach88/minq/internal/ir"

// EliminateDead removes instructions whose result is never read.
//
// One backward walk maintains a live-name set seeded by PRINT arguments.
// An instruction survives when it defines a live name (or defines nothing,
// like PRINT); a surviving definition kills its name's liveness and makes
// its own source live. Because the walk is backward, a dead instruction
// contributes no liveness, so transitively dead chains disappear in the
// single pass.
//
// AGG_MAX and AGG_MIN are always retained. They fail on an empty source,
// and folding has already replaced every instance whose source is
// statically known and non-empty, so removing a survivor could turn a
// failing program into a succeeding one.
func EliminateDead(p ir.Program) ir.Program {
	live := make(map[string]bool)
	keep := make([]bool, len(p))
	kept := 0

	for i := len(p) - 1; i >= 0; i-- {
		in := p[i]
		mayFail := in.Op == ir.OpAggMax || in.Op == ir.OpAggMin
		if in.Result != "" && !live[in.Result] && !mayFail {
			continue
		}
		keep[i] = true
		kept++
		if in.Result != "" {
			// This definition satisfies the later reads; earlier
			// definitions of the same name are dead unless read in between.
			live[in.Result] = false
		}
		if in.Src != "" {
			live[in.Src] = true
		}
	}

	out := make(ir.Program, 0, kept)
	for i, in := range p {
		if keep[i] {
			out = append(out, in)
		}
	}
	return out
}
