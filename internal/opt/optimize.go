// Package opt rewrites IR programs without changing their output.
//
// Optimize applies three passes, once each, in a fixed order: constant
// folding, copy propagation, dead-code elimination. No pass iterates to a
// fixed point; a single application of each is the whole pipeline. The
// contract is output equivalence: the optimized program prints the same
// values in the same order as its input, and fails at the same point if the
// input would fail.
package opt

import "github.com/roach88/minq/internal/ir"

// Optimize runs the full pass pipeline. The input program is not mutated.
func Optimize(p ir.Program) ir.Program {
	p = FoldConstants(p)
	p = PropagateCopies(p)
	p = EliminateDead(p)
	return p
}
