package opt

import "github.com/roach88/minq/internal/ir"

// PropagateCopies rewrites operand references through OpAssign copies.
//
// The pass tracks live copies position-aware: after "ASSIGN src -> dst" a
// later read of dst becomes a read of src, but only while neither dst nor
// src has been redefined in between. Copies chain ("ASSIGN a -> b" then
// "ASSIGN b -> c" records c -> a) because the second ASSIGN's own source
// is rewritten before it is recorded.
//
// ASSIGN instructions are left in place even when every read has been
// redirected; dead-code elimination removes the ones whose destination is
// never read afterwards.
func PropagateCopies(p ir.Program) ir.Program {
	copies := make(map[string]string) // dst -> src, both currently live
	out := make(ir.Program, 0, len(p))

	for _, in := range p {
		if src, ok := copies[in.Src]; ok {
			in.Src = src
		}

		if in.Result != "" {
			// Redefining a name invalidates every copy that reads it and
			// any copy that previously defined it.
			delete(copies, in.Result)
			for dst, src := range copies {
				if src == in.Result {
					delete(copies, dst)
				}
			}
			if in.Op == ir.OpAssign && in.Src != in.Result {
				copies[in.Result] = in.Src
			}
		}

		out = append(out, in)
	}
	return out
}
