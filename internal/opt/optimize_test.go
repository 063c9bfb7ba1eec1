package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/minq/internal/ir"
	"github.com/roach88/minq/internal/irgen"
	"github.com/roach88/minq/internal/parser"
	"github.com/roach88/minq/internal/sema"
)

func compileRaw(t *testing.T, src string) ir.Program {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	require.NoError(t, sema.NewAnalyzer().Analyze(prog))
	return irgen.Lower(prog)
}

func TestFoldFilterOverLiteral(t *testing.T) {
	p := FoldConstants(compileRaw(t, `
data nums = [1, 2, 3, 4, 10, 15]
big = select > 5 from nums
`))
	require.Len(t, p, 3)
	assert.Equal(t, ir.Instruction{Op: ir.OpList, Values: ir.List{10, 15}, Result: "_t1"}, p[1])
}

func TestFoldAggregationToConst(t *testing.T) {
	p := FoldConstants(compileRaw(t, `
data nums = [1, 2, 3, 4, 10, 15]
total = sum from nums
n = count from nums
top = max from nums
`))
	require.Len(t, p, 7)
	assert.Equal(t, ir.Instruction{Op: ir.OpConst, Arg: 35, Result: "_t1"}, p[1])
	assert.Equal(t, ir.Instruction{Op: ir.OpConst, Arg: 6, Result: "_t2"}, p[3])
	assert.Equal(t, ir.Instruction{Op: ir.OpConst, Arg: 15, Result: "_t3"}, p[5])
}

func TestFoldChainsThroughAssign(t *testing.T) {
	// The fold result of the select feeds the filter through an ASSIGN.
	p := FoldConstants(compileRaw(t, `
data nums = [1, 2, 3, 4, 10, 15]
big = select > 3 from nums
evens = filter even from big
`))
	require.Len(t, p, 5)
	assert.Equal(t, ir.List{4, 10, 15}, p[1].Values)
	assert.Equal(t, ir.Instruction{Op: ir.OpList, Values: ir.List{4, 10}, Result: "_t2"}, p[3])
}

func TestFoldSkipsEmptyMaxMin(t *testing.T) {
	// max of a statically empty list must keep failing at execution, so
	// the fold leaves the aggregation untouched.
	p := FoldConstants(compileRaw(t, `
data nums = [1, 2, 3]
none = select > 100 from nums
m = max from none
`))
	require.Len(t, p, 5)
	assert.Equal(t, ir.List{}, p[1].Values)
	assert.Equal(t, ir.OpAggMax, p[3].Op)
}

func TestFoldStopsAtUnknownRedefinition(t *testing.T) {
	p := compileRaw(t, `
data xs = [2, 4]
total = sum from xs
`)
	// Force an unknown source: replace the LIST with an opaque ASSIGN.
	p[0] = ir.Instruction{Op: ir.OpAssign, Src: "outside", Result: "xs"}

	folded := FoldConstants(p)
	assert.Equal(t, ir.OpAggSum, folded[1].Op, "aggregation over an unknown source stays dynamic")
}

func TestPropagateCopiesThroughAssign(t *testing.T) {
	p := PropagateCopies(compileRaw(t, `
data nums = [1, 2, 3]
big = select > 1 from nums
print big
`))
	require.Len(t, p, 4)
	assert.Equal(t, "_t1", p[3].Src, "print reads through the copy")
}

func TestPropagateCopiesChains(t *testing.T) {
	p := PropagateCopies(compileRaw(t, `
data xs = [1, 2]
a = xs
b = a
print b
`))
	// a = xs lowers to ASSIGN xs -> _t1, ASSIGN _t1 -> a; the chain
	// resolves all the way back to xs.
	assert.Equal(t, "xs", p[2].Src)
	assert.Equal(t, "xs", p[3].Src)
	assert.Equal(t, "xs", p[5].Src)
}

func TestPropagateCopiesStopsAtRedefinition(t *testing.T) {
	p := PropagateCopies(ir.Program{
		{Op: ir.OpList, Values: ir.List{1}, Result: "xs"},
		{Op: ir.OpAssign, Src: "xs", Result: "a"},
		{Op: ir.OpList, Values: ir.List{9}, Result: "xs"},
		{Op: ir.OpPrint, Src: "a"},
	})
	assert.Equal(t, "a", p[3].Src, "the copy source was redefined, so the read must not be rewritten")
}

func TestEliminateDeadUnreadDeclaration(t *testing.T) {
	p := EliminateDead(compileRaw(t, `
data used = [1, 2]
data unused = [3, 4]
print used
`))
	require.Len(t, p, 2)
	assert.Equal(t, "used", p[0].Result)
	assert.Equal(t, ir.OpPrint, p[1].Op)
}

func TestEliminateDeadChain(t *testing.T) {
	// Nothing is printed, so the whole chain dies in one pass.
	p := EliminateDead(compileRaw(t, `
data xs = [1, 2, 3]
a = select > 1 from xs
b = filter even from a
`))
	assert.Empty(t, p)
}

func TestEliminateDeadKeepsPrintedResults(t *testing.T) {
	p := EliminateDead(compileRaw(t, `
data xs = [1, 2, 3]
a = select > 1 from xs
print a
`))
	require.Len(t, p, 4)
	for _, in := range p {
		assert.NotEqual(t, ir.OpInvalid, in.Op)
	}
}

func TestEliminateDeadSameNameRedefinition(t *testing.T) {
	p := EliminateDead(ir.Program{
		{Op: ir.OpList, Values: ir.List{1}, Result: "x"},
		{Op: ir.OpPrint, Src: "x"},
		{Op: ir.OpList, Values: ir.List{2}, Result: "x"},
		{Op: ir.OpPrint, Src: "x"},
	})
	require.Len(t, p, 4, "both definitions are read by a print")
}

func TestOptimizeCollapsesFoldedProgram(t *testing.T) {
	p := Optimize(compileRaw(t, `
data nums = [1, 2, 3, 4, 10, 15]
big = select > 5 from nums
print big
`))
	require.Len(t, p, 2)
	assert.Equal(t, ir.Instruction{Op: ir.OpList, Values: ir.List{10, 15}, Result: "_t1"}, p[0])
	assert.Equal(t, ir.Instruction{Op: ir.OpPrint, Src: "_t1"}, p[1])
}

func TestEliminateDeadKeepsFailingAggregation(t *testing.T) {
	// max and min fail on an empty source, so a dead one still changes
	// what the program does and must not be removed.
	p := EliminateDead(ir.Program{
		{Op: ir.OpList, Values: ir.List{1}, Result: "a"},
		{Op: ir.OpList, Values: ir.List{}, Result: "none"},
		{Op: ir.OpAggMax, Src: "none", Result: "m"},
		{Op: ir.OpPrint, Src: "a"},
	})
	require.Len(t, p, 4)
	assert.Equal(t, ir.OpAggMax, p[2].Op)
}

func TestOptimizeKeepsFailingAggregation(t *testing.T) {
	p := Optimize(compileRaw(t, `
data a = [1]
none = select > 5 from a
m = max from none
print a
`))
	require.Len(t, p, 4)
	assert.Equal(t, ir.List{}, p[1].Values)
	assert.Equal(t, ir.OpAggMax, p[2].Op)
	assert.Equal(t, ir.OpPrint, p[3].Op)
}

func TestOptimizeDoesNotMutateInput(t *testing.T) {
	p := compileRaw(t, `
data nums = [1, 2, 3]
big = select > 1 from nums
print big
`)
	before := p.String()
	_ = Optimize(p)
	assert.Equal(t, before, p.String())
}
