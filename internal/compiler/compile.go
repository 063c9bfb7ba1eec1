// Package compiler orchestrates the minq pipeline: lexing, parsing,
// semantic analysis, IR generation, and optimization, in that order, each
// phase fail-fast. A phase failure aborts the pipeline; later phases never
// see invalid input, and execution never runs on a failed compilation.
package compiler

import (
	"log/slog"

	"github.com/roach88/minq/internal/ast"
	"github.com/roach88/minq/internal/ir"
	"github.com/roach88/minq/internal/irgen"
	"github.com/roach88/minq/internal/opt"
	"github.com/roach88/minq/internal/parser"
	"github.com/roach88/minq/internal/sema"
)

// Phase names used in error wrapping, in pipeline order.
const (
	PhaseParse    = "parse"
	PhaseAnalyze  = "analyze"
	PhaseGenerate = "generate"
	PhaseOptimize = "optimize"
)

// PhaseError wraps a phase diagnostic with the owning phase's name.
type PhaseError struct {
	Phase string
	Err   error
}

// Error implements the error interface.
func (e *PhaseError) Error() string {
	return e.Phase + ": " + e.Err.Error()
}

// Unwrap returns the underlying phase diagnostic, so errors.As still
// reaches the parser/sema error types through the wrapper.
func (e *PhaseError) Unwrap() error {
	return e.Err
}

// Artifacts is everything one compilation produces.
type Artifacts struct {
	// Source is the compiled program text.
	Source string
	// Program is the analyzed AST, every expression node typed.
	Program *ast.Program
	// Symbols is the populated global namespace.
	Symbols *sema.Table
	// IR is the generated instruction sequence before optimization.
	IR ir.Program
	// Optimized is the instruction sequence after the optimizer pipeline.
	// With SkipOptimize it equals IR.
	Optimized ir.Program
	// Hash is the content-addressed identity of the optimized program.
	Hash string
}

// Option configures a compilation.
type Option func(*config)

type config struct {
	skipOptimize bool
}

// SkipOptimize disables the optimizer pipeline; Optimized then carries the
// raw IR. Used by the CLI's --no-optimize flag and by equivalence checks.
func SkipOptimize() Option {
	return func(c *config) {
		c.skipOptimize = true
	}
}

// Compile runs the full pipeline over one source text. Errors are
// *PhaseError values wrapping the phase's own diagnostic type.
func Compile(source string, opts ...Option) (*Artifacts, error) {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}

	prog, err := parser.Parse(source)
	if err != nil {
		return nil, &PhaseError{Phase: PhaseParse, Err: err}
	}

	analyzer := sema.NewAnalyzer()
	if err := analyzer.Analyze(prog); err != nil {
		return nil, &PhaseError{Phase: PhaseAnalyze, Err: err}
	}

	arts := &Artifacts{
		Source:  source,
		Program: prog,
		Symbols: analyzer.Table(),
		IR:      irgen.Lower(prog),
	}

	arts.Optimized = arts.IR
	if !cfg.skipOptimize {
		arts.Optimized = opt.Optimize(arts.IR)
	}
	arts.Hash = ir.ProgramHash(arts.Optimized)

	slog.Debug("compiled",
		"statements", len(prog.Statements),
		"symbols", arts.Symbols.Len(),
		"instructions", len(arts.IR),
		"optimized", len(arts.Optimized),
		"hash", arts.Hash,
	)
	return arts, nil
}
