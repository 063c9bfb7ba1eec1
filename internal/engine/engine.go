package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/minq/internal/ir"
)

// TraceSink observes an execution. Step fires once per executed
// instruction with the binding it defined (for PRINT, the printed value);
// Output fires once per printed value, in print order. The store's
// Recorder implements it to persist runs.
type TraceSink interface {
	Step(ctx context.Context, step ir.Step) error
	Output(ctx context.Context, out ir.Output) error
}

// Engine executes IR programs. It holds run-independent configuration
// only; all per-run state (environment, clock, outputs) is created inside
// Execute, so one Engine can execute any number of programs.
type Engine struct {
	tokenGen RunTokenGenerator
	sink     TraceSink
	clockAt  int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithTrace attaches a trace sink observing every step and output.
func WithTrace(sink TraceSink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithClockStart makes runs stamp steps from a specific starting sequence
// number. Used by replay verification; production runs start at 0.
func WithClockStart(start int64) Option {
	return func(e *Engine) {
		e.clockAt = start
	}
}

// New creates an engine that identifies runs with tokens from gen.
func New(gen RunTokenGenerator, opts ...Option) *Engine {
	e := &Engine{tokenGen: gen}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the observable outcome of one execution.
type Result struct {
	// Token identifies the run.
	Token string
	// Outputs holds the printed values in print order, the program's
	// sole externally observable result.
	Outputs []ir.Value
	// Env is the final environment, exposed for diagnostics and tests.
	Env *Environment
	// Steps is the number of executed instructions.
	Steps int64
}

// Execute interprets prog front to back against a fresh environment.
//
// On a runtime error the returned Result still carries the token and
// every output produced before the failure; the error is a *RuntimeError
// identifying the failing instruction. Cancellation is checked between
// instructions, so a cancelled context stops the run cleanly at an
// instruction boundary.
func (e *Engine) Execute(ctx context.Context, prog ir.Program) (*Result, error) {
	res := &Result{
		Token: e.tokenGen.Generate(),
		Env:   NewEnvironment(),
	}
	clock := NewClockAt(e.clockAt)

	slog.Debug("run starting", "token", res.Token, "instructions", len(prog))

	for i, in := range prog {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		v, err := e.step(res.Env, in)
		if err != nil {
			var rerr *RuntimeError
			if errors.As(err, &rerr) {
				rerr.Instr = i
			}
			slog.Debug("run failed", "token", res.Token, "instruction", i, "error", err)
			return res, err
		}

		if in.Result != "" {
			res.Env.Bind(in.Result, v)
		}

		seq := clock.Next()
		res.Steps++
		slog.Debug("step", "token", res.Token, "seq", seq, "op", in.Op.String(), "result", in.Result)

		if e.sink != nil {
			step := ir.Step{
				ID:         ir.StepID(res.Token, seq, in, v),
				RunToken:   res.Token,
				Seq:        seq,
				Op:         in.Op,
				ResultName: in.Result,
				Value:      v,
			}
			if err := e.sink.Step(ctx, step); err != nil {
				return res, err
			}
		}

		if in.Op == ir.OpPrint {
			if e.sink != nil {
				out := ir.Output{RunToken: res.Token, Index: len(res.Outputs), Value: v}
				if err := e.sink.Output(ctx, out); err != nil {
					return res, err
				}
			}
			res.Outputs = append(res.Outputs, v)
		}
	}

	slog.Debug("run finished", "token", res.Token, "steps", res.Steps, "outputs", len(res.Outputs))
	return res, nil
}

// step evaluates one instruction against env and returns the value it
// produces: the binding for defining opcodes, the printed value for PRINT.
func (e *Engine) step(env *Environment, in ir.Instruction) (ir.Value, error) {
	switch {
	case in.Op == ir.OpList:
		return in.Values.Clone(), nil

	case in.Op == ir.OpConst:
		return ir.Int(in.Arg), nil

	case ir.FilterOp(in.Op):
		src, err := env.LookupList(in.Src)
		if err != nil {
			return nil, err
		}
		return ir.Filter(in.Op, src, in.Arg, in.Arg2), nil

	case ir.AggOp(in.Op):
		src, err := env.LookupList(in.Src)
		if err != nil {
			return nil, err
		}
		n, ok := ir.Reduce(in.Op, src)
		if !ok {
			return nil, NewEmptyAggregateError(in.Op.String(), in.Src)
		}
		return ir.Int(n), nil

	case in.Op == ir.OpAssign:
		v, err := env.Lookup(in.Src)
		if err != nil {
			return nil, err
		}
		if list, ok := v.(ir.List); ok {
			return list.Clone(), nil
		}
		return v, nil

	case in.Op == ir.OpPrint:
		return env.Lookup(in.Src)

	default:
		// The opcode set is closed; reaching here means the program was
		// built outside the pipeline.
		panic("engine: invalid opcode " + in.Op.String())
	}
}
