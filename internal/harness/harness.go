package harness

import (
	"context"
	"fmt"

	"github.com/roach88/minq/internal/compiler"
	"github.com/roach88/minq/internal/engine"
	"github.com/roach88/minq/internal/ir"
	"github.com/roach88/minq/internal/store"
	"github.com/roach88/minq/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// The scenario's program is compiled and, when compilation succeeds, run
// with a fixed run token so repeated executions produce identical traces.
// A failing compile or run is not by itself a scenario failure: the error
// assertion exists to expect exactly that. A failure no assertion expects
// fails the scenario.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	result := NewResult(scenario.Name)

	var opts []compiler.Option
	if scenario.NoOptimize {
		opts = append(opts, compiler.SkipOptimize())
	}

	artifacts, err := compiler.Compile(scenario.Source, opts...)
	if err != nil {
		result.RunErr = err
	} else {
		result.Artifacts = artifacts

		gen := testutil.NewFixedRunGenerator(scenario.RunToken)
		recorder := store.NewRecorder()
		eng := engine.New(gen, engine.WithTrace(recorder))

		res, execErr := eng.Execute(ctx, artifacts.Optimized)
		result.Token = res.Token
		result.Outputs = res.Outputs
		result.Steps = res.Steps
		result.Trace = recorder.Steps()
		if execErr != nil {
			result.RunErr = execErr
		}
	}

	evaluateAssertions(ctx, scenario, result)

	if result.RunErr != nil && !expectsError(scenario) {
		result.AddError(fmt.Sprintf("unexpected failure: %v", result.RunErr))
	}

	return result, nil
}

// expectsError reports whether the scenario declares an error assertion.
func expectsError(scenario *Scenario) bool {
	for _, a := range scenario.Assertions {
		if a.Type == AssertError {
			return true
		}
	}
	return false
}

// convertValue converts a YAML-parsed value to an ir.Value. Only ints and
// int lists exist in the language, so anything else is a scenario bug.
func convertValue(val any) (ir.Value, error) {
	switch v := val.(type) {
	case int:
		return ir.Int(v), nil
	case int64:
		return ir.Int(v), nil
	case []any:
		list := make(ir.List, len(v))
		for i, elem := range v {
			switch n := elem.(type) {
			case int:
				list[i] = int64(n)
			case int64:
				list[i] = n
			default:
				return nil, fmt.Errorf("list[%d]: unsupported element type %T", i, elem)
			}
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T (ints and int lists only)", val)
	}
}
