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

// assertProperty dispatches cross-run property checks. Properties compile
// and run the scenario program themselves because they need executions the
// main run does not produce (the unoptimized program, a traced run).
func assertProperty(ctx context.Context, scenario *Scenario, assertion Assertion) error {
	switch assertion.Property {
	case PropertyOptimizerEquivalence:
		return checkOptimizerEquivalence(ctx, scenario)
	case PropertyParityPartition:
		return checkParityPartition(ctx, scenario)
	default:
		return fmt.Errorf("unknown property %q", assertion.Property)
	}
}

// checkOptimizerEquivalence runs the program with and without the optimizer
// and requires identical observable behavior: the same outputs in the same
// order, or the same error code.
func checkOptimizerEquivalence(ctx context.Context, scenario *Scenario) error {
	artifacts, err := compiler.Compile(scenario.Source)
	if err != nil {
		return fmt.Errorf("%s: compile: %w", PropertyOptimizerEquivalence, err)
	}

	rawRes, rawErr := runProgram(ctx, scenario, artifacts.IR)
	optRes, optErr := runProgram(ctx, scenario, artifacts.Optimized)

	if (rawErr == nil) != (optErr == nil) {
		return &AssertionError{
			Type:     PropertyOptimizerEquivalence,
			Expected: fmt.Sprintf("raw error %v", rawErr),
			Actual:   fmt.Sprintf("optimized error %v", optErr),
		}
	}
	if rawErr != nil {
		if errorCode(rawErr) != errorCode(optErr) {
			return &AssertionError{
				Type:     PropertyOptimizerEquivalence,
				Expected: fmt.Sprintf("error code %s", errorCode(rawErr)),
				Actual:   fmt.Sprintf("error code %s", errorCode(optErr)),
			}
		}
		return nil
	}

	if len(rawRes.Outputs) != len(optRes.Outputs) {
		return &AssertionError{
			Type:     PropertyOptimizerEquivalence,
			Expected: fmt.Sprintf("%d outputs: %s", len(rawRes.Outputs), formatValues(rawRes.Outputs)),
			Actual:   fmt.Sprintf("%d outputs: %s", len(optRes.Outputs), formatValues(optRes.Outputs)),
		}
	}
	for i := range rawRes.Outputs {
		if !ir.Equal(rawRes.Outputs[i], optRes.Outputs[i]) {
			return &AssertionError{
				Type:     PropertyOptimizerEquivalence,
				Expected: fmt.Sprintf("output %d = %s", i, rawRes.Outputs[i]),
				Actual:   fmt.Sprintf("output %d = %s", i, optRes.Outputs[i]),
			}
		}
	}
	return nil
}

// checkParityPartition executes the unoptimized program with a trace and
// verifies every even/odd filter result against its source at the point of
// execution: correct parity throughout, order preserved, and together with
// its complement a full partition of the source.
func checkParityPartition(ctx context.Context, scenario *Scenario) error {
	artifacts, err := compiler.Compile(scenario.Source, compiler.SkipOptimize())
	if err != nil {
		return fmt.Errorf("%s: compile: %w", PropertyParityPartition, err)
	}

	recorder := store.NewRecorder()
	gen := testutil.NewFixedRunGenerator(scenario.RunToken)
	eng := engine.New(gen, engine.WithTrace(recorder))
	if _, err := eng.Execute(ctx, artifacts.IR); err != nil {
		return fmt.Errorf("%s: execute: %w", PropertyParityPartition, err)
	}

	checked := 0
	steps := recorder.Steps()
	// Steps align one to one with instructions on a successful run, so the
	// source of filter i is recoverable from the bindings steps 0..i-1 made.
	bindings := make(map[string]ir.Value)
	for i, in := range artifacts.IR {
		if in.Op == ir.OpFilterEven || in.Op == ir.OpFilterOdd {
			src, ok := bindings[in.Src].(ir.List)
			if !ok {
				return fmt.Errorf("%s: instruction %d reads %q which is not a list", PropertyParityPartition, i, in.Src)
			}
			result, ok := steps[i].Value.(ir.List)
			if !ok {
				return fmt.Errorf("%s: instruction %d produced a non-list", PropertyParityPartition, i)
			}
			if err := verifyParity(in.Op, src, result); err != nil {
				return err
			}
			checked++
		}
		if in.Result != "" {
			bindings[in.Result] = steps[i].Value
		}
	}

	if checked == 0 {
		return fmt.Errorf("%s: program has no even or odd filter", PropertyParityPartition)
	}
	return nil
}

// verifyParity checks one parity filter result against its source.
func verifyParity(op ir.Opcode, src, result ir.List) error {
	wantEven := op == ir.OpFilterEven

	for _, n := range result {
		if (n%2 == 0) != wantEven {
			return &AssertionError{
				Type:     PropertyParityPartition,
				Expected: fmt.Sprintf("%s result of matching parity only", op),
				Actual:   fmt.Sprintf("%s contains %d", result, n),
			}
		}
	}

	if !isSubsequence(result, src) {
		return &AssertionError{
			Type:     PropertyParityPartition,
			Expected: fmt.Sprintf("%s result in source order (source %s)", op, src),
			Actual:   result.String(),
		}
	}

	// The complement has everything else, so matching the parity count in
	// the source makes even and odd a disjoint cover of it.
	matching := 0
	for _, n := range src {
		if (n%2 == 0) == wantEven {
			matching++
		}
	}
	if len(result) != matching {
		return &AssertionError{
			Type:     PropertyParityPartition,
			Expected: fmt.Sprintf("%d elements from source %s", matching, src),
			Actual:   fmt.Sprintf("%d elements: %s", len(result), result),
		}
	}
	return nil
}

// isSubsequence reports whether sub appears in src in order.
func isSubsequence(sub, src ir.List) bool {
	i := 0
	for _, n := range src {
		if i < len(sub) && sub[i] == n {
			i++
		}
	}
	return i == len(sub)
}

// runProgram executes prog with the scenario's fixed run token.
func runProgram(ctx context.Context, scenario *Scenario, prog ir.Program) (*engine.Result, error) {
	gen := testutil.NewFixedRunGenerator(scenario.RunToken)
	return engine.New(gen).Execute(ctx, prog)
}
