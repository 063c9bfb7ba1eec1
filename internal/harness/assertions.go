package harness

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/minq/internal/compiler"
	"github.com/roach88/minq/internal/engine"
	"github.com/roach88/minq/internal/ir"
	"github.com/roach88/minq/internal/sema"
)

// AssertionError is returned when an assertion fails. It includes the
// expected and actual outcomes to make the failure readable on its own.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s\n  expected: %s\n  actual: %s", e.Type, e.Expected, e.Actual)
}

// evaluateAssertions evaluates every assertion against the result, adding a
// failure message per assertion that does not hold.
func evaluateAssertions(ctx context.Context, scenario *Scenario, result *Result) {
	for i, assertion := range scenario.Assertions {
		var err error

		switch assertion.Type {
		case AssertOutputEquals:
			err = assertOutputEquals(result, assertion)
		case AssertOutputContains:
			err = assertOutputContains(result, assertion)
		case AssertError:
			err = assertError(result, assertion)
		case AssertSymbol:
			err = assertSymbol(result, assertion)
		case AssertIRContains, AssertIRAbsent:
			err = assertIR(result, assertion)
		case AssertStepCount:
			err = assertStepCount(result, assertion)
		case AssertProperty:
			err = assertProperty(ctx, scenario, assertion)
		default:
			err = fmt.Errorf("unknown assertion type %q", assertion.Type)
		}

		if err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
}

// assertOutputEquals checks the full printed output, in order.
func assertOutputEquals(result *Result, assertion Assertion) error {
	expected := make([]ir.Value, len(assertion.Outputs))
	for i, raw := range assertion.Outputs {
		v, err := convertValue(raw)
		if err != nil {
			return fmt.Errorf("outputs[%d]: %w", i, err)
		}
		expected[i] = v
	}

	if len(result.Outputs) != len(expected) {
		return &AssertionError{
			Type:     AssertOutputEquals,
			Expected: fmt.Sprintf("%d outputs: %s", len(expected), formatValues(expected)),
			Actual:   fmt.Sprintf("%d outputs: %s", len(result.Outputs), formatValues(result.Outputs)),
		}
	}
	for i, want := range expected {
		if !ir.Equal(result.Outputs[i], want) {
			return &AssertionError{
				Type:     AssertOutputEquals,
				Expected: fmt.Sprintf("output %d = %s", i, want),
				Actual:   fmt.Sprintf("output %d = %s", i, result.Outputs[i]),
			}
		}
	}
	return nil
}

// assertOutputContains checks that a value appears somewhere in the output.
func assertOutputContains(result *Result, assertion Assertion) error {
	want, err := convertValue(assertion.Value)
	if err != nil {
		return fmt.Errorf("value: %w", err)
	}

	for _, out := range result.Outputs {
		if ir.Equal(out, want) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertOutputContains,
		Expected: fmt.Sprintf("output containing %s", want),
		Actual:   formatValues(result.Outputs),
	}
}

// assertError checks that the run failed in the expected phase, optionally
// with the expected code.
func assertError(result *Result, assertion Assertion) error {
	if result.RunErr == nil {
		return &AssertionError{
			Type:     AssertError,
			Expected: fmt.Sprintf("failure in phase %s", assertion.Phase),
			Actual:   "run succeeded",
		}
	}

	phase := "execute"
	var perr *compiler.PhaseError
	if errors.As(result.RunErr, &perr) {
		phase = perr.Phase
	}
	if phase != assertion.Phase {
		return &AssertionError{
			Type:     AssertError,
			Expected: fmt.Sprintf("failure in phase %s", assertion.Phase),
			Actual:   fmt.Sprintf("failure in phase %s: %v", phase, result.RunErr),
		}
	}

	if assertion.Code != "" {
		code := errorCode(result.RunErr)
		if code != assertion.Code {
			return &AssertionError{
				Type:     AssertError,
				Expected: fmt.Sprintf("error code %s", assertion.Code),
				Actual:   fmt.Sprintf("error code %s: %v", code, result.RunErr),
			}
		}
	}
	return nil
}

// errorCode extracts the structured code from an analysis or runtime error,
// or "" when the error carries none (parse errors).
func errorCode(err error) string {
	var serr *sema.Error
	if errors.As(err, &serr) {
		return serr.Code
	}
	var rerr *engine.RuntimeError
	if errors.As(err, &rerr) {
		return rerr.Code
	}
	return ""
}

// assertSymbol checks that a name was declared with the expected kind and,
// when given, statically known size.
func assertSymbol(result *Result, assertion Assertion) error {
	if result.Artifacts == nil {
		return &AssertionError{
			Type:     AssertSymbol,
			Expected: fmt.Sprintf("symbol %s declared", assertion.Name),
			Actual:   fmt.Sprintf("compilation failed: %v", result.RunErr),
		}
	}

	sym, err := result.Artifacts.Symbols.Lookup(assertion.Name)
	if err != nil {
		return &AssertionError{
			Type:     AssertSymbol,
			Expected: fmt.Sprintf("symbol %s declared", assertion.Name),
			Actual:   fmt.Sprintf("not declared (table: %v)", result.Artifacts.Symbols.Names()),
		}
	}

	if sym.Kind.String() != assertion.Kind {
		return &AssertionError{
			Type:     AssertSymbol,
			Expected: fmt.Sprintf("%s: %s", assertion.Name, assertion.Kind),
			Actual:   fmt.Sprintf("%s: %s", assertion.Name, sym.Kind),
		}
	}

	if assertion.Size != nil && sym.Size != *assertion.Size {
		return &AssertionError{
			Type:     AssertSymbol,
			Expected: fmt.Sprintf("%s size=%d", assertion.Name, *assertion.Size),
			Actual:   fmt.Sprintf("%s size=%d", assertion.Name, sym.Size),
		}
	}
	return nil
}

// assertIR checks opcode presence (or absence) in the raw or optimized
// program.
func assertIR(result *Result, assertion Assertion) error {
	if result.Artifacts == nil {
		return &AssertionError{
			Type:     assertion.Type,
			Expected: fmt.Sprintf("opcode %s in %s program", assertion.Opcode, stageName(assertion.Stage)),
			Actual:   fmt.Sprintf("compilation failed: %v", result.RunErr),
		}
	}

	op, err := ir.ParseOpcode(assertion.Opcode)
	if err != nil {
		return err
	}

	prog := result.Artifacts.Optimized
	if assertion.Stage == StageRaw {
		prog = result.Artifacts.IR
	}

	count := 0
	for _, in := range prog {
		if in.Op == op {
			count++
		}
	}

	switch assertion.Type {
	case AssertIRAbsent:
		if count != 0 {
			return &AssertionError{
				Type:     AssertIRAbsent,
				Expected: fmt.Sprintf("no %s in %s program", op, stageName(assertion.Stage)),
				Actual:   fmt.Sprintf("%d occurrences:\n%s", count, prog),
			}
		}
	case AssertIRContains:
		if assertion.Count != nil {
			if count != *assertion.Count {
				return &AssertionError{
					Type:     AssertIRContains,
					Expected: fmt.Sprintf("%d occurrences of %s in %s program", *assertion.Count, op, stageName(assertion.Stage)),
					Actual:   fmt.Sprintf("%d occurrences:\n%s", count, prog),
				}
			}
		} else if count == 0 {
			return &AssertionError{
				Type:     AssertIRContains,
				Expected: fmt.Sprintf("%s in %s program", op, stageName(assertion.Stage)),
				Actual:   fmt.Sprintf("not present:\n%s", prog),
			}
		}
	}
	return nil
}

// assertStepCount checks the number of executed instructions.
func assertStepCount(result *Result, assertion Assertion) error {
	if result.Steps != int64(*assertion.Count) {
		return &AssertionError{
			Type:     AssertStepCount,
			Expected: fmt.Sprintf("%d steps", *assertion.Count),
			Actual:   fmt.Sprintf("%d steps", result.Steps),
		}
	}
	return nil
}

func stageName(stage string) string {
	if stage == StageRaw {
		return StageRaw
	}
	return StageOptimized
}

func formatValues(values []ir.Value) string {
	if len(values) == 0 {
		return "(none)"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, "; ")
}
