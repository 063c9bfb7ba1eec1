package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders a scenario result as a stable text snapshot: the symbol
// table, the program before and after optimization, and the output (or the
// failure). Deterministic run tokens keep the rendering byte-identical
// across runs.
func Snapshot(result *Result) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "scenario: %s\n", result.Scenario)

	if result.Artifacts == nil {
		fmt.Fprintf(&b, "\nerror: %v\n", result.RunErr)
		return []byte(b.String())
	}

	b.WriteString("\nsymbols:\n")
	b.WriteString(result.Artifacts.Symbols.String())

	b.WriteString("\nir:\n")
	b.WriteString(result.Artifacts.IR.String())

	b.WriteString("\noptimized:\n")
	b.WriteString(result.Artifacts.Optimized.String())

	if result.RunErr != nil {
		fmt.Fprintf(&b, "\nerror: %v\n", result.RunErr)
		return []byte(b.String())
	}

	b.WriteString("\noutput:\n")
	for _, v := range result.Outputs {
		b.WriteString(v.String())
		b.WriteByte('\n')
	}

	return []byte(b.String())
}

// RunWithGolden executes a scenario and compares its snapshot against the
// golden file testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	AssertGolden(t, scenario.Name, result)
	return nil
}

// AssertGolden compares an already-computed result's snapshot against the
// golden file for scenarioName.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, Snapshot(result))
}
