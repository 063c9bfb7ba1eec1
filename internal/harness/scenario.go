package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: one program plus the
// assertions its compilation and execution must satisfy.
type Scenario struct {
	// Name uniquely identifies this scenario. It doubles as the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Source is the program text to compile and run.
	Source string `yaml:"source"`

	// RunToken is an optional fixed run token for deterministic traces.
	// If empty, the testutil default token is used.
	RunToken string `yaml:"run_token,omitempty"`

	// NoOptimize skips the optimizer pipeline for this scenario.
	NoOptimize bool `yaml:"no_optimize,omitempty"`

	// Assertions validate the compile artifacts, output, and trace.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one aspect of a scenario result. Which fields apply
// depends on Type.
type Assertion struct {
	Type string `yaml:"type"`

	// Outputs is the full expected output (used by output_equals).
	// Elements are ints or int lists.
	Outputs []any `yaml:"outputs,omitempty"`

	// Value is a single expected value (used by output_contains).
	Value any `yaml:"value,omitempty"`

	// Phase and Code identify an expected failure (used by error).
	// Phase is parse, analyze, generate, optimize, or execute.
	// Code is optional, e.g. "E202".
	Phase string `yaml:"phase,omitempty"`
	Code  string `yaml:"code,omitempty"`

	// Name, Kind, and Size describe an expected symbol (used by symbol).
	// Kind is "int" or "list<int>"; Size is the statically known length.
	Name string `yaml:"name,omitempty"`
	Kind string `yaml:"kind,omitempty"`
	Size *int   `yaml:"size,omitempty"`

	// Opcode and Stage locate an instruction (used by ir_contains and
	// ir_absent). Stage is "raw" or "optimized" (default "optimized").
	Opcode string `yaml:"opcode,omitempty"`
	Stage  string `yaml:"stage,omitempty"`

	// Count is an exact occurrence count (used by ir_contains and
	// step_count).
	Count *int `yaml:"count,omitempty"`

	// Property names a cross-run property to check (used by property).
	Property string `yaml:"property,omitempty"`
}

// Assertion type constants.
const (
	AssertOutputEquals   = "output_equals"
	AssertOutputContains = "output_contains"
	AssertError          = "error"
	AssertSymbol         = "symbol"
	AssertIRContains     = "ir_contains"
	AssertIRAbsent       = "ir_absent"
	AssertStepCount      = "step_count"
	AssertProperty       = "property"
)

// Property name constants.
const (
	PropertyOptimizerEquivalence = "optimizer_equivalence"
	PropertyParityPartition      = "parity_partition"
)

// Stage name constants for ir_contains and ir_absent.
const (
	StageRaw       = "raw"
	StageOptimized = "optimized"
)

// LoadScenario reads and parses a scenario YAML file. Returns an error if
// the file doesn't exist, is malformed, contains unknown fields (typos), or
// is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	// Strict decode catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarioDir loads every *.yaml file in dir, sorted by file name.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list scenario dir: %w", err)
	}
	sort.Strings(matches)

	scenarios := make([]*Scenario, 0, len(matches))
	for _, path := range matches {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Source == "" {
		return fmt.Errorf("source is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertOutputEquals:
		if a.Outputs == nil {
			return fmt.Errorf("assertions[%d]: outputs is required for output_equals (use [] for no output)", index)
		}
	case AssertOutputContains:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for output_contains", index)
		}
	case AssertError:
		switch a.Phase {
		case "parse", "analyze", "generate", "optimize", "execute":
		case "":
			return fmt.Errorf("assertions[%d]: phase is required for error", index)
		default:
			return fmt.Errorf("assertions[%d]: unknown phase %q", index, a.Phase)
		}
	case AssertSymbol:
		if a.Name == "" {
			return fmt.Errorf("assertions[%d]: name is required for symbol", index)
		}
		if a.Kind != "int" && a.Kind != "list<int>" {
			return fmt.Errorf("assertions[%d]: kind must be \"int\" or \"list<int>\"", index)
		}
	case AssertIRContains, AssertIRAbsent:
		if a.Opcode == "" {
			return fmt.Errorf("assertions[%d]: opcode is required for %s", index, a.Type)
		}
		switch a.Stage {
		case "", StageRaw, StageOptimized:
		default:
			return fmt.Errorf("assertions[%d]: stage must be %q or %q", index, StageRaw, StageOptimized)
		}
		if a.Type == AssertIRAbsent && a.Count != nil {
			return fmt.Errorf("assertions[%d]: count is not valid for ir_absent", index)
		}
	case AssertStepCount:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for step_count", index)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertProperty:
		switch a.Property {
		case PropertyOptimizerEquivalence, PropertyParityPartition:
		case "":
			return fmt.Errorf("assertions[%d]: property is required for property", index)
		default:
			return fmt.Errorf("assertions[%d]: unknown property %q", index, a.Property)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
