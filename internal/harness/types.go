package harness

import (
	"github.com/roach88/minq/internal/compiler"
	"github.com/roach88/minq/internal/ir"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success. True if every assertion
	// held and no unexpected failure occurred.
	Pass bool `json:"pass"`

	// Scenario is the scenario name.
	Scenario string `json:"scenario"`

	// Token is the run token the execution used.
	Token string `json:"token"`

	// Outputs are the printed values, in print order.
	Outputs []ir.Value `json:"-"`

	// Steps is the number of executed instructions.
	Steps int64 `json:"steps"`

	// Trace is the recorded step sequence, for golden comparison.
	Trace []ir.Step `json:"-"`

	// Errors contains assertion failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Artifacts are the compile artifacts, nil when compilation failed.
	Artifacts *compiler.Artifacts `json:"-"`

	// RunErr is the compilation or execution error, nil on success. The
	// error assertion consumes it; if no assertion expects it, it is an
	// unexpected failure.
	RunErr error `json:"-"`
}

// NewResult creates a passing result for the named scenario.
func NewResult(scenario string) *Result {
	return &Result{
		Pass:     true,
		Scenario: scenario,
		Errors:   []string{},
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
