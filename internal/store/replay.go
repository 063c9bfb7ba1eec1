package store

import (
	"context"
	"fmt"

	"github.com/roach88/minq/internal/engine"
	"github.com/roach88/minq/internal/ir"
)

// ReplayReport is the outcome of re-executing one recorded run.
type ReplayReport struct {
	Token      string   `json:"token"`
	Steps      int64    `json:"steps"`
	Outputs    int      `json:"outputs"`
	Mismatches []string `json:"mismatches,omitempty"`
}

// Deterministic reports whether the replay matched the recording exactly.
func (r *ReplayReport) Deterministic() bool {
	return len(r.Mismatches) == 0
}

func (r *ReplayReport) mismatchf(format string, args ...any) {
	r.Mismatches = append(r.Mismatches, fmt.Sprintf(format, args...))
}

// Replay re-executes a recorded run under its original token and verifies
// the recording byte for byte: the program hash, every step's ID and
// value, and every output. Any divergence is a determinism violation
// reported in the mismatch list; only I/O problems surface as errors.
func (s *Store) Replay(ctx context.Context, token string) (*ReplayReport, error) {
	run, err := s.ReadRun(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", token, err)
	}

	prog, err := s.ReadInstructions(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", token, err)
	}

	recordedSteps, err := s.ReadSteps(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", token, err)
	}

	recordedOutputs, err := s.ReadOutputs(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", token, err)
	}

	report := &ReplayReport{Token: token, Outputs: len(recordedOutputs)}

	if hash := ir.ProgramHash(prog); hash != run.ProgramHash {
		report.mismatchf("program hash: recorded %s, stored program hashes to %s", run.ProgramHash, hash)
	}

	// Re-execute under the recorded token so step IDs are comparable.
	recorder := NewRecorder()
	eng := engine.New(engine.NewFixedGenerator(token), engine.WithTrace(recorder))
	res, execErr := eng.Execute(ctx, prog)
	if execErr != nil {
		report.mismatchf("re-execution failed: %v", execErr)
		return report, nil
	}
	report.Steps = res.Steps

	if res.Steps != run.Steps {
		report.mismatchf("step count: recorded %d, replayed %d", run.Steps, res.Steps)
	}

	replayed := recorder.Steps()
	if len(replayed) != len(recordedSteps) {
		report.mismatchf("step rows: recorded %d, replayed %d", len(recordedSteps), len(replayed))
		return report, nil
	}
	for i, got := range replayed {
		want := recordedSteps[i]
		if got.ID != want.ID {
			report.mismatchf("step %d: recorded id %s, replayed %s", want.Seq, want.ID, got.ID)
		}
		if !ir.Equal(got.Value, want.Value) {
			report.mismatchf("step %d: recorded value %s, replayed %s", want.Seq, want.Value, got.Value)
		}
	}

	if len(res.Outputs) != len(recordedOutputs) {
		report.mismatchf("outputs: recorded %d, replayed %d", len(recordedOutputs), len(res.Outputs))
		return report, nil
	}
	for i, out := range recordedOutputs {
		if !ir.Equal(res.Outputs[i], out.Value) {
			report.mismatchf("output %d: recorded %s, replayed %s", i, out.Value, res.Outputs[i])
		}
	}

	return report, nil
}
