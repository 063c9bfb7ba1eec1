package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/minq/internal/engine"
	"github.com/roach88/minq/internal/ir"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_OpensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open() failed: %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer s2.Close()

	var count int
	if err := s2.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count); err != nil {
		t.Errorf("query failed: %v", err)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}
}

func TestRecordRun_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := recordTestRun(t, s, "run-1")

	run, err := s.ReadRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("ReadRun failed: %v", err)
	}
	if run.Token != "run-1" {
		t.Errorf("Token = %q, want %q", run.Token, "run-1")
	}
	if run.ProgramHash != rec.run.ProgramHash {
		t.Errorf("ProgramHash = %q, want %q", run.ProgramHash, rec.run.ProgramHash)
	}
	if run.Steps != 4 {
		t.Errorf("Steps = %d, want 4", run.Steps)
	}
	if run.EngineVersion != ir.EngineVersion {
		t.Errorf("EngineVersion = %q, want %q", run.EngineVersion, ir.EngineVersion)
	}

	prog, err := s.ReadInstructions(ctx, "run-1")
	if err != nil {
		t.Fatalf("ReadInstructions failed: %v", err)
	}
	if len(prog) != len(rec.prog) {
		t.Fatalf("len(instructions) = %d, want %d", len(prog), len(rec.prog))
	}
	for i, in := range prog {
		if in.String() != rec.prog[i].String() {
			t.Errorf("instruction %d = %q, want %q", i, in, rec.prog[i])
		}
	}

	steps, err := s.ReadSteps(ctx, "run-1")
	if err != nil {
		t.Fatalf("ReadSteps failed: %v", err)
	}
	if len(steps) != 4 {
		t.Fatalf("len(steps) = %d, want 4", len(steps))
	}
	for i, step := range steps {
		if step.Seq != int64(i+1) {
			t.Errorf("step %d Seq = %d, want %d", i, step.Seq, i+1)
		}
		if step.ID != rec.steps[i].ID {
			t.Errorf("step %d ID = %q, want %q", i, step.ID, rec.steps[i].ID)
		}
		if !ir.Equal(step.Value, rec.steps[i].Value) {
			t.Errorf("step %d Value = %s, want %s", i, step.Value, rec.steps[i].Value)
		}
	}

	outputs, err := s.ReadOutputs(ctx, "run-1")
	if err != nil {
		t.Fatalf("ReadOutputs failed: %v", err)
	}
	if len(outputs) != 2 {
		t.Fatalf("len(outputs) = %d, want 2", len(outputs))
	}
	if !ir.Equal(outputs[0].Value, ir.List{10, 15}) {
		t.Errorf("output 0 = %s, want [10, 15]", outputs[0].Value)
	}
	if !ir.Equal(outputs[1].Value, ir.Int(35)) {
		t.Errorf("output 1 = %s, want 35", outputs[1].Value)
	}
}

func TestRecordRun_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := recordTestRun(t, s, "run-1")

	// Recording the same run again must not duplicate rows.
	if err := s.RecordRun(ctx, rec.run, rec.prog, rec.steps, rec.outputs); err != nil {
		t.Fatalf("second RecordRun failed: %v", err)
	}

	steps, err := s.ReadSteps(ctx, "run-1")
	if err != nil {
		t.Fatalf("ReadSteps failed: %v", err)
	}
	if len(steps) != 4 {
		t.Errorf("len(steps) = %d after re-record, want 4", len(steps))
	}
}

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadRun(context.Background(), "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("ReadRun(missing) error = %v, want sql.ErrNoRows", err)
	}
}

func TestListRunTokens(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	tokens, err := s.ListRunTokens(ctx)
	if err != nil {
		t.Fatalf("ListRunTokens failed: %v", err)
	}
	if len(tokens) != 0 {
		t.Fatalf("len(tokens) = %d on empty store, want 0", len(tokens))
	}

	recordTestRun(t, s, "run-b")
	recordTestRun(t, s, "run-a")

	tokens, err = s.ListRunTokens(ctx)
	if err != nil {
		t.Fatalf("ListRunTokens failed: %v", err)
	}
	if len(tokens) != 2 || tokens[0] != "run-a" || tokens[1] != "run-b" {
		t.Errorf("tokens = %v, want [run-a run-b]", tokens)
	}
}

func TestReplay_Deterministic(t *testing.T) {
	s := createTestStore(t)

	recordTestRun(t, s, "run-1")

	report, err := s.Replay(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if !report.Deterministic() {
		t.Errorf("replay mismatches: %v", report.Mismatches)
	}
	if report.Steps != 4 {
		t.Errorf("Steps = %d, want 4", report.Steps)
	}
	if report.Outputs != 2 {
		t.Errorf("Outputs = %d, want 2", report.Outputs)
	}
}

func TestReplay_DetectsTamperedStep(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	recordTestRun(t, s, "run-1")

	_, err := s.db.ExecContext(ctx,
		"UPDATE steps SET value = ? WHERE run_token = ? AND seq = 2",
		marshalValue(ir.Int(999)), "run-1")
	if err != nil {
		t.Fatalf("tamper update failed: %v", err)
	}

	report, err := s.Replay(ctx, "run-1")
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if report.Deterministic() {
		t.Error("tampered step not detected")
	}
}

func TestReplay_DetectsTamperedProgram(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	recordTestRun(t, s, "run-1")

	_, err := s.db.ExecContext(ctx,
		"UPDATE instructions SET arg = 99 WHERE run_token = ? AND idx = 1", "run-1")
	if err != nil {
		t.Fatalf("tamper update failed: %v", err)
	}

	report, err := s.Replay(ctx, "run-1")
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if report.Deterministic() {
		t.Error("tampered program not detected")
	}

	found := false
	for _, m := range report.Mismatches {
		if len(m) >= 12 && m[:12] == "program hash" {
			found = true
		}
	}
	if !found {
		t.Errorf("no program hash mismatch reported: %v", report.Mismatches)
	}
}

func TestReplay_UnknownToken(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Replay(context.Background(), "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Replay(missing) error = %v, want sql.ErrNoRows", err)
	}
}

func TestRecorder_CollectsInOrder(t *testing.T) {
	rec := NewRecorder()
	ctx := context.Background()

	rec.Step(ctx, ir.Step{ID: "a", Seq: 1, Value: ir.Int(1)})
	rec.Step(ctx, ir.Step{ID: "b", Seq: 2, Value: ir.Int(2)})
	rec.Output(ctx, ir.Output{Index: 0, Value: ir.Int(2)})

	steps := rec.Steps()
	if len(steps) != 2 || steps[0].ID != "a" || steps[1].ID != "b" {
		t.Errorf("Steps() = %v", steps)
	}
	if len(rec.Outputs()) != 1 {
		t.Errorf("Outputs() = %v", rec.Outputs())
	}
}

var _ engine.TraceSink = (*Recorder)(nil)
