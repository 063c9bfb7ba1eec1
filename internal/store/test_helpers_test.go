package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/minq/internal/engine"
	"github.com/roach88/minq/internal/ir"
)

// createTestStore creates a store backed by a temp-dir database.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testProgram is a small program with one list binding, one constant, and
// two prints. Executing it produces 4 steps and 2 outputs.
func testProgram() ir.Program {
	return ir.Program{
		{Op: ir.OpList, Values: ir.List{10, 15}, Result: "_t1"},
		{Op: ir.OpConst, Arg: 35, Result: "_t2"},
		{Op: ir.OpPrint, Src: "_t1"},
		{Op: ir.OpPrint, Src: "_t2"},
	}
}

type recordedRun struct {
	run     ir.Run
	prog    ir.Program
	steps   []ir.Step
	outputs []ir.Output
}

// recordTestRun executes testProgram under the given token and persists the
// full run, returning the recorded artifacts for comparison.
func recordTestRun(t *testing.T, s *Store, token string) recordedRun {
	t.Helper()
	ctx := context.Background()

	prog := testProgram()
	rec := NewRecorder()
	eng := engine.New(engine.NewFixedGenerator(token), engine.WithTrace(rec))
	res, err := eng.Execute(ctx, prog)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	run := ir.Run{
		Token:         token,
		ProgramHash:   ir.ProgramHash(prog),
		Source:        "",
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
		Steps:         res.Steps,
	}
	if err := s.RecordRun(ctx, run, prog, rec.Steps(), rec.Outputs()); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	return recordedRun{run: run, prog: prog, steps: rec.Steps(), outputs: rec.Outputs()}
}
