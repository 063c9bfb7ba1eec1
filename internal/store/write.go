package store

import (
	"context"
	"fmt"

	"github.com/roach88/minq/internal/ir"
)

// RecordRun persists one complete run (the run row, its executed program,
// every step, and every output) in a single transaction, so a crash
// mid-write never leaves a partial run behind.
//
// All inserts use ON CONFLICT DO NOTHING: recording the same run token
// twice is idempotent, and re-recording after a verified replay is a
// no-op rather than an error.
func (s *Store) RecordRun(ctx context.Context, run ir.Run, prog ir.Program, steps []ir.Step, outputs []ir.Output) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record run: begin tx: %w", err)
	}
	defer tx.Rollback() // no-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (token, program_hash, source, engine_version, ir_version, steps)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`, run.Token, run.ProgramHash, run.Source, run.EngineVersion, run.IRVersion, run.Steps)
	if err != nil {
		return fmt.Errorf("record run: insert run: %w", err)
	}

	for idx, in := range prog {
		op, src, vals, arg, arg2, result := marshalInstruction(in)
		_, err = tx.ExecContext(ctx, `
			INSERT INTO instructions (run_token, idx, op, src, vals, arg, arg2, result)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(run_token, idx) DO NOTHING
		`, run.Token, idx, op, src, vals, arg, arg2, result)
		if err != nil {
			return fmt.Errorf("record run: insert instruction %d: %w", idx, err)
		}
	}

	for _, step := range steps {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO steps (id, run_token, seq, op, result_name, value)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`, step.ID, step.RunToken, step.Seq, step.Op.String(), step.ResultName, marshalValue(step.Value))
		if err != nil {
			return fmt.Errorf("record run: insert step %d: %w", step.Seq, err)
		}
	}

	for _, out := range outputs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO outputs (run_token, idx, value)
			VALUES (?, ?, ?)
			ON CONFLICT(run_token, idx) DO NOTHING
		`, out.RunToken, out.Index, marshalValue(out.Value))
		if err != nil {
			return fmt.Errorf("record run: insert output %d: %w", out.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record run: commit: %w", err)
	}
	return nil
}
