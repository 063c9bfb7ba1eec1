package store

import (
	"context"
	"fmt"

	"github.com/roach88/minq/internal/ir"
)

// ReadRun retrieves a run row by token. Returns sql.ErrNoRows if absent.
func (s *Store) ReadRun(ctx context.Context, token string) (ir.Run, error) {
	var run ir.Run
	err := s.db.QueryRowContext(ctx, `
		SELECT token, program_hash, source, engine_version, ir_version, steps
		FROM runs
		WHERE token = ?
	`, token).Scan(&run.Token, &run.ProgramHash, &run.Source, &run.EngineVersion, &run.IRVersion, &run.Steps)
	if err != nil {
		return ir.Run{}, err
	}
	return run, nil
}

// ListRunTokens returns every recorded run token. UUIDv7 tokens sort by
// creation time, so the binary ordering doubles as chronological order.
func (s *Store) ListRunTokens(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token FROM runs ORDER BY token COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query run tokens: %w", err)
	}
	defer rows.Close()

	tokens := []string{}
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("scan run token: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run tokens: %w", err)
	}
	return tokens, nil
}

// ReadInstructions rebuilds the executed program of a run, in instruction
// order.
func (s *Store) ReadInstructions(ctx context.Context, token string) (ir.Program, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT op, src, vals, arg, arg2, result
		FROM instructions
		WHERE run_token = ?
		ORDER BY idx ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("query instructions: %w", err)
	}
	defer rows.Close()

	prog := ir.Program{}
	for rows.Next() {
		var op, src, vals, result string
		var arg, arg2 int64
		if err := rows.Scan(&op, &src, &vals, &arg, &arg2, &result); err != nil {
			return nil, fmt.Errorf("scan instruction: %w", err)
		}
		in, err := scanInstruction(op, src, vals, arg, arg2, result)
		if err != nil {
			return nil, err
		}
		prog = append(prog, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate instructions: %w", err)
	}
	return prog, nil
}

// ReadSteps returns the recorded steps of a run, ordered by seq ASC with
// id as the deterministic tiebreak.
func (s *Store) ReadSteps(ctx context.Context, token string) ([]ir.Step, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_token, seq, op, result_name, value
		FROM steps
		WHERE run_token = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	steps := []ir.Step{}
	for rows.Next() {
		var step ir.Step
		var op, value string
		if err := rows.Scan(&step.ID, &step.RunToken, &step.Seq, &op, &step.ResultName, &value); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		step.Op, err = ir.ParseOpcode(op)
		if err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		step.Value, err = unmarshalValue(value)
		if err != nil {
			return nil, fmt.Errorf("scan step value: %w", err)
		}
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steps: %w", err)
	}
	return steps, nil
}

// ReadOutputs returns the recorded printed values of a run, in print
// order.
func (s *Store) ReadOutputs(ctx context.Context, token string) ([]ir.Output, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_token, idx, value
		FROM outputs
		WHERE run_token = ?
		ORDER BY idx ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("query outputs: %w", err)
	}
	defer rows.Close()

	outputs := []ir.Output{}
	for rows.Next() {
		var out ir.Output
		var value string
		if err := rows.Scan(&out.RunToken, &out.Index, &value); err != nil {
			return nil, fmt.Errorf("scan output: %w", err)
		}
		out.Value, err = unmarshalValue(value)
		if err != nil {
			return nil, fmt.Errorf("scan output value: %w", err)
		}
		outputs = append(outputs, out)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outputs: %w", err)
	}
	return outputs, nil
}
