package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/minq/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
}

// ReplayRunResult holds the replay verdict for a single run.
type ReplayRunResult struct {
	Token         string   `json:"token"`
	Steps         int64    `json:"steps"`
	Outputs       int      `json:"outputs"`
	Deterministic bool     `json:"deterministic"`
	Mismatches    []string `json:"mismatches,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs             []ReplayRunResult `json:"runs"`
	TotalRuns        int               `json:"total_runs"`
	AllDeterministic bool              `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay [token]",
		Short: "Re-execute recorded runs and verify determinism",
		Long: `Re-execute recorded runs from their stored programs and compare every
step and output against the recorded values. Without a token argument,
every run in the database is verified.

Exit codes:
  0 - All runs replayed identically
  1 - Divergence detected (recorded and replayed runs differ)
  2 - Command error (database not found, unknown token, etc.)

Examples:
  minq replay --db ./minq.db
  minq replay --db ./minq.db 0198c8b2-7e11-7cc3-a812-9f3b0a2d41e7
  minq replay --db ./minq.db --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ""
			if len(args) == 1 {
				token = args[0]
			}
			return runReplay(opts, token, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runReplay(opts *ReplayOptions, token string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var tokens []string
	if token != "" {
		tokens = []string{token}
	} else {
		tokens, err = st.ListRunTokens(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
	}

	if len(tokens) == 0 {
		if opts.Format == "json" {
			return outputReplayJSON(cmd, ReplayResult{
				Runs:             []ReplayRunResult{},
				TotalRuns:        0,
				AllDeterministic: true,
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No runs found in database.")
		return nil
	}

	result := ReplayResult{
		Runs:             make([]ReplayRunResult, 0, len(tokens)),
		TotalRuns:        len(tokens),
		AllDeterministic: true,
	}

	for _, tok := range tokens {
		report, err := st.Replay(ctx, tok)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", tok), err)
		}

		runResult := ReplayRunResult{
			Token:         report.Token,
			Steps:         report.Steps,
			Outputs:       report.Outputs,
			Deterministic: report.Deterministic(),
			Mismatches:    report.Mismatches,
		}
		result.Runs = append(result.Runs, runResult)
		if !runResult.Deterministic {
			result.AllDeterministic = false
		}

		if opts.Format != "json" {
			outputReplayRunText(cmd, runResult)
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}
	return outputReplaySummaryText(cmd, result)
}

func outputReplayRunText(cmd *cobra.Command, run ReplayRunResult) {
	w := cmd.OutOrStdout()
	if run.Deterministic {
		fmt.Fprintf(w, "✓ %s: %d step(s), %d output(s)\n", run.Token, run.Steps, run.Outputs)
		return
	}
	fmt.Fprintf(w, "✗ %s: %d mismatch(es)\n", run.Token, len(run.Mismatches))
	for _, m := range run.Mismatches {
		fmt.Fprintf(w, "  %s\n", m)
	}
}

func outputReplaySummaryText(cmd *cobra.Command, result ReplayResult) error {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Replayed %d run(s)\n", result.TotalRuns)

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	fmt.Fprintln(w, "✓ All runs verified deterministic")
	return nil
}

func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}
	if !result.AllDeterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_NONDETERMINISTIC",
			Message: "determinism verification failed",
		}
	}

	if err := encodeJSON(cmd.OutOrStdout(), response); err != nil {
		return err
	}
	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}
