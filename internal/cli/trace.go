package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/minq/internal/ir"
	"github.com/roach88/minq/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunToken string
}

// TraceStep is one executed instruction in display form.
type TraceStep struct {
	Seq    int64  `json:"seq"`
	Op     string `json:"op"`
	Result string `json:"result,omitempty"`
	Value  string `json:"value"`
}

// TraceResult holds the trace output for JSON rendering.
type TraceResult struct {
	Token       string      `json:"token"`
	ProgramHash string      `json:"program_hash"`
	Source      string      `json:"source"`
	Steps       []TraceStep `json:"steps"`
	Outputs     []string    `json:"outputs"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the step timeline of a recorded run",
		Long: `Show the step-by-step execution timeline of a recorded run: every
executed instruction with its sequence number and observed value,
followed by the printed outputs.

Exit codes:
  0 - Trace printed
  2 - Command error (database not found, unknown token, etc.)

Examples:
  minq trace --db ./minq.db --run 0198c8b2-7e11-7cc3-a812-9f3b0a2d41e7
  minq trace --db ./minq.db --run 0198c8b2-7e11-7cc3-a812-9f3b0a2d41e7 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunToken, "run", "", "run token to trace (required)")
	_ = cmd.MarkFlagRequired("run")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	run, err := st.ReadRun(ctx, opts.RunToken)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("run %s not found", opts.RunToken), err)
	}
	steps, err := st.ReadSteps(ctx, opts.RunToken)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read steps", err)
	}
	outputs, err := st.ReadOutputs(ctx, opts.RunToken)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read outputs", err)
	}

	result := TraceResult{
		Token:       run.Token,
		ProgramHash: run.ProgramHash,
		Source:      run.Source,
		Steps:       traceSteps(steps),
		Outputs:     outputLines(outputs),
	}

	if opts.Format == "json" {
		return encodeJSON(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: result})
	}
	return outputTraceText(cmd, result)
}

func traceSteps(steps []ir.Step) []TraceStep {
	out := make([]TraceStep, len(steps))
	for i, s := range steps {
		out[i] = TraceStep{
			Seq:    s.Seq,
			Op:     s.Op.String(),
			Result: s.ResultName,
			Value:  s.Value.String(),
		}
	}
	return out
}

func outputLines(outputs []ir.Output) []string {
	lines := make([]string, len(outputs))
	for i, o := range outputs {
		lines[i] = o.Value.String()
	}
	return lines
}

func outputTraceText(cmd *cobra.Command, result TraceResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "run %s\n", result.Token)
	fmt.Fprintf(w, "program %s\n", result.ProgramHash)
	fmt.Fprintln(w)
	for _, s := range result.Steps {
		if s.Result != "" {
			fmt.Fprintf(w, "%4d  %-14s %s = %s\n", s.Seq, s.Op, s.Result, s.Value)
		} else {
			fmt.Fprintf(w, "%4d  %-14s %s\n", s.Seq, s.Op, s.Value)
		}
	}
	if len(result.Outputs) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "outputs:")
		for _, out := range result.Outputs {
			fmt.Fprintf(w, "  %s\n", out)
		}
	}
	return nil
}
