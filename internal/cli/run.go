package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/minq/internal/compiler"
	"github.com/roach88/minq/internal/engine"
	"github.com/roach88/minq/internal/ir"
	"github.com/roach88/minq/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database   string
	NoOptimize bool
	ShowIR     bool

	// TokenGenerator allows overriding the run token generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	TokenGenerator engine.RunTokenGenerator
}

// RunResult holds the run output for JSON rendering.
type RunResult struct {
	File    string   `json:"file"`
	Token   string   `json:"token"`
	Hash    string   `json:"hash"`
	Steps   int64    `json:"steps"`
	Outputs []string `json:"outputs"`
	IR      []string `json:"ir,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <file.mq>",
		Short: "Compile and execute a source file",
		Long: `Compile a minq source file and execute it on the sequential engine,
printing each output value on its own line.

With --db the run is recorded to SQLite: the program, every executed
step, and every output, keyed by the run token. Recorded runs can be
verified later with replay and inspected with trace.

Exit codes:
  0 - Run completed
  1 - Syntax, semantic, or runtime error
  2 - Command error (file not found, database error, etc.)

Examples:
  minq run query.mq
  minq run query.mq --db ./minq.db
  minq run query.mq --no-optimize --show-ir`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgram(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database for run recording")
	cmd.Flags().BoolVar(&opts.NoOptimize, "no-optimize", false, "execute the unoptimized IR")
	cmd.Flags().BoolVar(&opts.ShowIR, "show-ir", false, "print the executed IR before the outputs")

	return cmd
}

func runProgram(opts *RunOptions, path string, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	source, err := LoadSource(path)
	if err != nil {
		if outErr := formatter.Error(ErrCodeLoad, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "failed to load source", err)
	}

	var compileOpts []compiler.Option
	if opts.NoOptimize {
		compileOpts = append(compileOpts, compiler.SkipOptimize())
	}
	artifacts, err := compiler.Compile(source, compileOpts...)
	if err != nil {
		if outErr := formatter.Error(diagnosticCode(err), err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitFailure, "compilation failed", err)
	}
	slog.Debug("compiled", "file", path, "hash", artifacts.Hash)

	tokenGen := opts.TokenGenerator
	if tokenGen == nil {
		tokenGen = engine.UUIDv7Generator{}
	}

	var engineOpts []engine.Option
	var recorder *store.Recorder
	if opts.Database != "" {
		recorder = store.NewRecorder()
		engineOpts = append(engineOpts, engine.WithTrace(recorder))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	eng := engine.New(tokenGen, engineOpts...)
	res, execErr := eng.Execute(ctx, artifacts.Optimized)
	if execErr != nil {
		if outErr := formatter.Error(diagnosticCode(execErr), execErr.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitFailure, "execution failed", execErr)
	}

	if opts.Database != "" {
		if err := recordRun(ctx, opts.Database, artifacts, res, recorder); err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		slog.Info("run recorded", "db", opts.Database, "token", res.Token, "steps", res.Steps)
	}

	result := RunResult{
		File:    sourceName(path),
		Token:   res.Token,
		Hash:    artifacts.Hash,
		Steps:   res.Steps,
		Outputs: valueLines(res.Outputs),
	}
	if opts.ShowIR {
		result.IR = programLines(artifacts.Optimized)
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return outputRunText(cmd, opts, artifacts, result)
}

// recordRun persists one completed execution.
func recordRun(ctx context.Context, dbPath string, artifacts *compiler.Artifacts, res *engine.Result, recorder *store.Recorder) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	run := ir.Run{
		Token:         res.Token,
		ProgramHash:   artifacts.Hash,
		Source:        artifacts.Source,
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
		Steps:         res.Steps,
	}
	return st.RecordRun(ctx, run, artifacts.Optimized, recorder.Steps(), recorder.Outputs())
}

func outputRunText(cmd *cobra.Command, opts *RunOptions, artifacts *compiler.Artifacts, result RunResult) error {
	w := cmd.OutOrStdout()

	if opts.ShowIR {
		fmt.Fprintln(w, "ir:")
		fmt.Fprint(w, artifacts.Optimized.String())
		fmt.Fprintln(w)
	}
	for _, out := range result.Outputs {
		fmt.Fprintln(w, out)
	}
	if opts.Verbose || opts.Database != "" {
		fmt.Fprintf(w, "run %s: %d step(s), %d output(s)\n", result.Token, result.Steps, len(result.Outputs))
	}
	return nil
}

// valueLines renders values one per line in print order.
func valueLines(vals []ir.Value) []string {
	lines := make([]string, len(vals))
	for i, v := range vals {
		lines[i] = v.String()
	}
	return lines
}
