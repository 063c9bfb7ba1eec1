package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/minq/internal/parser"
	"github.com/roach88/minq/internal/sema"
)

// CheckResult holds the check output for JSON rendering.
type CheckResult struct {
	File       string           `json:"file"`
	Valid      bool             `json:"valid"`
	Statements int              `json:"statements"`
	Diagnostic *CheckDiagnostic `json:"diagnostic,omitempty"`
}

// CheckDiagnostic is one structured parse or analysis error.
type CheckDiagnostic struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Position  string `json:"position,omitempty"`
	Statement *int   `json:"statement,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file.mq>",
		Short: "Parse and analyze without generating IR",
		Long: `Check a minq source file for syntax and semantic errors without
generating or executing IR. Faster than compile for editor feedback.

Exit codes:
  0 - Source is valid
  1 - Syntax or semantic error
  2 - Command error (file not found, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, path string, cmd *cobra.Command) error {
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

	prog, err := parser.Parse(source)
	if err != nil {
		return outputCheckFailure(formatter, path, checkDiagnostic(err))
	}
	formatter.VerboseLog("Parsed %d statement(s)", len(prog.Statements))

	if err := sema.NewAnalyzer().Analyze(prog); err != nil {
		return outputCheckFailure(formatter, path, checkDiagnostic(err))
	}

	result := CheckResult{
		File:       sourceName(path),
		Valid:      true,
		Statements: len(prog.Statements),
	}
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d statement(s), no errors\n", result.File, result.Statements)
	return nil
}

// checkDiagnostic converts a parse or analysis error to its structured form.
func checkDiagnostic(err error) *CheckDiagnostic {
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return &CheckDiagnostic{
			Code:     ErrCodeParse,
			Message:  parseErr.Message,
			Position: fmt.Sprintf("%d:%d", parseErr.Line, parseErr.Col),
		}
	}
	var semaErr *sema.Error
	if errors.As(err, &semaErr) {
		stmt := semaErr.Stmt
		return &CheckDiagnostic{
			Code:      semaErr.Code,
			Message:   semaErr.Message,
			Position:  semaErr.Pos.String(),
			Statement: &stmt,
		}
	}
	return &CheckDiagnostic{Code: ErrCodeParse, Message: err.Error()}
}

func outputCheckFailure(formatter *OutputFormatter, path string, diag *CheckDiagnostic) error {
	if formatter.Format == "json" {
		resp := CLIResponse{
			Status: "error",
			Data: CheckResult{
				File:       sourceName(path),
				Valid:      false,
				Diagnostic: diag,
			},
			Error: &CLIError{Code: diag.Code, Message: diag.Message},
		}
		if err := encodeJSON(formatter.Writer, resp); err != nil {
			return err
		}
		return NewExitError(ExitFailure, diag.Message)
	}

	if diag.Position != "" {
		fmt.Fprintf(formatter.Writer, "✗ %s:%s: %s: %s\n", sourceName(path), diag.Position, diag.Code, diag.Message)
	} else {
		fmt.Fprintf(formatter.Writer, "✗ %s: %s: %s\n", sourceName(path), diag.Code, diag.Message)
	}
	return NewExitError(ExitFailure, diag.Message)
}
