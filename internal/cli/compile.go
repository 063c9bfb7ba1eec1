package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/minq/internal/ast"
	"github.com/roach88/minq/internal/compiler"
	"github.com/roach88/minq/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	DumpAST    bool
	NoOptimize bool
	Output     string
}

// CompileResult holds the compile output for JSON rendering.
type CompileResult struct {
	File       string   `json:"file"`
	Hash       string   `json:"hash"`
	Statements int      `json:"statements"`
	Symbols    []string `json:"symbols"`
	IR         []string `json:"ir"`
	Optimized  []string `json:"optimized"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <file.mq>",
		Short: "Compile a source file to IR",
		Long: `Compile a minq source file and print the symbol table and the IR
before and after optimization.

Exit codes:
  0 - Compilation succeeded
  1 - Syntax or semantic error
  2 - Command error (file not found, etc.)

Examples:
  minq compile query.mq
  minq compile query.mq --dump-ast
  minq compile query.mq --no-optimize --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.DumpAST, "dump-ast", false, "print the parsed syntax tree")
	cmd.Flags().BoolVar(&opts.NoOptimize, "no-optimize", false, "skip the optimizer pipeline")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the compiled program as JSON to a file")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
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
	formatter.VerboseLog("Loaded %s (%d bytes)", path, len(source))

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

	result := CompileResult{
		File:       sourceName(path),
		Hash:       artifacts.Hash,
		Statements: len(artifacts.Program.Statements),
		Symbols:    symbolLines(artifacts),
		IR:         programLines(artifacts.IR),
		Optimized:  programLines(artifacts.Optimized),
	}

	if opts.Output != "" {
		if err := writeCompileOutput(opts.Output, result); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		formatter.VerboseLog("Wrote %s", opts.Output)
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return outputCompileText(cmd, opts, artifacts, result)
}

// writeCompileOutput writes the compiled program to a JSON file.
func writeCompileOutput(path string, result CompileResult) error {
	var buf bytes.Buffer
	if err := encodeJSON(&buf, result); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func outputCompileText(cmd *cobra.Command, opts *CompileOptions, artifacts *compiler.Artifacts, result CompileResult) error {
	w := cmd.OutOrStdout()

	if opts.DumpAST {
		ast.Fprint(w, artifacts.Program)
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "symbols:")
	fmt.Fprint(w, artifacts.Symbols.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "ir:")
	fmt.Fprint(w, artifacts.IR.String())
	if !opts.NoOptimize {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "optimized:")
		fmt.Fprint(w, artifacts.Optimized.String())
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "hash: %s\n", result.Hash)
	return nil
}

// symbolLines renders the symbol table one symbol per line, declaration order.
func symbolLines(artifacts *compiler.Artifacts) []string {
	lines := strings.Split(strings.TrimRight(artifacts.Symbols.String(), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return []string{}
	}
	return lines
}

// programLines renders a program one instruction per line.
func programLines(p ir.Program) []string {
	lines := make([]string, len(p))
	for i, in := range p {
		lines[i] = in.String()
	}
	return lines
}
