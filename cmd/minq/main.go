// Command minq is the CLI for the minq query language: compile, check,
// run, replay, trace, and test.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/minq/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
