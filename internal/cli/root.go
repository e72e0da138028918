// Package cli implements the pipecheck command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/petra-ci/pipecheck/internal/errors"
	"github.com/petra-ci/pipecheck/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "pipecheck",
	Short: "Verify CI pipeline runs against declared criteria",
	Long: `pipecheck verifies completed pipeline runs.

It parses the pipeline's log output, checks the component registry, and
evaluates the declared verification criteria, then writes a machine-readable
report for CI consumption.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (PIPECHECK_*)
  2. Config file (pipecheck.yml or --config)
  3. Built-in defaults`,
	Example: `  # Verify the current commit using pipecheck.yml
  pipecheck verify

  # Verify a specific revision with an explicit config
  pipecheck verify --config ci/pipecheck.yml --commit 3f2a91c --branch main

  # Re-run verification whenever a log source changes
  pipecheck watch`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       version.Version,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to config file (default pipecheck.yml)")
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	return run(os.Args[1:])
}

// run executes the root command with explicit arguments. Split from Execute
// so tests can drive the full command path.
func run(args []string) int {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	if _, ok := err.(checksFailedError); !ok {
		if verr := errors.AsVerifyError(err); verr != nil {
			errors.FprintError(os.Stderr, verr)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	return exitCodeFor(err)
}
