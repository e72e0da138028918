package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petra-ci/pipecheck/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pipecheck version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pipecheck %s (commit %s, built %s)\n",
			version.Version, version.Commit, version.BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
