package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/petra-ci/pipecheck/internal/config"
	"github.com/petra-ci/pipecheck/internal/engine"
	"github.com/petra-ci/pipecheck/internal/errors"
	"github.com/petra-ci/pipecheck/internal/output"
	"github.com/petra-ci/pipecheck/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run verification whenever a log source changes",
	Long: `Re-run verification whenever a log source changes.

Watches every configured log source, the registry snapshot file, and the
state history file, and re-evaluates all criteria after each change. Reports
are not written in watch mode; results go to the terminal. Stop with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		levelFlag, _ := cmd.Flags().GetString("verification-level")

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		paths := watchedPaths(cfg)
		if len(paths) == 0 {
			return errors.NewConfigError("no local files to watch",
				"declare at least one log source with a file path")
		}

		watcher, err := watch.New(paths)
		if err != nil {
			return errors.Wrap(err, errors.Internal)
		}
		defer watcher.Close()

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		return watcher.Run(ctx, func(ctx context.Context) error {
			// reload so config edits between runs take effect
			cfg, err := config.Load(configPath)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return err
			}
			level, err := resolveLevel(levelFlag, cfg)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return err
			}

			output.PrintSeparator(os.Stdout)
			result, _, err := engine.New(cfg, level).Run(ctx)
			if err != nil {
				if verr := errors.AsVerifyError(err); verr != nil {
					errors.FprintError(os.Stderr, verr)
				} else {
					fmt.Fprintln(os.Stderr, err)
				}
				return err
			}
			output.PrintResult(os.Stdout, result)
			if !result.OverallPassed {
				return checksFailedError{}
			}
			return nil
		})
	},
}

func init() {
	watchCmd.Flags().String("verification-level", "", "basic, standard, detailed, or diagnostic")
	rootCmd.AddCommand(watchCmd)
}

// watchedPaths collects the local files whose changes invalidate the last
// verification result.
func watchedPaths(cfg *config.Config) []string {
	var paths []string
	for _, src := range cfg.LogParsing.LogSources {
		if src.Path != "" {
			paths = append(paths, src.Path)
		}
	}
	if cfg.Registry.SnapshotFile != "" {
		paths = append(paths, cfg.Registry.SnapshotFile)
	}
	if cfg.StateTracking.HistoryFile != "" {
		paths = append(paths, cfg.StateTracking.HistoryFile)
	}
	return paths
}
