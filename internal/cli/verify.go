package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/petra-ci/pipecheck/internal/config"
	"github.com/petra-ci/pipecheck/internal/engine"
	"github.com/petra-ci/pipecheck/internal/errors"
	"github.com/petra-ci/pipecheck/internal/gitinfo"
	"github.com/petra-ci/pipecheck/internal/output"
	"github.com/petra-ci/pipecheck/internal/progress"
	"github.com/petra-ci/pipecheck/internal/report"
	"github.com/petra-ci/pipecheck/internal/verification"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Run verification for a completed pipeline run",
	Long: `Run verification for a completed pipeline run.

Reads the configured log sources, loads the component registry snapshot,
evaluates every declared criterion, and writes the verification report.

Exit codes:
  0  all checks passed
  1  one or more checks failed
  2  configuration or source error
  3  report could not be written`,
	Example: `  # Verify using pipecheck.yml in the current directory
  pipecheck verify

  # Pin the revision recorded in the report
  pipecheck verify --commit 3f2a91c --branch release/2.4

  # Write reports somewhere else and raise the verification level
  pipecheck verify --output build/reports --verification-level detailed`,
	RunE: func(cmd *cobra.Command, args []string) error {
		commit, _ := cmd.Flags().GetString("commit")
		branch, _ := cmd.Flags().GetString("branch")
		outputDir, _ := cmd.Flags().GetString("output")
		junitPath, _ := cmd.Flags().GetString("junit-output")
		levelFlag, _ := cmd.Flags().GetString("verification-level")
		configPath, _ := cmd.Flags().GetString("config")

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		level, err := resolveLevel(levelFlag, cfg)
		if err != nil {
			return err
		}

		info := resolveRevision(commit, branch)

		caps := progress.DetectTerminalCapabilities()
		display := progress.NewDisplay(os.Stdout, caps)
		display.Start("evaluating verification criteria")

		eng := engine.New(cfg, level)
		result, stats, err := eng.Run(cmd.Context())
		if err != nil {
			display.Fail("verification aborted")
			return err
		}
		display.Stop()

		if info.Branch != "" || info.CommitSHA != "" {
			output.PrintRunHeader(os.Stdout, info.Branch, info.CommitSHA)
		}
		output.PrintResult(os.Stdout, result)
		for _, warning := range eng.Warnings() {
			fmt.Fprintf(os.Stderr, "warning: unparsable line %s\n", warning)
		}
		for _, v := range stats.StateViolations {
			fmt.Fprintf(os.Stderr, "warning: state step %d (%s): %s\n",
				v.StepIndex, v.NodeName, v.Message)
		}
		if showDiagnostics(level, cfg.GlobalSettings.LogLevel) {
			fmt.Fprint(os.Stderr, engine.DescribeStats(stats))
		}

		if outputDir == "" {
			outputDir = cfg.Report.OutputDir
		}
		formats := cfg.Report.ReportFormats()
		if junitPath != "" && !containsFormat(formats, report.FormatJUnit) {
			formats = append(formats, report.FormatJUnit)
		}
		writer := &report.Writer{
			OutputDir: outputDir,
			Formats:   formats,
			SuiteName: info.SuiteName(),
			JUnitPath: junitPath,
		}
		if _, err := writer.Write(result); err != nil {
			// the result still reaches CI through stdout
			if jsonErr := report.WriteJSON(os.Stdout, result); jsonErr != nil {
				return errors.WrapWithMessage(jsonErr, errors.Reporting,
					"writing report to stdout")
			}
			return err
		}

		if !result.OverallPassed {
			return checksFailedError{}
		}
		return nil
	},
}

func init() {
	verifyCmd.Flags().String("commit", "", "commit SHA recorded in the report")
	verifyCmd.Flags().String("branch", "", "branch name recorded in the report")
	verifyCmd.Flags().StringP("output", "o", "", "report output directory (overrides report_generator.output_dir)")
	verifyCmd.Flags().String("junit-output", "", "write the JUnit report to this path")
	verifyCmd.Flags().String("verification-level", "", "basic, standard, detailed, or diagnostic")
	rootCmd.AddCommand(verifyCmd)
}

// showDiagnostics reports whether run statistics go to stderr: either the
// level implies debug verbosity or global_settings.log_level asks for it.
func showDiagnostics(level verification.Level, logLevel string) bool {
	return verification.KnobsFor(level).Verbosity >= 2 || logLevel == "debug"
}

func containsFormat(formats []report.Format, want report.Format) bool {
	for _, f := range formats {
		if f == want {
			return true
		}
	}
	return false
}

// resolveLevel picks the verification level: flag over config over the
// standard default.
func resolveLevel(flag string, cfg *config.Config) (verification.Level, error) {
	name := flag
	if name == "" {
		name = cfg.Verification.Level
	}
	if name == "" {
		return verification.LevelStandard, nil
	}
	level, err := verification.ParseLevel(name)
	if err != nil {
		return 0, errors.WrapWithMessage(err, errors.Configuration,
			"resolving verification level",
			"set verification.level or --verification-level to basic, standard, detailed, or diagnostic")
	}
	return level, nil
}

// resolveRevision fills missing commit and branch from the local repository.
// Resolution failure is not fatal; CI callers pass both flags explicitly and
// the report fields stay empty otherwise.
func resolveRevision(commit, branch string) gitinfo.Info {
	info := gitinfo.Info{CommitSHA: commit, Branch: branch}
	resolved, err := gitinfo.Resolve("", info)
	if err != nil {
		return info
	}
	return resolved
}
