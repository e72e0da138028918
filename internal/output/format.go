// Package output provides terminal output formatting for the pipecheck
// CLI. This package is designed to have minimal dependencies to avoid
// import cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/petra-ci/pipecheck/internal/report"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintRunHeader prints a colored header identifying the verification run.
func PrintRunHeader(out io.Writer, branch, commit string) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	short := commit
	if len(short) > 12 {
		short = short[:12]
	}
	fmt.Fprintf(out, "%s %s\n", cyan("Verifying"), dim(fmt.Sprintf("%s@%s", branch, short)))
}

func passMark() string {
	return color.New(color.FgGreen, color.Bold).Sprint("✓")
}

func failMark() string {
	return color.New(color.FgRed, color.Bold).Sprint("✗")
}

func warnMark() string {
	return color.New(color.FgYellow, color.Bold).Sprint("!")
}

// PrintResult prints every check of a verification result followed by the
// summary line. Failed warning checks get a yellow marker.
func PrintResult(out io.Writer, result report.Result) {
	for _, check := range result.Checks {
		switch {
		case check.Passed:
			fmt.Fprintf(out, "  %s %s\n", passMark(), check.CheckName)
		case check.Warning:
			fmt.Fprintf(out, "  %s %s: %s\n", warnMark(), check.CheckName, check.Message)
		default:
			fmt.Fprintf(out, "  %s %s: %s\n", failMark(), check.CheckName, check.Message)
		}
	}
	PrintSummary(out, result)
}

// PrintSummary prints the overall outcome line.
func PrintSummary(out io.Writer, result report.Result) {
	if result.OverallPassed {
		green := color.New(color.FgGreen, color.Bold).SprintFunc()
		fmt.Fprintf(out, "\n%s %s\n", green("PASSED"), result.Summary)
		return
	}
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	fmt.Fprintf(out, "\n%s %s\n", red("FAILED"), result.Summary)
}

// PrintSeparator prints a dim separator line across the terminal.
func PrintSeparator(out io.Writer) {
	dim := color.New(color.Faint).SprintFunc()
	width := GetTerminalWidth()
	if width > 100 {
		width = 100
	}
	fmt.Fprintln(out, dim(strings.Repeat("─", width)))
}
