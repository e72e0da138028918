package cli

import "github.com/petra-ci/pipecheck/internal/errors"

// Exit codes for the pipecheck CLI.
// These codes support programmatic composition and CI/CD integration.
const (
	// ExitSuccess indicates every verification check passed
	ExitSuccess = 0

	// ExitChecksFailed indicates one or more verification checks failed
	ExitChecksFailed = 1

	// ExitConfigError indicates a configuration or source error before
	// any checks could run
	ExitConfigError = 2

	// ExitReportError indicates the verification ran but the report
	// could not be written
	ExitReportError = 3
)

// checksFailedError marks a run whose checks did not all pass. It carries
// no message; the summary has already been printed when it is returned.
type checksFailedError struct{}

func (checksFailedError) Error() string { return "verification checks failed" }

// exitCodeFor maps a command error to a process exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if _, ok := err.(checksFailedError); ok {
		return ExitChecksFailed
	}
	if errors.CategoryOf(err) == errors.Reporting {
		return ExitReportError
	}
	return ExitConfigError
}
