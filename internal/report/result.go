// Package report aggregates check results into the verification result and
// serializes it to the JSON and JUnit-XML formats consumed by CI tooling.
package report

import (
	"fmt"

	"github.com/petra-ci/pipecheck/internal/criteria"
)

// Result is the aggregate report over all checks of one verification run.
// The counts are derived from the checks, never settable independently.
type Result struct {
	OverallPassed bool                   `json:"overall_passed"`
	Summary       string                 `json:"summary"`
	ErrorCount    int                    `json:"error_count"`
	WarningCount  int                    `json:"warning_count"`
	Checks        []criteria.CheckResult `json:"checks"`
}

// Aggregate collects check results in their given order and derives the
// overall outcome. overall_passed is true iff every check passed; failed
// warning-severity checks count only toward warning_count.
func Aggregate(checks []criteria.CheckResult) Result {
	result := Result{
		OverallPassed: true,
		Checks:        checks,
	}
	for _, check := range checks {
		if check.Passed {
			continue
		}
		result.OverallPassed = false
		if check.Warning {
			result.WarningCount++
		} else {
			result.ErrorCount++
		}
	}
	result.Summary = summarize(result)
	return result
}

func summarize(r Result) string {
	passed := len(r.Checks) - r.ErrorCount - r.WarningCount
	if r.OverallPassed {
		return fmt.Sprintf("all %d checks passed", len(r.Checks))
	}
	return fmt.Sprintf("%d/%d checks passed, %d failed, %d warnings",
		passed, len(r.Checks), r.ErrorCount, r.WarningCount)
}

// FailedChecks returns the checks that did not pass, preserving order.
func (r Result) FailedChecks() []criteria.CheckResult {
	var failed []criteria.CheckResult
	for _, check := range r.Checks {
		if !check.Passed {
			failed = append(failed, check)
		}
	}
	return failed
}
