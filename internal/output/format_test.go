package output

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/petra-ci/pipecheck/internal/criteria"
	"github.com/petra-ci/pipecheck/internal/report"
)

func TestPrintResult(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	result := report.Aggregate([]criteria.CheckResult{
		{CheckName: "ok-check", Passed: true},
		{CheckName: "bad-check", Passed: false, Message: "pattern not found"},
		{CheckName: "soft-check", Passed: false, Warning: true, Message: "slow step"},
	})

	var buf bytes.Buffer
	PrintResult(&buf, result)

	out := buf.String()
	assert.Contains(t, out, "✓ ok-check")
	assert.Contains(t, out, "✗ bad-check: pattern not found")
	assert.Contains(t, out, "! soft-check: slow step")
	assert.Contains(t, out, "FAILED 1/3 checks passed, 1 failed, 1 warnings")
}

func TestPrintSummaryPassed(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	PrintSummary(&buf, report.Aggregate([]criteria.CheckResult{{CheckName: "a", Passed: true}}))
	assert.Contains(t, buf.String(), "PASSED all 1 checks passed")
}

func TestPrintRunHeader(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	PrintRunHeader(&buf, "main", "0123456789abcdef0123")
	assert.Contains(t, buf.String(), "Verifying main@0123456789ab")
}
