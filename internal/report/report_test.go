package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petra-ci/pipecheck/internal/criteria"
	pipeerrors "github.com/petra-ci/pipecheck/internal/errors"
)

func sampleChecks() []criteria.CheckResult {
	return []criteria.CheckResult{
		{CheckName: "extract-finished", Passed: true},
		{CheckName: "worker-up", Passed: false, Message: "worker-1.status: expected running, got stopped",
			AttributeChecked: "worker-1.status", ExpectedValue: "running", ActualValue: "stopped"},
		{CheckName: "slow-step", Passed: false, Warning: true, Message: "pattern found"},
	}
}

func TestAggregateCounts(t *testing.T) {
	result := Aggregate(sampleChecks())

	assert.False(t, result.OverallPassed)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, 1, result.WarningCount)
	assert.Equal(t, "1/3 checks passed, 1 failed, 1 warnings", result.Summary)
}

func TestAggregateAllPassed(t *testing.T) {
	result := Aggregate([]criteria.CheckResult{
		{CheckName: "a", Passed: true},
		{CheckName: "b", Passed: true},
	})

	assert.True(t, result.OverallPassed)
	assert.Zero(t, result.ErrorCount)
	assert.Zero(t, result.WarningCount)
	assert.Equal(t, "all 2 checks passed", result.Summary)
}

// overall_passed must equal the conjunction of individual check outcomes,
// and the counts must be derived, never independently settable.
func TestAggregateInvariants(t *testing.T) {
	tests := map[string][]criteria.CheckResult{
		"empty":          {},
		"single failure": {{CheckName: "x", Passed: false}},
		"only warnings":  {{CheckName: "w", Passed: false, Warning: true}},
		"mixed":          sampleChecks(),
	}

	for name, checks := range tests {
		t.Run(name, func(t *testing.T) {
			result := Aggregate(checks)

			allPassed := true
			failed := 0
			for _, c := range checks {
				if !c.Passed {
					allPassed = false
					failed++
				}
			}
			assert.Equal(t, allPassed, result.OverallPassed)
			assert.Equal(t, failed, result.ErrorCount+result.WarningCount)
		})
	}
}

func TestAggregatePreservesOrder(t *testing.T) {
	result := Aggregate(sampleChecks())
	names := make([]string, len(result.Checks))
	for i, c := range result.Checks {
		names[i] = c.CheckName
	}
	assert.Equal(t, []string{"extract-finished", "worker-up", "slow-step"}, names)
}

func TestJSONRoundTrip(t *testing.T) {
	original := Aggregate(sampleChecks())

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, original))

	parsed, err := ParseJSON(&buf)
	require.NoError(t, err)

	assert.Equal(t, original.OverallPassed, parsed.OverallPassed)
	assert.Equal(t, original.ErrorCount, parsed.ErrorCount)
	assert.Equal(t, original.WarningCount, parsed.WarningCount)
	assert.Equal(t, original.Summary, parsed.Summary)
	require.Len(t, parsed.Checks, len(original.Checks))
	for i := range original.Checks {
		assert.Equal(t, original.Checks[i].CheckName, parsed.Checks[i].CheckName)
		assert.Equal(t, original.Checks[i].Passed, parsed.Checks[i].Passed)
		assert.Equal(t, original.Checks[i].Message, parsed.Checks[i].Message)
	}
}

// Identical inputs must serialize to byte-identical JSON.
func TestJSONDeterministic(t *testing.T) {
	result := Aggregate(sampleChecks())

	var a, b bytes.Buffer
	require.NoError(t, WriteJSON(&a, result))
	require.NoError(t, WriteJSON(&b, result))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestWriteJUnit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJUnit(&buf, Aggregate(sampleChecks()), "pipecheck"))

	out := buf.String()
	assert.Contains(t, out, `<testsuite name="pipecheck" tests="3" failures="2">`)
	assert.Contains(t, out, `<testcase name="extract-finished"></testcase>`)
	assert.Contains(t, out, `<testcase name="worker-up">`)
	assert.Contains(t, out, `message="worker-1.status: expected running, got stopped"`)
	assert.Contains(t, out, "expected: running")
	assert.True(t, strings.HasPrefix(out, xmlHeaderPrefix))
}

const xmlHeaderPrefix = `<?xml version="1.0" encoding="UTF-8"?>`

func TestWriterWritesAllFormats(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{
		OutputDir: dir,
		Formats:   []Format{FormatJSON, FormatJUnit},
		SuiteName: "pipecheck",
	}

	written, err := w.Write(Aggregate(sampleChecks()))
	require.NoError(t, err)
	require.Len(t, written, 2)

	jsonData, err := os.ReadFile(filepath.Join(dir, "verification-report.json"))
	require.NoError(t, err)
	assert.Contains(t, string(jsonData), `"overall_passed": false`)

	xmlData, err := os.ReadFile(filepath.Join(dir, "verification-report.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(xmlData), "<testsuite")
}

func TestWriterJUnitPathOverride(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "custom-junit.xml")
	w := &Writer{OutputDir: dir, Formats: []Format{FormatJUnit}, SuiteName: "s", JUnitPath: custom}

	written, err := w.Write(Aggregate(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{custom}, written)
}

func TestWriterUnwritableDirIsReportingError(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root, permission checks are bypassed")
	}
	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o555))
	defer os.Chmod(dir, 0o755)

	w := &Writer{OutputDir: filepath.Join(dir, "sub"), Formats: []Format{FormatJSON}}
	_, err := w.Write(Aggregate(nil))
	require.Error(t, err)
	assert.Equal(t, pipeerrors.Reporting, pipeerrors.CategoryOf(err))
}

func TestWriterUnknownFormat(t *testing.T) {
	w := &Writer{OutputDir: t.TempDir(), Formats: []Format{"pdf"}}
	_, err := w.Write(Aggregate(nil))
	require.Error(t, err)
	assert.Equal(t, pipeerrors.Configuration, pipeerrors.CategoryOf(err))
}

func TestFailedChecks(t *testing.T) {
	result := Aggregate(sampleChecks())
	failed := result.FailedChecks()
	require.Len(t, failed, 2)
	assert.Equal(t, "worker-up", failed[0].CheckName)
	assert.Equal(t, "slow-step", failed[1].CheckName)
}
