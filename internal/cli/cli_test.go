package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petra-ci/pipecheck/internal/report"
	"github.com/petra-ci/pipecheck/internal/verification"
)

// Note: these tests cannot run in parallel because they drive the global
// rootCmd through run().

// fixtureFiles holds the paths of a generated runnable configuration.
type fixtureFiles struct {
	ConfigPath string
	LogPath    string
	ReportDir  string
}

// writeFixture writes a minimal runnable config plus its log source and
// registry snapshot in a temp dir.
func writeFixture(t *testing.T, pattern string) fixtureFiles {
	t.Helper()
	dir := t.TempDir()

	logPath := filepath.Join(dir, "pipeline.log")
	require.NoError(t, os.WriteFile(logPath,
		[]byte("INFO step=extract done\nINFO step=load done\n"), 0o644))

	snapPath := filepath.Join(dir, "snapshot.yml")
	require.NoError(t, os.WriteFile(snapPath,
		[]byte("worker-1:\n  status: running\n"), 0o644))

	reportDir := filepath.Join(dir, "reports")
	configYAML := fmt.Sprintf(`log_parsing:
  log_sources:
    - name: pipeline
      path: %s
      parser_type: regex
      pattern: '^(?P<level>\w+) step=(?P<step>\w+) (?P<msg>.*)$'
registry_verifier:
  client_type: mock
  snapshot_file: %s
verification_criteria:
  - check_id: extract-finished
    type: log_contains
    log_source: pipeline
    pattern: '%s'
  - check_id: worker-running
    type: registry_state
    component_id: worker-1
    attribute: status
    expected_value: running
report_generator:
  output_dir: %s
  formats: [json]
`, logPath, snapPath, pattern, reportDir)

	configPath := filepath.Join(dir, "pipecheck.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(configYAML), 0o644))
	return fixtureFiles{ConfigPath: configPath, LogPath: logPath, ReportDir: reportDir}
}

func TestVerifyAllChecksPass(t *testing.T) {
	fx := writeFixture(t, "step=extract done")

	code := run([]string{"verify", "--config", fx.ConfigPath,
		"--commit", "3f2a91c", "--branch", "main"})
	assert.Equal(t, ExitSuccess, code)

	data, err := os.ReadFile(filepath.Join(fx.ReportDir, "verification-report.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"overall_passed": true`)
}

func TestVerifyFailingCheck(t *testing.T) {
	fx := writeFixture(t, "step=archive done")

	code := run([]string{"verify", "--config", fx.ConfigPath})
	assert.Equal(t, ExitChecksFailed, code)

	// the report is still written when checks fail
	f, err := os.Open(filepath.Join(fx.ReportDir, "verification-report.json"))
	require.NoError(t, err)
	defer f.Close()
	result, err := report.ParseJSON(f)
	require.NoError(t, err)
	assert.False(t, result.OverallPassed)
	assert.Equal(t, 1, result.ErrorCount)
}

func TestVerifyJUnitOutputFlag(t *testing.T) {
	fx := writeFixture(t, "step=extract done")
	junitPath := filepath.Join(t.TempDir(), "junit.xml")

	code := run([]string{"verify", "--config", fx.ConfigPath,
		"--junit-output", junitPath})
	assert.Equal(t, ExitSuccess, code)

	data, err := os.ReadFile(junitPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<testsuite")
}

func TestVerifyMissingConfig(t *testing.T) {
	code := run([]string{"verify", "--config", filepath.Join(t.TempDir(), "nope.yml")})
	assert.Equal(t, ExitConfigError, code)
}

func TestVerifyMissingLogSource(t *testing.T) {
	fx := writeFixture(t, "step=extract done")
	require.NoError(t, os.Remove(fx.LogPath))

	code := run([]string{"verify", "--config", fx.ConfigPath})
	assert.Equal(t, ExitConfigError, code)
}

func TestVerifyUnwritableReportDirFallsBackToStdout(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	fx := writeFixture(t, "step=extract done")

	require.NoError(t, os.MkdirAll(fx.ReportDir, 0o755))
	require.NoError(t, os.Chmod(fx.ReportDir, 0o500))
	defer os.Chmod(fx.ReportDir, 0o755)

	code := run([]string{"verify", "--config", fx.ConfigPath})
	assert.Equal(t, ExitReportError, code)
}

func TestVerifyUncompilableCriterionRegex(t *testing.T) {
	fx := writeFixture(t, "step=extract done")
	raw, err := os.ReadFile(fx.ConfigPath)
	require.NoError(t, err)

	// an uncompilable criterion regex aborts before any checks run
	broken := strings.Replace(string(raw),
		"    pattern: 'step=extract done'",
		"    pattern: '[unterminated'\n    regex: true", 1)
	require.NoError(t, os.WriteFile(fx.ConfigPath, []byte(broken), 0o644))

	code := run([]string{"verify", "--config", fx.ConfigPath})
	assert.Equal(t, ExitConfigError, code)
	assert.NoFileExists(t, filepath.Join(fx.ReportDir, "verification-report.json"))
}

func TestVerifyInvalidLevelFlag(t *testing.T) {
	fx := writeFixture(t, "step=extract done")

	code := run([]string{"verify", "--config", fx.ConfigPath,
		"--verification-level", "paranoid"})
	assert.Equal(t, ExitConfigError, code)
}

func TestConfigInit(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "pipecheck.yml")

	code := run([]string{"config", "init", "--config", configPath})
	assert.Equal(t, ExitSuccess, code)
	assert.FileExists(t, configPath)

	// init refuses to overwrite
	code = run([]string{"config", "init", "--config", configPath})
	assert.Equal(t, ExitConfigError, code)
}

func TestShowDiagnostics(t *testing.T) {
	tests := map[string]struct {
		level    verification.Level
		logLevel string
		expected bool
	}{
		"standard quiet":     {verification.LevelStandard, "normal", false},
		"standard debug":     {verification.LevelStandard, "debug", true},
		"diagnostic implies": {verification.LevelDiagnostic, "normal", true},
		"basic quiet":        {verification.LevelBasic, "normal", false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, showDiagnostics(tt.level, tt.logLevel))
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	tests := map[string]struct {
		err      error
		expected int
	}{
		"nil":           {nil, ExitSuccess},
		"checks failed": {checksFailedError{}, ExitChecksFailed},
		"generic":       {fmt.Errorf("boom"), ExitConfigError},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, exitCodeFor(tt.err))
		})
	}
}
