package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pipeerrors "github.com/petra-ci/pipecheck/internal/errors"
)

const validConfig = `
global_settings:
  log_level: debug

log_parsing:
  log_sources:
    - name: pipeline
      path: ./logs/pipeline.log
      parser_type: regex
      pattern: '^(?P<level>\w+) (?P<msg>.*)$'
    - name: events
      path: ./logs/events.jsonl
      parser_type: json

registry_verifier:
  client_type: mock
  snapshot_file: ./snapshot.yml

verification_criteria:
  - check_id: extract-finished
    type: log_contains
    log_source: pipeline
    pattern: 'step=extract done'
  - check_id: worker-running
    type: registry_state
    component_id: worker-1
    attribute: status
    expected_value: running

report_generator:
  output_dir: ./reports
  formats: [json, junit]

verification:
  level: detailed
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipecheck.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.GlobalSettings.LogLevel)
	require.Len(t, cfg.LogParsing.LogSources, 2)
	assert.Equal(t, "pipeline", cfg.LogParsing.LogSources[0].Name)
	assert.Equal(t, "regex", cfg.LogParsing.LogSources[0].ParserType)
	assert.Equal(t, "mock", cfg.Registry.ClientType)
	require.Len(t, cfg.Criteria, 2)
	assert.Equal(t, "registry_state", cfg.Criteria[1].Type)
	assert.Equal(t, []string{"json", "junit"}, cfg.Report.Formats)
	assert.Equal(t, "detailed", cfg.Verification.Level)
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "global_settings:\n  log_level: quiet\n"))
	require.NoError(t, err)

	assert.Equal(t, "standard", cfg.Verification.Level)
	assert.Equal(t, []string{"json"}, cfg.Report.Formats)
	assert.Equal(t, 10, cfg.Registry.TimeoutSeconds)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PIPECHECK_VERIFICATION_LEVEL", "diagnostic")

	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)
	assert.Equal(t, "diagnostic", cfg.Verification.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yml"))
	require.Error(t, err)
	assert.Equal(t, pipeerrors.Configuration, pipeerrors.CategoryOf(err))
}

func TestLoadNoDefaultFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(cwd)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "standard", cfg.Verification.Level)
}

func TestLoadInvalidYAMLSyntax(t *testing.T) {
	_, err := Load(writeConfig(t, "a: {b\n"))
	require.Error(t, err)
	assert.Equal(t, pipeerrors.Configuration, pipeerrors.CategoryOf(err))
}

func TestLoadJSONConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipecheck.json")
	content := `{"verification": {"level": "basic"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "basic", cfg.Verification.Level)
}

func TestEnvTransform(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
	}{
		"section key":    {"PIPECHECK_VERIFICATION_LEVEL", "verification.level"},
		"nested section": {"PIPECHECK_GLOBAL_SETTINGS_LOG_LEVEL", "global_settings.log_level"},
		"registry":       {"PIPECHECK_REGISTRY_VERIFIER_ENDPOINT", "registry_verifier.endpoint"},
		"bare key":       {"PIPECHECK_SOMETHING", "something"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, envTransform(tc.in))
		})
	}
}

func TestCriterionSpecConversion(t *testing.T) {
	spec := CriterionSpec{CheckID: "x", Type: "log_contains", LogSource: "s", Pattern: "p"}
	c := spec.Criterion()
	assert.Equal(t, "error", string(c.Severity))

	spec.Severity = "warning"
	assert.Equal(t, "warning", string(spec.Criterion().Severity))
}
