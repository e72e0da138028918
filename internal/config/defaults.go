package config

// GetDefaults returns the default configuration values.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"global_settings.log_level": "normal",
		// registry_verifier: no source configured by default; runs without
		// registry_state criteria do not need one.
		"registry_verifier.timeout_seconds": 10,
		// report_generator: JSON only by default, next to the working dir.
		"report_generator.output_dir": "./pipecheck-reports",
		"report_generator.formats":    []string{"json"},
		// verification: standard is the documented default tier.
		"verification.level": "standard",
	}
}

// GetDefaultConfigTemplate returns a commented config template that
// documents all available options.
func GetDefaultConfigTemplate() string {
	return `# pipecheck configuration
# See 'pipecheck config show' for the resolved values of the current run.

global_settings:
  log_level: normal                  # quiet | normal | debug

# Log sources to parse. Criteria reference sources by name.
log_parsing:
  log_sources:
    - name: pipeline
      path: ./logs/pipeline.log
      parser_type: regex             # regex | json
      pattern: '^(?P<level>\w+) step=(?P<step>\w+) (?P<msg>.*)$'
    - name: events
      path: ./logs/events.jsonl
      parser_type: json
      timestamp_field: ts            # optional RFC3339 field to promote

# Point-in-time registry snapshot. Loaded once per run.
registry_verifier:
  client_type: mock                  # mock | http
  snapshot_file: ./registry-snapshot.yml
  # endpoint: http://registry.internal/v1/components
  timeout_seconds: 10

# Typed criteria, evaluated in declaration order.
verification_criteria:
  - check_id: extract-finished
    type: log_contains
    log_source: pipeline
    pattern: 'step=extract done'
    expected: true
  - check_id: no-timeouts
    type: log_contains
    log_source: pipeline
    pattern: 'timeout'
    expected: false
    severity: warning                # error (default) | warning
  - check_id: worker-running
    type: registry_state
    component_id: worker-1
    attribute: status
    expected_value: running

# State propagation verification (optional).
state_tracking:
  history_file: ./logs/state-history.jsonl
  expected_transitions: [extract, transform, load]
  required_fields:
    - name: status
      kind: string                   # string | number | bool | map | list

report_generator:
  output_dir: ./pipecheck-reports
  formats: [json, junit]

verification:
  level: standard                    # basic | standard | detailed | diagnostic
`
}
