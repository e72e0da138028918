// Package config provides hierarchical configuration management for
// pipecheck using koanf. Configuration is loaded with priority:
// environment variables (PIPECHECK_*) > config file (YAML, JSON accepted)
// > defaults. The loaded document is validated before any verification
// work starts; violations are configuration errors that abort the run.
package config

import (
	"time"

	"github.com/petra-ci/pipecheck/internal/criteria"
	"github.com/petra-ci/pipecheck/internal/logsource"
	"github.com/petra-ci/pipecheck/internal/registry"
	"github.com/petra-ci/pipecheck/internal/report"
	"github.com/petra-ci/pipecheck/internal/state"
)

// Config is the root configuration document for one verification run.
type Config struct {
	GlobalSettings GlobalSettings  `koanf:"global_settings" yaml:"global_settings"`
	LogParsing     LogParsing      `koanf:"log_parsing" yaml:"log_parsing"`
	Registry       RegistryConfig  `koanf:"registry_verifier" yaml:"registry_verifier"`
	Criteria       []CriterionSpec `koanf:"verification_criteria" yaml:"verification_criteria"`
	StateTracking  StateTracking   `koanf:"state_tracking" yaml:"state_tracking"`
	Report         ReportConfig    `koanf:"report_generator" yaml:"report_generator"`
	Verification   Verification    `koanf:"verification" yaml:"verification"`
}

// GlobalSettings carries run-wide knobs not tied to one component.
type GlobalSettings struct {
	// LogLevel is the engine's own verbosity: quiet, normal, debug.
	LogLevel string `koanf:"log_level" yaml:"log_level"`
}

// LogParsing declares the log sources to read.
type LogParsing struct {
	LogSources []LogSourceSpec `koanf:"log_sources" yaml:"log_sources"`
}

// LogSourceSpec declares one named log stream and its parser.
type LogSourceSpec struct {
	Name           string `koanf:"name" yaml:"name"`
	Path           string `koanf:"path" yaml:"path"`
	ParserType     string `koanf:"parser_type" yaml:"parser_type"`
	Pattern        string `koanf:"pattern" yaml:"pattern"`
	TimestampField string `koanf:"timestamp_field" yaml:"timestamp_field"`
}

// Source converts the declaration into the reader's source value.
func (s LogSourceSpec) Source() logsource.Source {
	return logsource.Source{
		Name:           s.Name,
		Path:           s.Path,
		Parser:         logsource.ParserKind(s.ParserType),
		Pattern:        s.Pattern,
		TimestampField: s.TimestampField,
	}
}

// RegistryConfig selects the registry snapshot source.
type RegistryConfig struct {
	ClientType     string `koanf:"client_type" yaml:"client_type"`
	SnapshotFile   string `koanf:"snapshot_file" yaml:"snapshot_file"`
	Endpoint       string `koanf:"endpoint" yaml:"endpoint"`
	TimeoutSeconds int    `koanf:"timeout_seconds" yaml:"timeout_seconds"`
}

// LoaderConfig converts to the registry loader configuration.
func (r RegistryConfig) LoaderConfig() registry.Config {
	return registry.Config{
		ClientType:   registry.ClientType(r.ClientType),
		SnapshotFile: r.SnapshotFile,
		Endpoint:     r.Endpoint,
		Timeout:      time.Duration(r.TimeoutSeconds) * time.Second,
	}
}

// Configured reports whether any registry source is declared.
func (r RegistryConfig) Configured() bool {
	return r.ClientType != ""
}

// CriterionSpec mirrors criteria.Criterion for config decoding.
type CriterionSpec struct {
	CheckID          string   `koanf:"check_id" yaml:"check_id"`
	Type             string   `koanf:"type" yaml:"type"`
	Severity         string   `koanf:"severity" yaml:"severity"`
	LogSource        string   `koanf:"log_source" yaml:"log_source"`
	Pattern          string   `koanf:"pattern" yaml:"pattern"`
	Regex            bool     `koanf:"regex" yaml:"regex"`
	Expected         *bool    `koanf:"expected" yaml:"expected"`
	ComponentID      string   `koanf:"component_id" yaml:"component_id"`
	Attribute        string   `koanf:"attribute" yaml:"attribute"`
	ExpectedValue    any      `koanf:"expected_value" yaml:"expected_value"`
	ExpectedSequence []string `koanf:"expected_sequence" yaml:"expected_sequence"`
}

// Criterion converts the declaration into the evaluator's criterion value.
func (c CriterionSpec) Criterion() criteria.Criterion {
	severity := criteria.Severity(c.Severity)
	if severity == "" {
		severity = criteria.SeverityError
	}
	return criteria.Criterion{
		CheckID:          c.CheckID,
		Type:             c.Type,
		Severity:         severity,
		LogSource:        c.LogSource,
		Pattern:          c.Pattern,
		Regex:            c.Regex,
		Expected:         c.Expected,
		ComponentID:      c.ComponentID,
		Attribute:        c.Attribute,
		ExpectedValue:    c.ExpectedValue,
		ExpectedSequence: c.ExpectedSequence,
	}
}

// StateTracking configures the state propagation verification layer.
type StateTracking struct {
	// HistoryFile is a JSON-lines file of per-step snapshots emitted by the
	// executing pipeline. Empty disables state criteria.
	HistoryFile string `koanf:"history_file" yaml:"history_file"`
	// ExpectedTransitions is the canonical node ordering, used when a
	// state_transition criterion declares no sequence of its own.
	ExpectedTransitions []string `koanf:"expected_transitions" yaml:"expected_transitions"`
	// RequiredFields are the declared field schemas for snapshots.
	RequiredFields []state.FieldSchema `koanf:"required_fields" yaml:"required_fields"`
}

// ReportConfig configures verification report output.
type ReportConfig struct {
	OutputDir string   `koanf:"output_dir" yaml:"output_dir"`
	Formats   []string `koanf:"formats" yaml:"formats"`
}

// ReportFormats converts the configured format names.
func (r ReportConfig) ReportFormats() []report.Format {
	formats := make([]report.Format, len(r.Formats))
	for i, f := range r.Formats {
		formats[i] = report.Format(f)
	}
	return formats
}

// Verification selects the verification level.
type Verification struct {
	Level string `koanf:"level" yaml:"level"`
}
