package config

import (
	"fmt"
	"regexp"

	"github.com/petra-ci/pipecheck/internal/criteria"
	pipeerrors "github.com/petra-ci/pipecheck/internal/errors"
	"github.com/petra-ci/pipecheck/internal/logsource"
	"github.com/petra-ci/pipecheck/internal/verification"
)

// Validate checks the configuration document for internal consistency.
// Every violation is a configuration error: the run aborts before any check
// results are produced.
func Validate(cfg *Config) error {
	if err := validateSources(cfg); err != nil {
		return err
	}
	if err := validateCriteria(cfg); err != nil {
		return err
	}
	if err := validateLevel(cfg); err != nil {
		return err
	}
	return validateReport(cfg)
}

func validateSources(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.LogParsing.LogSources))
	for i, src := range cfg.LogParsing.LogSources {
		if src.Name == "" {
			return pipeerrors.NewConfigError(
				fmt.Sprintf("log_parsing.log_sources[%d]: name is required", i))
		}
		if seen[src.Name] {
			return pipeerrors.NewConfigError(
				fmt.Sprintf("log_parsing.log_sources: duplicate source name %q", src.Name))
		}
		seen[src.Name] = true

		if src.Path == "" {
			return pipeerrors.NewConfigError(
				fmt.Sprintf("log source %q: path is required", src.Name))
		}
		kind := logsource.ParserKind(src.ParserType)
		if !kind.IsValid() {
			return pipeerrors.NewConfigError(
				fmt.Sprintf("log source %q: unknown parser_type %q", src.Name, src.ParserType),
				"use one of: regex, json")
		}
		if kind == logsource.ParserRegex && src.Pattern == "" {
			return pipeerrors.NewConfigError(
				fmt.Sprintf("log source %q: parser_type regex requires a pattern", src.Name))
		}
	}
	return nil
}

func validateCriteria(cfg *Config) error {
	sources := make(map[string]bool, len(cfg.LogParsing.LogSources))
	for _, src := range cfg.LogParsing.LogSources {
		sources[src.Name] = true
	}

	ids := make(map[string]bool, len(cfg.Criteria))
	for i, spec := range cfg.Criteria {
		if spec.CheckID == "" {
			return pipeerrors.NewConfigError(
				fmt.Sprintf("verification_criteria[%d]: check_id is required", i))
		}
		if ids[spec.CheckID] {
			return pipeerrors.NewConfigError(
				fmt.Sprintf("verification_criteria: duplicate check_id %q", spec.CheckID),
				"check_id must be unique within one verification run")
		}
		ids[spec.CheckID] = true

		if criteria.Lookup(spec.Type) == nil {
			return pipeerrors.NewConfigError(
				fmt.Sprintf("criterion %q: unknown type %q", spec.CheckID, spec.Type),
				fmt.Sprintf("use one of: %v", criteria.KnownTypes()))
		}
		if spec.Severity != "" &&
			spec.Severity != string(criteria.SeverityError) &&
			spec.Severity != string(criteria.SeverityWarning) {
			return pipeerrors.NewConfigError(
				fmt.Sprintf("criterion %q: unknown severity %q", spec.CheckID, spec.Severity),
				"use one of: error, warning")
		}

		switch spec.Type {
		case "log_contains":
			// log_source is always a logical name resolved against
			// log_parsing.log_sources; a raw path here is a config error.
			if !sources[spec.LogSource] {
				return pipeerrors.NewConfigError(
					fmt.Sprintf("criterion %q references undeclared log source %q", spec.CheckID, spec.LogSource),
					"declare the source in log_parsing.log_sources",
					"criteria reference sources by logical name, not by path")
			}
			if spec.Pattern == "" {
				return pipeerrors.NewConfigError(
					fmt.Sprintf("criterion %q: pattern is required", spec.CheckID))
			}
			if spec.Regex {
				if _, err := regexp.Compile(spec.Pattern); err != nil {
					return pipeerrors.NewConfigError(
						fmt.Sprintf("criterion %q: invalid pattern: %v", spec.CheckID, err),
						"fix the regular expression or set regex: false for a literal match")
				}
			}
		case "registry_state":
			if spec.ComponentID == "" || spec.Attribute == "" {
				return pipeerrors.NewConfigError(
					fmt.Sprintf("criterion %q: component_id and attribute are required", spec.CheckID))
			}
			if !cfg.Registry.Configured() {
				return pipeerrors.NewConfigError(
					fmt.Sprintf("criterion %q requires a registry_verifier configuration", spec.CheckID),
					"configure registry_verifier with client_type mock or http")
			}
		case "state_transition":
			if len(spec.ExpectedSequence) == 0 && len(cfg.StateTracking.ExpectedTransitions) == 0 {
				return pipeerrors.NewConfigError(
					fmt.Sprintf("criterion %q: expected_sequence is required (or set state_tracking.expected_transitions)", spec.CheckID))
			}
			if cfg.StateTracking.HistoryFile == "" {
				return pipeerrors.NewConfigError(
					fmt.Sprintf("criterion %q requires state_tracking.history_file", spec.CheckID))
			}
		}
	}
	return nil
}

func validateLevel(cfg *Config) error {
	if cfg.Verification.Level == "" {
		return nil
	}
	if _, err := verification.ParseLevel(cfg.Verification.Level); err != nil {
		return pipeerrors.Wrap(err, pipeerrors.Configuration,
			"set verification.level to basic, standard, detailed, or diagnostic")
	}
	return nil
}

func validateReport(cfg *Config) error {
	for _, format := range cfg.Report.ReportFormats() {
		if !format.IsValid() {
			return pipeerrors.NewConfigError(
				fmt.Sprintf("report_generator: unknown format %q", format),
				"use one of: json, junit")
		}
	}
	return nil
}
