// Package criteria defines the typed verification criteria and their
// evaluators. Criteria form a small declarative instruction set interpreted
// over the parsed log records and the registry snapshot; new criterion
// kinds register themselves in a lookup table so existing evaluators never
// change when a kind is added.
package criteria

// Severity classifies a failed check for counting purposes.
type Severity string

const (
	// SeverityError is the default: a failed check counts as an error.
	SeverityError Severity = "error"
	// SeverityWarning marks a check whose failure is reported as a warning,
	// never double-counted as an error.
	SeverityWarning Severity = "warning"
)

// Criterion is one declarative rule to evaluate. It is a tagged variant:
// Type selects the evaluator, and only the fields of that variant are
// consulted.
type Criterion struct {
	// CheckID uniquely identifies the criterion within one run.
	CheckID string `koanf:"check_id" json:"check_id"`
	// Type is the variant tag: log_contains, registry_state, state_transition.
	Type string `koanf:"type" json:"type"`
	// Severity is error (default) or warning.
	Severity Severity `koanf:"severity" json:"severity,omitempty"`

	// log_contains fields.
	LogSource string `koanf:"log_source" json:"log_source,omitempty"`
	Pattern   string `koanf:"pattern" json:"pattern,omitempty"`
	// Regex treats Pattern as a regular expression instead of a literal.
	Regex bool `koanf:"regex" json:"regex,omitempty"`
	// Expected is whether the pattern is expected to occur. Defaults to true.
	Expected *bool `koanf:"expected" json:"expected,omitempty"`

	// registry_state fields.
	ComponentID   string `koanf:"component_id" json:"component_id,omitempty"`
	Attribute     string `koanf:"attribute" json:"attribute,omitempty"`
	ExpectedValue any    `koanf:"expected_value" json:"expected_value,omitempty"`

	// state_transition fields.
	ExpectedSequence []string `koanf:"expected_sequence" json:"expected_sequence,omitempty"`
}

// ExpectedOrDefault resolves the Expected pointer, defaulting to true.
func (c Criterion) ExpectedOrDefault() bool {
	if c.Expected == nil {
		return true
	}
	return *c.Expected
}

// IsWarning reports whether a failure of this criterion is a warning.
func (c Criterion) IsWarning() bool {
	return c.Severity == SeverityWarning
}

// CheckResult is the outcome of evaluating one criterion. It is produced
// exactly once per criterion and never mutated after creation.
type CheckResult struct {
	CheckName        string `json:"check_name"`
	Passed           bool   `json:"passed"`
	Message          string `json:"message,omitempty"`
	AttributeChecked string `json:"attribute_checked,omitempty"`
	ExpectedValue    any    `json:"expected_value,omitempty"`
	ActualValue      any    `json:"actual_value,omitempty"`
	// Warning mirrors the criterion's severity so the aggregator can count
	// failed warnings separately from errors.
	Warning bool `json:"warning,omitempty"`
}
