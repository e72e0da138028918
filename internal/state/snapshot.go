// Package state implements the state propagation verification layer: an
// append-only history of per-step execution state snapshots, diffs between
// consecutive snapshots, and field/transition validators whose depth is
// controlled by the verification level.
package state

import "time"

// Snapshot captures the execution state at one pipeline step. Snapshots are
// created once by the tracker and never mutated afterwards.
type Snapshot struct {
	StepIndex int            `json:"step_index"`
	NodeName  string         `json:"node_name"`
	Fields    map[string]any `json:"fields"`
	Timestamp time.Time      `json:"timestamp"`
}

// FieldMetric holds the per-field instrumentation captured at the
// diagnostic level.
type FieldMetric struct {
	CapturedAt time.Time `json:"captured_at"`
	// Size is the length of the field's string representation in bytes.
	Size int `json:"size"`
}

// clone returns a deep-enough copy of a fields map so callers cannot
// mutate recorded state through the original reference.
func cloneFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
