package state

import (
	"fmt"

	"github.com/petra-ci/pipecheck/internal/verification"
)

// FieldSchema declares one required field of a state snapshot.
type FieldSchema struct {
	// Name is the field path within the snapshot's fields mapping.
	Name string `koanf:"name" yaml:"name"`
	// Kind is an optional expected value kind: string, number, bool, map, list.
	Kind string `koanf:"kind" yaml:"kind"`
}

// validateFields runs the field validator at the given depth and returns
// the violations found. prev may be nil for the first snapshot.
func validateFields(snap Snapshot, prev *Snapshot, depth verification.FieldDepth, required []FieldSchema) []Violation {
	var violations []Violation

	// The minimal consistency check runs at every level.
	if len(snap.Fields) == 0 {
		violations = append(violations, Violation{
			StepIndex: snap.StepIndex,
			NodeName:  snap.NodeName,
			Message:   "snapshot has empty state",
		})
	}
	if depth < verification.FieldDepthDeclared {
		return violations
	}

	for _, schema := range required {
		value, ok := snap.Fields[schema.Name]
		if !ok {
			violations = append(violations, Violation{
				StepIndex: snap.StepIndex,
				NodeName:  snap.NodeName,
				Field:     schema.Name,
				Message:   fmt.Sprintf("required field %q missing", schema.Name),
			})
			continue
		}
		if schema.Kind != "" && !kindMatches(value, schema.Kind) {
			violations = append(violations, Violation{
				StepIndex: snap.StepIndex,
				NodeName:  snap.NodeName,
				Field:     schema.Name,
				Message:   fmt.Sprintf("field %q: expected kind %s, got %T", schema.Name, schema.Kind, value),
			})
		}
	}
	if depth < verification.FieldDepthFull {
		return violations
	}

	// Full depth validates every field, not only declared ones, and flags
	// fields that disappeared since the prior snapshot.
	for name, value := range snap.Fields {
		if value == nil {
			violations = append(violations, Violation{
				StepIndex: snap.StepIndex,
				NodeName:  snap.NodeName,
				Field:     name,
				Message:   fmt.Sprintf("field %q is null", name),
			})
		}
	}
	if prev != nil {
		diff := DiffSnapshots(*prev, snap)
		for _, name := range diff.Removed {
			violations = append(violations, Violation{
				StepIndex: snap.StepIndex,
				NodeName:  snap.NodeName,
				Field:     name,
				Message:   fmt.Sprintf("field %q dropped between step %d and %d", name, prev.StepIndex, snap.StepIndex),
			})
		}
	}

	return violations
}

// kindMatches checks a value against a declared kind name.
func kindMatches(value any, kind string) bool {
	switch kind {
	case "string":
		_, ok := value.(string)
		return ok
	case "number":
		switch value.(type) {
		case int, int64, float64:
			return true
		}
		return false
	case "bool":
		_, ok := value.(bool)
		return ok
	case "map":
		_, ok := value.(map[string]any)
		return ok
	case "list":
		_, ok := value.([]any)
		return ok
	default:
		return true
	}
}
