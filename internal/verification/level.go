// Package verification provides the tiered verification level configuration
// for pipecheck.
//
// The package implements a totally ordered set of verification levels
// (basic, standard, detailed, diagnostic). A higher level always enables a
// superset of the checks and instrumentation of the lower levels; individual
// knobs are derived from the level rather than toggled independently.
package verification

import (
	"errors"
	"fmt"
)

// Level is the preset verification tier. Levels are totally ordered:
// a higher level implies every capability of the lower ones.
type Level int

// Verification level constants define the available tiers.
const (
	// LevelBasic runs minimal consistency checks and retains only the most
	// recent state snapshot.
	LevelBasic Level = 1
	// LevelStandard additionally validates declared field schemas.
	LevelStandard Level = 2
	// LevelDetailed validates every field, diffs consecutive snapshots, and
	// retains the full state history.
	LevelDetailed Level = 3
	// LevelDiagnostic additionally captures per-field timestamps and size
	// metrics for offline inspection.
	LevelDiagnostic Level = 4
)

// ErrInvalidLevel is returned when a level value is outside the enumerated set.
var ErrInvalidLevel = errors.New("invalid verification level")

// ValidLevels lists all valid verification levels in ascending order.
var ValidLevels = []Level{LevelBasic, LevelStandard, LevelDetailed, LevelDiagnostic}

var levelNames = map[Level]string{
	LevelBasic:      "basic",
	LevelStandard:   "standard",
	LevelDetailed:   "detailed",
	LevelDiagnostic: "diagnostic",
}

// ParseLevel parses a string into a Level.
// Returns ErrInvalidLevel if the value is not a known level name.
func ParseLevel(s string) (Level, error) {
	for level, name := range levelNames {
		if s == name {
			return level, nil
		}
	}
	return 0, fmt.Errorf("%w %q: valid options are basic, standard, detailed, diagnostic", ErrInvalidLevel, s)
}

// IsValid returns true if the level is one of the enumerated values.
func (l Level) IsValid() bool {
	_, ok := levelNames[l]
	return ok
}

// String returns the lowercase name of the level, or "unknown" for
// out-of-range values.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unknown"
}

// AtLeast reports whether the level provides the capabilities of min.
func (l Level) AtLeast(min Level) bool {
	return l >= min
}

// FieldDepth controls how thoroughly snapshot fields are validated.
type FieldDepth int

const (
	// FieldDepthMinimal checks only that the recorded state is non-empty.
	FieldDepthMinimal FieldDepth = iota
	// FieldDepthDeclared validates declared required fields.
	FieldDepthDeclared
	// FieldDepthFull validates every field and diffs against the prior snapshot.
	FieldDepthFull
)

// Knobs holds the secondary settings a verification level implies.
// They are derived, never set independently of the level.
type Knobs struct {
	// FieldDepth is the field validation depth for state snapshots.
	FieldDepth FieldDepth
	// RetainFullHistory keeps the full ordered snapshot history when true;
	// otherwise only the latest snapshot plus running counts are retained.
	RetainFullHistory bool
	// CaptureMetrics enables per-field timestamps and size metrics.
	CaptureMetrics bool
	// Verbosity is the log verbosity the level implies (0 = quiet, 2 = debug).
	Verbosity int
}

// knobPresets maps each level to its derived knobs. The table is monotonic:
// every capability enabled at a level stays enabled at higher levels.
var knobPresets = map[Level]Knobs{
	LevelBasic: {
		FieldDepth:        FieldDepthMinimal,
		RetainFullHistory: false,
		CaptureMetrics:    false,
		Verbosity:         0,
	},
	LevelStandard: {
		FieldDepth:        FieldDepthDeclared,
		RetainFullHistory: false,
		CaptureMetrics:    false,
		Verbosity:         1,
	},
	LevelDetailed: {
		FieldDepth:        FieldDepthFull,
		RetainFullHistory: true,
		CaptureMetrics:    false,
		Verbosity:         1,
	},
	LevelDiagnostic: {
		FieldDepth:        FieldDepthFull,
		RetainFullHistory: true,
		CaptureMetrics:    true,
		Verbosity:         2,
	},
}

// KnobsFor returns the derived knobs for a level.
// Returns the standard preset for unrecognized levels.
func KnobsFor(level Level) Knobs {
	knobs, ok := knobPresets[level]
	if !ok {
		return knobPresets[LevelStandard]
	}
	return knobs
}
