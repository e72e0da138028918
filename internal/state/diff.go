package state

import (
	"fmt"
	"sort"
)

// Diff describes how state changed between two consecutive snapshots.
type Diff struct {
	FromStep int
	ToStep   int
	// Added lists field paths present only in the newer snapshot.
	Added []string
	// Removed lists field paths present only in the older snapshot.
	Removed []string
	// Changed maps field paths to their old/new value pair.
	Changed map[string][2]any
}

// Empty reports whether the two snapshots carried identical fields.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// DiffSnapshots computes the field-level diff between two snapshots.
// Field lists are sorted for deterministic output.
func DiffSnapshots(prev, next Snapshot) Diff {
	d := Diff{
		FromStep: prev.StepIndex,
		ToStep:   next.StepIndex,
		Changed:  make(map[string][2]any),
	}

	for name, nextValue := range next.Fields {
		prevValue, ok := prev.Fields[name]
		if !ok {
			d.Added = append(d.Added, name)
			continue
		}
		if fmt.Sprintf("%v", prevValue) != fmt.Sprintf("%v", nextValue) {
			d.Changed[name] = [2]any{prevValue, nextValue}
		}
	}
	for name := range prev.Fields {
		if _, ok := next.Fields[name]; !ok {
			d.Removed = append(d.Removed, name)
		}
	}

	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	return d
}
