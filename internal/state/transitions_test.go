package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceGraphValidRun(t *testing.T) {
	g := SequenceGraph([]string{"extract", "transform", "load"})
	assert.Empty(t, g.ValidateSequence([]string{"extract", "transform", "load"}))
}

func TestSequenceGraphSkippedStep(t *testing.T) {
	g := SequenceGraph([]string{"extract", "transform", "load"})

	violations := g.ValidateSequence([]string{"extract", "load"})
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0].Message, `illegal transition "extract" -> "load"`)
}

func TestSequenceGraphWrongStart(t *testing.T) {
	g := SequenceGraph([]string{"extract", "transform"})

	violations := g.ValidateSequence([]string{"transform"})
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0].Message, "must start at")
}

func TestValidateSequenceCollectsAllViolations(t *testing.T) {
	g := SequenceGraph([]string{"a", "b", "c"})

	// Wrong start, then two illegal transitions: all three reported.
	violations := g.ValidateSequence([]string{"c", "a", "c"})
	assert.Len(t, violations, 3)
}

func TestValidateSequenceUnknownNode(t *testing.T) {
	g := TransitionGraph{Edges: map[string][]string{"a": {"b"}}}

	violations := g.ValidateSequence([]string{"a", "b", "z"})
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0].Message, `node "b" has no declared successors`)
}

func TestValidateSequenceEmpty(t *testing.T) {
	g := SequenceGraph([]string{"a"})
	assert.Nil(t, g.ValidateSequence(nil))
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{StepIndex: 0, Fields: map[string]any{"a": 1, "b": "x", "gone": true}}
	next := Snapshot{StepIndex: 1, Fields: map[string]any{"a": 2, "b": "x", "new": "y"}}

	d := DiffSnapshots(prev, next)
	assert.Equal(t, []string{"new"}, d.Added)
	assert.Equal(t, []string{"gone"}, d.Removed)
	assert.Equal(t, [2]any{1, 2}, d.Changed["a"])
	assert.NotContains(t, d.Changed, "b")
	assert.False(t, d.Empty())

	same := DiffSnapshots(next, next)
	assert.True(t, same.Empty())
}
