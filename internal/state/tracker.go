package state

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/petra-ci/pipecheck/internal/errors"
	"github.com/petra-ci/pipecheck/internal/verification"
)

// Violation is one failed state validation. Violations are collected, never
// raised, so a run reports every problem found rather than only the first.
type Violation struct {
	StepIndex int
	NodeName  string
	Field     string
	Message   string
}

// Tracker records an ordered history of state snapshots for one pipeline
// run. Record calls are serialized; History returns an immutable copy so
// concurrent readers never observe a snapshot being appended mid-read.
type Tracker struct {
	mu    sync.Mutex
	knobs verification.Knobs

	history    []Snapshot
	latest     *Snapshot
	steps      int
	violations []Violation
	metrics    map[int]map[string]FieldMetric

	requiredFields []FieldSchema
	now            func() time.Time
}

// NewTracker creates a tracker whose retention and validation depth follow
// the given verification level.
func NewTracker(level verification.Level, required []FieldSchema) *Tracker {
	t := &Tracker{
		knobs:          verification.KnobsFor(level),
		requiredFields: required,
		now:            time.Now,
	}
	if t.knobs.CaptureMetrics {
		t.metrics = make(map[int]map[string]FieldMetric)
	}
	return t
}

// Record appends one snapshot for a pipeline step and runs the field
// validator at the configured depth. The returned snapshot is a copy owned
// by the tracker's history.
func (t *Tracker) Record(nodeName string, fields map[string]any) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := Snapshot{
		StepIndex: t.steps,
		NodeName:  nodeName,
		Fields:    cloneFields(fields),
		Timestamp: t.now(),
	}
	t.steps++

	var prev *Snapshot
	if t.latest != nil {
		prevCopy := *t.latest
		prev = &prevCopy
	}

	t.violations = append(t.violations, validateFields(snap, prev, t.knobs.FieldDepth, t.requiredFields)...)

	if t.knobs.CaptureMetrics {
		t.captureMetrics(snap)
	}

	if t.knobs.RetainFullHistory {
		t.history = append(t.history, snap)
	}
	t.latest = &snap

	return snap
}

// captureMetrics records per-field timestamps and size metrics.
// Only active at the diagnostic level.
func (t *Tracker) captureMetrics(snap Snapshot) {
	fieldMetrics := make(map[string]FieldMetric, len(snap.Fields))
	for name, value := range snap.Fields {
		fieldMetrics[name] = FieldMetric{
			CapturedAt: snap.Timestamp,
			Size:       len(fmt.Sprintf("%v", value)),
		}
	}
	t.metrics[snap.StepIndex] = fieldMetrics
}

// History returns an immutable copy of the retained snapshot sequence.
// At basic/standard levels only the latest snapshot is retained.
func (t *Tracker) History() []Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.knobs.RetainFullHistory {
		out := make([]Snapshot, len(t.history))
		copy(out, t.history)
		return out
	}
	if t.latest == nil {
		return nil
	}
	return []Snapshot{*t.latest}
}

// Steps returns the number of snapshots recorded so far, independent of
// retention.
func (t *Tracker) Steps() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.steps
}

// Latest returns the most recent snapshot, or false if nothing was recorded.
func (t *Tracker) Latest() (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.latest == nil {
		return Snapshot{}, false
	}
	return *t.latest, true
}

// Violations returns a copy of all field-validation violations collected
// so far.
func (t *Tracker) Violations() []Violation {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Violation, len(t.violations))
	copy(out, t.violations)
	return out
}

// Metrics returns the per-step field metrics captured at diagnostic level,
// or nil at lower levels.
func (t *Tracker) Metrics(stepIndex int) map[string]FieldMetric {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.metrics == nil {
		return nil
	}
	out := make(map[string]FieldMetric, len(t.metrics[stepIndex]))
	for k, v := range t.metrics[stepIndex] {
		out[k] = v
	}
	return out
}

// Diffs returns the diffs between each pair of consecutive retained
// snapshots. Requires full history retention; returns nil otherwise.
func (t *Tracker) Diffs() []Diff {
	history := t.History()
	if len(history) < 2 {
		return nil
	}
	diffs := make([]Diff, 0, len(history)-1)
	for i := 1; i < len(history); i++ {
		diffs = append(diffs, DiffSnapshots(history[i-1], history[i]))
	}
	return diffs
}

// LoadHistory replays a JSON-lines history file emitted by the executing
// pipeline into a new tracker at the given level. Each line is one
// snapshot object with node_name and fields keys.
func LoadHistory(path string, level verification.Level, required []FieldSchema) (*Tracker, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapWithMessage(err, errors.Source,
			"opening state history file",
			"check state_tracking.history_file in the configuration")
	}
	defer f.Close()

	tracker := NewTracker(level, required)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if len(text) == 0 {
			continue
		}
		var entry struct {
			NodeName string         `json:"node_name"`
			Fields   map[string]any `json:"fields"`
		}
		if err := json.Unmarshal([]byte(text), &entry); err != nil {
			return nil, errors.WrapWithMessage(err, errors.Source,
				fmt.Sprintf("decoding state history line %d", line))
		}
		tracker.Record(entry.NodeName, entry.Fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapWithMessage(err, errors.Source, "reading state history file")
	}

	return tracker, nil
}
