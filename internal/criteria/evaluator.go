package criteria

import (
	"fmt"
	"sort"

	"github.com/petra-ci/pipecheck/internal/errors"
	"github.com/petra-ci/pipecheck/internal/logsource"
	"github.com/petra-ci/pipecheck/internal/registry"
	"github.com/petra-ci/pipecheck/internal/state"
)

// Inputs is the materialized, read-only input a criterion is evaluated
// against. Evaluation is a pure function of these inputs.
type Inputs struct {
	// Records groups parsed log records by source name.
	Records map[string][]logsource.Record
	// Registry is the point-in-time registry snapshot.
	Registry registry.Snapshot
	// Tracker holds the replayed state history, nil when state tracking is
	// not configured.
	Tracker *state.Tracker
}

// EvalFunc evaluates one criterion. Implementations must not mutate the
// inputs and must always return a result, reporting evaluation problems as
// failed checks rather than errors.
type EvalFunc func(c Criterion, in Inputs) CheckResult

// evaluators maps criterion type tags to their implementations.
var evaluators = map[string]EvalFunc{
	"log_contains":     evalLogContains,
	"registry_state":   evalRegistryState,
	"state_transition": evalStateTransition,
}

// Register adds an evaluator for a criterion type. Registering an existing
// type replaces it; intended for extension, not for tests to undo.
func Register(typeName string, fn EvalFunc) {
	evaluators[typeName] = fn
}

// Lookup returns the evaluator for a criterion type, or nil.
func Lookup(typeName string) EvalFunc {
	return evaluators[typeName]
}

// KnownTypes returns the registered criterion type names, sorted.
func KnownTypes() []string {
	names := make([]string, 0, len(evaluators))
	for name := range evaluators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Evaluate dispatches one criterion to its registered evaluator.
// An unregistered type is a configuration error; config validation rejects
// it before evaluation, so hitting it here means validation was skipped.
func Evaluate(c Criterion, in Inputs) (CheckResult, error) {
	fn := Lookup(c.Type)
	if fn == nil {
		return CheckResult{}, errors.NewConfigError(
			fmt.Sprintf("criterion %q: unknown type %q", c.CheckID, c.Type),
			fmt.Sprintf("use one of: %v", KnownTypes()))
	}
	result := fn(c, in)
	result.Warning = c.IsWarning()
	return result, nil
}
