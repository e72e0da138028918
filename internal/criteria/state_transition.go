package criteria

import (
	"fmt"
	"strings"

	"github.com/petra-ci/pipecheck/internal/state"
)

// evalStateTransition validates the recorded node sequence of the state
// history against the criterion's expected sequence. Requires a configured
// state tracker; its absence is reported as a failed check so the run can
// still complete and report everything else.
func evalStateTransition(c Criterion, in Inputs) CheckResult {
	result := CheckResult{
		CheckName:     c.CheckID,
		ExpectedValue: strings.Join(c.ExpectedSequence, " -> "),
	}

	if in.Tracker == nil {
		result.Message = "state_transition criterion requires state_tracking.history_file to be configured"
		return result
	}

	history := in.Tracker.History()
	nodes := make([]string, len(history))
	for i, snap := range history {
		nodes[i] = snap.NodeName
	}
	result.ActualValue = strings.Join(nodes, " -> ")

	graph := state.SequenceGraph(c.ExpectedSequence)
	violations := graph.ValidateSequence(nodes)

	if len(nodes) != len(c.ExpectedSequence) && len(violations) == 0 {
		violations = append(violations, state.Violation{
			Message: fmt.Sprintf("expected %d steps, recorded %d", len(c.ExpectedSequence), len(nodes)),
		})
	}

	if len(violations) == 0 {
		result.Passed = true
		return result
	}

	msgs := make([]string, len(violations))
	for i, v := range violations {
		msgs[i] = v.Message
	}
	result.Message = strings.Join(msgs, "; ")
	return result
}
