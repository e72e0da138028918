package state

import "fmt"

// TransitionGraph declares the legal node orderings of a pipeline.
// Edges map a node name to the set of nodes allowed to follow it.
type TransitionGraph struct {
	// Start lists nodes allowed to begin a run. Empty means any node.
	Start []string
	// Edges maps each node to its allowed successors.
	Edges map[string][]string
}

// ValidateSequence checks a recorded node-name sequence against the graph.
// Every violation is collected so the run can report all of them; nothing
// is raised.
func (g TransitionGraph) ValidateSequence(nodes []string) []Violation {
	var violations []Violation
	if len(nodes) == 0 {
		return nil
	}

	if len(g.Start) > 0 && !contains(g.Start, nodes[0]) {
		violations = append(violations, Violation{
			StepIndex: 0,
			NodeName:  nodes[0],
			Message:   fmt.Sprintf("run must start at one of %v, started at %q", g.Start, nodes[0]),
		})
	}

	for i := 1; i < len(nodes); i++ {
		from, to := nodes[i-1], nodes[i]
		allowed, known := g.Edges[from]
		if !known {
			violations = append(violations, Violation{
				StepIndex: i,
				NodeName:  to,
				Message:   fmt.Sprintf("node %q has no declared successors, reached %q", from, to),
			})
			continue
		}
		if !contains(allowed, to) {
			violations = append(violations, Violation{
				StepIndex: i,
				NodeName:  to,
				Message:   fmt.Sprintf("illegal transition %q -> %q (allowed: %v)", from, to, allowed),
			})
		}
	}

	return violations
}

// SequenceGraph builds a strict linear graph from an expected node order:
// each node may only be followed by the next one in the list.
func SequenceGraph(order []string) TransitionGraph {
	g := TransitionGraph{Edges: make(map[string][]string, len(order))}
	if len(order) == 0 {
		return g
	}
	g.Start = []string{order[0]}
	for i := 0; i < len(order)-1; i++ {
		g.Edges[order[i]] = []string{order[i+1]}
	}
	g.Edges[order[len(order)-1]] = []string{}
	return g
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
