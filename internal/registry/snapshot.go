// Package registry loads a point-in-time snapshot of an external component
// registry. The snapshot is loaded exactly once per verification run, so
// every registry_state criterion sees the same view even if the live
// registry mutates concurrently.
package registry

// Snapshot maps component identifiers to their attribute mappings.
// It is read-only after load.
type Snapshot map[string]map[string]any

// Lookup resolves an attribute of a component.
// The two booleans report whether the component and the attribute exist.
func (s Snapshot) Lookup(componentID, attribute string) (value any, componentFound, attributeFound bool) {
	attrs, ok := s[componentID]
	if !ok {
		return nil, false, false
	}
	value, ok = attrs[attribute]
	return value, true, ok
}

// Components returns the number of components in the snapshot.
func (s Snapshot) Components() int {
	return len(s)
}
