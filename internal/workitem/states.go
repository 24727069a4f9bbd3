package workitem

import "strings"

// StateSet is a case-insensitive set of workflow state names.
type StateSet map[string]bool

// DefaultCompletedStates are the states treated as done when no catalog overrides them.
var DefaultCompletedStates = []string{"Done", "Completed", "Closed", "Resolved"}

// DefaultRemainingStates are the states counted as open work in the burndown scope.
var DefaultRemainingStates = []string{"Active", "Ready", "New"}

// NewStateSet builds a set from state names.
func NewStateSet(states ...string) StateSet {
	set := make(StateSet, len(states))
	for _, s := range states {
		if s = strings.TrimSpace(s); s != "" {
			set[strings.ToLower(s)] = true
		}
	}
	return set
}

// Contains reports membership, ignoring case.
func (s StateSet) Contains(state string) bool {
	if s == nil {
		return false
	}
	return s[strings.ToLower(strings.TrimSpace(state))]
}

// IsCompleted reports whether the item's state is in the completed set.
func (s StateSet) IsCompleted(w WorkItem) bool {
	return s.Contains(w.State)
}

// Completed filters the items down to those in a completed state.
func (s StateSet) Completed(items []WorkItem) []WorkItem {
	var out []WorkItem
	for _, it := range items {
		if s.IsCompleted(it) {
			out = append(out, it)
		}
	}
	return out
}
