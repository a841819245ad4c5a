// Package jobs tracks in-flight compliance checks. A plan ID present in the
// tracker means a check was submitted and its result has not yet been
// observed; the marker never outlives the process.
package jobs

import (
	"sort"
	"sync"
)

// Tracker keeps at most one in-flight compliance check per plan ID.
type Tracker struct {
	mu       sync.Mutex
	checking map[string]struct{}
}

// NewTracker builds an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{checking: make(map[string]struct{})}
}

// MarkChecking records a check as in flight. Returns false if one is already
// tracked for the plan; the mark is a compare-and-set under the lock, so the
// at-most-one invariant holds under concurrent callers.
func (t *Tracker) MarkChecking(planID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.checking[planID]; ok {
		return false
	}
	t.checking[planID] = struct{}{}
	return true
}

// IsChecking reports whether a check is in flight for the plan.
func (t *Tracker) IsChecking(planID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.checking[planID]
	return ok
}

// Clear removes the in-flight marker for the plan, if any.
func (t *Tracker) Clear(planID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.checking, planID)
}

// Tracked returns all plan IDs with an in-flight check, sorted for
// deterministic iteration.
func (t *Tracker) Tracked() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]string, 0, len(t.checking))
	for id := range t.checking {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
