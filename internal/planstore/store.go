// Package planstore owns the local view of the plan collection. The store is
// the single source of truth: the "current plan" is a selection by ID, so a
// reconciled result is visible everywhere at once and no displayed copy can
// diverge from the canonical record.
package planstore

import (
	"encoding/json"
	"sync"

	"BauplanChecker/internal/domain"
)

// Store is the authoritative local mapping from plan ID to plan record.
type Store struct {
	mu      sync.RWMutex
	plans   map[string]domain.Plan
	order   []string
	current string
}

// NewStore builds an empty store.
func NewStore() *Store {
	return &Store{plans: make(map[string]domain.Plan)}
}

// ReplaceAll rebuilds the collection wholesale from a server listing,
// preserving listing order. The current selection survives if its plan is
// still present and is cleared otherwise.
func (s *Store) ReplaceAll(plans []domain.Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.plans = make(map[string]domain.Plan, len(plans))
	s.order = make([]string, 0, len(plans))
	for _, p := range plans {
		if _, ok := s.plans[p.ID]; ok {
			continue
		}
		s.plans[p.ID] = p
		s.order = append(s.order, p.ID)
	}

	if _, ok := s.plans[s.current]; !ok {
		s.current = ""
	}
}

// PatchComplianceResult merges a server-confirmed check result into the plan
// without disturbing unrelated fields. Returns false if the plan is unknown.
// Because the current selection is only an ID, a patched plan that is also
// the selected one is immediately reflected by Current.
func (s *Store) PatchComplianceResult(planID string, result json.RawMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, ok := s.plans[planID]
	if !ok {
		return false
	}

	plan.ComplianceResult = result
	plan.Status = domain.StatusComplianceChecked
	s.plans[planID] = plan
	return true
}

// Get looks up a plan by ID.
func (s *Store) Get(planID string) (domain.Plan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[planID]
	return plan, ok
}

// List returns the collection in listing order.
func (s *Store) List() []domain.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Plan, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.plans[id])
	}
	return out
}

// Remove drops a plan after a confirmed deletion, clearing the current
// selection if it pointed at the removed plan.
func (s *Store) Remove(planID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[planID]; !ok {
		return
	}

	delete(s.plans, planID)
	for i, id := range s.order {
		if id == planID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.current == planID {
		s.current = ""
	}
}

// SetCurrent selects the plan shown as the active result. Unknown IDs clear
// the selection.
func (s *Store) SetCurrent(planID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[planID]; !ok {
		s.current = ""
		return
	}
	s.current = planID
}

// Current derives the active plan view by ID lookup.
func (s *Store) Current() (domain.Plan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == "" {
		return domain.Plan{}, false
	}
	plan, ok := s.plans[s.current]
	return plan, ok
}

// Upsert inserts or replaces a single plan record, appending new plans to the
// front of the listing order (newest first, matching the server listing).
func (s *Store) Upsert(plan domain.Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[plan.ID]; !ok {
		s.order = append([]string{plan.ID}, s.order...)
	}
	s.plans[plan.ID] = plan
}
