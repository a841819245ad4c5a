package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"BauplanChecker/internal/domain"
	"BauplanChecker/internal/jobs"
	"BauplanChecker/internal/planstore"
)

func newTestPoller(backend *fakeBackend) (*Poller, *planstore.Store, *jobs.Tracker) {
	store := planstore.NewStore()
	tracker := jobs.NewTracker()
	poller := NewPoller(PollerDeps{
		Backend: backend,
		Store:   store,
		Tracker: tracker,
	})
	return poller, store, tracker
}

func TestTickKeepsTrackingWhileNotReady(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	backend.checkStatusFn = func(planID string) (domain.CheckStatus, error) {
		return domain.CheckStatus{PlanID: planID, Ready: false, Status: domain.StatusProcessing}, nil
	}

	poller, _, tracker := newTestPoller(backend)
	tracker.MarkChecking("p1")

	for i := 0; i < 5; i++ {
		poller.Tick(context.Background())
	}

	if !tracker.IsChecking("p1") {
		t.Fatalf("job must stay tracked while not ready")
	}
	if backend.callCount("checkStatus") != 5 {
		t.Fatalf("expected 5 polls, got %d", backend.callCount("checkStatus"))
	}
	if backend.callCount("requestCheck") != 0 {
		t.Fatalf("poller must never issue duplicate check requests")
	}
}

func TestTickReconcilesReadyResult(t *testing.T) {
	t.Parallel()

	result := json.RawMessage(`{"overall_compliance":"gut"}`)

	backend := newFakeBackend()
	backend.checkStatusFn = func(planID string) (domain.CheckStatus, error) {
		return domain.CheckStatus{
			PlanID: planID,
			Ready:  true,
			Status: domain.StatusComplianceChecked,
			Result: result,
		}, nil
	}
	backend.listPlansFn = func() ([]domain.Plan, error) {
		return []domain.Plan{{
			ID:               "p1",
			Status:           domain.StatusComplianceChecked,
			ComplianceResult: result,
		}}, nil
	}

	poller, store, tracker := newTestPoller(backend)
	store.ReplaceAll([]domain.Plan{{ID: "p1", Status: domain.StatusProcessing}})
	store.SetCurrent("p1")
	tracker.MarkChecking("p1")

	poller.Tick(context.Background())

	if tracker.IsChecking("p1") {
		t.Fatalf("tracker should be cleared after reconciliation")
	}

	plan, ok := store.Get("p1")
	if !ok {
		t.Fatalf("p1 should exist")
	}
	if plan.Status != domain.StatusComplianceChecked {
		t.Fatalf("expected status %s, got %s", domain.StatusComplianceChecked, plan.Status)
	}

	var parsed struct {
		Overall string `json:"overall_compliance"`
	}
	if err := json.Unmarshal(plan.ComplianceResult, &parsed); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if parsed.Overall != "gut" {
		t.Fatalf("unexpected overall compliance: %s", parsed.Overall)
	}

	current, ok := store.Current()
	if !ok || current.Status != domain.StatusComplianceChecked || !current.Checked() {
		t.Fatalf("displayed plan must carry the reconciled result, got %+v", current)
	}

	if backend.callCount("listPlans") != 1 {
		t.Fatalf("reconciliation should refresh the full collection once")
	}
}

func TestTickSkipsTransientPollFailure(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	backend.checkStatusFn = func(planID string) (domain.CheckStatus, error) {
		return domain.CheckStatus{}, &domain.UnreachableError{Op: "/din-check-status/p1", Err: errors.New("timeout")}
	}

	poller, _, tracker := newTestPoller(backend)
	tracker.MarkChecking("p1")

	poller.Tick(context.Background())
	poller.Tick(context.Background())

	if !tracker.IsChecking("p1") {
		t.Fatalf("transient poll failure must not drop the tracked job")
	}
}

func TestTickHandlesIndependentPlans(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	backend.checkStatusFn = func(planID string) (domain.CheckStatus, error) {
		if planID == "p1" {
			return domain.CheckStatus{PlanID: planID, Ready: true, Result: json.RawMessage(`{}`)}, nil
		}
		return domain.CheckStatus{PlanID: planID, Ready: false}, nil
	}
	backend.listPlansFn = func() ([]domain.Plan, error) {
		return []domain.Plan{{ID: "p1"}, {ID: "p2"}}, nil
	}

	poller, store, tracker := newTestPoller(backend)
	store.ReplaceAll([]domain.Plan{{ID: "p1"}, {ID: "p2"}})
	tracker.MarkChecking("p1")
	tracker.MarkChecking("p2")

	poller.Tick(context.Background())

	if tracker.IsChecking("p1") {
		t.Fatalf("ready plan should be cleared")
	}
	if !tracker.IsChecking("p2") {
		t.Fatalf("pending plan should stay tracked")
	}
}
