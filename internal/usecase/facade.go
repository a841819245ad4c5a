// Package usecase contains the orchestration core: the façade driving the
// remote backend, the poller reconciling long-running check results, and the
// norm-catalog sync pipeline.
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"BauplanChecker/internal/domain"
	"BauplanChecker/internal/jobs"
	"BauplanChecker/internal/planstore"
	"BauplanChecker/internal/ports"
)

// FacadeDeps wires all driven adapters into the orchestration façade.
type FacadeDeps struct {
	Backend ports.BackendClient
	Store   *planstore.Store
	Tracker *jobs.Tracker
	Audit   ports.CheckAuditRepository
	Logger  *slog.Logger
}

// Facade is the single public entry point for user actions. It sequences
// gateway calls, job tracking, and store updates, and is the only layer that
// decides which failures are surfaced to the user.
type Facade struct {
	backend ports.BackendClient
	store   *planstore.Store
	tracker *jobs.Tracker
	audit   ports.CheckAuditRepository
	logger  *slog.Logger
}

// NewFacade constructs the orchestration component.
func NewFacade(deps FacadeDeps) *Facade {
	return &Facade{
		backend: deps.Backend,
		store:   deps.Store,
		tracker: deps.Tracker,
		audit:   deps.Audit,
		logger:  deps.Logger,
	}
}

// SubmitUpload sends a plan PDF for analysis. On success the uploaded plan
// becomes the current one and the collection is refreshed from the server;
// on failure the previous state stays untouched.
func (f *Facade) SubmitUpload(ctx context.Context, filename string, content []byte) (domain.Plan, error) {
	plan, err := f.backend.UploadPlan(ctx, filename, content)
	if err != nil {
		return domain.Plan{}, err
	}

	f.store.Upsert(plan)
	f.store.SetCurrent(plan.ID)

	if err := f.RefreshPlans(ctx); err != nil {
		f.warn("refresh after upload failed", "plan_id", plan.ID, "error", err)
	}

	return plan, nil
}

// RequestCheck fires the long-running compliance check. A second request
// while one is in flight for the same plan is rejected with
// domain.ErrCheckInProgress before any network call is made. Completion is
// observed by the poller, not here.
func (f *Facade) RequestCheck(ctx context.Context, planID string) error {
	if !f.tracker.MarkChecking(planID) {
		return domain.ErrCheckInProgress
	}

	if err := f.backend.RequestCheck(ctx, planID); err != nil {
		f.tracker.Clear(planID)
		return err
	}

	return nil
}

// IsChecking reports whether a compliance check is in flight for the plan.
func (f *Facade) IsChecking(planID string) bool {
	return f.tracker.IsChecking(planID)
}

// SubmitFeedback attaches a user evaluation to the plan and refreshes the
// collection so any displayed feedback history picks it up.
func (f *Facade) SubmitFeedback(ctx context.Context, planID string, entry domain.FeedbackEntry) error {
	if entry.Rating < 1 || entry.Rating > 10 {
		return &domain.ValidationError{Message: fmt.Sprintf("rating must be between 1 and 10, got %d", entry.Rating)}
	}
	if entry.FeedbackType == "" {
		entry.FeedbackType = domain.FeedbackTypeUserEvaluation
	}

	if err := f.backend.SubmitFeedback(ctx, planID, entry); err != nil {
		return err
	}

	if f.audit != nil {
		if err := f.audit.SaveFeedback(ctx, planID, entry); err != nil {
			f.warn("audit feedback failed", "plan_id", planID, "error", err)
		}
	}

	if err := f.RefreshPlans(ctx); err != nil {
		f.warn("refresh after feedback failed", "plan_id", planID, "error", err)
	}

	return nil
}

// DeletePlan removes the plan. A backend "not found" counts as success: the
// plan is gone either way.
func (f *Facade) DeletePlan(ctx context.Context, planID string) error {
	if err := f.backend.DeletePlan(ctx, planID); err != nil && !domain.IsNotFound(err) {
		return err
	}

	f.store.Remove(planID)

	if err := f.RefreshPlans(ctx); err != nil {
		f.warn("refresh after delete failed", "plan_id", planID, "error", err)
	}

	return nil
}

// RefreshPlans rebuilds the local collection wholesale from the server.
func (f *Facade) RefreshPlans(ctx context.Context) error {
	plans, err := f.backend.ListPlans(ctx)
	if err != nil {
		return err
	}

	f.store.ReplaceAll(plans)
	return nil
}

// CurrentPlan derives the active plan view from the store.
func (f *Facade) CurrentPlan() (domain.Plan, bool) {
	return f.store.Current()
}

// Plans returns the local plan collection in listing order.
func (f *Facade) Plans() []domain.Plan {
	return f.store.List()
}

// ListNorms fetches the norm corpus listing from the server. The result is
// not authoritative between calls; callers re-list after mutations.
func (f *Facade) ListNorms(ctx context.Context) (domain.NormCorpus, error) {
	return f.backend.ListNorms(ctx)
}

// UploadNorm ingests a norm PDF into the corpus; uploading a filename that
// already exists replaces it server-side.
func (f *Facade) UploadNorm(ctx context.Context, filename string, content []byte) (domain.NormUploadResult, error) {
	return f.backend.UploadNorm(ctx, filename, content)
}

// DeleteNorm removes a norm document; "not found" counts as success.
func (f *Facade) DeleteNorm(ctx context.Context, filename string) error {
	if err := f.backend.DeleteNorm(ctx, filename); err != nil && !domain.IsNotFound(err) {
		return err
	}
	return nil
}

// ReindexNorms re-ingests the whole corpus into the vector index.
func (f *Facade) ReindexNorms(ctx context.Context) (domain.ReindexResult, error) {
	return f.backend.ReindexNorms(ctx)
}

// Statistics fetches aggregate backend numbers.
func (f *Facade) Statistics(ctx context.Context) (domain.Statistics, error) {
	return f.backend.Statistics(ctx)
}

func (f *Facade) warn(msg string, args ...interface{}) {
	if f.logger != nil {
		f.logger.Warn(msg, args...)
	}
}
