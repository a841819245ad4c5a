package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"BauplanChecker/internal/domain"
	"BauplanChecker/internal/jobs"
	"BauplanChecker/internal/planstore"
	"BauplanChecker/internal/ports"
)

// PollerDeps wires the poller's collaborators.
type PollerDeps struct {
	Backend  ports.BackendClient
	Store    *planstore.Store
	Tracker  *jobs.Tracker
	Audit    ports.CheckAuditRepository
	Notifier ports.Notifier
	Driver   ports.Scheduler
	Logger   *slog.Logger
}

// Poller reconciles in-flight compliance checks against server state on a
// fixed interval. Its lifetime is tied to the engine, not to any view.
type Poller struct {
	backend  ports.BackendClient
	store    *planstore.Store
	tracker  *jobs.Tracker
	audit    ports.CheckAuditRepository
	notifier ports.Notifier
	driver   ports.Scheduler
	logger   *slog.Logger
}

// NewPoller constructs the reconciliation component.
func NewPoller(deps PollerDeps) *Poller {
	return &Poller{
		backend:  deps.Backend,
		store:    deps.Store,
		tracker:  deps.Tracker,
		audit:    deps.Audit,
		notifier: deps.Notifier,
		driver:   deps.Driver,
		logger:   deps.Logger,
	}
}

// Start registers the tick with the scheduler driver. Each tick runs to
// completion before the next one fires.
func (p *Poller) Start(ctx context.Context) error {
	if p.driver == nil {
		return nil
	}

	job := func(time.Time) {
		p.Tick(ctx)
	}

	return p.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (p *Poller) Stop(ctx context.Context) error {
	if p.driver == nil {
		return nil
	}

	return p.driver.Stop(ctx)
}

// Tick polls every tracked plan once. A transport failure skips the plan
// silently until the next tick; the tracked job is never dropped for it.
// Retries are unbounded by design: polling continues until the server
// reports readiness or the engine shuts down.
func (p *Poller) Tick(ctx context.Context) {
	for _, planID := range p.tracker.Tracked() {
		status, err := p.backend.CheckStatus(ctx, planID)
		if err != nil {
			p.debug("poll skipped", "plan_id", planID, "error", err)
			continue
		}

		if !status.Ready {
			continue
		}

		p.reconcile(ctx, planID, status)
	}
}

// reconcile merges the arrived result: clear the tracker first so no second
// reconciliation starts, patch the store in place, then refresh the full
// collection to pick up any other server-side changes.
func (p *Poller) reconcile(ctx context.Context, planID string, status domain.CheckStatus) {
	p.tracker.Clear(planID)

	if !p.store.PatchComplianceResult(planID, status.Result) {
		p.debug("patched plan unknown locally", "plan_id", planID)
	}

	plans, err := p.backend.ListPlans(ctx)
	if err != nil {
		p.debug("refresh after reconcile failed", "plan_id", planID, "error", err)
	} else {
		p.store.ReplaceAll(plans)
	}

	if p.audit != nil {
		if err := p.audit.SaveCheckResult(ctx, planID, status.Result); err != nil {
			p.warn("audit check result failed", "plan_id", planID, "error", err)
		}
	}

	if p.notifier != nil {
		digest := fmt.Sprintf("Compliance check finished for plan *%s*", planID)
		if err := p.notifier.PublishDigest(ctx, digest); err != nil {
			p.warn("notify completion failed", "plan_id", planID, "error", err)
		}
	}

	p.info("compliance result reconciled", "plan_id", planID)
}

func (p *Poller) debug(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *Poller) info(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Poller) warn(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
