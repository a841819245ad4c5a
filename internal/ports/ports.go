package ports

import (
	"context"
	"io"
	"time"

	"BauplanChecker/internal/domain"
)

// BackendClient issues operations against the remote analysis service.
// Every call maps to a single network request and may fail with one of the
// classified errors from the domain package.
type BackendClient interface {
	UploadPlan(ctx context.Context, filename string, content []byte) (domain.Plan, error)
	ListPlans(ctx context.Context) ([]domain.Plan, error)
	RequestCheck(ctx context.Context, planID string) error
	CheckStatus(ctx context.Context, planID string) (domain.CheckStatus, error)
	SubmitFeedback(ctx context.Context, planID string, entry domain.FeedbackEntry) error
	DeletePlan(ctx context.Context, planID string) error

	ListNorms(ctx context.Context) (domain.NormCorpus, error)
	UploadNorm(ctx context.Context, filename string, content []byte) (domain.NormUploadResult, error)
	DeleteNorm(ctx context.Context, filename string) error
	ReindexNorms(ctx context.Context) (domain.ReindexResult, error)

	Statistics(ctx context.Context) (domain.Statistics, error)
	Health(ctx context.Context) error
}

// CheckAuditRepository persists completed checks and feedback for history.
type CheckAuditRepository interface {
	SaveCheckResult(ctx context.Context, planID string, result []byte) error
	SaveFeedback(ctx context.Context, planID string, entry domain.FeedbackEntry) error
	RecentChecks(ctx context.Context, limit int) ([]string, error)
}

// NormSource discovers norm documents published on configured catalog pages.
type NormSource interface {
	FetchLinks(ctx context.Context) ([]domain.NormLink, error)
}

// Downloader fetches a discovered norm PDF payload.
type Downloader interface {
	Download(ctx context.Context, link domain.NormLink) (io.ReadCloser, error)
}

// Notifier streams completion digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when recurring engine tasks execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
