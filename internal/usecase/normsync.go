package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"BauplanChecker/internal/domain"
	"BauplanChecker/internal/ports"
)

// NormSyncDeps wires all driven adapters into the corpus-sync pipeline.
type NormSyncDeps struct {
	Source     ports.NormSource
	Downloader ports.Downloader
	Backend    ports.BackendClient
	Notifier   ports.Notifier
	Driver     ports.Scheduler
	Logger     *slog.Logger
}

// NormSync keeps the norm corpus stocked: it scans configured catalog pages
// for norm PDFs, skips filenames the corpus already holds, downloads the
// rest, and ingests them through the backend.
type NormSync struct {
	source     ports.NormSource
	downloader ports.Downloader
	backend    ports.BackendClient
	notifier   ports.Notifier
	driver     ports.Scheduler
	logger     *slog.Logger
}

// NewNormSync constructs the corpus-sync component.
func NewNormSync(deps NormSyncDeps) *NormSync {
	return &NormSync{
		source:     deps.Source,
		downloader: deps.Downloader,
		backend:    deps.Backend,
		notifier:   deps.Notifier,
		driver:     deps.Driver,
		logger:     deps.Logger,
	}
}

// Start registers the sync run with the scheduler driver.
func (s *NormSync) Start(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	job := func(time.Time) {
		if err := s.SyncOnce(ctx); err != nil {
			s.warn("norm sync failed", "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *NormSync) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}

// SyncOnce performs a single scan-download-ingest pass.
func (s *NormSync) SyncOnce(ctx context.Context) error {
	if s.source == nil {
		return nil
	}

	links, err := s.source.FetchLinks(ctx)
	if err != nil {
		return fmt.Errorf("fetch links: %w", err)
	}

	corpus, err := s.backend.ListNorms(ctx)
	if err != nil {
		return fmt.Errorf("list norms: %w", err)
	}

	known := make(map[string]struct{}, len(corpus.Norms))
	for _, norm := range corpus.Norms {
		known[norm.Filename] = struct{}{}
	}

	var ingested []domain.NormUploadResult
	for _, link := range links {
		if _, ok := known[link.Filename]; ok {
			continue
		}

		content, err := s.download(ctx, link)
		if err != nil {
			return fmt.Errorf("download norm %s: %w", link.Filename, err)
		}

		result, err := s.backend.UploadNorm(ctx, link.Filename, content)
		if err != nil {
			return fmt.Errorf("ingest norm %s: %w", link.Filename, err)
		}

		known[result.Filename] = struct{}{}
		ingested = append(ingested, result)
		s.info("norm ingested", "filename", result.Filename, "chunks", result.ChunksProcessed, "source", link.Source)
	}

	if len(ingested) == 0 {
		return nil
	}

	if s.notifier == nil {
		return nil
	}

	return s.notifier.PublishDigest(ctx, buildSyncDigest(ingested))
}

func (s *NormSync) download(ctx context.Context, link domain.NormLink) ([]byte, error) {
	if s.downloader == nil {
		return nil, fmt.Errorf("downloader is not configured")
	}

	reader, err := s.downloader.Download(ctx, link)
	if err != nil {
		return nil, err
	}

	content, err := io.ReadAll(reader)
	closeErr := reader.Close()
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("close payload: %w", closeErr)
	}

	return content, nil
}

func buildSyncDigest(results []domain.NormUploadResult) string {
	digest := fmt.Sprintf("Norm corpus updated: %d new document(s)\n", len(results))
	for _, result := range results {
		digest += fmt.Sprintf("- %s (%d chunks)\n", result.Filename, result.ChunksProcessed)
	}
	return digest
}

func (s *NormSync) info(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *NormSync) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
