package normscan

import (
	"context"
	"fmt"
	"log/slog"

	"BauplanChecker/internal/config"
	"BauplanChecker/internal/domain"
	"BauplanChecker/internal/ports"
	"BauplanChecker/internal/scanner"
)

// StrategySource implements NormSource via registered scanner strategies.
type StrategySource struct {
	registry *scanner.Registry
	catalogs []config.CatalogConfig
	logger   *slog.Logger
}

var _ ports.NormSource = (*StrategySource)(nil)

// NewStrategySource wires the scanner registry with config-defined catalogs.
func NewStrategySource(reg *scanner.Registry, catalogs []config.CatalogConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		catalogs: catalogs,
		logger:   log,
	}
}

// FetchLinks iterates over configured catalogs and executes their scanners.
func (s *StrategySource) FetchLinks(ctx context.Context) ([]domain.NormLink, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("fetch links", "catalogs", len(s.catalogs))

	var aggregated []domain.NormLink
	for _, catalog := range s.catalogs {
		s.debug("process catalog", "catalog", catalog.Name, "scanner", catalog.Scanner, "pages", len(catalog.Pages))
		strategy, err := s.registry.Resolve(catalog.Scanner)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", catalog.Name, err)
		}

		req := scanner.Request{
			CatalogName: catalog.Name,
			Options:     catalog.Options,
			Pages:       toScannerPages(catalog.Pages),
		}

		results, err := strategy.Scan(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("scan catalog %s: %w", catalog.Name, err)
		}

		for i := range results {
			if results[i].Source == "" {
				results[i].Source = catalog.Name
			}
		}
		s.debug("catalog produced links", "catalog", catalog.Name, "count", len(results))
		aggregated = append(aggregated, results...)
	}

	s.debug("strategy source done", "total_links", len(aggregated))
	return aggregated, nil
}

func toScannerPages(cfg []config.PageConfig) []scanner.Page {
	pages := make([]scanner.Page, 0, len(cfg))
	for _, page := range cfg {
		pages = append(pages, scanner.Page{
			Name: page.Name,
			URL:  page.URL,
		})
	}
	return pages
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
