package normscan

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"BauplanChecker/internal/domain"
	"BauplanChecker/internal/ports"
)

// HTTPDownloader fetches discovered norm PDFs.
type HTTPDownloader struct {
	client *http.Client
}

var _ ports.Downloader = (*HTTPDownloader)(nil)

// NewHTTPDownloader wires an HTTP client with a default timeout.
func NewHTTPDownloader(client *http.Client) *HTTPDownloader {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &HTTPDownloader{client: client}
}

// Download streams the PDF payload behind the link.
func (d *HTTPDownloader) Download(ctx context.Context, link domain.NormLink) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "BauplanChecker/1.0")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("download %s: unexpected status %s", link.Filename, resp.Status)
	}

	return resp.Body, nil
}
