package normscan

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"BauplanChecker/internal/domain"
	"BauplanChecker/internal/scanner"
)

// HTMLScanner walks catalog pages and extracts links to norm PDFs.
type HTMLScanner struct {
	client *http.Client
}

// NewHTMLScanner wires an HTTP client with a default timeout.
func NewHTMLScanner(client *http.Client) *HTMLScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &HTMLScanner{client: client}
}

// Name identifies the strategy inside the registry.
func (h *HTMLScanner) Name() string {
	return "html"
}

// Scan fetches each configured page and collects all PDF links found on it.
func (h *HTMLScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.NormLink, error) {
	if len(req.Pages) == 0 {
		return nil, fmt.Errorf("no pages provided for catalog %s", req.CatalogName)
	}

	results := make([]domain.NormLink, 0)
	seen := map[string]struct{}{}

	for _, page := range req.Pages {
		doc, base, err := h.fetchDocument(ctx, page.URL)
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", page.Name, err)
		}

		for _, link := range extractLinks(doc, base, req.CatalogName, page.Name) {
			if _, ok := seen[link.Filename]; ok {
				continue
			}
			seen[link.Filename] = struct{}{}
			results = append(results, link)
		}
	}

	return results, nil
}

func (h *HTMLScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "BauplanChecker/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("catalog returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("parse document: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse page url: %w", err)
	}

	return doc, base, nil
}

func extractLinks(doc *goquery.Document, base *url.URL, catalogName, pageName string) []domain.NormLink {
	var links []domain.NormLink

	doc.Find("a[href]").Each(func(i int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}

		resolved := resolveHref(base, href)
		if resolved == "" {
			return
		}

		parsed, err := url.Parse(resolved)
		if err != nil {
			return
		}
		filename := path.Base(parsed.Path)
		if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
			return
		}

		source := catalogName
		if pageName != "" {
			source = fmt.Sprintf("%s/%s", catalogName, pageName)
		}

		links = append(links, domain.NormLink{
			Filename: filename,
			URL:      resolved,
			Source:   source,
		})
	})

	return links
}

func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	return base.ResolveReference(ref).String()
}
