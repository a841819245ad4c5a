package normscan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"BauplanChecker/internal/scanner"
)

func TestHTMLScannerScan(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`
		<html><body>
		  <ul>
		    <li><a href="/files/DIN_18040-1.pdf">DIN 18040-1 Barrierefreies Bauen</a></li>
		    <li><a href="/files/DIN_276.pdf">DIN 276 Kosten im Bauwesen</a></li>
		    <li><a href="/files/DIN_276.pdf">DIN 276 (duplicate link)</a></li>
		    <li><a href="/about.html">About this catalog</a></li>
		    <li><a href="#top">Back to top</a></li>
		  </ul>
		</body></html>`))
	}))
	defer server.Close()

	sc := NewHTMLScanner(server.Client())

	req := scanner.Request{
		CatalogName: "din-catalog",
		Pages: []scanner.Page{
			{Name: "hochbau", URL: server.URL + "/hochbau"},
		},
	}

	links, err := sc.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	if len(links) != 2 {
		t.Fatalf("expected 2 pdf links, got %d", len(links))
	}
	if links[0].Filename != "DIN_18040-1.pdf" {
		t.Fatalf("unexpected first filename: %s", links[0].Filename)
	}
	if links[0].URL != server.URL+"/files/DIN_18040-1.pdf" {
		t.Fatalf("relative link not resolved: %s", links[0].URL)
	}
	if links[0].Source != "din-catalog/hochbau" {
		t.Fatalf("unexpected source: %s", links[0].Source)
	}
}

func TestHTMLScannerRequiresPages(t *testing.T) {
	t.Parallel()

	sc := NewHTMLScanner(nil)
	if _, err := sc.Scan(context.Background(), scanner.Request{CatalogName: "empty"}); err == nil {
		t.Fatalf("expected error for catalog without pages")
	}
}
