package usecase

import (
	"bytes"
	"context"
	"io"
	"testing"

	"BauplanChecker/internal/domain"
)

type fakeNormSource struct {
	links []domain.NormLink
}

func (f *fakeNormSource) FetchLinks(context.Context) ([]domain.NormLink, error) {
	return f.links, nil
}

type fakeDownloader struct {
	payloads map[string][]byte
	requests []string
}

func (f *fakeDownloader) Download(_ context.Context, link domain.NormLink) (io.ReadCloser, error) {
	f.requests = append(f.requests, link.Filename)
	return io.NopCloser(bytes.NewReader(f.payloads[link.Filename])), nil
}

func TestSyncOnceIngestsOnlyNewNorms(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	backend.listNormsFn = func() (domain.NormCorpus, error) {
		return domain.NormCorpus{
			Count: 1,
			Norms: []domain.NormDocument{{Filename: "DIN_18040.pdf"}},
		}, nil
	}
	var ingested []string
	backend.uploadNormFn = func(filename string, content []byte) (domain.NormUploadResult, error) {
		ingested = append(ingested, filename)
		return domain.NormUploadResult{Filename: filename, ChunksProcessed: 9}, nil
	}

	downloader := &fakeDownloader{payloads: map[string][]byte{
		"DIN_276.pdf": []byte("%PDF-1.4 new"),
	}}

	sync := NewNormSync(NormSyncDeps{
		Source: &fakeNormSource{links: []domain.NormLink{
			{Filename: "DIN_18040.pdf", URL: "https://catalog.example.org/DIN_18040.pdf"},
			{Filename: "DIN_276.pdf", URL: "https://catalog.example.org/DIN_276.pdf"},
		}},
		Downloader: downloader,
		Backend:    backend,
	})

	if err := sync.SyncOnce(context.Background()); err != nil {
		t.Fatalf("SyncOnce error: %v", err)
	}

	if len(ingested) != 1 || ingested[0] != "DIN_276.pdf" {
		t.Fatalf("only the new norm should be ingested, got %v", ingested)
	}
	if len(downloader.requests) != 1 || downloader.requests[0] != "DIN_276.pdf" {
		t.Fatalf("only the new norm should be downloaded, got %v", downloader.requests)
	}
}

func TestSyncOnceWithoutNewNormsIsQuiet(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	backend.listNormsFn = func() (domain.NormCorpus, error) {
		return domain.NormCorpus{Norms: []domain.NormDocument{{Filename: "DIN_18040.pdf"}}}, nil
	}

	sync := NewNormSync(NormSyncDeps{
		Source: &fakeNormSource{links: []domain.NormLink{
			{Filename: "DIN_18040.pdf", URL: "https://catalog.example.org/DIN_18040.pdf"},
		}},
		Downloader: &fakeDownloader{},
		Backend:    backend,
	})

	if err := sync.SyncOnce(context.Background()); err != nil {
		t.Fatalf("SyncOnce error: %v", err)
	}
	if backend.callCount("uploadNorm") != 0 {
		t.Fatalf("nothing should be ingested when the corpus is current")
	}
}
