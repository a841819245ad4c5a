package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"BauplanChecker/internal/domain"
	"BauplanChecker/internal/ports"
)

const (
	// MaxUploadSize is enforced client-side before any request is attempted;
	// the backend applies the same 50 MB ceiling.
	MaxUploadSize = 50 * 1024 * 1024

	allowedExtension = ".pdf"
)

// Client talks to the bauplan analysis backend over HTTP.
type Client struct {
	baseURL string
	// upload and check run OCR plus AI inference synchronously server-side
	// and need far longer deadlines than the cheap status/list calls.
	uploadClient  *http.Client
	checkClient   *http.Client
	requestClient *http.Client
}

var _ ports.BackendClient = (*Client)(nil)

// Options tunes the per-operation timeouts.
type Options struct {
	UploadTimeout  time.Duration
	CheckTimeout   time.Duration
	RequestTimeout time.Duration
}

// NewClient creates a reusable backend client for the given base URL.
func NewClient(baseURL string, opts Options) *Client {
	if opts.UploadTimeout <= 0 {
		opts.UploadTimeout = 120 * time.Second
	}
	if opts.CheckTimeout <= 0 {
		opts.CheckTimeout = 180 * time.Second
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 15 * time.Second
	}
	return &Client{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		uploadClient:  &http.Client{Timeout: opts.UploadTimeout},
		checkClient:   &http.Client{Timeout: opts.CheckTimeout},
		requestClient: &http.Client{Timeout: opts.RequestTimeout},
	}
}

// UploadPlan submits a PDF plan for analysis. The file type and size are
// validated before any request goes out.
func (c *Client) UploadPlan(ctx context.Context, filename string, content []byte) (domain.Plan, error) {
	if err := validateUpload(filename, content); err != nil {
		return domain.Plan{}, err
	}

	var plan domain.Plan
	if err := c.postFile(ctx, c.uploadClient, "/upload-plan", filename, content, &plan); err != nil {
		return domain.Plan{}, err
	}

	return plan, nil
}

// ListPlans fetches the full authoritative plan collection.
func (c *Client) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	var plans []domain.Plan
	if err := c.get(ctx, "/plans", &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// RequestCheck starts the long-running compliance check for the plan.
// Completion is observed only via CheckStatus polling.
func (c *Client) RequestCheck(ctx context.Context, planID string) error {
	return c.do(ctx, c.checkClient, http.MethodPost, "/check-against-din/"+url.PathEscape(planID), nil, nil)
}

// CheckStatus polls whether the compliance check produced a result. Cheap,
// idempotent, safe to call on every tick.
func (c *Client) CheckStatus(ctx context.Context, planID string) (domain.CheckStatus, error) {
	var status domain.CheckStatus
	if err := c.get(ctx, "/din-check-status/"+url.PathEscape(planID), &status); err != nil {
		return domain.CheckStatus{}, err
	}
	return status, nil
}

// SubmitFeedback attaches a user evaluation to the plan.
func (c *Client) SubmitFeedback(ctx context.Context, planID string, entry domain.FeedbackEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}
	return c.do(ctx, c.requestClient, http.MethodPost, "/add-feedback/"+url.PathEscape(planID), payload, nil)
}

// DeletePlan removes the plan and its stored files from the backend.
func (c *Client) DeletePlan(ctx context.Context, planID string) error {
	return c.do(ctx, c.requestClient, http.MethodDelete, "/plan/"+url.PathEscape(planID), nil, nil)
}

// ListNorms fetches the norm corpus listing.
func (c *Client) ListNorms(ctx context.Context) (domain.NormCorpus, error) {
	var corpus domain.NormCorpus
	if err := c.get(ctx, "/din-norms", &corpus); err != nil {
		return domain.NormCorpus{}, err
	}
	return corpus, nil
}

// UploadNorm ingests a norm PDF into the corpus. An existing filename is
// replaced server-side.
func (c *Client) UploadNorm(ctx context.Context, filename string, content []byte) (domain.NormUploadResult, error) {
	if err := validateUpload(filename, content); err != nil {
		return domain.NormUploadResult{}, err
	}

	var result domain.NormUploadResult
	if err := c.postFile(ctx, c.uploadClient, "/upload-din-norm", filename, content, &result); err != nil {
		return domain.NormUploadResult{}, err
	}
	return result, nil
}

// DeleteNorm removes a norm document from the corpus by filename.
func (c *Client) DeleteNorm(ctx context.Context, filename string) error {
	return c.do(ctx, c.requestClient, http.MethodDelete, "/din-norm/"+url.PathEscape(filename), nil, nil)
}

// ReindexNorms re-ingests every norm PDF into the vector index.
func (c *Client) ReindexNorms(ctx context.Context) (domain.ReindexResult, error) {
	var result domain.ReindexResult
	if err := c.do(ctx, c.checkClient, http.MethodPost, "/process-din-norms", nil, &result); err != nil {
		return domain.ReindexResult{}, err
	}
	return result, nil
}

// Statistics fetches aggregate dashboard numbers.
func (c *Client) Statistics(ctx context.Context) (domain.Statistics, error) {
	var stats domain.Statistics
	if err := c.get(ctx, "/statistics", &stats); err != nil {
		return domain.Statistics{}, err
	}
	return stats, nil
}

// Health probes backend reachability.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/health", nil)
}

func validateUpload(filename string, content []byte) error {
	if strings.TrimSpace(filename) == "" {
		return &domain.ValidationError{Message: "no file selected"}
	}
	if strings.ToLower(path.Ext(filename)) != allowedExtension {
		return &domain.ValidationError{Message: "only PDF files are accepted"}
	}
	if len(content) > MaxUploadSize {
		return &domain.ValidationError{Message: "file too large (max. 50MB)"}
	}
	return nil
}

func (c *Client) get(ctx context.Context, p string, v any) error {
	return c.do(ctx, c.requestClient, http.MethodGet, p, nil, v)
}

func (c *Client) do(ctx context.Context, client *http.Client, method, p string, body []byte, v any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+p, reader)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(client, req, p, v)
}

func (c *Client) postFile(ctx context.Context, client *http.Client, p, filename string, content []byte, v any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+p, &buf)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.send(client, req, p, v)
}

func (c *Client) send(client *http.Client, req *http.Request, op string, v any) error {
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := client.Do(req)
	if err != nil {
		return &domain.UnreachableError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return classifyStatus(resp)
	}

	if v == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// classifyStatus maps backend HTTP failures onto the error taxonomy using
// the FastAPI {"detail": ...} body.
func classifyStatus(resp *http.Response) error {
	detail := readDetail(resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &domain.NotFoundError{Message: detail}
	case resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError:
		if detail == "" {
			detail = fmt.Sprintf("backend rejected request: %s", resp.Status)
		}
		return &domain.ValidationError{Message: detail}
	default:
		if detail == "" {
			detail = fmt.Sprintf("backend error: %s", resp.Status)
		}
		return &domain.ProcessingError{Message: detail}
	}
}

func readDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}

	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return strings.TrimSpace(string(raw))
	}
	return strings.TrimSpace(parsed.Detail)
}
