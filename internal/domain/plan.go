package domain

import "encoding/json"

// PlanStatus enumerates the lifecycle states reported by the backend.
type PlanStatus string

const (
	StatusUploaded          PlanStatus = "uploaded"
	StatusProcessing        PlanStatus = "processing"
	StatusComplianceChecked PlanStatus = "compliance-checked"
)

// Plan is a submitted construction document together with its analysis state.
// All descriptive metadata is assigned by the backend at upload time and is
// never mutated on the client; only ComplianceResult and Feedback grow later.
type Plan struct {
	ID               string          `json:"id"`
	StoredFilename   string          `json:"filename"`
	OriginalFilename string          `json:"original_filename"`
	UploadTime       string          `json:"upload_time"`
	FileSize         int64           `json:"file_size"`
	PageCount        int             `json:"page_count"`
	TextPreview      string          `json:"text_preview"`
	TextLength       int             `json:"text_length"`
	InitialAnalysis  json.RawMessage `json:"initial_analysis,omitempty"`
	ComplianceResult json.RawMessage `json:"din_check,omitempty"`
	CheckTimestamp   string          `json:"din_check_timestamp,omitempty"`
	Feedback         []FeedbackEntry `json:"feedback,omitempty"`
	Status           PlanStatus      `json:"status"`
}

// Checked reports whether an authoritative compliance result is attached.
func (p Plan) Checked() bool {
	return len(p.ComplianceResult) > 0
}

// FeedbackEntry is a user evaluation of an analysis. Immutable once created;
// Timestamp is stamped by the backend.
type FeedbackEntry struct {
	Rating       int    `json:"rating"`
	CorrectPlan  bool   `json:"correct_plan"`
	Comments     string `json:"comments"`
	FeedbackType string `json:"feedback_type"`
	Timestamp    string `json:"timestamp,omitempty"`
}

// FeedbackTypeUserEvaluation tags entries submitted through the feedback form.
const FeedbackTypeUserEvaluation = "user_evaluation"

// CheckStatus is the poll response for a running compliance check.
// Ready mirrors the backend's has_din_check flag.
type CheckStatus struct {
	PlanID string          `json:"plan_id"`
	Ready  bool            `json:"has_din_check"`
	Status PlanStatus      `json:"status"`
	Result json.RawMessage `json:"din_check,omitempty"`
}

// NormDocument describes one reference standard in the corpus. Filenames are
// unique within the corpus; uploading an existing filename replaces it
// server-side.
type NormDocument struct {
	Name         string  `json:"name"`
	Filename     string  `json:"filename"`
	SizeMB       float64 `json:"size_mb"`
	LastModified string  `json:"last_modified"`
}

// NormCorpus is the corpus listing with ingestion bookkeeping.
type NormCorpus struct {
	Status      string         `json:"status"`
	Count       int            `json:"count"`
	TotalChunks int            `json:"total_chunks"`
	LastUpdate  string         `json:"last_update"`
	Norms       []NormDocument `json:"norms"`
}

// NormUploadResult is returned after a norm document was ingested.
type NormUploadResult struct {
	Filename         string `json:"filename"`
	OriginalFilename string `json:"original_filename"`
	FileSize         int64  `json:"file_size"`
	UploadTime       string `json:"upload_time"`
	ChunksProcessed  int    `json:"chunks_processed"`
	Status           string `json:"status"`
}

// ReindexResult summarizes a corpus re-ingestion run.
type ReindexResult struct {
	PDFCount   int `json:"pdf_count"`
	ChunkCount int `json:"chunk_count"`
}

// Statistics aggregates backend dashboard numbers.
type Statistics struct {
	TotalPlans        int     `json:"total_plans"`
	PlansWithCheck    int     `json:"plans_with_din_check"`
	PlansWithFeedback int     `json:"plans_with_feedback"`
	AverageRating     float64 `json:"average_rating"`
	NormCount         int     `json:"din_norms_count"`
	NormChunks        int     `json:"din_chunks_count"`
}

// NormLink points at a norm PDF discovered on a catalog page.
type NormLink struct {
	Filename string
	URL      string
	Source   string
}
