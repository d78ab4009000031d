package domain

import "context"

// JobRepository defines persistence for job entities. The store is the
// single source of truth for job state; all writes that finish a job go
// through UpdateStatusIf so concurrent writers cannot overwrite a
// terminal state already reached by another operation.
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, jobID string) (*Job, error)
	// UpdateStatusIf applies the job's current field values only when the
	// stored status still equals one of expected. It reports whether the
	// write applied; false means a concurrent transition won.
	UpdateStatusIf(ctx context.Context, job *Job, expected ...JobStatus) (bool, error)
	List(ctx context.Context, filter JobFilter, page, limit int) ([]Job, int64, error)
	Stats(ctx context.Context) (*JobStats, error)
}

// DocumentGateway exposes the document service surface the ingestion
// core depends on: metadata resolution and best-effort status mirroring.
type DocumentGateway interface {
	Resolve(ctx context.Context, documentID string) (*DocumentMeta, error)
	SetStatus(ctx context.Context, documentID string, status DocumentStatus) error
}

// IngestPayload is the wire contract sent to the external processing
// backend.
type IngestPayload struct {
	JobID         string           `json:"job_id"`
	IngestionType string           `json:"ingestion_type"`
	Configuration map[string]any   `json:"configuration"`
	Document      *IngestDocument  `json:"document,omitempty"`
	Documents     []IngestDocument `json:"documents,omitempty"`
}

// IngestDocument carries the resolved metadata for one referenced document.
type IngestDocument struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	FilePath string `json:"file_path"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
}

// ProcessingClient invokes the external ingestion backend. Submit blocks
// up to the client's configured timeout and returns the raw success
// payload or a classified failure.
type ProcessingClient interface {
	Submit(ctx context.Context, payload IngestPayload) ([]byte, error)
}
