package domain

import "time"

// IngestionType enumerates supported ingestion job categories.
type IngestionType string

const (
	IngestionTypeSingleDocument IngestionType = "SINGLE_DOCUMENT"
	IngestionTypeBatchDocuments IngestionType = "BATCH_DOCUMENTS"
	IngestionTypeReprocess      IngestionType = "REPROCESS"
)

// Valid reports whether t is a recognized ingestion type.
func (t IngestionType) Valid() bool {
	switch t {
	case IngestionTypeSingleDocument, IngestionTypeBatchDocuments, IngestionTypeReprocess:
		return true
	}
	return false
}

// JobStatus enumerates job lifecycle states.
type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
	JobStatusCancelled  JobStatus = "CANCELLED"
)

// Terminal reports whether no further transitions are expected from s.
// FAILED is excluded because an explicit retry may re-queue a failed job.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// DefaultMaxRetries bounds how often a failed job may be re-queued.
const DefaultMaxRetries = 3

// Job encapsulates the lifecycle of one ingestion request.
type Job struct {
	ID            string
	Name          string
	Description   string
	Status        JobStatus
	IngestionType IngestionType
	DocumentID    string
	DocumentIDs   []string
	Configuration map[string]any
	Result        []byte
	ErrorMessage  string
	Progress      int
	RetryCount    int
	MaxRetries    int
	StartedAt     *time.Time
	CompletedAt   *time.Time
	TriggeredBy   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CanRetry reports whether an explicit retry is allowed for the job.
func (j *Job) CanRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// CanCancel reports whether the job may still be cancelled.
func (j *Job) CanCancel() bool {
	return j.Status == JobStatusPending || j.Status == JobStatusProcessing
}

// References returns every document id the job points at.
func (j *Job) References() []string {
	if j.IngestionType == IngestionTypeBatchDocuments {
		return j.DocumentIDs
	}
	if j.DocumentID == "" {
		return nil
	}
	return []string{j.DocumentID}
}

// JobFilter narrows List queries. Zero values mean "no constraint".
type JobFilter struct {
	Status        JobStatus
	IngestionType IngestionType
	TriggeredBy   string
}

// JobStats aggregates counts and durations across jobs.
type JobStats struct {
	Total           int64
	ByStatus        map[JobStatus]int64
	ByType          map[IngestionType]int64
	AverageDuration time.Duration
}
