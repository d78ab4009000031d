package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"docman/internal/domain"
	"docman/internal/infra"
	"docman/internal/sqlinline"
)

// JobRepositoryPG implements domain.JobRepository on PostgreSQL.
type JobRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewJobRepository creates a new job repository backed by PostgreSQL.
func NewJobRepository(sql infra.SQLExecutor) *JobRepositoryPG {
	return &JobRepositoryPG{sql: sql}
}

// Create inserts a new job record and fills in store-assigned timestamps.
func (r *JobRepositoryPG) Create(ctx context.Context, job *domain.Job) error {
	cfg, err := marshalConfig(job.Configuration)
	if err != nil {
		return err
	}
	// A nil slice binds SQL NULL, which the NOT NULL column rejects;
	// single-document jobs must insert an empty array instead.
	docIDs := job.DocumentIDs
	if docIDs == nil {
		docIDs = []string{}
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertJob,
		job.ID,
		job.Name,
		job.Description,
		job.Status,
		job.IngestionType,
		job.DocumentID,
		docIDs,
		cfg,
		job.Progress,
		job.RetryCount,
		job.MaxRetries,
		job.TriggeredBy,
	)
	if err := row.Scan(&job.CreatedAt, &job.UpdatedAt); err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// GetByID fetches a job by its identifier.
func (r *JobRepositoryPG) GetByID(ctx context.Context, jobID string) (*domain.Job, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectJobByID, jobID)
	job, err := scanJob(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

// UpdateStatusIf applies the job's current fields only when the stored
// status still equals one of expected. The guard runs inside the UPDATE
// itself, so two racing writers cannot both land a terminal state. On
// success the job's UpdatedAt is refreshed from the stored row.
func (r *JobRepositoryPG) UpdateStatusIf(ctx context.Context, job *domain.Job, expected ...domain.JobStatus) (bool, error) {
	statuses := make([]string, len(expected))
	for i, s := range expected {
		statuses[i] = string(s)
	}
	args := append(updateArgs(job), statuses)
	row := r.sql.QueryRow(ctx, sqlinline.QUpdateJobStatusIf, args...)
	if err := row.Scan(&job.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List returns a page of jobs plus the total count matching the filter.
func (r *JobRepositoryPG) List(ctx context.Context, filter domain.JobFilter, page, limit int) ([]domain.Job, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	rows, err := r.sql.Query(ctx, sqlinline.QListJobs,
		string(filter.Status), string(filter.IngestionType), filter.TriggeredBy, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	countRow := r.sql.QueryRow(ctx, sqlinline.QCountJobs,
		string(filter.Status), string(filter.IngestionType), filter.TriggeredBy)
	if err := countRow.Scan(&total); err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// Stats aggregates totals, per-dimension counts and the average duration
// of completed jobs in a single query.
func (r *JobRepositoryPG) Stats(ctx context.Context) (*domain.JobStats, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QJobStats)
	var (
		total                                             int64
		pending, processing, completed, failed, cancelled int64
		single, batch, reprocess                          int64
		avgMillis                                         float64
	)
	if err := row.Scan(&total,
		&pending, &processing, &completed, &failed, &cancelled,
		&single, &batch, &reprocess,
		&avgMillis,
	); err != nil {
		return nil, err
	}
	return &domain.JobStats{
		Total: total,
		ByStatus: map[domain.JobStatus]int64{
			domain.JobStatusPending:    pending,
			domain.JobStatusProcessing: processing,
			domain.JobStatusCompleted:  completed,
			domain.JobStatusFailed:     failed,
			domain.JobStatusCancelled:  cancelled,
		},
		ByType: map[domain.IngestionType]int64{
			domain.IngestionTypeSingleDocument: single,
			domain.IngestionTypeBatchDocuments: batch,
			domain.IngestionTypeReprocess:      reprocess,
		},
		AverageDuration: time.Duration(avgMillis) * time.Millisecond,
	}, nil
}

// MarkStale fails PROCESSING jobs whose started_at is older than threshold
// and returns the affected jobs so callers can mirror document status.
func (r *JobRepositoryPG) MarkStale(ctx context.Context, threshold time.Duration, message string) ([]domain.Job, error) {
	interval := fmt.Sprintf("%d seconds", int(threshold.Seconds()))
	rows, err := r.sql.Query(ctx, sqlinline.QMarkStaleJobs, interval, message)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		var job domain.Job
		if err := rows.Scan(&job.ID, &job.DocumentID, &job.DocumentIDs, &job.IngestionType); err != nil {
			return nil, err
		}
		job.Status = domain.JobStatusFailed
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*domain.Job, error) {
	var (
		job       domain.Job
		cfgBytes  []byte
		result    []byte
		errMsg    *string
		startedAt *time.Time
		doneAt    *time.Time
	)
	if err := row.Scan(
		&job.ID,
		&job.Name,
		&job.Description,
		&job.Status,
		&job.IngestionType,
		&job.DocumentID,
		&job.DocumentIDs,
		&cfgBytes,
		&result,
		&errMsg,
		&job.Progress,
		&job.RetryCount,
		&job.MaxRetries,
		&startedAt,
		&doneAt,
		&job.TriggeredBy,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(cfgBytes) > 0 {
		if err := json.Unmarshal(cfgBytes, &job.Configuration); err != nil {
			return nil, fmt.Errorf("decode job configuration: %w", err)
		}
	}
	job.Result = result
	if errMsg != nil {
		job.ErrorMessage = *errMsg
	}
	job.StartedAt = startedAt
	job.CompletedAt = doneAt
	return &job, nil
}

func updateArgs(job *domain.Job) []any {
	return []any{
		job.ID,
		job.Status,
		nullableBytes(job.Result),
		nullableString(job.ErrorMessage),
		job.Progress,
		job.RetryCount,
		job.StartedAt,
		job.CompletedAt,
	}
}

func marshalConfig(cfg map[string]any) ([]byte, error) {
	if cfg == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode job configuration: %w", err)
	}
	return b, nil
}

func nullableBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
