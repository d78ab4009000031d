package ingestion

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"docman/internal/domain"
)

// Service owns the ingestion job lifecycle: validation, creation, async
// dispatch to the processing backend, retry, cancellation and stats. It
// holds no job state itself; the repository is the single source of
// truth and every terminal write is guarded against concurrent
// transitions.
type Service struct {
	jobs   domain.JobRepository
	docs   domain.DocumentGateway
	client domain.ProcessingClient
	logger zerolog.Logger

	dispatches sync.WaitGroup
}

func NewService(jobs domain.JobRepository, docs domain.DocumentGateway, client domain.ProcessingClient, logger zerolog.Logger) *Service {
	return &Service{
		jobs:   jobs,
		docs:   docs,
		client: client,
		logger: logger,
	}
}

// CreateSpec is the caller-supplied description of a new ingestion job.
type CreateSpec struct {
	IngestionType domain.IngestionType
	DocumentID    string
	DocumentIDs   []string
	Name          string
	Description   string
	Configuration map[string]any
}

// Create validates the spec, persists a PENDING job stamped with the
// caller id and schedules dispatch in the background. It returns before
// the backend call happens; callers observe progress by re-reading the
// job.
func (s *Service) Create(ctx context.Context, spec CreateSpec, callerID string) (*domain.Job, error) {
	if err := s.validate(ctx, spec); err != nil {
		return nil, err
	}

	job := &domain.Job{
		ID:            uuid.NewString(),
		Name:          spec.Name,
		Description:   spec.Description,
		Status:        domain.JobStatusPending,
		IngestionType: spec.IngestionType,
		DocumentID:    spec.DocumentID,
		DocumentIDs:   spec.DocumentIDs,
		Configuration: spec.Configuration,
		RetryCount:    0,
		MaxRetries:    domain.DefaultMaxRetries,
		TriggeredBy:   callerID,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("persist job: %w", err)
	}

	s.schedule(job.ID)
	return job, nil
}

func (s *Service) validate(ctx context.Context, spec CreateSpec) error {
	if spec.IngestionType == "" {
		return &domain.ValidationError{Field: "ingestion_type", Reason: "required"}
	}
	if !spec.IngestionType.Valid() {
		return &domain.ValidationError{Field: "ingestion_type", Reason: fmt.Sprintf("unrecognized type %q", spec.IngestionType)}
	}

	switch spec.IngestionType {
	case domain.IngestionTypeSingleDocument, domain.IngestionTypeReprocess:
		if spec.DocumentID == "" {
			return &domain.ValidationError{Field: "document_id", Reason: "required"}
		}
		if _, err := s.docs.Resolve(ctx, spec.DocumentID); err != nil {
			return fmt.Errorf("document %s: %w", spec.DocumentID, err)
		}
	case domain.IngestionTypeBatchDocuments:
		if len(spec.DocumentIDs) == 0 {
			return &domain.ValidationError{Field: "document_ids", Reason: "at least one document id required"}
		}
		// A batch is all-or-nothing: every id must resolve before
		// anything is persisted.
		for _, id := range spec.DocumentIDs {
			if _, err := s.docs.Resolve(ctx, id); err != nil {
				return fmt.Errorf("document %s: %w", id, err)
			}
		}
	}
	return nil
}

// Retry re-queues a FAILED job that has retries left and schedules a
// fresh dispatch. Counters and timestamps are reset as if the job were
// newly created, except retry_count which records the attempt.
func (s *Service) Retry(ctx context.Context, jobID string) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.JobStatusFailed {
		return nil, &domain.StateError{Op: "retry", Current: job.Status}
	}
	if job.RetryCount >= job.MaxRetries {
		return nil, fmt.Errorf("retry limit reached (%d/%d): %w", job.RetryCount, job.MaxRetries, domain.ErrInvalidState)
	}

	job.Status = domain.JobStatusPending
	job.ErrorMessage = ""
	job.Result = nil
	job.Progress = 0
	job.StartedAt = nil
	job.CompletedAt = nil
	job.RetryCount++

	applied, err := s.jobs.UpdateStatusIf(ctx, job, domain.JobStatusFailed)
	if err != nil {
		return nil, fmt.Errorf("persist retry: %w", err)
	}
	if !applied {
		current, gerr := s.jobs.GetByID(ctx, jobID)
		if gerr != nil {
			return nil, gerr
		}
		return nil, &domain.StateError{Op: "retry", Current: current.Status}
	}

	s.schedule(job.ID)
	return job, nil
}

// Cancel marks a PENDING or PROCESSING job CANCELLED. An in-flight
// backend call is not aborted; its completion handler will find the
// terminal state and drop its write.
func (s *Service) Cancel(ctx context.Context, jobID string) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.CanCancel() {
		return nil, &domain.StateError{Op: "cancel", Current: job.Status}
	}

	now := time.Now().UTC()
	prev := job.Status
	job.Status = domain.JobStatusCancelled
	job.CompletedAt = &now

	applied, err := s.jobs.UpdateStatusIf(ctx, job, domain.JobStatusPending, domain.JobStatusProcessing)
	if err != nil {
		return nil, fmt.Errorf("persist cancel: %w", err)
	}
	if !applied {
		// A dispatch completion beat us to a terminal state.
		current, gerr := s.jobs.GetByID(ctx, jobID)
		if gerr != nil {
			return nil, gerr
		}
		return nil, &domain.StateError{Op: "cancel", Current: current.Status}
	}

	s.logger.Info().Str("job_id", job.ID).Str("from", string(prev)).Msg("ingestion: job cancelled")
	return job, nil
}

// GetByID returns one job.
func (s *Service) GetByID(ctx context.Context, jobID string) (*domain.Job, error) {
	return s.jobs.GetByID(ctx, jobID)
}

// List returns a page of jobs plus the total matching the filter.
func (s *Service) List(ctx context.Context, filter domain.JobFilter, page, limit int) ([]domain.Job, int64, error) {
	return s.jobs.List(ctx, filter, page, limit)
}

// Stats returns aggregate counts and the average completed-job duration.
func (s *Service) Stats(ctx context.Context) (*domain.JobStats, error) {
	return s.jobs.Stats(ctx)
}

// Wait blocks until all scheduled dispatches have finished. Used by the
// server on shutdown and by tests to observe settled state.
func (s *Service) Wait() {
	s.dispatches.Wait()
}

func (s *Service) schedule(jobID string) {
	s.dispatches.Add(1)
	go func() {
		defer s.dispatches.Done()
		// Dispatch outlives the request that scheduled it.
		s.dispatch(context.Background(), jobID)
	}()
}

// dispatch drives one job through PROCESSING to a terminal state. Every
// transition re-checks the stored status, so a cancel that lands between
// steps turns the remaining writes into no-ops.
func (s *Service) dispatch(ctx context.Context, jobID string) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		s.logger.Error().Err(err).Str("job_id", jobID).Msg("ingestion: dispatch load failed")
		return
	}

	now := time.Now().UTC()
	job.Status = domain.JobStatusProcessing
	job.StartedAt = &now

	applied, err := s.jobs.UpdateStatusIf(ctx, job, domain.JobStatusPending)
	if err != nil {
		s.logger.Error().Err(err).Str("job_id", jobID).Msg("ingestion: start transition failed")
		return
	}
	if !applied {
		s.logger.Debug().Str("job_id", jobID).Msg("ingestion: job no longer pending, dispatch dropped")
		return
	}

	s.mirror(ctx, job, domain.DocumentStatusProcessing)

	payload, err := s.buildPayload(ctx, job)
	if err != nil {
		s.complete(ctx, job, nil, err)
		return
	}

	result, err := s.client.Submit(ctx, payload)
	s.complete(ctx, job, result, err)
}

func (s *Service) buildPayload(ctx context.Context, job *domain.Job) (domain.IngestPayload, error) {
	payload := domain.IngestPayload{
		JobID:         job.ID,
		IngestionType: string(job.IngestionType),
		Configuration: job.Configuration,
	}
	switch job.IngestionType {
	case domain.IngestionTypeSingleDocument, domain.IngestionTypeReprocess:
		meta, err := s.docs.Resolve(ctx, job.DocumentID)
		if err != nil {
			return payload, fmt.Errorf("resolve document %s: %w", job.DocumentID, err)
		}
		payload.Document = &domain.IngestDocument{
			ID:       meta.ID,
			Title:    meta.Title,
			FilePath: meta.FilePath,
			MimeType: meta.MimeType,
			FileSize: meta.FileSize,
		}
	case domain.IngestionTypeBatchDocuments:
		// Per-document metadata for batches is not resolved; the backend
		// receives only the job-level fields.
	}
	return payload, nil
}

// complete records the dispatch outcome. The write is guarded on
// PROCESSING: if a concurrent cancel already moved the job to a terminal
// state the outcome is discarded and documents stay untouched.
func (s *Service) complete(ctx context.Context, job *domain.Job, result []byte, dispatchErr error) {
	now := time.Now().UTC()
	job.CompletedAt = &now

	if dispatchErr != nil {
		job.Status = domain.JobStatusFailed
		job.ErrorMessage = dispatchErr.Error()
	} else {
		job.Status = domain.JobStatusCompleted
		job.Progress = 100
		job.Result = result
	}

	applied, err := s.jobs.UpdateStatusIf(ctx, job, domain.JobStatusProcessing)
	if err != nil {
		s.logger.Error().Err(err).Str("job_id", job.ID).Msg("ingestion: completion write failed")
		return
	}
	if !applied {
		s.logger.Debug().Str("job_id", job.ID).Msg("ingestion: job already terminal, outcome dropped")
		return
	}

	if dispatchErr != nil {
		s.logger.Error().Err(dispatchErr).Str("job_id", job.ID).Msg("ingestion: job failed")
		s.mirror(ctx, job, domain.DocumentStatusError)
		return
	}
	s.logger.Info().Str("job_id", job.ID).Msg("ingestion: job completed")
	s.mirror(ctx, job, domain.DocumentStatusProcessed)
}

// mirror propagates a job transition onto the referenced documents.
// Failures are logged and swallowed; document status is best effort and
// never rolls back job state.
func (s *Service) mirror(ctx context.Context, job *domain.Job, status domain.DocumentStatus) {
	for _, id := range job.References() {
		if err := s.docs.SetStatus(ctx, id, status); err != nil {
			s.logger.Warn().Err(err).
				Str("job_id", job.ID).
				Str("document_id", id).
				Str("status", string(status)).
				Msg("ingestion: document status mirror failed")
		}
	}
}
