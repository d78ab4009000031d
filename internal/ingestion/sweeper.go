package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"docman/internal/domain"
)

// StaleMarker is the slice of the job store the sweeper needs: fail
// PROCESSING jobs older than a threshold and report which jobs changed.
type StaleMarker interface {
	MarkStale(ctx context.Context, threshold time.Duration, message string) ([]domain.Job, error)
}

// Sweeper reconciles jobs left in PROCESSING by a crashed process. The
// dispatch path alone cannot recover them, so a periodic pass marks
// anything older than the threshold FAILED and mirrors ERROR onto the
// referenced documents.
type Sweeper struct {
	jobs      StaleMarker
	docs      domain.DocumentGateway
	logger    zerolog.Logger
	interval  time.Duration
	threshold time.Duration
}

func NewSweeper(jobs StaleMarker, docs domain.DocumentGateway, logger zerolog.Logger, interval, threshold time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if threshold <= 0 {
		threshold = 10 * time.Minute
	}
	return &Sweeper{jobs: jobs, docs: docs, logger: logger, interval: interval, threshold: threshold}
}

// Run sweeps on a ticker until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.interval).
		Dur("threshold", s.threshold).
		Msg("sweeper: started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logger.Error().Err(err).Msg("sweeper: pass failed")
			}
		}
	}
}

// Sweep runs one reconciliation pass.
func (s *Sweeper) Sweep(ctx context.Context) error {
	message := fmt.Sprintf("job stale: no completion recorded within %s of starting", s.threshold)
	jobs, err := s.jobs.MarkStale(ctx, s.threshold, message)
	if err != nil {
		return fmt.Errorf("mark stale jobs: %w", err)
	}
	for _, job := range jobs {
		s.logger.Warn().Str("job_id", job.ID).Msg("sweeper: failed stale job")
		for _, id := range job.References() {
			if err := s.docs.SetStatus(ctx, id, domain.DocumentStatusError); err != nil {
				s.logger.Warn().Err(err).
					Str("job_id", job.ID).
					Str("document_id", id).
					Msg("sweeper: document status mirror failed")
			}
		}
	}
	return nil
}
