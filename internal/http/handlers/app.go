package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"docman/internal/domain"
	"docman/internal/ingestion"
)

// IngestionService is the slice of the job manager the HTTP layer needs.
type IngestionService interface {
	Create(ctx context.Context, spec ingestion.CreateSpec, callerID string) (*domain.Job, error)
	GetByID(ctx context.Context, jobID string) (*domain.Job, error)
	List(ctx context.Context, filter domain.JobFilter, page, limit int) ([]domain.Job, int64, error)
	Retry(ctx context.Context, jobID string) (*domain.Job, error)
	Cancel(ctx context.Context, jobID string) (*domain.Job, error)
	Stats(ctx context.Context) (*domain.JobStats, error)
}

type App struct {
	Ingestion IngestionService
	Logger    zerolog.Logger
}

func NewApp(svc IngestionService, logger zerolog.Logger) *App {
	return &App{Ingestion: svc, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]any{"code": code, "message": message},
	})
}

// domainError translates core errors into HTTP responses. StateError
// responses include the job's current status for diagnosis.
func (a *App) domainError(w http.ResponseWriter, err error) {
	var stateErr *domain.StateError
	switch {
	case errors.As(err, &stateErr):
		a.json(w, http.StatusConflict, map[string]any{
			"error": map[string]any{
				"code":           "invalid_state",
				"message":        stateErr.Error(),
				"current_status": stateErr.Current,
			},
		})
	case errors.Is(err, domain.ErrInvalidState):
		a.error(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrValidation):
		a.error(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		a.Logger.Error().Err(err).Msg("http: internal error")
		a.error(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}
