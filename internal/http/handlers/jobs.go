package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"docman/internal/domain"
	"docman/internal/ingestion"
	"docman/internal/middleware"
)

type createJobRequest struct {
	IngestionType string         `json:"ingestion_type"`
	DocumentID    string         `json:"document_id"`
	DocumentIDs   []string       `json:"document_ids"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Configuration map[string]any `json:"configuration"`
}

func (a *App) JobsCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing caller identity")
		return
	}
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	job, err := a.Ingestion.Create(r.Context(), ingestion.CreateSpec{
		IngestionType: domain.IngestionType(req.IngestionType),
		DocumentID:    req.DocumentID,
		DocumentIDs:   req.DocumentIDs,
		Name:          req.Name,
		Description:   req.Description,
		Configuration: req.Configuration,
	}, identity.ID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusAccepted, renderJob(job))
}

func (a *App) JobsList(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing caller identity")
		return
	}

	q := r.URL.Query()
	page := parsePositive(q.Get("page"), 1)
	limit := parsePositive(q.Get("limit"), 10)
	if limit > 100 {
		limit = 100
	}

	filter := domain.JobFilter{
		Status:        domain.JobStatus(q.Get("status")),
		IngestionType: domain.IngestionType(q.Get("type")),
	}
	if q.Get("mine") == "true" {
		filter.TriggeredBy = identity.ID
	}

	jobs, total, err := a.Ingestion.List(r.Context(), filter, page, limit)
	if err != nil {
		a.domainError(w, err)
		return
	}

	items := make([]map[string]any, 0, len(jobs))
	for i := range jobs {
		items = append(items, renderJob(&jobs[i]))
	}
	a.json(w, http.StatusOK, map[string]any{
		"items": items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (a *App) JobsGet(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	job, err := a.Ingestion.GetByID(r.Context(), jobID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, renderJob(job))
}

func (a *App) JobsRetry(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	job, err := a.Ingestion.Retry(r.Context(), jobID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusAccepted, renderJob(job))
}

func (a *App) JobsCancel(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	job, err := a.Ingestion.Cancel(r.Context(), jobID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, renderJob(job))
}

func (a *App) JobsStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Ingestion.Stats(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"total":               stats.Total,
		"by_status":           stats.ByStatus,
		"by_type":             stats.ByType,
		"average_duration_ms": stats.AverageDuration.Milliseconds(),
	})
}

func renderJob(job *domain.Job) map[string]any {
	out := map[string]any{
		"id":             job.ID,
		"name":           job.Name,
		"description":    job.Description,
		"status":         job.Status,
		"ingestion_type": job.IngestionType,
		"configuration":  job.Configuration,
		"error_message":  job.ErrorMessage,
		"progress":       job.Progress,
		"retry_count":    job.RetryCount,
		"max_retries":    job.MaxRetries,
		"triggered_by":   job.TriggeredBy,
		"started_at":     renderTime(job.StartedAt),
		"completed_at":   renderTime(job.CompletedAt),
		"created_at":     job.CreatedAt,
		"updated_at":     job.UpdatedAt,
	}
	if job.DocumentID != "" {
		out["document_id"] = job.DocumentID
	}
	if len(job.DocumentIDs) > 0 {
		out["document_ids"] = job.DocumentIDs
	}
	if len(job.Result) > 0 {
		out["result"] = json.RawMessage(job.Result)
	}
	return out
}

func renderTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t
}

func parsePositive(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
