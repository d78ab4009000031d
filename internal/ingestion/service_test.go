package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"docman/internal/domain"
)

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*domain.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]*domain.Job)}
}

func cloneJob(j *domain.Job) *domain.Job {
	c := *j
	if j.StartedAt != nil {
		t := *j.StartedAt
		c.StartedAt = &t
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

func (r *fakeJobRepo) Create(_ context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	r.jobs[job.ID] = cloneJob(job)
	return nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, jobID string) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneJob(job), nil
}

func (r *fakeJobRepo) UpdateStatusIf(_ context.Context, job *domain.Job, expected ...domain.JobStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.jobs[job.ID]
	if !ok {
		return false, nil
	}
	matched := false
	for _, s := range expected {
		if stored.Status == s {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	job.UpdatedAt = time.Now().UTC()
	r.jobs[job.ID] = cloneJob(job)
	return true, nil
}

func (r *fakeJobRepo) List(_ context.Context, filter domain.JobFilter, page, limit int) ([]domain.Job, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []domain.Job
	for _, job := range r.jobs {
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		if filter.IngestionType != "" && job.IngestionType != filter.IngestionType {
			continue
		}
		if filter.TriggeredBy != "" && job.TriggeredBy != filter.TriggeredBy {
			continue
		}
		all = append(all, *cloneJob(job))
	}
	total := int64(len(all))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeJobRepo) Stats(_ context.Context) (*domain.JobStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &domain.JobStats{
		ByStatus: make(map[domain.JobStatus]int64),
		ByType:   make(map[domain.IngestionType]int64),
	}
	var sum time.Duration
	var completed int64
	for _, job := range r.jobs {
		stats.Total++
		stats.ByStatus[job.Status]++
		stats.ByType[job.IngestionType]++
		if job.Status == domain.JobStatusCompleted && job.StartedAt != nil && job.CompletedAt != nil {
			sum += job.CompletedAt.Sub(*job.StartedAt)
			completed++
		}
	}
	if completed > 0 {
		stats.AverageDuration = sum / time.Duration(completed)
	}
	return stats, nil
}

func (r *fakeJobRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}

func (r *fakeJobRepo) seed(job *domain.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = cloneJob(job)
}

type fakeGateway struct {
	mu      sync.Mutex
	docs    map[string]*domain.DocumentMeta
	history map[string][]domain.DocumentStatus
	setErr  error
}

func newFakeGateway(docs ...*domain.DocumentMeta) *fakeGateway {
	g := &fakeGateway{
		docs:    make(map[string]*domain.DocumentMeta),
		history: make(map[string][]domain.DocumentStatus),
	}
	for _, d := range docs {
		g.docs[d.ID] = d
	}
	return g
}

func (g *fakeGateway) Resolve(_ context.Context, documentID string) (*domain.DocumentMeta, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	doc, ok := g.docs[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *doc
	return &c, nil
}

func (g *fakeGateway) SetStatus(_ context.Context, documentID string, status domain.DocumentStatus) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.setErr != nil {
		return g.setErr
	}
	doc, ok := g.docs[documentID]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Status = status
	g.history[documentID] = append(g.history[documentID], status)
	return nil
}

func (g *fakeGateway) statusOf(documentID string) domain.DocumentStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	if doc, ok := g.docs[documentID]; ok {
		return doc.Status
	}
	return ""
}

type fakeClient struct {
	mu       sync.Mutex
	payloads []domain.IngestPayload
	submit   func(ctx context.Context, payload domain.IngestPayload) ([]byte, error)
}

func (c *fakeClient) Submit(ctx context.Context, payload domain.IngestPayload) ([]byte, error) {
	c.mu.Lock()
	c.payloads = append(c.payloads, payload)
	submit := c.submit
	c.mu.Unlock()
	if submit == nil {
		return []byte(`{"status":"accepted"}`), nil
	}
	return submit(ctx, payload)
}

func (c *fakeClient) lastPayload() (domain.IngestPayload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.payloads) == 0 {
		return domain.IngestPayload{}, false
	}
	return c.payloads[len(c.payloads)-1], true
}

func uploadedDoc(id string) *domain.DocumentMeta {
	return &domain.DocumentMeta{
		ID:       id,
		Title:    "quarterly report",
		FilePath: "/data/" + id + ".pdf",
		MimeType: "application/pdf",
		FileSize: 2048,
		Status:   domain.DocumentStatusUploaded,
	}
}

func newTestService(repo *fakeJobRepo, gateway *fakeGateway, client *fakeClient) *Service {
	return NewService(repo, gateway, client, zerolog.Nop())
}

func TestCreateSingleDocumentCompletes(t *testing.T) {
	repo := newFakeJobRepo()
	gateway := newFakeGateway(uploadedDoc("d1"))
	client := &fakeClient{}
	svc := newTestService(repo, gateway, client)

	job, err := svc.Create(context.Background(), CreateSpec{
		IngestionType: domain.IngestionTypeSingleDocument,
		DocumentID:    "d1",
		Name:          "ingest d1",
		Configuration: map[string]any{"ocr": true},
	}, "user-1")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if job.Status != domain.JobStatusPending {
		t.Fatalf("new job status: got %s want PENDING", job.Status)
	}
	if job.RetryCount != 0 {
		t.Fatalf("new job retry count: got %d want 0", job.RetryCount)
	}
	if job.MaxRetries != domain.DefaultMaxRetries {
		t.Fatalf("new job max retries: got %d want %d", job.MaxRetries, domain.DefaultMaxRetries)
	}
	if job.TriggeredBy != "user-1" {
		t.Fatalf("triggered by: got %q", job.TriggeredBy)
	}

	svc.Wait()

	settled, err := svc.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if settled.Status != domain.JobStatusCompleted {
		t.Fatalf("settled status: got %s want COMPLETED (error: %q)", settled.Status, settled.ErrorMessage)
	}
	if settled.Progress != 100 {
		t.Fatalf("progress: got %d want 100", settled.Progress)
	}
	if len(settled.Result) == 0 {
		t.Fatal("expected result payload on completed job")
	}
	if settled.StartedAt == nil || settled.CompletedAt == nil {
		t.Fatal("expected both timestamps on completed job")
	}
	if settled.CompletedAt.Before(*settled.StartedAt) {
		t.Fatalf("completed_at %v before started_at %v", settled.CompletedAt, settled.StartedAt)
	}
	if got := gateway.statusOf("d1"); got != domain.DocumentStatusProcessed {
		t.Fatalf("document status: got %s want PROCESSED", got)
	}

	payload, ok := client.lastPayload()
	if !ok {
		t.Fatal("expected a backend call")
	}
	if payload.JobID != job.ID || payload.IngestionType != "SINGLE_DOCUMENT" {
		t.Fatalf("payload mismatch: %+v", payload)
	}
	if payload.Document == nil || payload.Document.ID != "d1" || payload.Document.MimeType != "application/pdf" {
		t.Fatalf("payload document mismatch: %+v", payload.Document)
	}
}

func TestCreateRejectsUnrecognizedType(t *testing.T) {
	repo := newFakeJobRepo()
	svc := newTestService(repo, newFakeGateway(), &fakeClient{})

	_, err := svc.Create(context.Background(), CreateSpec{IngestionType: "invalid_type"}, "user-1")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.count() != 0 {
		t.Fatal("no job row must be created when validation fails")
	}
}

func TestCreateRejectsMissingType(t *testing.T) {
	svc := newTestService(newFakeJobRepo(), newFakeGateway(), &fakeClient{})
	_, err := svc.Create(context.Background(), CreateSpec{}, "user-1")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateSingleDocumentRequiresDocumentID(t *testing.T) {
	svc := newTestService(newFakeJobRepo(), newFakeGateway(), &fakeClient{})
	_, err := svc.Create(context.Background(), CreateSpec{IngestionType: domain.IngestionTypeSingleDocument}, "user-1")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateSingleDocumentUnknownDocument(t *testing.T) {
	repo := newFakeJobRepo()
	svc := newTestService(repo, newFakeGateway(), &fakeClient{})

	_, err := svc.Create(context.Background(), CreateSpec{
		IngestionType: domain.IngestionTypeSingleDocument,
		DocumentID:    "missing",
	}, "user-1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if repo.count() != 0 {
		t.Fatal("no job row must be created for an unresolvable document")
	}
}

func TestCreateBatchRequiresDocumentIDs(t *testing.T) {
	svc := newTestService(newFakeJobRepo(), newFakeGateway(), &fakeClient{})
	_, err := svc.Create(context.Background(), CreateSpec{IngestionType: domain.IngestionTypeBatchDocuments}, "user-1")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateBatchAllOrNothing(t *testing.T) {
	repo := newFakeJobRepo()
	gateway := newFakeGateway(uploadedDoc("d1"), uploadedDoc("d2"))
	svc := newTestService(repo, gateway, &fakeClient{})

	_, err := svc.Create(context.Background(), CreateSpec{
		IngestionType: domain.IngestionTypeBatchDocuments,
		DocumentIDs:   []string{"d1", "d2", "ghost"},
	}, "user-1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if repo.count() != 0 {
		t.Fatal("a partially valid batch must not be persisted")
	}
}

func TestBatchPayloadCarriesNoDocumentMetadata(t *testing.T) {
	gateway := newFakeGateway(uploadedDoc("d1"), uploadedDoc("d2"))
	client := &fakeClient{}
	svc := newTestService(newFakeJobRepo(), gateway, client)

	_, err := svc.Create(context.Background(), CreateSpec{
		IngestionType: domain.IngestionTypeBatchDocuments,
		DocumentIDs:   []string{"d1", "d2"},
	}, "user-1")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	svc.Wait()

	payload, ok := client.lastPayload()
	if !ok {
		t.Fatal("expected a backend call")
	}
	if payload.Document != nil || len(payload.Documents) != 0 {
		t.Fatalf("batch payload must not resolve document metadata: %+v", payload)
	}
}

func TestDispatchFailureRecordsErrorAndMirrors(t *testing.T) {
	repo := newFakeJobRepo()
	gateway := newFakeGateway(uploadedDoc("d1"))
	client := &fakeClient{submit: func(context.Context, domain.IngestPayload) ([]byte, error) {
		return nil, errors.New("processing request timed out after 30s")
	}}
	svc := newTestService(repo, gateway, client)

	job, err := svc.Create(context.Background(), CreateSpec{
		IngestionType: domain.IngestionTypeSingleDocument,
		DocumentID:    "d1",
	}, "user-1")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	svc.Wait()

	settled, _ := svc.GetByID(context.Background(), job.ID)
	if settled.Status != domain.JobStatusFailed {
		t.Fatalf("settled status: got %s want FAILED", settled.Status)
	}
	if !strings.Contains(settled.ErrorMessage, "timed out") {
		t.Fatalf("error message: got %q", settled.ErrorMessage)
	}
	if settled.RetryCount != 0 {
		t.Fatalf("failed dispatch must not consume retries, got %d", settled.RetryCount)
	}
	if settled.CompletedAt == nil {
		t.Fatal("failed job must carry completed_at")
	}
	if got := gateway.statusOf("d1"); got != domain.DocumentStatusError {
		t.Fatalf("document status: got %s want ERROR", got)
	}
}

func TestRetryResetsFailedJob(t *testing.T) {
	repo := newFakeJobRepo()
	gateway := newFakeGateway(uploadedDoc("d1"))
	client := &fakeClient{submit: func(context.Context, domain.IngestPayload) ([]byte, error) {
		return nil, errors.New("connection refused")
	}}
	svc := newTestService(repo, gateway, client)

	job, err := svc.Create(context.Background(), CreateSpec{
		IngestionType: domain.IngestionTypeSingleDocument,
		DocumentID:    "d1",
	}, "user-1")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	svc.Wait()
	failed, _ := svc.GetByID(context.Background(), job.ID)

	retried, err := svc.Retry(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("Retry returned error: %v", err)
	}
	if retried.Status != domain.JobStatusPending {
		t.Fatalf("retried status: got %s want PENDING", retried.Status)
	}
	if retried.UpdatedAt.Before(failed.UpdatedAt) {
		t.Fatalf("retried UpdatedAt %v predates the stored row %v", retried.UpdatedAt, failed.UpdatedAt)
	}
	if retried.RetryCount != 1 {
		t.Fatalf("retry count: got %d want 1", retried.RetryCount)
	}
	if retried.ErrorMessage != "" {
		t.Fatalf("error message must be cleared, got %q", retried.ErrorMessage)
	}
	if retried.StartedAt != nil || retried.CompletedAt != nil {
		t.Fatal("timestamps must be reset on retry")
	}
	if retried.Progress != 0 {
		t.Fatalf("progress must be reset, got %d", retried.Progress)
	}

	svc.Wait()
	settled, _ := svc.GetByID(context.Background(), job.ID)
	if settled.Status != domain.JobStatusFailed {
		t.Fatalf("re-dispatched job status: got %s want FAILED", settled.Status)
	}
	if settled.RetryCount != 1 {
		t.Fatalf("retry count after re-dispatch: got %d want 1", settled.RetryCount)
	}
}

func TestRetryRefusedWhenExhausted(t *testing.T) {
	repo := newFakeJobRepo()
	repo.seed(&domain.Job{
		ID:            "j1",
		Status:        domain.JobStatusFailed,
		IngestionType: domain.IngestionTypeSingleDocument,
		DocumentID:    "d1",
		RetryCount:    domain.DefaultMaxRetries,
		MaxRetries:    domain.DefaultMaxRetries,
	})
	svc := newTestService(repo, newFakeGateway(), &fakeClient{})

	_, err := svc.Retry(context.Background(), "j1")
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid-state error, got %v", err)
	}
}

func TestRetryRefusedOutsideFailed(t *testing.T) {
	repo := newFakeJobRepo()
	repo.seed(&domain.Job{
		ID:            "j1",
		Status:        domain.JobStatusCompleted,
		IngestionType: domain.IngestionTypeSingleDocument,
		MaxRetries:    domain.DefaultMaxRetries,
	})
	svc := newTestService(repo, newFakeGateway(), &fakeClient{})

	_, err := svc.Retry(context.Background(), "j1")
	var stateErr *domain.StateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("expected StateError, got %v", err)
	}
	if stateErr.Current != domain.JobStatusCompleted {
		t.Fatalf("StateError current: got %s want COMPLETED", stateErr.Current)
	}
}

func TestCancelPendingJob(t *testing.T) {
	repo := newFakeJobRepo()
	repo.seed(&domain.Job{
		ID:            "j1",
		Status:        domain.JobStatusPending,
		IngestionType: domain.IngestionTypeSingleDocument,
		DocumentID:    "d1",
		MaxRetries:    domain.DefaultMaxRetries,
	})
	svc := newTestService(repo, newFakeGateway(), &fakeClient{})

	cancelled, err := svc.Cancel(context.Background(), "j1")
	if err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if cancelled.Status != domain.JobStatusCancelled {
		t.Fatalf("status: got %s want CANCELLED", cancelled.Status)
	}
	if cancelled.CompletedAt == nil {
		t.Fatal("cancelled job must carry completed_at")
	}
}

func TestCancelRefusedOnTerminalJob(t *testing.T) {
	repo := newFakeJobRepo()
	repo.seed(&domain.Job{
		ID:            "j1",
		Status:        domain.JobStatusCompleted,
		IngestionType: domain.IngestionTypeSingleDocument,
		MaxRetries:    domain.DefaultMaxRetries,
	})
	svc := newTestService(repo, newFakeGateway(), &fakeClient{})

	_, err := svc.Cancel(context.Background(), "j1")
	var stateErr *domain.StateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("expected StateError, got %v", err)
	}
	if stateErr.Current != domain.JobStatusCompleted {
		t.Fatalf("StateError current: got %s", stateErr.Current)
	}
}

func TestCancelUnknownJob(t *testing.T) {
	svc := newTestService(newFakeJobRepo(), newFakeGateway(), &fakeClient{})
	if _, err := svc.Cancel(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

// A cancel racing an in-flight dispatch must yield exactly one terminal
// state: the completion handler re-checks status and drops its write.
func TestCancelWinsOverInflightCompletion(t *testing.T) {
	repo := newFakeJobRepo()
	gateway := newFakeGateway(uploadedDoc("d1"))

	inFlight := make(chan struct{})
	release := make(chan struct{})
	client := &fakeClient{submit: func(ctx context.Context, _ domain.IngestPayload) ([]byte, error) {
		close(inFlight)
		<-release
		return []byte(`{"status":"accepted"}`), nil
	}}
	svc := newTestService(repo, gateway, client)

	job, err := svc.Create(context.Background(), CreateSpec{
		IngestionType: domain.IngestionTypeSingleDocument,
		DocumentID:    "d1",
	}, "user-1")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	select {
	case <-inFlight:
	case <-time.After(5 * time.Second):
		t.Fatal("dispatch never reached the backend")
	}

	if _, err := svc.Cancel(context.Background(), job.ID); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}

	close(release)
	svc.Wait()

	settled, _ := svc.GetByID(context.Background(), job.ID)
	if settled.Status != domain.JobStatusCancelled {
		t.Fatalf("terminal status: got %s want CANCELLED", settled.Status)
	}
	if settled.Progress == 100 || len(settled.Result) != 0 {
		t.Fatal("completion outcome must be dropped after cancel")
	}
	if got := gateway.statusOf("d1"); got == domain.DocumentStatusProcessed {
		t.Fatal("document must not mirror PROCESSED after cancel")
	}
}

func TestMirrorFailureDoesNotFailJob(t *testing.T) {
	repo := newFakeJobRepo()
	gateway := newFakeGateway(uploadedDoc("d1"))
	gateway.setErr = errors.New("document service down")
	svc := newTestService(repo, gateway, &fakeClient{})

	job, err := svc.Create(context.Background(), CreateSpec{
		IngestionType: domain.IngestionTypeSingleDocument,
		DocumentID:    "d1",
	}, "user-1")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	svc.Wait()

	settled, _ := svc.GetByID(context.Background(), job.ID)
	if settled.Status != domain.JobStatusCompleted {
		t.Fatalf("job must complete despite mirror failures, got %s", settled.Status)
	}
}

func TestStatsAverageDuration(t *testing.T) {
	repo := newFakeJobRepo()
	svc := newTestService(repo, newFakeGateway(), &fakeClient{})

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.AverageDuration != 0 {
		t.Fatalf("average over zero completed jobs: got %v want 0", stats.AverageDuration)
	}

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	done := started.Add(5 * time.Second)
	repo.seed(&domain.Job{
		ID:            "j1",
		Status:        domain.JobStatusCompleted,
		IngestionType: domain.IngestionTypeSingleDocument,
		StartedAt:     &started,
		CompletedAt:   &done,
		MaxRetries:    domain.DefaultMaxRetries,
	})
	repo.seed(&domain.Job{
		ID:            "j2",
		Status:        domain.JobStatusFailed,
		IngestionType: domain.IngestionTypeSingleDocument,
		MaxRetries:    domain.DefaultMaxRetries,
	})

	stats, err = svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.AverageDuration != 5*time.Second {
		t.Fatalf("average duration: got %v want 5s", stats.AverageDuration)
	}
	if stats.Total != 2 {
		t.Fatalf("total: got %d want 2", stats.Total)
	}
	if stats.ByStatus[domain.JobStatusCompleted] != 1 || stats.ByStatus[domain.JobStatusFailed] != 1 {
		t.Fatalf("by-status mismatch: %#v", stats.ByStatus)
	}
}

func TestListFiltersByCaller(t *testing.T) {
	repo := newFakeJobRepo()
	for i := 0; i < 3; i++ {
		repo.seed(&domain.Job{
			ID:            fmt.Sprintf("j%d", i),
			Status:        domain.JobStatusPending,
			IngestionType: domain.IngestionTypeSingleDocument,
			TriggeredBy:   "user-1",
			MaxRetries:    domain.DefaultMaxRetries,
		})
	}
	repo.seed(&domain.Job{
		ID:            "other",
		Status:        domain.JobStatusPending,
		IngestionType: domain.IngestionTypeSingleDocument,
		TriggeredBy:   "user-2",
		MaxRetries:    domain.DefaultMaxRetries,
	})
	svc := newTestService(repo, newFakeGateway(), &fakeClient{})

	jobs, total, err := svc.List(context.Background(), domain.JobFilter{TriggeredBy: "user-1"}, 1, 2)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 3 {
		t.Fatalf("total: got %d want 3", total)
	}
	if len(jobs) != 2 {
		t.Fatalf("page size: got %d want 2", len(jobs))
	}
}
