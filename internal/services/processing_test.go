package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hirescreen/hirescreen-backend/internal/ingestion"
	"github.com/hirescreen/hirescreen-backend/internal/platform/apierr"
	"github.com/hirescreen/hirescreen-backend/internal/platform/logger"
	"github.com/hirescreen/hirescreen-backend/internal/screening"
	"github.com/hirescreen/hirescreen-backend/internal/types"
)

type memRunRepo struct {
	mu   sync.Mutex
	runs map[uuid.UUID]*types.ProcessingRun
}

func newMemRunRepo() *memRunRepo {
	return &memRunRepo{runs: map[uuid.UUID]*types.ProcessingRun{}}
}

func (m *memRunRepo) Create(ctx context.Context, tx *gorm.DB, run *types.ProcessingRun) (*types.ProcessingRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.Status == "" {
		run.Status = types.RunStatusQueued
	}
	copied := *run
	m.runs[run.ID] = &copied
	return run, nil
}

func (m *memRunRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProcessingRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, apierr.ErrNotFound
	}
	copied := *run
	return &copied, nil
}

func (m *memRunRepo) SetProgress(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string, progress int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if run, ok := m.runs[id]; ok {
		run.Status = status
		run.Progress = progress
	}
	return nil
}

func (m *memRunRepo) SetError(ctx context.Context, tx *gorm.DB, id uuid.UUID, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if run, ok := m.runs[id]; ok {
		run.Status = types.RunStatusError
		run.ErrorMessage = message
	}
	return nil
}

type fakeCandidateService struct {
	candidate *types.Candidate
	enriched  bool
}

func (f *fakeCandidateService) Create(ctx context.Context, input CreateCandidateInput) (*types.Candidate, error) {
	return f.candidate, nil
}

func (f *fakeCandidateService) GetByID(ctx context.Context, id uuid.UUID) (*types.Candidate, error) {
	return f.candidate, nil
}

func (f *fakeCandidateService) FindOrCreate(ctx context.Context, input CreateCandidateInput) (*types.Candidate, error) {
	return f.candidate, nil
}

func (f *fakeCandidateService) EnrichFromResume(ctx context.Context, candidateID uuid.UUID, resumeText string) error {
	f.enriched = true
	return nil
}

func (f *fakeCandidateService) UploadResume(ctx context.Context, candidateID uuid.UUID, title, text string) (*ingestion.IngestResult, error) {
	return nil, errors.New("not used in this test")
}

type fakeIngestor struct {
	err   error
	calls int
}

func (f *fakeIngestor) IngestResume(ctx context.Context, candidateID uuid.UUID, title, text string) (*ingestion.IngestResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &ingestion.IngestResult{DocumentID: uuid.New(), Version: 1, ChunkCount: 3, EmbeddedCount: 3}, nil
}

func (f *fakeIngestor) IngestJD(ctx context.Context, jobID uuid.UUID, title, text string) (*ingestion.IngestResult, error) {
	return nil, errors.New("not used in this test")
}

type fakeEngine struct {
	err   error
	calls int
}

func (f *fakeEngine) Screen(ctx context.Context, jobID, candidateID uuid.UUID) (*screening.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &screening.Result{ScreeningID: uuid.New(), FitScore: 0.66, Recommendation: "Hire"}, nil
}

func waitForRun(t *testing.T, repo *memRunRepo, id uuid.UUID, terminal ...string) *types.ProcessingRun {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		run, err := repo.GetByID(context.Background(), nil, id)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		for _, status := range terminal {
			if run.Status == status {
				return run
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("run %s never reached %v", id, terminal)
	return nil
}

func TestProcessResumeHappyPath(t *testing.T) {
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	runs := newMemRunRepo()
	candidates := &fakeCandidateService{candidate: &types.Candidate{ID: uuid.New(), FullName: "Jane Roe"}}
	ingestor := &fakeIngestor{}
	engine := &fakeEngine{}

	svc := NewProcessingService(runs, candidates, ingestor, engine, log)
	run, err := svc.ProcessResume(context.Background(), ProcessResumeInput{
		JobID: uuid.New(),
		Title: "Jane Roe Resume",
		Text:  "Experience\nShipped Go services for 4 years",
	})
	if err != nil {
		t.Fatalf("ProcessResume: %v", err)
	}
	if run.Status != types.RunStatusQueued {
		t.Fatalf("initial status: want=%q got=%q", types.RunStatusQueued, run.Status)
	}
	if run.CandidateID != candidates.candidate.ID {
		t.Fatalf("run candidate: want=%s got=%s", candidates.candidate.ID, run.CandidateID)
	}

	done := waitForRun(t, runs, run.ID, types.RunStatusDone, types.RunStatusError)
	if done.Status != types.RunStatusDone {
		t.Fatalf("final status: want=done got=%q (%s)", done.Status, done.ErrorMessage)
	}
	if done.Progress != 100 {
		t.Fatalf("final progress: want=100 got=%d", done.Progress)
	}
	if ingestor.calls != 1 || engine.calls != 1 {
		t.Fatalf("pipeline calls: ingest=%d screen=%d", ingestor.calls, engine.calls)
	}
	if !candidates.enriched {
		t.Fatalf("candidate enrichment never ran")
	}
}

func TestProcessResumeIngestFailureRecordsError(t *testing.T) {
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	runs := newMemRunRepo()
	candidates := &fakeCandidateService{candidate: &types.Candidate{ID: uuid.New()}}
	ingestor := &fakeIngestor{err: errors.New("gateway down")}
	engine := &fakeEngine{}

	svc := NewProcessingService(runs, candidates, ingestor, engine, log)
	run, err := svc.ProcessResume(context.Background(), ProcessResumeInput{
		JobID: uuid.New(),
		Title: "Resume",
		Text:  "Skills\nGo",
	})
	if err != nil {
		t.Fatalf("ProcessResume: %v", err)
	}

	failed := waitForRun(t, runs, run.ID, types.RunStatusDone, types.RunStatusError)
	if failed.Status != types.RunStatusError {
		t.Fatalf("final status: want=error got=%q", failed.Status)
	}
	if failed.ErrorMessage == "" {
		t.Fatalf("error message not recorded")
	}
	if engine.calls != 0 {
		t.Fatalf("screening should not run after ingest failure, got %d calls", engine.calls)
	}
}

func TestProcessResumeValidatesInput(t *testing.T) {
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	svc := NewProcessingService(newMemRunRepo(), &fakeCandidateService{}, &fakeIngestor{}, &fakeEngine{}, log)

	if _, err := svc.ProcessResume(context.Background(), ProcessResumeInput{Title: "x", Text: "y"}); !errors.Is(err, apierr.ErrInvalidInput) {
		t.Fatalf("missing job id: want ErrInvalidInput, got %v", err)
	}
	if _, err := svc.ProcessResume(context.Background(), ProcessResumeInput{JobID: uuid.New(), Text: "  "}); !errors.Is(err, apierr.ErrInvalidInput) {
		t.Fatalf("empty text: want ErrInvalidInput, got %v", err)
	}
}
