package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hirescreen/hirescreen-backend/internal/ingestion"
	"github.com/hirescreen/hirescreen-backend/internal/platform/apierr"
	"github.com/hirescreen/hirescreen-backend/internal/platform/logger"
	"github.com/hirescreen/hirescreen-backend/internal/repos"
	"github.com/hirescreen/hirescreen-backend/internal/screening"
	"github.com/hirescreen/hirescreen-backend/internal/types"
)

// processTimeout bounds one detached ingest-and-screen run.
const processTimeout = 10 * time.Minute

type ProcessResumeInput struct {
	JobID     uuid.UUID
	Title     string
	Text      string
	Candidate CreateCandidateInput
}

type ProcessingService interface {
	// ProcessResume matches or creates the candidate, queues a run and
	// returns immediately; ingestion and screening continue in the
	// background with progress written to the run row.
	ProcessResume(ctx context.Context, input ProcessResumeInput) (*types.ProcessingRun, error)
	GetRun(ctx context.Context, id uuid.UUID) (*types.ProcessingRun, error)
}

type processingService struct {
	runs       repos.ProcessingRunRepo
	candidates CandidateService
	ingestor   ingestion.Ingestor
	engine     screening.Engine
	log        *logger.Logger
}

func NewProcessingService(
	runs repos.ProcessingRunRepo,
	candidates CandidateService,
	ingestor ingestion.Ingestor,
	engine screening.Engine,
	baseLog *logger.Logger,
) ProcessingService {
	return &processingService{
		runs:       runs,
		candidates: candidates,
		ingestor:   ingestor,
		engine:     engine,
		log:        baseLog.With("service", "ProcessingService"),
	}
}

func (s *processingService) ProcessResume(ctx context.Context, input ProcessResumeInput) (*types.ProcessingRun, error) {
	if input.JobID == uuid.Nil {
		return nil, fmt.Errorf("job_id is required: %w", apierr.ErrInvalidInput)
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, fmt.Errorf("resume text is empty: %w", apierr.ErrInvalidInput)
	}

	candidate, err := s.candidates.FindOrCreate(ctx, input.Candidate)
	if err != nil {
		return nil, err
	}

	run, err := s.runs.Create(ctx, nil, &types.ProcessingRun{
		JobID:       input.JobID,
		CandidateID: candidate.ID,
		Status:      types.RunStatusQueued,
	})
	if err != nil {
		return nil, err
	}

	// Detached from the request: the caller polls the run row instead.
	go s.process(run.ID, input.JobID, candidate.ID, input.Title, input.Text)

	return run, nil
}

func (s *processingService) GetRun(ctx context.Context, id uuid.UUID) (*types.ProcessingRun, error) {
	return s.runs.GetByID(ctx, nil, id)
}

func (s *processingService) process(runID, jobID, candidateID uuid.UUID, title, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	fail := func(stage string, err error) {
		s.log.Error("resume processing failed", "run_id", runID, "stage", stage, "error", err)
		if setErr := s.runs.SetError(ctx, nil, runID, err.Error()); setErr != nil {
			s.log.Error("run error not recorded", "run_id", runID, "error", setErr)
		}
	}

	if err := s.runs.SetProgress(ctx, nil, runID, types.RunStatusRunning, 10); err != nil {
		fail("start", err)
		return
	}

	if err := s.candidates.EnrichFromResume(ctx, candidateID, text); err != nil {
		// Enrichment is best-effort; the pipeline still has the raw text.
		s.log.Warn("candidate enrichment skipped", "run_id", runID, "error", err)
	}

	if _, err := s.ingestor.IngestResume(ctx, candidateID, title, text); err != nil {
		fail("ingest", err)
		return
	}
	if err := s.runs.SetProgress(ctx, nil, runID, types.RunStatusRunning, 60); err != nil {
		fail("ingest", err)
		return
	}

	result, err := s.engine.Screen(ctx, jobID, candidateID)
	if err != nil {
		fail("screen", err)
		return
	}
	if err := s.runs.SetProgress(ctx, nil, runID, types.RunStatusDone, 100); err != nil {
		fail("finish", err)
		return
	}

	s.log.Info("resume processed",
		"run_id", runID,
		"job_id", jobID,
		"candidate_id", candidateID,
		"fit_score", result.FitScore,
		"recommendation", result.Recommendation,
	)
}
