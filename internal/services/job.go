package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hirescreen/hirescreen-backend/internal/ingestion"
	"github.com/hirescreen/hirescreen-backend/internal/platform/apierr"
	"github.com/hirescreen/hirescreen-backend/internal/platform/logger"
	"github.com/hirescreen/hirescreen-backend/internal/repos"
	"github.com/hirescreen/hirescreen-backend/internal/types"
)

type CreateJobInput struct {
	Title             string `json:"title"`
	Team              string `json:"team"`
	Seniority         string `json:"seniority"`
	Location          string `json:"location"`
	EmploymentType    string `json:"employment_type"`
	CompensationRange string `json:"compensation_range"`
}

type JobService interface {
	Create(ctx context.Context, input CreateJobInput) (*types.Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Job, error)
	// UploadJD ingests a new JD version for an existing job.
	UploadJD(ctx context.Context, jobID uuid.UUID, title, text string) (*ingestion.IngestResult, error)
}

type jobService struct {
	repo     repos.JobRepo
	ingestor ingestion.Ingestor
	log      *logger.Logger
}

func NewJobService(repo repos.JobRepo, ingestor ingestion.Ingestor, baseLog *logger.Logger) JobService {
	return &jobService{
		repo:     repo,
		ingestor: ingestor,
		log:      baseLog.With("service", "JobService"),
	}
}

func (s *jobService) Create(ctx context.Context, input CreateJobInput) (*types.Job, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("title is required: %w", apierr.ErrInvalidInput)
	}
	return s.repo.Create(ctx, nil, &types.Job{
		Title:             strings.TrimSpace(input.Title),
		Team:              strings.TrimSpace(input.Team),
		Seniority:         strings.ToLower(strings.TrimSpace(input.Seniority)),
		Location:          strings.TrimSpace(input.Location),
		EmploymentType:    strings.TrimSpace(input.EmploymentType),
		CompensationRange: strings.TrimSpace(input.CompensationRange),
	})
}

func (s *jobService) GetByID(ctx context.Context, id uuid.UUID) (*types.Job, error) {
	return s.repo.GetByID(ctx, nil, id)
}

func (s *jobService) UploadJD(ctx context.Context, jobID uuid.UUID, title, text string) (*ingestion.IngestResult, error) {
	if _, err := s.repo.GetByID(ctx, nil, jobID); err != nil {
		return nil, err
	}
	return s.ingestor.IngestJD(ctx, jobID, title, text)
}
