package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/hirescreen/hirescreen-backend/internal/platform/logger"
	"github.com/hirescreen/hirescreen-backend/internal/repos"
	"github.com/hirescreen/hirescreen-backend/internal/screening"
	"github.com/hirescreen/hirescreen-backend/internal/types"
)

type ScreeningService interface {
	Run(ctx context.Context, jobID, candidateID uuid.UUID) (*screening.Result, error)
	GetByPair(ctx context.Context, candidateID, jobID uuid.UUID) (*types.Screening, error)
}

type screeningService struct {
	engine screening.Engine
	repo   repos.ScreeningRepo
	log    *logger.Logger
}

func NewScreeningService(engine screening.Engine, repo repos.ScreeningRepo, baseLog *logger.Logger) ScreeningService {
	return &screeningService{
		engine: engine,
		repo:   repo,
		log:    baseLog.With("service", "ScreeningService"),
	}
}

func (s *screeningService) Run(ctx context.Context, jobID, candidateID uuid.UUID) (*screening.Result, error) {
	return s.engine.Screen(ctx, jobID, candidateID)
}

func (s *screeningService) GetByPair(ctx context.Context, candidateID, jobID uuid.UUID) (*types.Screening, error) {
	return s.repo.GetByPair(ctx, nil, candidateID, jobID)
}
