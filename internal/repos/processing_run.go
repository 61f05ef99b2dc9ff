package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hirescreen/hirescreen-backend/internal/platform/apierr"
	"github.com/hirescreen/hirescreen-backend/internal/platform/logger"
	"github.com/hirescreen/hirescreen-backend/internal/types"
)

type ProcessingRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *types.ProcessingRun) (*types.ProcessingRun, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProcessingRun, error)
	SetProgress(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string, progress int) error
	SetError(ctx context.Context, tx *gorm.DB, id uuid.UUID, message string) error
}

type processingRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProcessingRunRepo(db *gorm.DB, baseLog *logger.Logger) ProcessingRunRepo {
	repoLog := baseLog.With("repo", "ProcessingRunRepo")
	return &processingRunRepo{db: db, log: repoLog}
}

func (r *processingRunRepo) Create(ctx context.Context, tx *gorm.DB, run *types.ProcessingRun) (*types.ProcessingRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.Status == "" {
		run.Status = types.RunStatusQueued
	}
	if err := transaction.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (r *processingRunRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProcessingRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var run types.ProcessingRun
	if err := transaction.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

func (r *processingRunRepo) SetProgress(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string, progress int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.ProcessingRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "progress": progress}).Error
}

func (r *processingRunRepo) SetError(ctx context.Context, tx *gorm.DB, id uuid.UUID, message string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.ProcessingRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": types.RunStatusError, "error_message": message}).Error
}
