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

type DocumentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, doc *types.Document) (*types.Document, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Document, error)
	// NextVersionForJob returns 1 + the highest JD version for the job and
	// clears the active flag on every earlier version in the same call.
	NextVersionForJob(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) (int, error)
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	repoLog := baseLog.With("repo", "DocumentRepo")
	return &documentRepo{db: db, log: repoLog}
}

func (r *documentRepo) Create(ctx context.Context, tx *gorm.DB, doc *types.Document) (*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *documentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var doc types.Document
	if err := transaction.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepo) NextVersionForJob(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var maxVersion int
	if err := transaction.WithContext(ctx).
		Model(&types.Document{}).
		Select("COALESCE(MAX(version), 0)").
		Where("job_id = ? AND source_type = ?", jobID, types.SourceTypeJD).
		Scan(&maxVersion).Error; err != nil {
		return 0, err
	}
	if maxVersion > 0 {
		if err := transaction.WithContext(ctx).
			Model(&types.Document{}).
			Where("job_id = ? AND source_type = ? AND is_active", jobID, types.SourceTypeJD).
			Update("is_active", false).Error; err != nil {
			return 0, err
		}
	}
	return maxVersion + 1, nil
}
