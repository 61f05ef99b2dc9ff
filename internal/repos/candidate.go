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

type CandidateRepo interface {
	Create(ctx context.Context, tx *gorm.DB, candidate *types.Candidate) (*types.Candidate, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Candidate, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Candidate, error)
	GetByPhone(ctx context.Context, tx *gorm.DB, phone string) (*types.Candidate, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
}

type candidateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCandidateRepo(db *gorm.DB, baseLog *logger.Logger) CandidateRepo {
	repoLog := baseLog.With("repo", "CandidateRepo")
	return &candidateRepo{db: db, log: repoLog}
}

func (r *candidateRepo) Create(ctx context.Context, tx *gorm.DB, candidate *types.Candidate) (*types.Candidate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(candidate).Error; err != nil {
		return nil, err
	}
	return candidate, nil
}

func (r *candidateRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Candidate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var candidate types.Candidate
	if err := transaction.WithContext(ctx).First(&candidate, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.ErrNotFound
		}
		return nil, err
	}
	return &candidate, nil
}

func (r *candidateRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Candidate, error) {
	return r.getByField(ctx, tx, "email", email)
}

func (r *candidateRepo) GetByPhone(ctx context.Context, tx *gorm.DB, phone string) (*types.Candidate, error) {
	return r.getByField(ctx, tx, "phone", phone)
}

func (r *candidateRepo) getByField(ctx context.Context, tx *gorm.DB, column, value string) (*types.Candidate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if value == "" {
		return nil, apierr.ErrNotFound
	}
	var candidate types.Candidate
	if err := transaction.WithContext(ctx).First(&candidate, column+" = ?", value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.ErrNotFound
		}
		return nil, err
	}
	return &candidate, nil
}

func (r *candidateRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Candidate{}).
		Where("id = ?", id).
		Updates(fields).Error
}
