package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hirescreen/hirescreen-backend/internal/platform/apierr"
	"github.com/hirescreen/hirescreen-backend/internal/platform/logger"
	"github.com/hirescreen/hirescreen-backend/internal/types"
)

type ScreeningRepo interface {
	// Upsert inserts or overwrites the single row for the screening's
	// (candidate_id, job_id) pair. Last write wins; no history is kept.
	Upsert(ctx context.Context, tx *gorm.DB, screening *types.Screening) (*types.Screening, error)
	GetByPair(ctx context.Context, tx *gorm.DB, candidateID, jobID uuid.UUID) (*types.Screening, error)
}

type screeningRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScreeningRepo(db *gorm.DB, baseLog *logger.Logger) ScreeningRepo {
	repoLog := baseLog.With("repo", "ScreeningRepo")
	return &screeningRepo{db: db, log: repoLog}
}

func (r *screeningRepo) Upsert(ctx context.Context, tx *gorm.DB, screening *types.Screening) (*types.Screening, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if screening.ID == uuid.Nil {
		screening.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "candidate_id"}, {Name: "job_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"fit_score", "summary", "evidence", "updated_at"}),
		}).
		Create(screening).Error; err != nil {
		return nil, err
	}

	// On the conflict path the inserted ID was discarded; read the row back
	// so callers always see the persisted identity.
	var persisted types.Screening
	if err := transaction.WithContext(ctx).
		First(&persisted, "candidate_id = ? AND job_id = ?", screening.CandidateID, screening.JobID).Error; err != nil {
		return nil, err
	}
	return &persisted, nil
}

func (r *screeningRepo) GetByPair(ctx context.Context, tx *gorm.DB, candidateID, jobID uuid.UUID) (*types.Screening, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var screening types.Screening
	if err := transaction.WithContext(ctx).
		First(&screening, "candidate_id = ? AND job_id = ?", candidateID, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.ErrNotFound
		}
		return nil, err
	}
	return &screening, nil
}
