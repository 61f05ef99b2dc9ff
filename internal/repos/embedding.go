package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hirescreen/hirescreen-backend/internal/platform/logger"
	"github.com/hirescreen/hirescreen-backend/internal/types"
)

type EmbeddingRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, embeddings []*types.Embedding) ([]*types.Embedding, error)
	CountByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) (int64, error)
}

type embeddingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmbeddingRepo(db *gorm.DB, baseLog *logger.Logger) EmbeddingRepo {
	repoLog := baseLog.With("repo", "EmbeddingRepo")
	return &embeddingRepo{db: db, log: repoLog}
}

func (r *embeddingRepo) CreateBatch(ctx context.Context, tx *gorm.DB, embeddings []*types.Embedding) ([]*types.Embedding, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(embeddings) == 0 {
		return []*types.Embedding{}, nil
	}

	// Vector rows are wide; keep insert statements bounded.
	const batchSize = 100

	if err := transaction.WithContext(ctx).CreateInBatches(embeddings, batchSize).Error; err != nil {
		return nil, err
	}
	return embeddings, nil
}

func (r *embeddingRepo) CountByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Embedding{}).
		Joins(`JOIN "chunk" ON "chunk".id = "embedding".chunk_id`).
		Where(`"chunk".document_id = ?`, documentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
