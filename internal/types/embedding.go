package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Embedding holds the unit vector for one chunk under one model. The column
// dimension is fixed by the model; 768 matches the default gateway model.
type Embedding struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ChunkID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_embedding_chunk_model" json:"chunk_id"`
	Chunk     *Chunk          `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChunkID;references:ID" json:"chunk,omitempty"`
	Model     string          `gorm:"column:model;not null;uniqueIndex:idx_embedding_chunk_model" json:"model"`
	Dim       int             `gorm:"column:dim;not null" json:"dim"`
	Vector    pgvector.Vector `gorm:"type:vector(768)" json:"-"`
	CreatedAt time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (Embedding) TableName() string {
	return "embedding"
}
