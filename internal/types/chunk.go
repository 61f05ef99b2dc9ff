package types

import (
	"time"

	"github.com/google/uuid"
)

// Chunk is a contiguous, section-tagged slice of a document. JD chunks carry
// a job id, resume chunks a candidate id; never both. Position is the global
// ordinal within the owning document.
type Chunk struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DocumentID  uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_chunk_document_position" json:"document_id"`
	Document    *Document  `gorm:"constraint:OnDelete:CASCADE;foreignKey:DocumentID;references:ID" json:"document,omitempty"`
	JobID       *uuid.UUID `gorm:"type:uuid;index" json:"job_id,omitempty"`
	CandidateID *uuid.UUID `gorm:"type:uuid;index" json:"candidate_id,omitempty"`
	Section     string     `gorm:"column:section;not null;index" json:"section"`
	Heading     string     `gorm:"column:heading" json:"heading,omitempty"`
	Content     string     `gorm:"column:content;not null" json:"content"`
	TokenCount  int        `gorm:"column:token_count;not null" json:"token_count"`
	Position    int        `gorm:"column:position;not null;uniqueIndex:idx_chunk_document_position" json:"position"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Chunk) TableName() string {
	return "chunk"
}
