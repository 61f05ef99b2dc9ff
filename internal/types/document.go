package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	SourceTypeResume = "resume"
	SourceTypeJD     = "jd"
)

// Document is one ingested resume or JD. Versions are never mutated in
// place; re-ingesting swaps the active flag onto the newest version.
type Document struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	JobID      *uuid.UUID `gorm:"type:uuid;index" json:"job_id,omitempty"`
	Job        *Job       `gorm:"constraint:OnDelete:CASCADE;foreignKey:JobID;references:ID" json:"job,omitempty"`
	SourceType string     `gorm:"column:source_type;not null;index" json:"source_type"`
	Title      string     `gorm:"column:title;not null" json:"title"`
	RawText    string     `gorm:"column:raw_text;not null" json:"raw_text"`
	Version    int        `gorm:"column:version;not null;default:1" json:"version"`
	IsActive   bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt  time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Document) TableName() string {
	return "document"
}
