package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	RunStatusQueued  = "queued"
	RunStatusRunning = "running"
	RunStatusDone    = "done"
	RunStatusError   = "error"
)

// ProcessingRun tracks one background resume pipeline (ingest then screen)
// so callers can poll progress instead of holding the upload request open.
type ProcessingRun struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID        uuid.UUID `gorm:"type:uuid;not null;index" json:"job_id"`
	CandidateID  uuid.UUID `gorm:"type:uuid;not null;index" json:"candidate_id"`
	Status       string    `gorm:"column:status;not null;index" json:"status"`
	Progress     int       `gorm:"column:progress;not null;default:0" json:"progress"`
	ErrorMessage string    `gorm:"column:error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (ProcessingRun) TableName() string {
	return "processing_run"
}
