package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Screening is the persisted result of scoring one candidate against one
// job. (candidate_id, job_id) is unique; repeat screenings upsert in place,
// last write wins.
type Screening struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CandidateID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_screening_candidate_job" json:"candidate_id"`
	JobID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_screening_candidate_job" json:"job_id"`
	FitScore    float64        `gorm:"column:fit_score;not null" json:"fit_score"`
	Summary     string         `gorm:"column:summary" json:"summary"`
	Evidence    datatypes.JSON `gorm:"type:jsonb;column:evidence" json:"evidence"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (Screening) TableName() string {
	return "screening"
}
