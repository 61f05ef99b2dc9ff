package types

import (
	"time"

	"github.com/google/uuid"
)

type Job struct {
	ID                uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title             string    `gorm:"column:title;not null" json:"title"`
	Team              string    `gorm:"column:team" json:"team"`
	Seniority         string    `gorm:"column:seniority" json:"seniority"`
	Location          string    `gorm:"column:location" json:"location"`
	EmploymentType    string    `gorm:"column:employment_type" json:"employment_type"`
	CompensationRange string    `gorm:"column:compensation_range" json:"compensation_range"`
	CreatedAt         time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Job) TableName() string {
	return "job"
}
