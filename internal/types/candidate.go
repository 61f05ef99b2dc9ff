package types

import (
	"time"

	"github.com/google/uuid"
)

type Candidate struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FullName    string    `gorm:"column:full_name;not null" json:"full_name"`
	Email       string    `gorm:"column:email;index" json:"email"`
	Phone       string    `gorm:"column:phone;index" json:"phone"`
	Location    string    `gorm:"column:location" json:"location"`
	LinkedinURL string    `gorm:"column:linkedin_url" json:"linkedin_url"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Candidate) TableName() string {
	return "candidate"
}
