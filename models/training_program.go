package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TrainingProgram is one week of the dog-training course catalog.
type TrainingProgram struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Week      int            `gorm:"not null" json:"week"`
	Title     string         `gorm:"not null" json:"title"`
	Tasks     pq.StringArray `gorm:"type:text[];not null" json:"tasks"`
	Resources pq.StringArray `gorm:"type:text[]" json:"resources"`
	Price     float64        `gorm:"not null" json:"price"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}
