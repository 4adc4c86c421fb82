package models

import (
	"time"

	"github.com/google/uuid"
)

// Pet is an owner-scoped pet profile.
type Pet struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Breed       string    `gorm:"not null" json:"breed"`
	Age         int       `gorm:"not null" json:"age"`
	Gender      string    `gorm:"not null" json:"gender"`
	Description string    `gorm:"not null" json:"description"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
