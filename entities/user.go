package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name            string    `json:"name"`
	Email           string    `gorm:"unique" json:"email"`
	Password        string    `json:"-"`
	Plan            string    `json:"plan"` // "free", "premium"
	AlertDaysBefore int       `json:"alert_days_before"`

	Timestamp
}
