package entities

import (
	"github.com/google/uuid"
	"time"
)

type FoodItem struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	Name            string    `json:"name"`
	InitialQuantity float64   `json:"initial_quantity"`
	CurrentQuantity float64   `json:"current_quantity"`
	Unit            string    `json:"unit"`
	StorageType     string    `json:"storage_type"` // "outside", "fridge", "freezer", "pantry"
	ExpiryDate      time.Time `json:"expiry_date"`
	Status          string    `json:"status"` // "active", "expired", "spoiled", "consumed"
	EstimatedValue  float64   `json:"estimated_value"`
	PhotoURL        string    `json:"photo_url,omitempty"`
	AddedManually   bool      `json:"added_manually"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
