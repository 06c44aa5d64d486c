package entities

import (
	"github.com/google/uuid"
)

type ShoppingListItem struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	Name              string    `json:"name"`
	SuggestedQuantity int       `json:"suggested_quantity"`
	Unit              string    `json:"unit"`
	Reason            string    `json:"reason"`   // "finished", "spoiled", "manual", "expired"
	Priority          string    `json:"priority"` // "Urgente", "Normal", "Baixa"

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
