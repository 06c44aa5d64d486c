package domain

import (
	"errors"
)

const (
	PriorityUrgent = "Urgente"
	PriorityNormal = "Normal"
	PriorityLow    = "Baixa"

	ReasonFinished = "finished"
	ReasonSpoiled  = "spoiled"
	ReasonManual   = "manual"
	ReasonExpired  = "expired"

	DefaultUnit = "unidade"
)

var (
	MessageSuccessAddShoppingItem    = "shopping list item added successfully"
	MessageSuccessUpdateShoppingItem = "shopping list item updated successfully"
	MessageSuccessRemoveShoppingItem = "shopping list item removed successfully"
	MessageSuccessClearShoppingList  = "shopping list cleared successfully"
	MessageSuccessGetShoppingList    = "shopping list retrieved successfully"

	MessageFailedAddShoppingItem    = "failed to add shopping list item"
	MessageFailedUpdateShoppingItem = "failed to update shopping list item"
	MessageFailedRemoveShoppingItem = "failed to remove shopping list item"
	MessageFailedClearShoppingList  = "failed to clear shopping list"
	MessageFailedGetShoppingList    = "failed to retrieve shopping list"

	ErrShoppingItemNotFound = errors.New("shopping list item not found")
)

type (
	AddShoppingItemRequest struct {
		Name string `json:"name" validate:"required"`
	}

	AdjustShoppingQuantityRequest struct {
		Delta int `json:"delta" validate:"required,oneof=-1 1"`
	}

	SetShoppingPriorityRequest struct {
		Priority string `json:"priority" validate:"required,oneof=Urgente Normal Baixa"`
	}

	ShoppingListItemResponse struct {
		ID                string `json:"id"`
		Name              string `json:"name"`
		SuggestedQuantity int    `json:"suggested_quantity"`
		Unit              string `json:"unit"`
		Reason            string `json:"reason"`
		Priority          string `json:"priority"`
	}
)
