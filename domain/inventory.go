package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

const (
	FoodStatusActive   = "active"
	FoodStatusExpired  = "expired"
	FoodStatusSpoiled  = "spoiled"
	FoodStatusConsumed = "consumed"

	StorageOutside = "outside"
	StorageFridge  = "fridge"
	StorageFreezer = "freezer"
	StoragePantry  = "pantry"

	// StorageAuto lets the extraction gateway pick the storage location.
	StorageAuto = "auto"
)

var (
	MessageSuccessRegisterAcquisition = "acquisition registered successfully"
	MessageSuccessConsumeFood         = "consumption applied successfully"
	MessageSuccessMarkAsSpoiled       = "food item marked as spoiled"
	MessageSuccessSweepExpired        = "expiry sweep completed"
	MessageSuccessGetFoodItems        = "food items retrieved successfully"
	MessageSuccessGetWasteReport      = "waste report retrieved successfully"

	MessageFailedRegisterAcquisition = "failed to register acquisition"
	MessageFailedConsumeFood         = "failed to apply consumption"
	MessageFailedMarkAsSpoiled       = "failed to mark food item as spoiled"
	MessageFailedSweepExpired        = "failed to sweep expired items"
	MessageFailedGetFoodItems        = "failed to retrieve food items"
	MessageFailedGetWasteReport      = "failed to retrieve waste report"

	ErrFoodItemNotFound       = errors.New("food item not found")
	ErrInvalidStorageType     = errors.New("invalid storage type")
	ErrExtractionInProgress   = errors.New("an extraction is already in progress")
	ErrGatewayUnavailable     = errors.New("extraction gateway unavailable")
	ErrGatewayMalformed       = errors.New("extraction gateway returned a malformed response")
	ErrUnauthorizedAccess     = errors.New("unauthorized access to food item")
	ErrInvalidAcquisitionText = errors.New("acquisition text must not be empty")
)

type (
	RegisterAcquisitionTextRequest struct {
		Text        string `json:"text" validate:"required"`
		StorageType string `json:"storage_type" validate:"omitempty,oneof=outside fridge freezer pantry auto"`
	}

	RegisterAcquisitionPhotoRequest struct {
		Photo       *multipart.FileHeader `json:"photo" form:"photo" validate:"required"`
		StorageType string                `json:"storage_type" form:"storage_type" validate:"omitempty,oneof=outside fridge freezer pantry auto"`
	}

	ConsumeRequest struct {
		Text string `json:"text" validate:"required"`
	}

	ConsumedEntry struct {
		Name     string  `json:"name"`
		Consumed float64 `json:"consumed"`
	}

	ConsumeResponse struct {
		Entries []ConsumedEntry `json:"entries"`
	}

	MarkAsSpoiledRequest struct {
		FoodItemID string `json:"food_item_id" validate:"required,uuid"`
	}

	FoodItemResponse struct {
		ID              string    `json:"id"`
		Name            string    `json:"name"`
		InitialQuantity float64   `json:"initial_quantity"`
		CurrentQuantity float64   `json:"current_quantity"`
		Unit            string    `json:"unit"`
		StorageType     string    `json:"storage_type"`
		ExpiryDate      time.Time `json:"expiry_date"`
		Status          string    `json:"status"`
		EstimatedValue  float64   `json:"estimated_value"`
		PhotoURL        string    `json:"photo_url,omitempty"`
		CreatedAt       time.Time `json:"created_at"`
	}

	WasteBreakdownEntry struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
	}

	WasteReportResponse struct {
		TotalWasteValue float64               `json:"total_waste_value"`
		ConsumedItems   int                   `json:"consumed_items"`
		Breakdown       []WasteBreakdownEntry `json:"breakdown"`
	}
)
