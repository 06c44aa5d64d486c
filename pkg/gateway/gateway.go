package gateway

import (
	"context"
)

type (
	// AcquisitionRecord is one food item extracted from a purchase
	// description or photo. All fields are required; records missing any
	// of them are treated as a malformed gateway response.
	AcquisitionRecord struct {
		Name           string  `json:"name"`
		Quantity       float64 `json:"quantity"`
		Unit           string  `json:"unit"`
		StorageType    string  `json:"storageType"`
		ExpiryDays     int     `json:"expiryDays"`
		EstimatedPrice float64 `json:"estimatedPrice"`
	}

	// ConsumptionRecord is one (name, quantity) pair extracted from a
	// consumption statement.
	ConsumptionRecord struct {
		Name     string  `json:"name"`
		Quantity float64 `json:"quantity"`
	}

	ImageInput struct {
		Data     []byte
		MimeType string
	}

	// Extractor is the boundary to the AI inference service. Implementations
	// must not mutate application state; callers decide what to do with the
	// extracted records.
	Extractor interface {
		ExtractAcquisitionsFromText(ctx context.Context, text string) ([]AcquisitionRecord, error)
		ExtractAcquisitionsFromImage(ctx context.Context, image ImageInput) ([]AcquisitionRecord, error)
		ExtractConsumption(ctx context.Context, text string) ([]ConsumptionRecord, error)
	}
)
