package domain

import (
	"errors"
	"mime/multipart"
)

var (
	MessageSuccessUploadScan  = "scan processed successfully"
	MessageSuccessConfirmScan = "scan confirmed and recorded successfully"
	MessageSuccessGetScan     = "scan retrieved successfully"

	MessageFailedUploadScan  = "failed to process scan"
	MessageFailedConfirmScan = "failed to confirm scan"
	MessageFailedGetScan     = "failed to retrieve scan"

	ErrScanNotFound           = errors.New("scan not found")
	ErrInvalidImageFormat     = errors.New("invalid image format")
	ErrRecognitionUnavailable = errors.New("recognition service unavailable")
)

type (
	UploadScanRequest struct {
		SessionID string                `json:"session_id" form:"session_id" validate:"required,uuid"`
		Image     *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}

	// RecognitionResult is the raw answer from the external recognizer.
	RecognitionResult struct {
		ProductName            string   `json:"product_name"`
		Brand                  string   `json:"brand,omitempty"`
		SizeDisplay            string   `json:"size_display,omitempty"`
		Category               string   `json:"category,omitempty"`
		Barcode                string   `json:"barcode,omitempty"`
		Confidence             float64  `json:"confidence"`
		MatchedProductID       string   `json:"matched_product_id,omitempty"`
		SuggestedFullUnits     *int     `json:"suggested_full_units,omitempty"`
		SuggestedPartialUnits  *float64 `json:"suggested_partial_percent,omitempty"`
	}

	RecognizedProduct struct {
		Name        string  `json:"name"`
		Brand       string  `json:"brand,omitempty"`
		SizeDisplay string  `json:"size_display,omitempty"`
		Category    string  `json:"category,omitempty"`
		Confidence  float64 `json:"confidence"`
	}

	DuplicateInSession struct {
		ExistingItemID         string  `json:"existing_item_id"`
		ExistingFullUnits      int     `json:"existing_full_units"`
		ExistingPartialPercent int     `json:"existing_partial_percent"`
		ExistingTotal          float64 `json:"existing_total"`
	}

	// ScanOutcome is transient: it is returned to the client and never
	// persisted, only the underlying ScanCapture row is.
	ScanOutcome struct {
		ScanID             string              `json:"scan_id"`
		RecognizedProduct  RecognizedProduct   `json:"recognized_product"`
		MatchedProductID   *string             `json:"matched_product_id,omitempty"`
		SuggestedQuantity  *QuantityRequest    `json:"suggested_quantity,omitempty"`
		DuplicateInSession *DuplicateInSession `json:"duplicate_in_session,omitempty"`
		IsNewProduct       bool                `json:"is_new_product"`
	}

	ConfirmScanRequest struct {
		SessionID    string          `json:"session_id" validate:"required,uuid"`
		ProductID    string          `json:"product_id" validate:"required,uuid"`
		Quantity     QuantityRequest `json:"quantity"`
		UnitPrice    *float64        `json:"unit_price,omitempty" validate:"omitempty,min=0"`
		AIConfidence *float64        `json:"ai_confidence,omitempty" validate:"omitempty,min=0,max=1"`
		MergeMode    string          `json:"merge_mode,omitempty" validate:"omitempty,oneof=add replace"`
	}

	ScanCaptureResponse struct {
		ScanID             string `json:"scan_id"`
		SessionID          string `json:"session_id"`
		ImageURL           string `json:"image_url"`
		Status             string `json:"status"`
		RecognitionResults string `json:"recognition_results,omitempty"`
	}
)
