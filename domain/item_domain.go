package domain

import (
	"errors"
	"time"
)

const (
	MergeModeAdd     = "add"
	MergeModeReplace = "replace"

	ScanMethodPhoto   = "photo"
	ScanMethodShelf   = "shelf"
	ScanMethodBarcode = "barcode"
	ScanMethodManual  = "manual"
)

var (
	MessageSuccessAddItem    = "inventory item added successfully"
	MessageSuccessMergeItem  = "inventory item merged successfully"
	MessageSuccessUpdateItem = "inventory item updated successfully"
	MessageSuccessDeleteItem = "inventory item deleted successfully"
	MessageSuccessGetItems   = "inventory items retrieved successfully"

	MessageFailedAddItem    = "failed to add inventory item"
	MessageFailedUpdateItem = "failed to update inventory item"
	MessageFailedDeleteItem = "failed to delete inventory item"
	MessageFailedGetItems   = "failed to retrieve inventory items"

	ErrItemNotFound      = errors.New("inventory item not found")
	ErrInvalidQuantity   = errors.New("quantity out of range")
	ErrInvalidUnitPrice  = errors.New("unit price must be non-negative")
	ErrInvalidMergeMode  = errors.New("merge mode must be add or replace")
	ErrDuplicateConflict = errors.New("product already counted in this session, merge mode required")
)

type (
	// QuantityRequest carries the percent view of a partial fill; the
	// canonical integer-hundredths value is derived from it on intake.
	QuantityRequest struct {
		FullUnits      int     `json:"full_units" validate:"min=0"`
		PartialPercent float64 `json:"partial_percent" validate:"min=0,max=100"`
	}

	AddItemRequest struct {
		ProductID    string          `json:"product_id" validate:"required,uuid"`
		Quantity     QuantityRequest `json:"quantity"`
		UnitPrice    *float64        `json:"unit_price,omitempty" validate:"omitempty,min=0"`
		ScanMethod   string          `json:"scan_method,omitempty" validate:"omitempty,oneof=photo shelf barcode manual"`
		AIConfidence *float64        `json:"ai_confidence,omitempty" validate:"omitempty,min=0,max=1"`
		Notes        string          `json:"notes,omitempty"`
		MergeMode    string          `json:"merge_mode,omitempty" validate:"omitempty,oneof=add replace"`
	}

	UpdateItemRequest struct {
		Quantity     *QuantityRequest `json:"quantity,omitempty"`
		UnitPrice    *float64         `json:"unit_price,omitempty" validate:"omitempty,min=0"`
		ScanMethod   *string          `json:"scan_method,omitempty" validate:"omitempty,oneof=photo shelf barcode manual"`
		AIConfidence *float64         `json:"ai_confidence,omitempty" validate:"omitempty,min=0,max=1"`
		Notes        *string          `json:"notes,omitempty"`
	}

	ItemResponse struct {
		ID                 string    `json:"id"`
		SessionID          string    `json:"session_id"`
		ProductID          string    `json:"product_id"`
		ProductName        string    `json:"product_name,omitempty"`
		FullUnits          int       `json:"full_units"`
		PartialPercent     int       `json:"partial_percent"`
		TotalQuantity      float64   `json:"total_quantity"`
		UnitPrice          *float64  `json:"unit_price,omitempty"`
		TotalPrice         *float64  `json:"total_price,omitempty"`
		PreviousQuantity   *float64  `json:"previous_quantity,omitempty"`
		QuantityDifference *float64  `json:"quantity_difference,omitempty"`
		ScanMethod         string    `json:"scan_method,omitempty"`
		AIConfidence       *float64  `json:"ai_confidence,omitempty"`
		Notes              string    `json:"notes,omitempty"`
		Merged             bool      `json:"merged,omitempty"`
		CreatedAt          time.Time `json:"created_at"`
	}
)
