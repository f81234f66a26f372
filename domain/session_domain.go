package domain

import (
	"errors"
	"time"
)

const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
)

var (
	MessageSuccessCreateSession    = "inventory session created successfully"
	MessageSuccessGetSessions      = "inventory sessions retrieved successfully"
	MessageSuccessCompleteSession  = "inventory session completed successfully"
	MessageSuccessPrefillSession   = "inventory session prefilled from previous count"
	MessageSuccessGetDifferences   = "session differences computed successfully"
	MessageSuccessValidateExport   = "export validation computed successfully"
	MessageSuccessGetSessionAudit  = "session audit log retrieved successfully"
	MessageFailedCreateSession     = "failed to create inventory session"
	MessageFailedGetSessions       = "failed to retrieve inventory sessions"
	MessageFailedCompleteSession   = "failed to complete inventory session"
	MessageFailedPrefillSession    = "failed to prefill inventory session"
	MessageFailedGetDifferences    = "failed to compute session differences"
	MessageFailedValidateExport    = "failed to validate session for export"
	MessageFailedGetSessionAudit   = "failed to retrieve session audit log"

	ErrSessionNotFound         = errors.New("inventory session not found")
	ErrSessionClosed           = errors.New("inventory session is completed, items can no longer change")
	ErrSessionAlreadyCompleted = errors.New("inventory session already completed")
	ErrSessionNotEmpty         = errors.New("inventory session already has items")
)

type (
	CreateSessionRequest struct {
		LocationID string `json:"location_id" validate:"required,uuid"`
		Name       string `json:"name,omitempty"`
	}

	SessionResponse struct {
		ID                string     `json:"id"`
		LocationID        string     `json:"location_id"`
		Name              string     `json:"name,omitempty"`
		Status            string     `json:"status"`
		StartedAt         time.Time  `json:"started_at"`
		CompletedAt       *time.Time `json:"completed_at,omitempty"`
		PreviousSessionID *string    `json:"previous_session_id,omitempty"`
		TotalItems        int        `json:"total_items"`
		TotalValue        float64    `json:"total_value"`
	}

	DifferenceRecord struct {
		ProductID          string  `json:"product_id"`
		ProductName        string  `json:"product_name,omitempty"`
		PreviousQuantity   float64 `json:"previous_quantity"`
		CurrentQuantity    float64 `json:"current_quantity"`
		QuantityDifference float64 `json:"quantity_difference"`
	}

	ExportValidationResponse struct {
		Valid          bool     `json:"valid"`
		MissingCount   int      `json:"missing_count"`
		MissingItemIDs []string `json:"missing_item_ids"`
	}
)
