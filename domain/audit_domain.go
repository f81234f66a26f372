package domain

import (
	"time"
)

const (
	AuditActionCreateItem      = "create_item"
	AuditActionUpdateItem      = "update_item"
	AuditActionDeleteItem      = "delete_item"
	AuditActionCompleteSession = "complete_session"
	AuditActionPrefill         = "prefill"
)

type AuditEntryResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Payload   string    `json:"payload,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
