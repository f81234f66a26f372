package entities

import (
	"time"

	"github.com/google/uuid"
)

// AuditLogEntry is append-only. Rows are never updated or deleted, so it
// carries its own CreatedAt instead of the shared Timestamp.
type AuditLogEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	UserID    uuid.UUID `json:"user_id"`
	Action    string    `json:"action"` // create_item, update_item, delete_item, complete_session, prefill
	Payload   string    `gorm:"type:text" json:"payload,omitempty"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	Session *InventorySession `gorm:"foreignKey:SessionID"`
	User    *User             `gorm:"foreignKey:UserID"`
}
