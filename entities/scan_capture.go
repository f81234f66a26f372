package entities

import (
	"github.com/google/uuid"
)

type ScanCapture struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	SessionID          uuid.UUID `json:"session_id"`
	UserID             uuid.UUID `json:"user_id"`
	ImageURL           string    `json:"image_url"`
	Status             string    `json:"status"` // Pending, Processed, Failed
	RecognitionResults string    `json:"recognition_results,omitempty" gorm:"type:text"`

	Session *InventorySession `gorm:"foreignKey:SessionID"`
	User    *User             `gorm:"foreignKey:UserID"`
	Timestamp
}
