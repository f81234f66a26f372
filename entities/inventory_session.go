package entities

import (
	"time"

	"github.com/google/uuid"
)

type InventorySession struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID            uuid.UUID  `json:"user_id"`
	LocationID        uuid.UUID  `json:"location_id"`
	Name              string     `json:"name,omitempty"`
	Status            string     `json:"status"` // active, completed
	StartedAt         time.Time  `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	PreviousSessionID *uuid.UUID `json:"previous_session_id,omitempty"`
	TotalItems        int        `json:"total_items"`
	TotalValue        float64    `json:"total_value"`

	User     *User            `gorm:"foreignKey:UserID"`
	Location *Location        `gorm:"foreignKey:LocationID"`
	Items    []*InventoryItem `gorm:"foreignKey:SessionID"`
	Timestamp
}

type InventoryItem struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	SessionID        uuid.UUID `gorm:"uniqueIndex:idx_session_product" json:"session_id"`
	ProductID        uuid.UUID `gorm:"uniqueIndex:idx_session_product" json:"product_id"`
	Quantity         Quantity  `gorm:"embedded;embeddedPrefix:quantity_" json:"quantity"`
	UnitPrice        *float64  `json:"unit_price,omitempty"`
	TotalPrice       *float64  `json:"total_price,omitempty"`
	PreviousQuantity *float64  `json:"previous_quantity,omitempty"`
	ScanMethod       string    `json:"scan_method,omitempty"` // photo, shelf, barcode, manual
	AIConfidence     *float64  `json:"ai_confidence,omitempty"`
	Notes            string    `json:"notes,omitempty"`

	Session *InventorySession `gorm:"foreignKey:SessionID"`
	Product *Product          `gorm:"foreignKey:ProductID"`
	Timestamp
}

// RecalculateTotalPrice refreshes the derived total from quantity and unit
// price. Items without a unit price carry no total.
func (i *InventoryItem) RecalculateTotalPrice() {
	if i.UnitPrice == nil {
		i.TotalPrice = nil
		return
	}
	total := i.Quantity.Total() * (*i.UnitPrice)
	i.TotalPrice = &total
}

// QuantityDifference is the signed delta against the previous session's
// count, nil when there is no baseline.
func (i *InventoryItem) QuantityDifference() *float64 {
	if i.PreviousQuantity == nil {
		return nil
	}
	diff := i.Quantity.Total() - *i.PreviousQuantity
	return &diff
}
