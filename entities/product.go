package entities

import (
	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand,omitempty"`
	SizeDisplay string    `json:"size_display,omitempty"`
	Category    string    `json:"category,omitempty"`
	Barcode     string    `json:"barcode,omitempty"`
	LastPrice   *float64  `json:"last_price,omitempty"`

	Timestamp
}
