package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name     string    `json:"name"`
	Email    string    `gorm:"unique" json:"email"`
	Password string    `json:"-"`
	Role     string    `json:"role"`

	Locations []*Location `gorm:"many2many:user_locations;" json:"locations,omitempty"`
	Timestamp
}

type Location struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address,omitempty"`

	Timestamp
}
