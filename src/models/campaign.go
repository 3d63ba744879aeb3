package models

import (
	"awm/src/types"

	"github.com/google/uuid"
)

type Campaign struct {
	ID          uuid.UUID            `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	CustomerID  uint                 `json:"customer_id,omitempty"`
	Name        string               `json:"name,omitempty"`
	Description string               `json:"description,omitempty"`
	Budget      int64                `json:"budget,omitempty"`
	Status      types.CampaignStatus `gorm:"default:'draft'" json:"status,omitempty"`

	Customer *Profile  `gorm:"foreignKey:customer_id" json:"-"`
	Bookings []Booking `gorm:"foreignKey:campaign_id" json:"bookings,omitempty"`

	types.Timestamps
}
