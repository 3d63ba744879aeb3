package models

import (
	"awm/src/types"
	"time"
)

type Profile struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Name          string          `json:"name,omitempty"`
	Email         string          `gorm:"uniqueIndex" json:"email,omitempty"`
	Role          types.Role      `gorm:"default:'customer'" json:"role,omitempty"`
	UID           string          `json:"uid,omitempty"`
	CompanyName   *string         `json:"company_name,omitempty"`
	Phone         *string         `json:"phone,omitempty"`
	EmailVerified bool            `json:"email_verified,omitempty"`
	VerifiedAt    time.Time       `json:"verified_at,omitempty"`
	Metadata      *types.Metadata `gorm:"type:jsonb" json:"metadata,omitempty"`

	Billboards []Billboard `gorm:"foreignKey:owner_id" json:"billboards,omitempty"`
	Bookings   []Booking   `gorm:"foreignKey:customer_id" json:"bookings,omitempty"`
	Campaigns  []Campaign  `gorm:"foreignKey:customer_id" json:"campaigns,omitempty"`

	types.Timestamps
}
