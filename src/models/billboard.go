package models

import (
	"awm/src/types"

	"github.com/google/uuid"
)

type Billboard struct {
	ID               uuid.UUID          `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	OwnerID          uint               `json:"owner_id,omitempty"`
	Title            string             `json:"title,omitempty"`
	Slug             string             `gorm:"uniqueIndex" json:"slug,omitempty"`
	Location         string             `json:"location,omitempty"`
	Latitude         *float64           `json:"latitude,omitempty"`
	Longitude        *float64           `json:"longitude,omitempty"`
	Width            float64            `json:"width,omitempty"`
	Height           float64            `json:"height,omitempty"`
	PricePerMonth    int64              `json:"price_per_month,omitempty"`
	TrafficScore     types.TrafficScore `json:"traffic_score,omitempty"`
	DailyImpressions *int               `json:"daily_impressions,omitempty"`
	ImageURL         *string            `json:"image_url,omitempty"`
	IsAvailable      bool               `gorm:"default:true" json:"is_available"`

	Owner    *Profile  `gorm:"foreignKey:owner_id" json:"owner,omitempty"`
	Bookings []Booking `gorm:"foreignKey:billboard_id" json:"bookings,omitempty"`

	types.Timestamps
}
