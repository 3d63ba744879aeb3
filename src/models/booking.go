package models

import (
	"awm/src/types"
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID                  uuid.UUID           `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	BillboardID         uuid.UUID           `gorm:"type:uuid" json:"billboard_id,omitempty"`
	CustomerID          uint                `json:"customer_id,omitempty"`
	CampaignID          *uuid.UUID          `gorm:"type:uuid" json:"campaign_id,omitempty"`
	StartDate           time.Time           `gorm:"type:date" json:"start_date,omitempty"`
	EndDate             time.Time           `gorm:"type:date" json:"end_date,omitempty"`
	CampaignName        string              `json:"campaign_name,omitempty"`
	TotalCost           int64               `json:"total_cost,omitempty"`
	Notes               *string             `json:"notes,omitempty"`
	CreativeImageURL    *string             `json:"creative_image_url,omitempty"`
	CreativeDescription *string             `json:"creative_description,omitempty"`
	Status              types.BookingStatus `gorm:"default:'pending'" json:"status,omitempty"`
	PaymentStatus       types.PaymentStatus `gorm:"default:'pending'" json:"payment_status,omitempty"`
	NOCStatus           types.NOCStatus     `gorm:"column:noc_status;default:'not_applied'" json:"noc_status,omitempty"`
	NOCCategory         *string             `gorm:"column:noc_category" json:"noc_category,omitempty"`
	RazorpayOrderID     *string             `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID   *string             `json:"razorpay_payment_id,omitempty"`

	Billboard *Billboard `gorm:"foreignKey:billboard_id" json:"billboard,omitempty"`
	Customer  *Profile   `gorm:"foreignKey:customer_id" json:"customer,omitempty"`
	Campaign  *Campaign  `gorm:"foreignKey:campaign_id" json:"campaign,omitempty"`

	types.Timestamps
}
