package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Metadata map[string]any

type Role string

const (
	ROLE_CUSTOMER Role = "customer"
	ROLE_OWNER    Role = "owner"
)

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "pending"
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_ACTIVE    BookingStatus = "active"
	BOOKING_COMPLETED BookingStatus = "completed"
	BOOKING_CANCELLED BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PAYMENT_PENDING   PaymentStatus = "pending"
	PAYMENT_COMPLETED PaymentStatus = "completed"
)

type NOCStatus string

const (
	NOC_NOT_APPLIED NOCStatus = "not_applied"
	NOC_PENDING     NOCStatus = "pending"
	NOC_APPROVED    NOCStatus = "approved"
	NOC_REJECTED    NOCStatus = "rejected"
)

type CampaignStatus string

const (
	CAMPAIGN_DRAFT     CampaignStatus = "draft"
	CAMPAIGN_ACTIVE    CampaignStatus = "active"
	CAMPAIGN_PAUSED    CampaignStatus = "paused"
	CAMPAIGN_COMPLETED CampaignStatus = "completed"
)

type TrafficScore string

const (
	TRAFFIC_LOW    TrafficScore = "low"
	TRAFFIC_MEDIUM TrafficScore = "medium"
	TRAFFIC_HIGH   TrafficScore = "high"
)

type APIEnv string

const (
	Local      APIEnv = "local"
	Test       APIEnv = "test"
	Production APIEnv = "production"
)

type CreateBillboardRequestBody struct {
	Title         string   `json:"title" binding:"required"`
	Location      string   `json:"location" binding:"required"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Width         float64  `json:"width" binding:"required,gt=0"`
	Height        float64  `json:"height" binding:"required,gt=0"`
	PricePerMonth int64    `json:"price_per_month" binding:"required,gt=0"`
	ImageURL      *string  `json:"image_url,omitempty"`
	IsAvailable   *bool    `json:"is_available,omitempty"`
}

type UpdateBillboardRequestBody struct {
	Title         *string  `json:"title,omitempty"`
	Location      *string  `json:"location,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	PricePerMonth *int64   `json:"price_per_month,omitempty" binding:"omitempty,gt=0"`
	ImageURL      *string  `json:"image_url,omitempty"`
	IsAvailable   *bool    `json:"is_available,omitempty"`
}

type CreateBookingRequestBody struct {
	BillboardID         string  `json:"billboard_id" binding:"required,uuid"`
	StartDate           string  `json:"start_date" binding:"required,bookingdate"`
	EndDate             string  `json:"end_date" binding:"required,bookingdate,gtdatefield=StartDate"`
	CampaignName        string  `json:"campaign_name" binding:"required"`
	CampaignID          *string `json:"campaign_id,omitempty" binding:"omitempty,uuid"`
	Notes               *string `json:"notes,omitempty"`
	NOCCategory         *string `json:"noc_category,omitempty"`
	CreativeImageURL    *string `json:"creative_image_url,omitempty"`
	CreativeDescription *string `json:"creative_description,omitempty"`
}

type CreateCampaignRequestBody struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
	Budget      int64  `json:"budget,omitempty" binding:"omitempty,gt=0"`
}

type UpdateCampaignRequestBody struct {
	Name        *string         `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	Budget      *int64          `json:"budget,omitempty" binding:"omitempty,gt=0"`
	Status      *CampaignStatus `json:"status,omitempty" binding:"omitempty,oneof=draft active paused completed"`
}

type UpdateBookingStatusRequestBody struct {
	Status BookingStatus `json:"status" binding:"required,oneof=confirmed active completed cancelled"`
}

type NOCDecisionRequestBody struct {
	Decision NOCStatus `json:"decision" binding:"required,oneof=approved rejected"`
}

type CreateOrderRequestBody struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
	Currency  string `json:"currency,omitempty"`
}

type VerifyPaymentRequestBody struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	BookingID         string `json:"booking_id" binding:"required,uuid"`
}

type RecommendationRequestBody struct {
	Budget             *int64  `json:"budget,omitempty" binding:"omitempty,gt=0"`
	PreferredTraffic   *string `json:"preferred_traffic,omitempty" binding:"omitempty,oneof=low medium high"`
	LocationPreference *string `json:"location_preference,omitempty"`
}

type TrafficRequestBody struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

type RegisterRequestBody struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
	Role  Role   `json:"role" binding:"required,oneof=customer owner"`
}

type LoginRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

type SimpleRequestParams struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type BillboardQueryFilters struct {
	Available *bool   `form:"available,omitempty"`
	Traffic   *string `form:"traffic,omitempty" binding:"omitempty,oneof=low medium high"`
	MaxPrice  *int64  `form:"max_price,omitempty" binding:"omitempty,gt=0"`
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	UID      string `json:"uid"`
	jwt.RegisteredClaims
}

type Recommendation struct {
	BillboardID string   `json:"billboard_id"`
	Title       string   `json:"title"`
	MatchScore  int      `json:"match_score"`
	Reason      string   `json:"reason"`
	Highlights  []string `json:"highlights"`
	TradeOffs   []string `json:"trade_offs"`
}

type TrafficResult struct {
	Success          bool         `json:"success"`
	TrafficScore     TrafficScore `json:"trafficScore"`
	DailyImpressions int          `json:"dailyImpressions"`
	CurrentSpeed     float64      `json:"currentSpeed"`
	FreeFlowSpeed    float64      `json:"freeFlowSpeed"`
	SpeedRatio       int          `json:"speedRatio"`
	RoadName         string       `json:"roadName"`
	Confidence       float64      `json:"confidence"`
}

type Handler func(payload string)
