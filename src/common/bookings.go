package common

import (
	"awm/src/config"
	"awm/src/db"
	"awm/src/lib"
	"awm/src/lib/mailer"
	"awm/src/models"
	"awm/src/models/scopes"
	"awm/src/types"
	"awm/src/utils"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidDateRange    = errors.New("end date must be after start date")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrBillboardNotFound   = errors.New("billboard not found")
	ErrBillboardTaken      = errors.New("billboard is not available")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrNOCNotPending       = errors.New("no pending NOC application")
	ErrNOCNotApproved      = errors.New("NOC approval is required before payment")
	ErrPaymentRequired     = errors.New("payment must be completed first")
	ErrSignatureMismatch   = errors.New("payment signature verification failed")
	ErrOrderMismatch       = errors.New("order does not belong to this booking")
	ErrBookingNotCancelled = errors.New("only pending or confirmed bookings can be cancelled")
	ErrBookingCancelled    = errors.New("booking is cancelled")
)

// BookingDays counts billable days for a date range. Partial days round up.
func BookingDays(start time.Time, end time.Time) (int64, error) {
	if !end.After(start) {
		return 0, ErrInvalidDateRange
	}
	days := int64(math.Ceil(end.Sub(start).Hours() / 24))
	return days, nil
}

// CalculateBookingCost prorates the monthly rate over the booked days using a
// 30-day month, rounded to the nearest rupee.
func CalculateBookingCost(start time.Time, end time.Time, monthlyRate int64) (int64, error) {
	days, err := BookingDays(start, end)
	if err != nil {
		return 0, err
	}
	total := int64(math.Round(float64(monthlyRate) * float64(days) / 30))
	return total, nil
}

// CanTransition reports whether a booking status change is allowed. Statuses
// advance one step at a time, and only pending or confirmed bookings can be
// cancelled.
func CanTransition(from types.BookingStatus, to types.BookingStatus) bool {
	switch to {
	case types.BOOKING_CONFIRMED:
		return from == types.BOOKING_PENDING
	case types.BOOKING_ACTIVE:
		return from == types.BOOKING_CONFIRMED
	case types.BOOKING_COMPLETED:
		return from == types.BOOKING_ACTIVE
	case types.BOOKING_CANCELLED:
		return from == types.BOOKING_PENDING || from == types.BOOKING_CONFIRMED
	default:
		return false
	}
}

func CreateBooking(params *types.CreateBookingRequestBody, customerId uint) (*models.Booking, error) {
	startDate, err := time.Parse(config.DATE_PARSE_FORMAT, params.StartDate)
	if err != nil {
		log.Printf("Error parsing start_date: %s\n", err.Error())
		return nil, err
	}
	endDate, err := time.Parse(config.DATE_PARSE_FORMAT, params.EndDate)
	if err != nil {
		log.Printf("Error parsing end_date: %s\n", err.Error())
		return nil, err
	}
	billboardId, err := uuid.Parse(params.BillboardID)
	if err != nil {
		return nil, err
	}

	nocStatus := types.NOC_NOT_APPLIED
	if params.NOCCategory != nil && *params.NOCCategory != "" {
		nocStatus = types.NOC_PENDING
	}

	booking := models.Booking{
		BillboardID:         billboardId,
		CustomerID:          customerId,
		StartDate:           startDate,
		EndDate:             endDate,
		CampaignName:        params.CampaignName,
		Notes:               params.Notes,
		NOCCategory:         params.NOCCategory,
		NOCStatus:           nocStatus,
		CreativeImageURL:    params.CreativeImageURL,
		CreativeDescription: params.CreativeDescription,
		Status:              types.BOOKING_PENDING,
		PaymentStatus:       types.PAYMENT_PENDING,
	}
	if params.CampaignID != nil {
		cid, err := uuid.Parse(*params.CampaignID)
		if err != nil {
			return nil, err
		}
		booking.CampaignID = &cid
	}

	db := db.GetDb()
	err = db.Transaction(func(tx *gorm.DB) error {
		var billboard models.Billboard
		if err := tx.
			Where(&models.Billboard{ID: billboardId}).
			Preload("Owner").
			First(&billboard).
			Error; err != nil {
			return ErrBillboardNotFound
		}
		if !billboard.IsAvailable {
			return ErrBillboardTaken
		}
		total, err := CalculateBookingCost(startDate, endDate, billboard.PricePerMonth)
		if err != nil {
			return err
		}
		booking.TotalCost = total
		if booking.CampaignID != nil {
			var campaign models.Campaign
			if err := tx.
				Where(&models.Campaign{ID: *booking.CampaignID, CustomerID: customerId}).
				First(&campaign).
				Error; err != nil {
				return errors.New("campaign not found")
			}
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		desc := fmt.Sprintf("New booking request for %s", billboard.Title)
		if err := utils.CreateNotification(tx, billboard.OwnerID, "New booking request", desc, "bookings", booking.ID.String(), "booking"); err != nil {
			return err
		}
		if billboard.Owner != nil {
			go notifyByEmail(billboard.Owner.Email, "New booking request", desc)
			go utils.NotifyDevice(billboard.Owner.UID, "New booking request", desc)
		}
		return nil
	})
	if err != nil {
		log.Printf("CreateBooking failed: %s\n", err.Error())
		return nil, err
	}
	return &booking, nil
}

// ApproveNOC marks a pending NOC application as approved. Only the billboard
// owner can decide a NOC application.
func ApproveNOC(bookingId uuid.UUID, ownerId uint) error {
	return decideNOC(bookingId, ownerId, types.NOC_APPROVED)
}

// RejectNOC marks a pending NOC application as rejected and cancels the
// booking, since it can no longer proceed to payment.
func RejectNOC(bookingId uuid.UUID, ownerId uint) error {
	return decideNOC(bookingId, ownerId, types.NOC_REJECTED)
}

func decideNOC(bookingId uuid.UUID, ownerId uint, decision types.NOCStatus) error {
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.
			Clauses(clause.Locking{
				Strength: "UPDATE",
				Table:    clause.Table{Name: clause.CurrentTable},
			}).
			Where(&models.Booking{ID: bookingId}).
			First(&booking).
			Error; err != nil {
			return ErrBookingNotFound
		}
		var billboard models.Billboard
		if err := tx.
			Where(&models.Billboard{ID: booking.BillboardID, OwnerID: ownerId}).
			First(&billboard).
			Error; err != nil {
			return ErrBillboardNotFound
		}
		if booking.NOCStatus != types.NOC_PENDING {
			return ErrNOCNotPending
		}
		updates := models.Booking{NOCStatus: decision}
		if decision == types.NOC_REJECTED {
			updates.Status = types.BOOKING_CANCELLED
		}
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingId}).
			Updates(&updates).
			Error; err != nil {
			return err
		}
		desc := fmt.Sprintf("Your NOC application for %s was %s", billboard.Title, decision)
		return utils.CreateNotification(tx, booking.CustomerID, "NOC decision", desc, "bookings", bookingId.String(), "noc")
	})
	if err != nil {
		log.Printf("decideNOC failed: %s\n", err.Error())
	}
	return err
}

// UpdateBookingStatus moves a booking along its lifecycle on behalf of the
// billboard owner. Activation requires a completed payment.
func UpdateBookingStatus(bookingId uuid.UUID, ownerId uint, newStatus types.BookingStatus) error {
	var endDate time.Time
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.
			Clauses(clause.Locking{
				Strength: "UPDATE",
				Table:    clause.Table{Name: clause.CurrentTable},
			}).
			Where(&models.Booking{ID: bookingId}).
			First(&booking).
			Error; err != nil {
			return ErrBookingNotFound
		}
		var billboard models.Billboard
		if err := tx.
			Where(&models.Billboard{ID: booking.BillboardID, OwnerID: ownerId}).
			First(&billboard).
			Error; err != nil {
			return ErrBillboardNotFound
		}
		if !CanTransition(booking.Status, newStatus) {
			return ErrInvalidTransition
		}
		if newStatus == types.BOOKING_ACTIVE && booking.PaymentStatus != types.PAYMENT_COMPLETED {
			return ErrPaymentRequired
		}
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingId}).
			Update("status", newStatus).
			Error; err != nil {
			return err
		}
		endDate = booking.EndDate
		desc := fmt.Sprintf("Your booking for %s is now %s", billboard.Title, newStatus)
		return utils.CreateNotification(tx, booking.CustomerID, "Booking update", desc, "bookings", bookingId.String(), "booking")
	})
	if err != nil {
		log.Printf("UpdateBookingStatus failed: %s\n", err.Error())
		return err
	}
	if newStatus == types.BOOKING_ACTIVE {
		scheduleCompletion(bookingId, endDate)
	}
	return nil
}

// scheduleCompletion queues a one-time job completing an active booking once
// its end date passes. Bookings activated past their end date complete on the
// next expiry sweep instead.
func scheduleCompletion(bookingId uuid.UUID, at time.Time) {
	if !at.After(time.Now()) {
		return
	}
	_, err := lib.CreateOneTimeCronJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(at)),
		gocron.NewTask(func() {
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				return tx.
					Model(&models.Booking{}).
					Where(&models.Booking{ID: bookingId, Status: types.BOOKING_ACTIVE}).
					Update("status", types.BOOKING_COMPLETED).
					Error
			})
			if err != nil {
				log.Printf("Error completing booking [%s]: %s\n", bookingId, err.Error())
			}
		}),
	)
	if err != nil {
		log.Printf("Error scheduling completion for booking [%s]: %s\n", bookingId, err.Error())
	}
}

// CancelBooking cancels the customer's own booking while it is still pending
// or confirmed.
func CancelBooking(bookingId uuid.UUID, customerId uint) error {
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.
			Clauses(clause.Locking{
				Strength: "UPDATE",
				Table:    clause.Table{Name: clause.CurrentTable},
			}).
			Where(&models.Booking{ID: bookingId, CustomerID: customerId}).
			First(&booking).
			Error; err != nil {
			return ErrBookingNotFound
		}
		if !CanTransition(booking.Status, types.BOOKING_CANCELLED) {
			return ErrBookingNotCancelled
		}
		return tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingId}).
			Update("status", types.BOOKING_CANCELLED).
			Error
	})
	if err != nil {
		log.Printf("CancelBooking failed: %s\n", err.Error())
	}
	return err
}

// RequireNOCCleared reports whether a booking may proceed to payment.
func RequireNOCCleared(booking *models.Booking) error {
	if booking.NOCStatus == types.NOC_NOT_APPLIED || booking.NOCStatus == types.NOC_APPROVED {
		return nil
	}
	return ErrNOCNotApproved
}

// CompletePaymentVerified records a verified Razorpay payment against a
// booking. The update is idempotent: replaying a verification for a booking
// whose payment is already completed is a no-op.
func CompletePaymentVerified(bookingId uuid.UUID, orderId string, paymentId string) (*models.Booking, error) {
	var booking models.Booking
	var transitioned bool
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{
				Strength: "UPDATE",
				Table:    clause.Table{Name: clause.CurrentTable},
			}).
			Where(&models.Booking{ID: bookingId}).
			First(&booking).
			Error; err != nil {
			return ErrBookingNotFound
		}
		if booking.PaymentStatus == types.PAYMENT_COMPLETED {
			return nil
		}
		if booking.Status == types.BOOKING_CANCELLED {
			return ErrBookingCancelled
		}
		if booking.RazorpayOrderID == nil || *booking.RazorpayOrderID != orderId {
			return ErrOrderMismatch
		}
		if err := RequireNOCCleared(&booking); err != nil {
			return err
		}
		transitioned = true

		updates := models.Booking{
			PaymentStatus:     types.PAYMENT_COMPLETED,
			RazorpayPaymentID: &paymentId,
		}
		if booking.Status == types.BOOKING_PENDING {
			updates.Status = types.BOOKING_CONFIRMED
		}

		if booking.CampaignID == nil {
			campaign := models.Campaign{
				CustomerID:  booking.CustomerID,
				Name:        booking.CampaignName,
				Description: "Auto-created campaign from billboard booking",
				Budget:      booking.TotalCost,
				Status:      types.CAMPAIGN_ACTIVE,
			}
			if err := tx.Create(&campaign).Error; err != nil {
				return err
			}
			updates.CampaignID = &campaign.ID
		}

		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingId}).
			Updates(&updates).
			Error; err != nil {
			return err
		}
		booking.PaymentStatus = updates.PaymentStatus
		booking.RazorpayPaymentID = updates.RazorpayPaymentID
		if updates.Status != "" {
			booking.Status = updates.Status
		}
		if updates.CampaignID != nil {
			booking.CampaignID = updates.CampaignID
		}

		desc := fmt.Sprintf("Payment of %d received for booking %s", booking.TotalCost, bookingId)
		return utils.CreateNotification(tx, booking.CustomerID, "Payment confirmed", desc, "bookings", bookingId.String(), "payment")
	})
	if err != nil {
		log.Printf("CompletePaymentVerified failed: %s\n", err.Error())
		return nil, err
	}
	if transitioned {
		go EmitPaymentEvent(&booking, "payment.verified")
	}
	return &booking, nil
}

// ReportPaymentMismatch queues a reconciliation event when a signature check
// fails, so that suspicious verification attempts leave a trail.
func ReportPaymentMismatch(bookingId uuid.UUID, orderId string, paymentId string) {
	payload := &types.JSONB{
		"booking_id": bookingId.String(),
		"order_id":   orderId,
		"payment_id": paymentId,
		"reason":     "signature_mismatch",
		"at":         time.Now().UTC().Format(time.RFC3339),
	}
	apiEnv := os.Getenv("API_ENV")
	queue := utils.WithSuffix("PaymentsReconcile")
	if apiEnv == string(types.Local) {
		if err := lib.KafkaProduceMessage("PaymentsReconcileProducer", queue, payload); err != nil {
			log.Printf("Error queueing reconciliation event: %s\n", err.Error())
		}
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error serializing reconciliation event: %s\n", err.Error())
		return
	}
	if err := lib.SQSProduceMessage(queue, string(body)); err != nil {
		log.Printf("Error queueing reconciliation event: %s\n", err.Error())
	}
}

// EmitPaymentEvent publishes a booking payment event for downstream
// consumers. Local environments use Kafka, everything else goes through SNS.
// Declared as a variable so tests can swap in a recorder.
var EmitPaymentEvent = func(booking *models.Booking, event string) {
	payload := &types.JSONB{
		"event":      event,
		"booking_id": booking.ID.String(),
		"total":      booking.TotalCost,
		"status":     booking.Status,
	}
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == string(types.Local) {
		if err := lib.KafkaProduceMessage("PaymentEventsProducer", utils.WithSuffix("PaymentEvents"), payload); err != nil {
			log.Printf("Error publishing payment event: %s\n", err.Error())
		}
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error serializing payment event: %s\n", err.Error())
		return
	}
	if err := lib.SNSPublish(utils.WithSuffix("PaymentEvents"), string(body)); err != nil {
		log.Printf("Error publishing payment event: %s\n", err.Error())
	}
}

// ExpirePendingBookings cancels pending, unpaid bookings older than maxAge.
// Runs from the scheduler.
func ExpirePendingBookings(maxAge time.Duration) {
	cutoff := time.Now().Add(-maxAge)
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.
			Model(&models.Booking{}).
			Scopes(scopes.WithPendingStatus).
			Where(&models.Booking{PaymentStatus: types.PAYMENT_PENDING}).
			Where("created_at < ?", cutoff).
			Update("status", types.BOOKING_CANCELLED)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			log.Printf("Expired %d pending bookings\n", result.RowsAffected)
		}
		overdue := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{Status: types.BOOKING_ACTIVE}).
			Where("end_date < ?", time.Now()).
			Update("status", types.BOOKING_COMPLETED)
		if overdue.Error != nil {
			return overdue.Error
		}
		if overdue.RowsAffected > 0 {
			log.Printf("Completed %d overdue bookings\n", overdue.RowsAffected)
		}
		return nil
	})
	if err != nil {
		log.Printf("ExpirePendingBookings failed: %s\n", err.Error())
	}
}

func notifyByEmail(to string, subject string, body string) {
	if to == "" {
		return
	}
	input := &lib.SendMailInput{
		From:     os.Getenv("MAIL_FROM"),
		FromName: os.Getenv("MAIL_FROM_NAME"),
		To:       []string{to},
		Subject:  subject,
		Body:     body,
	}
	if err := mailer.NewMailerMessage(input); err != nil {
		log.Printf("Error queueing email: %s\n", err.Error())
	}
}
