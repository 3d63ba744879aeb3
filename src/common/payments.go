package common

import (
	"awm/src/db"
	"awm/src/lib"
	"awm/src/models"
	"awm/src/types"
	"encoding/json"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	sesTypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	awslib "awm/src/lib/aws"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"gorm.io/gorm"
)

// PaymentsReconcileHandler records failed signature verifications so that an
// operator can follow up with the payment gateway.
func PaymentsReconcileHandler(body string) {
	if !gjson.Valid(body) {
		log.Println("[PaymentsReconcile]: Received invalid json body. Aborting")
		return
	}
	bookingId := gjson.Get(body, "booking_id").String()
	orderId := gjson.Get(body, "order_id").String()
	reason := gjson.Get(body, "reason").String()
	log.Printf("[PaymentsReconcile]: booking=%s order=%s reason=%s\n", bookingId, orderId, reason)

	bid, err := uuid.Parse(bookingId)
	if err != nil {
		log.Printf("[PaymentsReconcile]: invalid booking id: %s\n", err.Error())
		return
	}
	var payload types.JSONB
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		log.Printf("Error deserializing JSON: %s\n", err.Error())
		return
	}
	go func() {
		db := db.GetDb()
		err := db.Transaction(func(tx *gorm.DB) error {
			var booking models.Booking
			if err := tx.
				Where(&models.Booking{ID: bid}).
				First(&booking).
				Error; err != nil {
				return err
			}
			desc := "A payment verification for your booking failed its signature check"
			notification := models.Notification{
				ProfileID:       booking.CustomerID,
				Title:           "Payment verification failed",
				Description:     &desc,
				ReferenceSource: "bookings",
				ReferenceValue:  bookingId,
				ReferenceBody:   &payload,
				Type:            "reconciliation",
			}
			return tx.Create(&notification).Error
		})
		if err != nil {
			log.Printf("Error recording reconciliation event: %s\n", err.Error())
		}
	}()
}

// PaymentEventsHandler consumes fanned-out payment events. The API currently
// only logs them, downstream analytics attach to the same topic.
func PaymentEventsHandler(body string) {
	if !gjson.Valid(body) {
		log.Println("[PaymentEvents]: Received invalid json body. Aborting")
		return
	}
	message := body
	if m := gjson.Get(body, "Message"); m.Exists() {
		message = m.String()
	}
	event := gjson.Get(message, "event").String()
	bookingId := gjson.Get(message, "booking_id").String()
	log.Printf("[PaymentEvents]: %s booking=%s\n", event, bookingId)
}

// EmailsHandler delivers a queued email. SMTP is the default transport, with
// SES as fallback when SMTP is not configured.
func EmailsHandler(body string) {
	if !gjson.Valid(body) {
		log.Println("[Emails]: Received invalid json body. Aborting")
		return
	}
	message := body
	if m := gjson.Get(body, "Message"); m.Exists() {
		message = m.String()
	}
	var payload types.JSONB
	if err := json.Unmarshal([]byte(message), &payload); err != nil {
		log.Printf("Error deserializing JSON: %s\n", err.Error())
		return
	}
	input := lib.SendMailInput{}
	if v, ok := payload["from"].(string); ok {
		input.From = v
	}
	if v, ok := payload["from-name"].(string); ok {
		input.FromName = v
	}
	if v, ok := payload["subject"].(string); ok {
		input.Subject = v
	}
	if v, ok := payload["body"].(string); ok {
		input.Body = v
	}
	if v, ok := payload["html"].(bool); ok {
		input.Html = v
	}
	if to, ok := payload["to"].([]any); ok {
		for _, t := range to {
			if s, ok := t.(string); ok {
				input.To = append(input.To, s)
			}
		}
	}
	if len(input.To) == 0 {
		log.Println("[Emails]: no recipients. Aborting")
		return
	}
	if err := lib.SendMail(&input); err != nil {
		log.Printf("SMTP send failed, falling back to SES: %s\n", err.Error())
		awslib.SESSendMessage(&input.From, &sesTypes.Destination{
			ToAddresses: input.To,
		}, &sesTypes.Message{
			Subject: &sesTypes.Content{Data: aws.String(input.Subject)},
			Body: &sesTypes.Body{
				Text: &sesTypes.Content{Data: aws.String(input.Body)},
			},
		})
	}
}
