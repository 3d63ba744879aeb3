package main

import (
	"awm/src/common"
	"awm/src/config"
	"awm/src/db"
	"awm/src/lib"
	"awm/src/models"
	"awm/src/types"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func paymentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/payments/order", func(ctx *gin.Context) {
			var body types.CreateOrderRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			customerId := ctx.GetUint("id")
			bookingId, _ := uuid.Parse(body.BookingID)

			var booking models.Booking
			db := db.GetDb()
			if err := db.
				Where(&models.Booking{ID: bookingId, CustomerID: customerId}).
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
				return
			}
			if booking.PaymentStatus == types.PAYMENT_COMPLETED {
				ctx.JSON(http.StatusConflict, gin.H{"error": "booking is already paid"})
				return
			}
			if booking.Status == types.BOOKING_CANCELLED {
				ctx.JSON(http.StatusConflict, gin.H{"error": "booking is cancelled"})
				return
			}
			if err := common.RequireNOCCleared(&booking); err != nil {
				ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
				return
			}

			// Razorpay amounts are in paise
			amount := booking.TotalCost * 100
			order, err := lib.CreateRazorpayOrder(amount, body.Currency, booking.ID.String(), map[string]any{
				"booking_id":  booking.ID.String(),
				"customer_id": customerId,
			})
			if err != nil {
				ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			orderId, _ := order["id"].(string)
			if err := db.Transaction(func(tx *gorm.DB) error {
				return tx.
					Model(&models.Booking{}).
					Where(&models.Booking{ID: bookingId}).
					Update("razorpay_order_id", orderId).
					Error
			}); err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data": gin.H{
					"order_id": orderId,
					"amount":   amount,
					"currency": order["currency"],
					"key_id":   config.RazorpayKeyID(),
				},
			})
		}).
		POST("/payments/verify", func(ctx *gin.Context) {
			var body types.VerifyPaymentRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			bookingId, _ := uuid.Parse(body.BookingID)

			valid := lib.VerifyPaymentSignature(
				body.RazorpayOrderID,
				body.RazorpayPaymentID,
				body.RazorpaySignature,
				config.RazorpayKeySecret(),
			)
			if !valid {
				log.Printf("Signature mismatch for booking %s\n", body.BookingID)
				go common.ReportPaymentMismatch(bookingId, body.RazorpayOrderID, body.RazorpayPaymentID)
				ctx.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error":   common.ErrSignatureMismatch.Error(),
				})
				return
			}

			booking, err := common.CompletePaymentVerified(bookingId, body.RazorpayOrderID, body.RazorpayPaymentID)
			if err != nil {
				status := http.StatusUnprocessableEntity
				switch {
				case errors.Is(err, common.ErrBookingNotFound):
					status = http.StatusNotFound
				case errors.Is(err, common.ErrNOCNotApproved):
					status = http.StatusForbidden
				case errors.Is(err, common.ErrOrderMismatch), errors.Is(err, common.ErrBookingCancelled):
					status = http.StatusConflict
				}
				ctx.JSON(status, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": booking})
		})
	return g
}
