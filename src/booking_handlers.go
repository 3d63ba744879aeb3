package main

import (
	"awm/src/common"
	"awm/src/db"
	awslib "awm/src/lib/aws"
	"awm/src/models"
	"awm/src/types"
	"awm/src/utils"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/bookings", func(ctx *gin.Context) {
			customerId := ctx.GetUint("id")
			bookings, err := utils.GetOwnBookings(customerId)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/owner", func(ctx *gin.Context) {
			ownerId := ctx.GetUint("id")
			bookings, err := utils.GetOwnerBookings(ownerId)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			id, _ := uuid.Parse(params.ID)
			booking, err := utils.GetBookingWithRelations(id)
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			customerId := ctx.GetUint("id")
			booking, err := common.CreateBooking(&body, customerId)
			if err != nil {
				status := http.StatusUnprocessableEntity
				if errors.Is(err, common.ErrBillboardNotFound) {
					status = http.StatusNotFound
				}
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": booking})
		}).
		PUT("/bookings/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			customerId := ctx.GetUint("id")
			id, _ := uuid.Parse(params.ID)
			if err := common.CancelBooking(id, customerId); err != nil {
				status := http.StatusUnprocessableEntity
				if errors.Is(err, common.ErrBookingNotFound) {
					status = http.StatusNotFound
				}
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		PUT("/bookings/:id/status", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateBookingStatusRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ownerId := ctx.GetUint("id")
			id, _ := uuid.Parse(params.ID)
			if err := common.UpdateBookingStatus(id, ownerId, body.Status); err != nil {
				status := http.StatusUnprocessableEntity
				switch {
				case errors.Is(err, common.ErrBookingNotFound), errors.Is(err, common.ErrBillboardNotFound):
					status = http.StatusNotFound
				case errors.Is(err, common.ErrInvalidTransition), errors.Is(err, common.ErrPaymentRequired):
					status = http.StatusConflict
				}
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		POST("/bookings/:id/creative", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			file, err := ctx.FormFile("creative")
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			customerId := ctx.GetUint("id")
			id, _ := uuid.Parse(params.ID)
			db := db.GetDb()
			var booking models.Booking
			if err := db.
				Where(&models.Booking{ID: id, CustomerID: customerId}).
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
				return
			}
			tempdir := os.Getenv("TEMP_DIR")
			dst := path.Join(tempdir, fmt.Sprintf("%s.jpeg", id.String()))
			if err := ctx.SaveUploadedFile(file, dst); err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			defer os.Remove(dst)
			url, err := awslib.S3UploadCreative(id.String(), dst)
			if err != nil {
				ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			if err := db.Transaction(func(tx *gorm.DB) error {
				return tx.
					Model(&models.Booking{}).
					Where(&models.Booking{ID: id}).
					Update("creative_image_url", *url).
					Error
			}); err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"creative_image_url": *url}})
		}).
		PUT("/bookings/:id/noc", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.NOCDecisionRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ownerId := ctx.GetUint("id")
			id, _ := uuid.Parse(params.ID)
			var err error
			if body.Decision == types.NOC_APPROVED {
				err = common.ApproveNOC(id, ownerId)
			} else {
				err = common.RejectNOC(id, ownerId)
			}
			if err != nil {
				status := http.StatusUnprocessableEntity
				switch {
				case errors.Is(err, common.ErrBookingNotFound), errors.Is(err, common.ErrBillboardNotFound):
					status = http.StatusNotFound
				case errors.Is(err, common.ErrNOCNotPending):
					status = http.StatusConflict
				}
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
