package main

import (
	"awm/src/db"
	"awm/src/lib"
	"awm/src/models"
	"awm/src/types"
	"awm/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func billboardHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/billboards/own", func(ctx *gin.Context) {
			ownerId := ctx.GetUint("id")
			billboards, err := utils.GetOwnerBillboards(ownerId)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": billboards, "count": len(billboards)})
		}).
		POST("/billboards", func(ctx *gin.Context) {
			var body types.CreateBillboardRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ownerId := ctx.GetUint("id")
			billboard, err := utils.CreateNewBillboard(ctx, &body, ownerId)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": billboard})
		}).
		PUT("/billboards/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateBillboardRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ownerId := ctx.GetUint("id")
			id, _ := uuid.Parse(params.ID)
			db := db.GetDb()
			var billboard models.Billboard
			if err := db.
				Where(&models.Billboard{ID: id, OwnerID: ownerId}).
				First(&billboard).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "billboard not found"})
				return
			}
			updates := map[string]any{}
			if body.Title != nil {
				updates["title"] = *body.Title
			}
			if body.Location != nil {
				updates["location"] = *body.Location
			}
			if body.Latitude != nil {
				updates["latitude"] = *body.Latitude
			}
			if body.Longitude != nil {
				updates["longitude"] = *body.Longitude
			}
			if body.PricePerMonth != nil {
				updates["price_per_month"] = *body.PricePerMonth
			}
			if body.ImageURL != nil {
				updates["image_url"] = *body.ImageURL
			}
			if body.IsAvailable != nil {
				updates["is_available"] = *body.IsAvailable
			}
			if err := db.
				Model(&models.Billboard{}).
				Where(&models.Billboard{ID: id}).
				Updates(updates).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/billboards/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ownerId := ctx.GetUint("id")
			id, _ := uuid.Parse(params.ID)
			db := db.GetDb()
			var billboard models.Billboard
			if err := db.
				Where(&models.Billboard{ID: id, OwnerID: ownerId}).
				First(&billboard).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "billboard not found"})
				return
			}
			var active int64
			if err := db.
				Model(&models.Booking{}).
				Where(&models.Booking{BillboardID: id}).
				Where("status IN ?", []types.BookingStatus{
					types.BOOKING_PENDING,
					types.BOOKING_CONFIRMED,
					types.BOOKING_ACTIVE,
				}).
				Count(&active).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			if active > 0 {
				ctx.JSON(http.StatusConflict, gin.H{"error": "billboard has active bookings"})
				return
			}
			if err := db.Delete(&billboard).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		POST("/billboards/:id/traffic", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ownerId := ctx.GetUint("id")
			id, _ := uuid.Parse(params.ID)
			db := db.GetDb()
			var billboard models.Billboard
			if err := db.
				Where(&models.Billboard{ID: id, OwnerID: ownerId}).
				First(&billboard).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "billboard not found"})
				return
			}
			if billboard.Latitude == nil || billboard.Longitude == nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "billboard has no coordinates"})
				return
			}
			traffic, err := lib.FetchTrafficData(ctx, *billboard.Latitude, *billboard.Longitude)
			if err != nil {
				ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			if err := db.
				Model(&models.Billboard{}).
				Where(&models.Billboard{ID: id}).
				Updates(map[string]any{
					"traffic_score":     traffic.TrafficScore,
					"daily_impressions": traffic.DailyImpressions,
				}).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": traffic})
		})
	return g
}

func guestBillboardHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/billboards", func(ctx *gin.Context) {
			var filters types.BillboardQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			billboards, err := utils.ListBillboards(&filters)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": billboards, "count": len(billboards)})
		}).
		GET("/billboards/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			id, _ := uuid.Parse(params.ID)
			db := db.GetDb()
			var billboard models.Billboard
			if err := db.
				Model(&models.Billboard{}).
				Where(&models.Billboard{ID: id}).
				Preload("Owner").
				First(&billboard).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "billboard not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": billboard})
		})
	return g
}
