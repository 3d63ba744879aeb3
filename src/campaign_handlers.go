package main

import (
	"awm/src/db"
	"awm/src/models"
	"awm/src/types"
	"awm/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func campaignHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/campaigns", func(ctx *gin.Context) {
			customerId := ctx.GetUint("id")
			db := db.GetDb()
			var campaigns []models.Campaign
			if err := db.
				Model(&models.Campaign{}).
				Where(&models.Campaign{CustomerID: customerId}).
				Order("created_at DESC").
				Find(&campaigns).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": campaigns, "count": len(campaigns)})
		}).
		GET("/campaigns/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			customerId := ctx.GetUint("id")
			id, _ := uuid.Parse(params.ID)
			db := db.GetDb()
			var campaign models.Campaign
			if err := db.
				Model(&models.Campaign{}).
				Where(&models.Campaign{ID: id, CustomerID: customerId}).
				Preload("Bookings").
				Preload("Bookings.Billboard").
				First(&campaign).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "campaign not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": campaign})
		}).
		POST("/campaigns", func(ctx *gin.Context) {
			var body types.CreateCampaignRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			customerId := ctx.GetUint("id")
			campaign, err := utils.CreateNewCampaign(&body, customerId)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": campaign})
		}).
		PUT("/campaigns/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateCampaignRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			customerId := ctx.GetUint("id")
			id, _ := uuid.Parse(params.ID)
			db := db.GetDb()
			var campaign models.Campaign
			if err := db.
				Where(&models.Campaign{ID: id, CustomerID: customerId}).
				First(&campaign).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "campaign not found"})
				return
			}
			updates := map[string]any{}
			if body.Name != nil {
				updates["name"] = *body.Name
			}
			if body.Description != nil {
				updates["description"] = *body.Description
			}
			if body.Budget != nil {
				updates["budget"] = *body.Budget
			}
			if body.Status != nil {
				updates["status"] = *body.Status
			}
			if err := db.
				Model(&models.Campaign{}).
				Where(&models.Campaign{ID: id}).
				Updates(updates).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/campaigns/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			customerId := ctx.GetUint("id")
			id, _ := uuid.Parse(params.ID)
			db := db.GetDb()
			var campaign models.Campaign
			if err := db.
				Where(&models.Campaign{ID: id, CustomerID: customerId}).
				First(&campaign).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "campaign not found"})
				return
			}
			if err := db.Delete(&campaign).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
