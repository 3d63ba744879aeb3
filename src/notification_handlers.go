package main

import (
	"awm/src/db"
	"awm/src/models"
	"awm/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func notificationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/notifications", func(ctx *gin.Context) {
			profileId := ctx.GetUint("id")
			db := db.GetDb()
			var notifications []models.Notification
			if err := db.
				Model(&models.Notification{}).
				Where(&models.Notification{ProfileID: profileId}).
				Order("created_at DESC").
				Limit(50).
				Find(&notifications).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": notifications, "count": len(notifications)})
		}).
		PUT("/notifications/:id/read", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			profileId := ctx.GetUint("id")
			id, _ := uuid.Parse(params.ID)
			db := db.GetDb()
			if err := db.
				Model(&models.Notification{}).
				Where(&models.Notification{ID: id, ProfileID: profileId}).
				Update("read", true).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
