package main

import (
	"awm/src/lib"
	"awm/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

func trafficHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/traffic", func(ctx *gin.Context) {
			var body types.TrafficRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			result, err := lib.FetchTrafficData(ctx, body.Latitude, body.Longitude)
			if err != nil {
				ctx.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, result)
		})
	return g
}
