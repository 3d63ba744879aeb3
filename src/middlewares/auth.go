package middlewares

import (
	"awm/src/db"
	"awm/src/models"
	"awm/src/types"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func AuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer") {
		ctx.AbortWithStatus(401)
		return
	}
	reqToken := strings.Split(bearerToken, " ")[1]
	if reqToken == "" {
		ctx.AbortWithStatus(401)
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		return jwtKey, nil
	})
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		if err == jwt.ErrSignatureInvalid || err == jwt.ErrTokenMalformed {
			ctx.AbortWithStatus(401)
			return
		}
		ctx.AbortWithError(401, err)
		return
	}
	if !tkn.Valid {
		ctx.AbortWithStatus(401)
		return
	}

	db := db.GetDb()
	var profile models.Profile
	uid, err := strconv.Atoi(claims.Subject)
	if err != nil {
		log.Println("error parsing claims:", err.Error())
		ctx.AbortWithStatus(401)
	}
	db.Model(&models.Profile{}).Where(&models.Profile{ID: uint(uid)}).Find(&profile)

	if uint(uid) != profile.ID || profile.ID < 1 {
		ctx.AbortWithStatus(401)
		return
	}
	ctx.Set("email", profile.Email)
	ctx.Set("id", profile.ID)
	ctx.Set("uid", profile.UID)
	ctx.Set("role", profile.Role)
}

// OwnerOnly requires an authenticated billboard owner. Runs after AuthMiddleware.
func OwnerOnly(ctx *gin.Context) {
	role, _ := ctx.Get("role")
	if role != types.ROLE_OWNER {
		ctx.AbortWithStatusJSON(403, gin.H{"error": "owner role required"})
	}
}
