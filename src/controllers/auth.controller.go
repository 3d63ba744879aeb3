package controllers

import (
	"awm/src/db"
	"awm/src/lib"
	"awm/src/models"
	"awm/src/types"
	"awm/src/utils"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func AuthLogin(ctx *gin.Context) (token *string, status int, err error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	auth, err := lib.GetFirebaseAuth()
	if err != nil {
		log.Printf("Error initializing FirebaseAuth client: %s\n", err.Error())
		return nil, http.StatusBadRequest, err
	}
	user, err := auth.GetUserByEmail(context.Background(), body.Email)
	if err != nil {
		log.Printf("error from Firebase: %s\n", err.Error())
		return nil, http.StatusNotFound, err
	}

	db := db.GetDb()
	var profile models.Profile
	if err = db.
		Model(&models.Profile{}).
		Select("id", "name", "email", "role", "uid").
		Where(&models.Profile{Email: user.Email}).
		First(&profile).
		Error; err != nil {
		log.Printf("error: %s\n", err.Error())
		return nil, http.StatusNotFound, err
	}

	uid := ctx.GetString("uid")
	rd := lib.GetRedisClient()
	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.
			Model(&models.Profile{}).
			Where("id", profile.ID).
			Update("updated_at", time.Now()).
			Error
	})
	if err != nil {
		log.Printf("Error logging in profile [%d]: %s\n", profile.ID, err.Error())
		return nil, http.StatusBadRequest, err
	}

	jwt, err := utils.GenerateJWT(user.Email, profile.ID, profile.Role, profile.UID)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	if _, err = rd.JSONSet(ctx, fmt.Sprintf("%d:profile", profile.ID), "$", &profile).Result(); err != nil {
		log.Printf("[redis] Error updating profile cache: %s\n", err.Error())
	}
	val := rd.JSONGet(context.Background(), fmt.Sprintf("%s:fcm", uid), "$.token").Val()
	if val != "" {
		fcm, _ := lib.GetFirebaseMessaging()
		fcm.SubscribeToTopic(ctx, []string{val}, "Notifications")
	}

	return &jwt, http.StatusOK, nil
}

func AuthRegister(ctx *gin.Context) (uid *string, status int, err error) {
	var body types.RegisterRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	auth, err := lib.GetFirebaseAuth()
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	user, err := auth.GetUserByEmail(context.Background(), body.Email)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	db := db.GetDb()
	err = db.Transaction(func(tx *gorm.DB) error {
		var existing models.Profile
		if err := tx.
			Model(&models.Profile{}).
			Select("id").
			Where("email = ?", body.Email).
			First(&existing).
			Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("could not complete transaction")
			}
		}
		if existing.ID > 0 {
			err := errors.New("user is already registered in the system. Please proceed to Log In")
			log.Printf("error: %s\n", err.Error())
			return err
		}

		profile := models.Profile{
			Email: user.Email,
			UID:   user.UID,
			Role:  body.Role,
			Name:  body.Name,
		}
		if err := tx.Create(&profile).Error; err != nil {
			log.Printf("Error creating profile: %s\n", err.Error())
			return fmt.Errorf("error creating profile: %s", user.Email)
		}
		return nil
	})
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	return &user.UID, http.StatusOK, nil
}
