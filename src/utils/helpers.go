package utils

import (
	"awm/src/db"
	"awm/src/lib"
	"awm/src/models"
	"awm/src/models/scopes"
	"awm/src/types"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// WithSuffix appends the environment name to a queue or topic name so that
// shared AWS accounts can host multiple environments side by side.
func WithSuffix(name string) string {
	env := os.Getenv("API_ENV")
	if env == "" || env == string(types.Production) {
		return name
	}
	return fmt.Sprintf("%s-%s", name, env)
}

func CreateNewBillboard(ctx *gin.Context, params *types.CreateBillboardRequestBody, ownerId uint) (*models.Billboard, error) {
	billboard := models.Billboard{
		OwnerID:       ownerId,
		Title:         params.Title,
		Slug:          slug.Make(params.Title),
		Location:      params.Location,
		Latitude:      params.Latitude,
		Longitude:     params.Longitude,
		Width:         params.Width,
		Height:        params.Height,
		PricePerMonth: params.PricePerMonth,
		ImageURL:      params.ImageURL,
	}
	if params.IsAvailable != nil {
		billboard.IsAvailable = *params.IsAvailable
	} else {
		billboard.IsAvailable = true
	}

	if billboard.Latitude == nil || billboard.Longitude == nil {
		loc, err := lib.GeocodeAddress(ctx, params.Location)
		if err != nil {
			log.Printf("Could not geocode location [%s]: %s\n", params.Location, err.Error())
		} else if loc != nil {
			billboard.Latitude = &loc.Lat
			billboard.Longitude = &loc.Lng
		}
	}

	if billboard.Latitude != nil && billboard.Longitude != nil {
		traffic, err := lib.FetchTrafficData(ctx, *billboard.Latitude, *billboard.Longitude)
		if err != nil {
			log.Printf("Could not fetch traffic data for billboard [%s]: %s\n", billboard.Title, err.Error())
		} else {
			billboard.TrafficScore = traffic.TrafficScore
			billboard.DailyImpressions = &traffic.DailyImpressions
		}
	}

	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		var owner models.Profile
		if err := tx.Where(&models.Profile{ID: ownerId}).First(&owner).Error; err != nil {
			return err
		}
		if owner.Role != types.ROLE_OWNER {
			return errors.New("not enough permissions to perform this action")
		}
		if err := tx.Create(&billboard).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("CreateNewBillboard failed: %s\n", err.Error())
		return nil, err
	}
	return &billboard, nil
}

func CreateNewCampaign(params *types.CreateCampaignRequestBody, customerId uint) (*models.Campaign, error) {
	campaign := models.Campaign{
		CustomerID:  customerId,
		Name:        params.Name,
		Description: params.Description,
		Budget:      params.Budget,
	}
	db := db.GetDb()
	if err := db.Create(&campaign).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

func GetBookingWithRelations(id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	db := db.GetDb()
	if err := db.
		Model(&models.Booking{}).
		Where(&models.Booking{ID: id}).
		Preload("Billboard").
		Preload("Campaign").
		First(&booking).
		Error; err != nil {
		err := errors.New("booking not found")
		return nil, err
	}
	return &booking, nil
}

func GetOwnBookings(customerId uint) ([]models.Booking, error) {
	db := db.GetDb()
	var bookings []models.Booking
	err := db.
		Model(&models.Booking{}).
		Where(&models.Booking{CustomerID: customerId}).
		Preload("Billboard").
		Preload("Campaign").
		Order("created_at DESC").
		Limit(20).
		Find(&bookings).
		Error
	return bookings, err
}

func GetOwnerBookings(ownerId uint) ([]models.Booking, error) {
	db := db.GetDb()
	var bookings []models.Booking
	err := db.
		Model(&models.Booking{}).
		Joins("JOIN billboards ON billboards.id = bookings.billboard_id").
		Where("billboards.owner_id = ?", ownerId).
		Preload("Billboard").
		Preload("Customer").
		Order("bookings.created_at DESC").
		Find(&bookings).
		Error
	return bookings, err
}

func GetOwnerBillboards(ownerId uint) ([]models.Billboard, error) {
	db := db.GetDb()
	var billboards []models.Billboard
	err := db.
		Model(&models.Billboard{}).
		Where(&models.Billboard{OwnerID: ownerId}).
		Order("created_at DESC").
		Find(&billboards).
		Error
	return billboards, err
}

func ListBillboards(filters *types.BillboardQueryFilters) ([]models.Billboard, error) {
	db := db.GetDb()
	tx := db.Session(&gorm.Session{PrepareStmt: true}).Model(&models.Billboard{})
	if filters != nil {
		if filters.Available != nil && *filters.Available {
			tx = tx.Scopes(scopes.Available)
		}
		if filters.Traffic != nil {
			tx = tx.Scopes(scopes.WithTraffic(*filters.Traffic))
		}
		if filters.MaxPrice != nil {
			tx = tx.Scopes(scopes.WithMaxPrice(*filters.MaxPrice))
		}
	}
	var billboards []models.Billboard
	err := tx.Order("created_at DESC").Find(&billboards).Error
	return billboards, err
}

func CreateNotification(tx *gorm.DB, profileId uint, title string, description string, refSource string, refValue string, notifType string) error {
	notification := models.Notification{
		ProfileID:       profileId,
		Title:           title,
		Description:     &description,
		ReferenceSource: refSource,
		ReferenceValue:  refValue,
		Type:            notifType,
	}
	return tx.Create(&notification).Error
}

func NotifyDevice(uid string, title string, body string) {
	msg, err := lib.GetFirebaseMessaging()
	if err != nil {
		log.Printf("Error retrieving FCM instance: %s\n", err.Error())
		return
	}
	rd := lib.GetRedisClient()
	token, err := rd.Get(context.Background(), fmt.Sprintf("%s:fcm", uid)).Result()
	if err != nil || token == "" {
		return
	}
	go lib.SendPushNotification(msg, token, title, body)
}

// CacheJSON caches a serialized value under key with a ttl, logging failures
// without surfacing them to the caller.
func CacheJSON(key string, value string, ttl time.Duration) {
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	if _, err := rd.SetEx(context.Background(), key, value, ttl).Result(); err != nil {
		log.Printf("Error caching value [%s]: %s\n", key, err.Error())
	}
}
