package main

import (
	"awm/src/db"
	"awm/src/middlewares"
	"awm/src/types"
	"awm/src/utils"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type TestSuite struct {
	suite.Suite
	DB         *gorm.DB
	Mock       *sqlmock.Sqlmock
	Token      *string
	OwnerToken *string
}

var jwtTestKey = []byte(os.Getenv("JWT_SECRET"))

// authMiddleware resolves the profile from the token claims alone so route
// tests do not need database expectations for authentication.
func authMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer") {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	reqToken := strings.Split(bearerToken, " ")[1]
	if reqToken == "" {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		return jwtTestKey, nil
	})
	if err != nil || !tkn.Valid {
		log.Printf("token error: %v\n", err)
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	ctx.Set("email", claims.Username)
	ctx.Set("id", uint(id))
	ctx.Set("uid", claims.UID)
	ctx.Set("role", types.Role(claims.Role))
}

func NewMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}))
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

func (s *TestSuite) SetupSuite() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("bookingdate", bookingDateValidatorFunc)
		v.RegisterValidation("gtdatefield", gtdatefield)
	}

	d, mock := NewMockDB()
	db.NewDB(d)
	s.DB = d
	s.Mock = &mock

	token, err := utils.GenerateJWT("customer@example.com", 1, types.ROLE_CUSTOMER, uuid.NewString())
	if err != nil {
		log.Fatalf("Error generating JWT token: %s\n", err.Error())
	}
	s.Token = &token

	ownerToken, err := utils.GenerateJWT("owner@example.com", 2, types.ROLE_OWNER, uuid.NewString())
	if err != nil {
		log.Fatalf("Error generating JWT token: %s\n", err.Error())
	}
	s.OwnerToken = &ownerToken
}

func (s *TestSuite) TearDownSuite() {
	inner, err := s.DB.DB()
	if err != nil {
		log.Printf("Error accessing inner db instance: %s\n", err.Error())
		return
	}
	inner.Close()
}

func (s *TestSuite) TestPingRoute() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
	assert.Equal(s.T(), "DENY", w.Header().Get("X-Frame-Options"))
}

func (s *TestSuite) TestMaintenanceMode() {
	os.Setenv("MAINTENANCE_MODE", "true")
	defer os.Unsetenv("MAINTENANCE_MODE")

	router := setupRouter()
	router = maintenanceModeMiddleware(router)
	apiv1Group(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 503, w.Code)
}

func (s *TestSuite) TestAuthRoutes() {
	router := setupRouter()
	guestAuthRoutes(router)

	jbody := map[string]any{
		"email": "someone@example.com",
	}
	sbody, _ := json.Marshal(&jbody)

	s.Run("Should reject login without an ID token", func() {
		w := httptest.NewRecorder()
		loginReq, _ := http.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, loginReq)

		assert.Equal(s.T(), 401, w.Code)
	})

	s.Run("Should reject register without an ID token", func() {
		w := httptest.NewRecorder()
		registerReq, _ := http.NewRequest("POST", "/api/v1/auth/register", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, registerReq)

		assert.Equal(s.T(), 401, w.Code)
	})
}

func (s *TestSuite) TestPublicBillboards() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	guestBillboardHandlers(apiv1)

	mock := *s.Mock
	rows := sqlmock.NewRows([]string{"id", "title", "location", "price_per_month", "traffic_score", "is_available"}).
		AddRow(uuid.NewString(), "MG Road Hoarding", "MG Road, Bengaluru", 50000, "high", true)
	mock.ExpectPrepare(`SELECT (.+) FROM "billboards"`).
		ExpectQuery().
		WillReturnRows(rows)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/billboards", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
	rbytes, err := io.ReadAll(w.Body)
	assert.Nil(s.T(), err)
	sjson := string(rbytes)
	assert.Equal(s.T(), int64(1), gjson.Get(sjson, "count").Int())
	assert.Equal(s.T(), "MG Road Hoarding", gjson.Get(sjson, "data.0.title").String())
}

func (s *TestSuite) TestBookings() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(authMiddleware)
	bookingHandlers(apiv1)

	token := *s.Token

	s.Run("Should reject an unauthenticated request", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/bookings", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 401, w.Code)
	})

	s.Run("Should return a 400 error for an incomplete body", func() {
		w := httptest.NewRecorder()
		reqBody := types.CreateBookingRequestBody{
			CampaignName: "Summer Sale",
		}
		rbytes, err := json.Marshal(&reqBody)
		assert.Nil(s.T(), err)
		req, _ := http.NewRequest("POST", "/api/v1/bookings", strings.NewReader(string(rbytes)))
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)

		rbytes, err = io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		errMsg := gjson.Get(string(rbytes), "error").String()
		assert.NotEmpty(s.T(), errMsg)
	})

	s.Run("Should reject an end date before the start date", func() {
		w := httptest.NewRecorder()
		reqBody := types.CreateBookingRequestBody{
			BillboardID:  uuid.NewString(),
			StartDate:    "2030-05-20",
			EndDate:      "2030-05-10",
			CampaignName: "Summer Sale",
		}
		rbytes, err := json.Marshal(&reqBody)
		assert.Nil(s.T(), err)
		req, _ := http.NewRequest("POST", "/api/v1/bookings", strings.NewReader(string(rbytes)))
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should reject a booking that starts in the past", func() {
		w := httptest.NewRecorder()
		reqBody := types.CreateBookingRequestBody{
			BillboardID:  uuid.NewString(),
			StartDate:    "2020-01-01",
			EndDate:      "2020-02-01",
			CampaignName: "Summer Sale",
		}
		rbytes, err := json.Marshal(&reqBody)
		assert.Nil(s.T(), err)
		req, _ := http.NewRequest("POST", "/api/v1/bookings", strings.NewReader(string(rbytes)))
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should reject an invalid status value", func() {
		w := httptest.NewRecorder()
		body := strings.NewReader(`{"status":"archived"}`)
		req, _ := http.NewRequest("PUT", fmt.Sprintf("/api/v1/bookings/%s/status", uuid.NewString()), body)
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestOwnerRoutes() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(authMiddleware, middlewares.OwnerOnly)
	billboardHandlers(apiv1)

	s.Run("Should reject a customer on owner routes", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/billboards/own", nil)
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *s.Token))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 403, w.Code)
	})

	s.Run("Should return a 400 error for an invalid billboard body", func() {
		w := httptest.NewRecorder()
		body := strings.NewReader(`{"title":"No dimensions"}`)
		req, _ := http.NewRequest("POST", "/api/v1/billboards", body)
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *s.OwnerToken))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestPayments() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(authMiddleware)
	paymentHandlers(apiv1)

	token := *s.Token

	s.Run("Should return a 400 error for a missing booking id", func() {
		w := httptest.NewRecorder()
		body := strings.NewReader(`{"currency":"INR"}`)
		req, _ := http.NewRequest("POST", "/api/v1/payments/order", body)
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should return a 400 error for an incomplete verify body", func() {
		w := httptest.NewRecorder()
		body := strings.NewReader(`{"razorpay_order_id":"order_123"}`)
		req, _ := http.NewRequest("POST", "/api/v1/payments/verify", body)
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
