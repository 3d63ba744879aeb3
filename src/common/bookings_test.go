package common

import (
	"awm/src/db"
	"awm/src/models"
	"awm/src/types"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	mockDb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDb}))
	if err != nil {
		t.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

func mustParseDate(t *testing.T, value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("Error parsing date %s: %s", value, err.Error())
	}
	return parsed
}

func TestBookingDays(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		days  int64
	}{
		{"single day", "2030-06-01", "2030-06-02", 1},
		{"ten days", "2030-06-01", "2030-06-11", 10},
		{"thirty days", "2030-06-01", "2030-07-01", 30},
		{"across a year boundary", "2030-12-30", "2031-01-02", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := BookingDays(mustParseDate(t, tt.start), mustParseDate(t, tt.end))
			assert.Nil(t, err)
			assert.Equal(t, tt.days, days)
		})
	}

	t.Run("partial days round up", func(t *testing.T) {
		start := mustParseDate(t, "2030-06-01")
		end := start.Add(36 * time.Hour)
		days, err := BookingDays(start, end)
		assert.Nil(t, err)
		assert.Equal(t, int64(2), days)
	})

	t.Run("end equal to start is rejected", func(t *testing.T) {
		start := mustParseDate(t, "2030-06-01")
		_, err := BookingDays(start, start)
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		_, err := BookingDays(mustParseDate(t, "2030-06-11"), mustParseDate(t, "2030-06-01"))
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})
}

func TestCalculateBookingCost(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		monthly int64
		total   int64
	}{
		{"ten days at 50000", "2030-06-01", "2030-06-11", 50000, 16667},
		{"full month", "2030-06-01", "2030-07-01", 50000, 50000},
		{"one day", "2030-06-01", "2030-06-02", 30000, 1000},
		{"forty five days", "2030-06-01", "2030-07-16", 30000, 45000},
		{"zero rate", "2030-06-01", "2030-06-11", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := CalculateBookingCost(mustParseDate(t, tt.start), mustParseDate(t, tt.end), tt.monthly)
			assert.Nil(t, err)
			assert.Equal(t, tt.total, total)
		})
	}

	t.Run("same inputs always produce the same total", func(t *testing.T) {
		start := mustParseDate(t, "2030-06-01")
		end := mustParseDate(t, "2030-06-18")
		first, err := CalculateBookingCost(start, end, 72500)
		assert.Nil(t, err)
		for range 10 {
			again, err := CalculateBookingCost(start, end, 72500)
			assert.Nil(t, err)
			assert.Equal(t, first, again)
		}
	})

	t.Run("invalid range is rejected", func(t *testing.T) {
		_, err := CalculateBookingCost(mustParseDate(t, "2030-06-11"), mustParseDate(t, "2030-06-01"), 50000)
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})
}

func TestCanTransition(t *testing.T) {
	allowed := []struct {
		from types.BookingStatus
		to   types.BookingStatus
	}{
		{types.BOOKING_PENDING, types.BOOKING_CONFIRMED},
		{types.BOOKING_CONFIRMED, types.BOOKING_ACTIVE},
		{types.BOOKING_ACTIVE, types.BOOKING_COMPLETED},
		{types.BOOKING_PENDING, types.BOOKING_CANCELLED},
		{types.BOOKING_CONFIRMED, types.BOOKING_CANCELLED},
	}
	for _, tt := range allowed {
		assert.Truef(t, CanTransition(tt.from, tt.to), "%s -> %s should be allowed", tt.from, tt.to)
	}

	denied := []struct {
		from types.BookingStatus
		to   types.BookingStatus
	}{
		{types.BOOKING_PENDING, types.BOOKING_ACTIVE},
		{types.BOOKING_PENDING, types.BOOKING_COMPLETED},
		{types.BOOKING_CONFIRMED, types.BOOKING_COMPLETED},
		{types.BOOKING_ACTIVE, types.BOOKING_CANCELLED},
		{types.BOOKING_ACTIVE, types.BOOKING_CONFIRMED},
		{types.BOOKING_COMPLETED, types.BOOKING_ACTIVE},
		{types.BOOKING_COMPLETED, types.BOOKING_CANCELLED},
		{types.BOOKING_CANCELLED, types.BOOKING_PENDING},
		{types.BOOKING_CANCELLED, types.BOOKING_CONFIRMED},
	}
	for _, tt := range denied {
		assert.Falsef(t, CanTransition(tt.from, tt.to), "%s -> %s should be denied", tt.from, tt.to)
	}
}

func TestRequireNOCCleared(t *testing.T) {
	tests := []struct {
		status  types.NOCStatus
		allowed bool
	}{
		{types.NOC_NOT_APPLIED, true},
		{types.NOC_APPROVED, true},
		{types.NOC_PENDING, false},
		{types.NOC_REJECTED, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			booking := &models.Booking{NOCStatus: tt.status}
			err := RequireNOCCleared(booking)
			if tt.allowed {
				assert.Nil(t, err)
			} else {
				assert.ErrorIs(t, err, ErrNOCNotApproved)
			}
		})
	}
}

func capturePaymentEvents(t *testing.T) chan string {
	events := make(chan string, 1)
	orig := EmitPaymentEvent
	EmitPaymentEvent = func(booking *models.Booking, event string) {
		events <- event
	}
	t.Cleanup(func() { EmitPaymentEvent = orig })
	return events
}

func TestCompletePaymentVerifiedReplay(t *testing.T) {
	d, mock := newMockDB(t)
	db.NewDB(d)
	events := capturePaymentEvents(t)

	bookingId := uuid.New()
	orderId := "order_test123"
	paymentId := "pay_test456"

	rows := sqlmock.NewRows([]string{
		"id", "billboard_id", "customer_id", "campaign_name", "total_cost",
		"status", "payment_status", "noc_status", "razorpay_order_id", "razorpay_payment_id",
	}).AddRow(
		bookingId.String(), uuid.NewString(), 1, "Summer Sale", 16667,
		"confirmed", "completed", "not_applied", orderId, paymentId,
	)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings" (.+)FOR UPDATE`).
		WillReturnRows(rows)
	mock.ExpectCommit()

	booking, err := CompletePaymentVerified(bookingId, orderId, paymentId)
	assert.Nil(t, err)
	assert.Equal(t, types.PAYMENT_COMPLETED, booking.PaymentStatus)
	assert.Equal(t, types.BOOKING_CONFIRMED, booking.Status)
	assert.Nil(t, mock.ExpectationsWereMet())

	select {
	case e := <-events:
		t.Fatalf("replayed verification published event %q", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCompletePaymentVerifiedOrderMismatch(t *testing.T) {
	d, mock := newMockDB(t)
	db.NewDB(d)

	bookingId := uuid.New()

	rows := sqlmock.NewRows([]string{
		"id", "billboard_id", "customer_id", "campaign_name", "total_cost",
		"status", "payment_status", "noc_status", "razorpay_order_id",
	}).AddRow(
		bookingId.String(), uuid.NewString(), 1, "Summer Sale", 16667,
		"pending", "pending", "not_applied", "order_original",
	)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings" (.+)FOR UPDATE`).
		WillReturnRows(rows)
	mock.ExpectRollback()

	_, err := CompletePaymentVerified(bookingId, "order_someoneelses", "pay_test")
	assert.ErrorIs(t, err, ErrOrderMismatch)
}

func TestCompletePaymentVerifiedNOCGate(t *testing.T) {
	d, mock := newMockDB(t)
	db.NewDB(d)

	bookingId := uuid.New()
	orderId := "order_test123"

	rows := sqlmock.NewRows([]string{
		"id", "billboard_id", "customer_id", "campaign_name", "total_cost",
		"status", "payment_status", "noc_status", "razorpay_order_id",
	}).AddRow(
		bookingId.String(), uuid.NewString(), 1, "Summer Sale", 16667,
		"pending", "pending", "pending", orderId,
	)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings" (.+)FOR UPDATE`).
		WillReturnRows(rows)
	mock.ExpectRollback()

	_, err := CompletePaymentVerified(bookingId, orderId, "pay_test")
	assert.ErrorIs(t, err, ErrNOCNotApproved)
}

func TestCompletePaymentVerifiedFirstVerification(t *testing.T) {
	d, mock := newMockDB(t)
	db.NewDB(d)
	events := capturePaymentEvents(t)

	bookingId := uuid.New()
	campaignId := uuid.New()
	orderId := "order_test123"
	paymentId := "pay_test456"

	rows := sqlmock.NewRows([]string{
		"id", "billboard_id", "customer_id", "campaign_name", "total_cost",
		"status", "payment_status", "noc_status", "razorpay_order_id",
	}).AddRow(
		bookingId.String(), uuid.NewString(), 1, "Summer Sale", 16667,
		"pending", "pending", "not_applied", orderId,
	)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings" (.+)FOR UPDATE`).
		WillReturnRows(rows)
	mock.ExpectQuery(`INSERT INTO "campaigns"`).
		WithArgs(
			1,
			"Summer Sale",
			"Auto-created campaign from billboard booking",
			16667,
			"active",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			nil,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(campaignId.String()))
	mock.ExpectExec(`UPDATE "bookings"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "notifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectCommit()

	booking, err := CompletePaymentVerified(bookingId, orderId, paymentId)
	assert.Nil(t, err)
	assert.Equal(t, types.PAYMENT_COMPLETED, booking.PaymentStatus)
	assert.Equal(t, types.BOOKING_CONFIRMED, booking.Status)
	if assert.NotNil(t, booking.CampaignID) {
		assert.Equal(t, campaignId, *booking.CampaignID)
	}
	assert.Nil(t, mock.ExpectationsWereMet())

	select {
	case e := <-events:
		assert.Equal(t, "payment.verified", e)
	case <-time.After(time.Second):
		t.Fatal("expected a payment event to be published")
	}
}

func TestCompletePaymentVerifiedCancelledBooking(t *testing.T) {
	d, mock := newMockDB(t)
	db.NewDB(d)

	bookingId := uuid.New()
	orderId := "order_test123"

	rows := sqlmock.NewRows([]string{
		"id", "billboard_id", "customer_id", "campaign_name", "total_cost",
		"status", "payment_status", "noc_status", "razorpay_order_id",
	}).AddRow(
		bookingId.String(), uuid.NewString(), 1, "Summer Sale", 16667,
		"cancelled", "pending", "not_applied", orderId,
	)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings" (.+)FOR UPDATE`).
		WillReturnRows(rows)
	mock.ExpectRollback()

	_, err := CompletePaymentVerified(bookingId, orderId, "pay_test")
	assert.ErrorIs(t, err, ErrBookingCancelled)
}

func TestRejectNOCCancelsBooking(t *testing.T) {
	d, mock := newMockDB(t)
	db.NewDB(d)

	bookingId := uuid.New()
	billboardId := uuid.New()
	ownerId := uint(2)

	bookingRows := sqlmock.NewRows([]string{
		"id", "billboard_id", "customer_id", "status", "payment_status", "noc_status",
	}).AddRow(
		bookingId.String(), billboardId.String(), 1, "pending", "pending", "pending",
	)
	billboardRows := sqlmock.NewRows([]string{"id", "owner_id", "title"}).
		AddRow(billboardId.String(), ownerId, "MG Road Hoarding")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings" (.+)FOR UPDATE`).
		WillReturnRows(bookingRows)
	mock.ExpectQuery(`SELECT (.+) FROM "billboards"`).
		WillReturnRows(billboardRows)
	mock.ExpectExec(`UPDATE "bookings"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "notifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectCommit()

	err := RejectNOC(bookingId, ownerId)
	assert.Nil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestDecideNOCRejectedIsTerminal(t *testing.T) {
	d, mock := newMockDB(t)
	db.NewDB(d)

	bookingId := uuid.New()
	billboardId := uuid.New()
	ownerId := uint(2)

	bookingRows := sqlmock.NewRows([]string{
		"id", "billboard_id", "customer_id", "status", "payment_status", "noc_status",
	}).AddRow(
		bookingId.String(), billboardId.String(), 1, "cancelled", "pending", "rejected",
	)
	billboardRows := sqlmock.NewRows([]string{"id", "owner_id", "title"}).
		AddRow(billboardId.String(), ownerId, "MG Road Hoarding")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings" (.+)FOR UPDATE`).
		WillReturnRows(bookingRows)
	mock.ExpectQuery(`SELECT (.+) FROM "billboards"`).
		WillReturnRows(billboardRows)
	mock.ExpectRollback()

	err := ApproveNOC(bookingId, ownerId)
	assert.ErrorIs(t, err, ErrNOCNotPending)
}

func TestDecideNOCApprovedIsTerminal(t *testing.T) {
	d, mock := newMockDB(t)
	db.NewDB(d)

	bookingId := uuid.New()
	billboardId := uuid.New()
	ownerId := uint(2)

	bookingRows := sqlmock.NewRows([]string{
		"id", "billboard_id", "customer_id", "status", "payment_status", "noc_status",
	}).AddRow(
		bookingId.String(), billboardId.String(), 1, "pending", "pending", "approved",
	)
	billboardRows := sqlmock.NewRows([]string{"id", "owner_id", "title"}).
		AddRow(billboardId.String(), ownerId, "MG Road Hoarding")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings" (.+)FOR UPDATE`).
		WillReturnRows(bookingRows)
	mock.ExpectQuery(`SELECT (.+) FROM "billboards"`).
		WillReturnRows(billboardRows)
	mock.ExpectRollback()

	err := RejectNOC(bookingId, ownerId)
	assert.ErrorIs(t, err, ErrNOCNotPending)
}
