package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trekmarket/internal/database"
	"trekmarket/internal/domain/booking"
	"trekmarket/internal/domain/identity"
	"trekmarket/internal/domain/trek"
)

func mockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlite")), mock
}

func TestVendorStatsQueries(t *testing.T) {
	repo, mock := mockRepo(t)
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM treks WHERE vendor_id = \? GROUP BY status`).WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"k", "n"}).AddRow("active", 3).AddRow("draft", 1))
	mock.ExpectQuery(`FROM bookings WHERE vendor_id = \? GROUP BY status`).WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"k", "n"}).AddRow("confirmed", 4))
	mock.ExpectQuery(`SUM\(total_travelers\)`).WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(9))
	mock.ExpectQuery(`FROM payment_logs p`).WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(12345.678))
	mock.ExpectQuery(`FROM batches bt`).WithArgs(int64(7), now).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	stats, err := repo.Vendor(context.Background(), 7, now)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"active": 3, "draft": 1}, stats.Treks)
	assert.Equal(t, int64(4), stats.Bookings["confirmed"])
	assert.Equal(t, int64(9), stats.TravelersBooked)
	assert.Equal(t, 12345.68, stats.Revenue)
	assert.Equal(t, int64(2), stats.UpcomingDepartures)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminStatsPropagatesErrors(t *testing.T) {
	repo, mock := mockRepo(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery(`FROM vendors GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"k", "n"}).AddRow("active", 2))
	mock.ExpectQuery(`FROM customers GROUP BY status`).WillReturnError(boom)

	_, err := repo.Admin(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsAgainstSQLite(t *testing.T) {
	gdb, err := database.OpenInMemory("dashboard_" + t.Name())
	require.NoError(t, err)
	var models []any
	models = append(models, identity.Models()...)
	models = append(models, trek.Models()...)
	models = append(models, booking.Models()...)
	require.NoError(t, gdb.AutoMigrate(models...))

	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	cust := &identity.Customer{Name: "Asha", Phone: "+919000000001", Status: identity.StatusActive}
	require.NoError(t, gdb.Create(cust).Error)
	tr := &trek.Trek{VendorID: 7, Title: "Sandakphu", BasePrice: 500, MaxParticipants: 20, DurationDays: 3, Status: trek.StatusActive}
	require.NoError(t, gdb.Create(tr).Error)
	require.NoError(t, gdb.Create(&trek.Batch{TrekID: tr.ID, StartDate: now.AddDate(0, 2, 0), EndDate: now.AddDate(0, 2, 2), Capacity: 20, Status: trek.BatchOpen}).Error)
	require.NoError(t, gdb.Create(&trek.Batch{TrekID: tr.ID, StartDate: now.AddDate(0, -2, 0), EndDate: now.AddDate(0, -2, 2), Capacity: 20, Status: trek.BatchOpen}).Error)

	confirmed := &booking.Booking{CustomerID: cust.ID, TrekID: tr.ID, VendorID: 7, TotalTravelers: 2, TotalAmount: 1000, DiscountAmount: 100, FinalAmount: 900,
		Status: booking.StatusConfirmed, PaymentStatus: booking.PaymentCompleted, BookingDate: now}
	cancelled := &booking.Booking{CustomerID: cust.ID, TrekID: tr.ID, VendorID: 7, TotalTravelers: 3, TotalAmount: 1500, FinalAmount: 1500,
		Status: booking.StatusCancelled, PaymentStatus: booking.PaymentPending, BookingDate: now}
	require.NoError(t, gdb.Create(confirmed).Error)
	require.NoError(t, gdb.Create(cancelled).Error)
	require.NoError(t, gdb.Create(&booking.PaymentLog{BookingID: confirmed.ID, Amount: 900, Method: booking.MethodGateway, Status: booking.LogSuccess}).Error)
	require.NoError(t, gdb.Create(&booking.PaymentLog{BookingID: confirmed.ID, Amount: 50, Method: booking.MethodCash, Status: booking.LogFailed}).Error)

	xdb, err := database.SQLX(gdb)
	require.NoError(t, err)
	repo := NewRepository(xdb)

	v, err := repo.Vendor(context.Background(), 7, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Treks[trek.StatusActive])
	assert.Equal(t, map[string]int64{"confirmed": 1, "cancelled": 1}, v.Bookings)
	assert.Equal(t, int64(2), v.TravelersBooked)
	assert.Equal(t, 900.0, v.Revenue)
	assert.Equal(t, int64(1), v.UpcomingDepartures)

	a, err := repo.Admin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.Customers[identity.StatusActive])
	assert.Equal(t, 900.0, a.Revenue)
	assert.Equal(t, 100.0, a.Discounts)
}
