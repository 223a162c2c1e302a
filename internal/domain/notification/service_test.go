package notification

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"trekmarket/internal/database"
	"trekmarket/internal/domain/booking"
	"trekmarket/internal/pkg/logger"
)

func setupService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := database.OpenInMemory("notification_" + t.Name())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(Models()...))
	return NewService(db, logger.Discard()), db
}

func bookingEvent(customerID, bookingID int64, status, paymentStatus string) map[string]any {
	return map[string]any{
		"booking_id":      bookingID,
		"trek_id":         int64(3),
		"customer_id":     customerID,
		"status":          status,
		"payment_status":  paymentStatus,
		"total_travelers": 2,
		"final_amount":    2000.0,
	}
}

func TestPublishStoresCustomerNotifications(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	svc.Publish(9, booking.EventCreated, bookingEvent(5, 11, booking.StatusPending, booking.PaymentPending))
	svc.Publish(9, booking.EventStatusChanged, bookingEvent(5, 11, booking.StatusConfirmed, booking.PaymentCompleted))
	svc.Publish(9, booking.EventStatusChanged, bookingEvent(5, 11, booking.StatusCancelled, booking.PaymentRefunded))

	items, total, unread, err := svc.List(ctx, 5, false, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, int64(3), unread)
	require.Len(t, items, 3)

	types := []Type{items[0].Type, items[1].Type, items[2].Type}
	assert.ElementsMatch(t, []Type{TypeBookingCreated, TypeBookingConfirmed, TypeBookingCancelled}, types)

	var d Data
	require.NoError(t, json.Unmarshal(items[0].Data, &d))
	assert.Equal(t, int64(11), d.BookingID)
	assert.Equal(t, 2000.0, d.FinalAmount)
}

func TestPublishIgnoresEventsWithoutCustomer(t *testing.T) {
	svc, _ := setupService(t)

	svc.Publish(9, booking.EventCreated, map[string]any{"booking_id": int64(1)})
	svc.Publish(9, booking.EventCreated, "not a booking")

	n, err := svc.UnreadCount(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPaymentOnlyChangeOnPendingBooking(t *testing.T) {
	svc, _ := setupService(t)
	svc.Publish(9, booking.EventStatusChanged, bookingEvent(5, 11, booking.StatusPending, booking.PaymentPartial))

	items, _, _, err := svc.List(context.Background(), 5, false, 20, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, TypePaymentUpdated, items[0].Type)
	assert.Contains(t, items[0].Body, "partial")
}

func TestMarkAsReadIsScopedToOwner(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	n, err := svc.Create(ctx, 5, TypeBookingConfirmed, "Booking confirmed", "", Data{BookingID: 1})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.MarkAsRead(ctx, 6, n.ID), ErrNotificationNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 6, n.ID), ErrNotificationNotFound)

	require.NoError(t, svc.MarkAsRead(ctx, 5, n.ID))
	require.NoError(t, svc.MarkAsRead(ctx, 5, n.ID))

	unread, err := svc.UnreadCount(ctx, 5)
	require.NoError(t, err)
	assert.Zero(t, unread)

	items, total, _, err := svc.List(ctx, 5, true, 20, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestMarkAllAndPurge(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	old := time.Now().Add(-60 * 24 * time.Hour)
	svc.now = func() time.Time { return old }
	for i := int64(1); i <= 3; i++ {
		_, err := svc.Create(ctx, 5, TypeBookingCreated, "Booking received", "", Data{BookingID: i})
		require.NoError(t, err)
	}
	svc.now = time.Now
	_, err := svc.Create(ctx, 5, TypeBookingCreated, "Booking received", "", Data{BookingID: 4})
	require.NoError(t, err)

	updated, err := svc.MarkAllAsRead(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(4), updated)

	deleted, err := PurgeRead(ctx, db, 30*24*time.Hour, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	_, total, _, err := svc.List(ctx, 5, false, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
