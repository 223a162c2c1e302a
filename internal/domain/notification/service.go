package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"trekmarket/internal/domain/booking"
)

const publishTimeout = 5 * time.Second

type Service struct {
	repo *Repository
	log  logrus.FieldLogger
	now  func() time.Time
}

func NewService(db *gorm.DB, log logrus.FieldLogger) *Service {
	return &Service{repo: NewRepository(db), log: log, now: time.Now}
}

func (s *Service) Create(ctx context.Context, customerID int64, t Type, title, body string, data Data) (*Notification, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	n := &Notification{
		CustomerID: customerID,
		Type:       t,
		Title:      title,
		Body:       body,
		Data:       datatypes.JSON(raw),
		CreatedAt:  s.now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

// Publish turns booking events into inbox entries for the booking's
// customer. Failures are logged and never reach the booking flow.
func (s *Service) Publish(_ int64, eventType string, data any) {
	fields, ok := data.(map[string]any)
	if !ok {
		return
	}
	customerID, _ := fields["customer_id"].(int64)
	if customerID <= 0 {
		return
	}
	d := Data{}
	d.BookingID, _ = fields["booking_id"].(int64)
	d.TrekID, _ = fields["trek_id"].(int64)
	d.Status, _ = fields["status"].(string)
	d.PaymentStatus, _ = fields["payment_status"].(string)
	d.FinalAmount, _ = fields["final_amount"].(float64)

	t, title, body := describe(eventType, d)
	if t == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if _, err := s.Create(ctx, customerID, t, title, body, d); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"customer_id": customerID, "booking_id": d.BookingID, "event": eventType,
		}).Warn("failed to store customer notification")
	}
}

func describe(eventType string, d Data) (Type, string, string) {
	switch d.Status {
	case booking.StatusConfirmed:
		if d.PaymentStatus == booking.PaymentCompleted {
			return TypeBookingConfirmed, "Booking confirmed", fmt.Sprintf("Booking #%d is confirmed and fully paid.", d.BookingID)
		}
		return TypeBookingConfirmed, "Booking confirmed", fmt.Sprintf("Booking #%d is confirmed.", d.BookingID)
	case booking.StatusCancelled:
		return TypeBookingCancelled, "Booking cancelled", fmt.Sprintf("Booking #%d has been cancelled.", d.BookingID)
	case booking.StatusCompleted:
		return TypeBookingCompleted, "Trek completed", fmt.Sprintf("Booking #%d is complete. Tell others how it went.", d.BookingID)
	case booking.StatusPending:
		if eventType == booking.EventCreated {
			return TypeBookingCreated, "Booking received", fmt.Sprintf("Booking #%d is waiting for payment.", d.BookingID)
		}
		return TypePaymentUpdated, "Payment updated", fmt.Sprintf("Payment for booking #%d is now %s.", d.BookingID, d.PaymentStatus)
	}
	return "", "", ""
}

func (s *Service) List(ctx context.Context, customerID int64, unreadOnly bool, limit, offset int) ([]Notification, int64, int64, error) {
	items, total, err := s.repo.ListByCustomer(ctx, customerID, unreadOnly, limit, offset)
	if err != nil {
		return nil, 0, 0, err
	}
	unread, err := s.repo.CountUnread(ctx, customerID)
	if err != nil {
		return nil, 0, 0, err
	}
	return items, total, unread, nil
}

func (s *Service) UnreadCount(ctx context.Context, customerID int64) (int64, error) {
	return s.repo.CountUnread(ctx, customerID)
}

func (s *Service) MarkAsRead(ctx context.Context, customerID, id int64) error {
	return s.repo.MarkAsRead(ctx, id, customerID, s.now())
}

func (s *Service) MarkAllAsRead(ctx context.Context, customerID int64) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, customerID, s.now())
}

func (s *Service) Delete(ctx context.Context, customerID, id int64) error {
	return s.repo.Delete(ctx, id, customerID)
}

// PurgeRead deletes read notifications older than keep.
func PurgeRead(ctx context.Context, db *gorm.DB, keep time.Duration, now time.Time) (int64, error) {
	return NewRepository(db).DeleteReadBefore(ctx, now.Add(-keep))
}
