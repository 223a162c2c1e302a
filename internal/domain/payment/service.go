package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"trekmarket/internal/domain/booking"
	"trekmarket/internal/pkg/money"
)

// Bookings is the part of the booking engine the payment flows drive.
type Bookings interface {
	Quote(ctx context.Context, req booking.CreateRequest) (*booking.Quote, error)
	QuoteForVendor(ctx context.Context, vendorID int64, req booking.CreateRequest) (*booking.Quote, error)
	FindByGatewayPayment(ctx context.Context, paymentID string) (*booking.Booking, error)
	CreatePaidCustomerBooking(ctx context.Context, customerID int64, req booking.CreateRequest, capture booking.Capture) (*booking.Booking, error)
	CreatePaidVendorBooking(ctx context.Context, vendorID int64, req booking.VendorCreateRequest, couponCode string, capture booking.Capture) (*booking.Booking, error)
}

type Config struct {
	KeyID     string
	KeySecret string
	Currency  string
}

type Service struct {
	bookings Bookings
	gateway  Gateway
	cfg      Config
	log      logrus.FieldLogger
}

func NewService(bookings Bookings, gateway Gateway, cfg Config, log logrus.FieldLogger) *Service {
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	return &Service{bookings: bookings, gateway: gateway, cfg: cfg, log: log}
}

// CreateCustomerOrder quotes the booking and opens a gateway order for the
// final amount.
func (s *Service) CreateCustomerOrder(ctx context.Context, customerID int64, req booking.CreateRequest) (*OrderResponse, error) {
	q, err := s.bookings.Quote(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.openOrder(ctx, q, fmt.Sprintf("c%d", customerID))
}

func (s *Service) CreateVendorOrder(ctx context.Context, vendorID int64, req VendorOrderRequest) (*OrderResponse, error) {
	order := booking.CreateRequest{
		TrekID:        req.Booking.TrekID,
		BatchID:       req.Booking.BatchID,
		PickupPointID: req.Booking.PickupPointID,
		CouponCode:    req.CouponCode,
		Participants:  req.Booking.Participants,
	}
	q, err := s.bookings.QuoteForVendor(ctx, vendorID, order)
	if err != nil {
		return nil, err
	}
	return s.openOrder(ctx, q, fmt.Sprintf("v%d", vendorID))
}

func (s *Service) openOrder(ctx context.Context, q *booking.Quote, prefix string) (*OrderResponse, error) {
	amount := money.ToMinor(q.FinalAmount)
	if amount <= 0 {
		return nil, booking.ErrInvalidAmount
	}
	// gateway receipts are capped at 40 characters
	receipt := prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]

	o, err := s.gateway.CreateOrder(ctx, amount, s.cfg.Currency, receipt)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"order_id": o.ID,
		"trek_id":  q.TrekID,
		"amount":   amount,
	}).Info("gateway order created")

	return &OrderResponse{
		OrderID:  o.ID,
		Amount:   o.Amount,
		Currency: o.Currency,
		KeyID:    s.cfg.KeyID,
		Receipt:  o.Receipt,
		Quote:    q,
	}, nil
}

// VerifyCustomer confirms a checkout and creates the paid booking. A payment
// that already produced a booking for this customer is answered as a replay.
func (s *Service) VerifyCustomer(ctx context.Context, customerID int64, req VerifyRequest) (*VerifyResponse, error) {
	owned := func(b *booking.Booking) bool { return b.CustomerID == customerID }
	return s.verify(ctx, req.OrderID, req.PaymentID, req.Signature, owned, func(c booking.Capture) (*booking.Booking, error) {
		return s.bookings.CreatePaidCustomerBooking(ctx, customerID, req.Booking, c)
	})
}

func (s *Service) VerifyVendor(ctx context.Context, vendorID int64, req VendorVerifyRequest) (*VerifyResponse, error) {
	owned := func(b *booking.Booking) bool { return b.VendorID == vendorID }
	return s.verify(ctx, req.OrderID, req.PaymentID, req.Signature, owned, func(c booking.Capture) (*booking.Booking, error) {
		return s.bookings.CreatePaidVendorBooking(ctx, vendorID, req.Booking, req.CouponCode, c)
	})
}

func (s *Service) verify(
	ctx context.Context,
	orderID, paymentID, signature string,
	owned func(*booking.Booking) bool,
	create func(booking.Capture) (*booking.Booking, error),
) (*VerifyResponse, error) {
	if !VerifySignature(s.cfg.KeySecret, orderID, paymentID, signature) {
		return nil, ErrInvalidSignature
	}

	if resp, err := s.replay(ctx, paymentID, owned); resp != nil || err != nil {
		return resp, err
	}

	p, err := s.gateway.FetchPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusCaptured {
		return nil, ErrPaymentNotCaptured
	}
	if p.OrderID != orderID || !strings.EqualFold(p.Currency, s.cfg.Currency) {
		return nil, ErrOrderMismatch
	}

	b, err := create(booking.Capture{
		OrderID:     orderID,
		PaymentID:   paymentID,
		AmountMinor: p.Amount,
		Payload:     p.Raw,
	})
	if errors.Is(err, booking.ErrDuplicatePayment) {
		// lost the race against a concurrent verify of the same payment
		if resp, rerr := s.replay(ctx, paymentID, owned); resp != nil || rerr != nil {
			return resp, rerr
		}
	}
	if err != nil {
		if errors.Is(err, booking.ErrAmountMismatch) {
			s.log.WithFields(logrus.Fields{
				"order_id":   orderID,
				"payment_id": paymentID,
				"captured":   p.Amount,
			}).Warn("captured amount does not match booking price")
		}
		return nil, err
	}
	return &VerifyResponse{Booking: b}, nil
}

// replay returns the booking already created for paymentID, nil when there
// is none.
func (s *Service) replay(ctx context.Context, paymentID string, owned func(*booking.Booking) bool) (*VerifyResponse, error) {
	b, err := s.bookings.FindByGatewayPayment(ctx, paymentID)
	switch {
	case errors.Is(err, booking.ErrNotFound):
		return nil, nil
	case err != nil:
		return nil, err
	case !owned(b):
		return nil, ErrPaymentClaimed
	}
	return &VerifyResponse{Booking: b, Replayed: true}, nil
}
