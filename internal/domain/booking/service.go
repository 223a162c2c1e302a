package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"trekmarket/internal/database"
	"trekmarket/internal/domain/identity"
	"trekmarket/internal/domain/traveler"
	"trekmarket/internal/domain/trek"
	"trekmarket/internal/pkg/money"
)

const (
	EventCreated       = "booking.created"
	EventStatusChanged = "booking.status_changed"
)

// Notifier receives booking events for the owning vendor.
type Notifier interface {
	Publish(vendorID int64, eventType string, data any)
}

// Notifiers fans one event out to several notifiers in order.
type Notifiers []Notifier

func (ns Notifiers) Publish(vendorID int64, eventType string, data any) {
	for _, n := range ns {
		n.Publish(vendorID, eventType, data)
	}
}

type Service struct {
	db       *gorm.DB
	notifier Notifier
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewService(db *gorm.DB, notifier Notifier, log logrus.FieldLogger) *Service {
	return &Service{db: db, notifier: notifier, log: log, now: time.Now}
}

// Capture is a gateway payment that has already been verified and captured.
type Capture struct {
	OrderID     string
	PaymentID   string
	AmountMinor int64
	Payload     []byte
}

type createInput struct {
	order           CreateRequest
	vendorID        int64
	customerID      int64
	resolveCustomer func(tx *gorm.DB) (int64, error)
	redeemCoupon    bool
	status          string
	paymentStatus   string
	payment         *PaymentLog
	capture         *Capture
	// derive payment_status from payment against the priced amount
	settlePayment bool
}

// CreateCustomerBooking books an active trek for the authenticated customer.
// The booking starts pending with payment pending.
func (s *Service) CreateCustomerBooking(ctx context.Context, customerID int64, req CreateRequest) (*Booking, error) {
	return s.create(ctx, createInput{
		order:         req,
		customerID:    customerID,
		redeemCoupon:  true,
		status:        StatusPending,
		paymentStatus: PaymentPending,
	})
}

// CreateVendorBooking records a booking taken by the vendor on one of its
// own treks. No coupon is applied. Without an explicit payment_status a
// booking with amount_paid is settled against its price; one without is
// taken as paid.
func (s *Service) CreateVendorBooking(ctx context.Context, vendorID int64, req VendorCreateRequest) (*Booking, error) {
	in := createInput{
		order:         req.order(),
		vendorID:      vendorID,
		status:        orDefault(req.Status, StatusConfirmed),
		paymentStatus: orDefault(req.PaymentStatus, PaymentCompleted),
		resolveCustomer: func(tx *gorm.DB) (int64, error) {
			return vendorCustomer(tx, req)
		},
	}
	if req.AmountPaid > 0 {
		in.payment = &PaymentLog{
			Amount:        money.Round2(req.AmountPaid),
			Method:        orDefault(req.PaymentMethod, MethodCash),
			TransactionID: req.TransactionID,
			Status:        LogSuccess,
		}
		in.settlePayment = req.PaymentStatus == ""
	}
	return s.create(ctx, in)
}

// CreatePaidCustomerBooking persists a customer booking whose payment was
// captured by the gateway. The priced amount must equal the captured amount.
func (s *Service) CreatePaidCustomerBooking(ctx context.Context, customerID int64, req CreateRequest, capture Capture) (*Booking, error) {
	return s.create(ctx, paidInput(createInput{order: req, customerID: customerID}, capture))
}

// CreatePaidVendorBooking is the vendor-assisted counterpart of
// CreatePaidCustomerBooking.
func (s *Service) CreatePaidVendorBooking(ctx context.Context, vendorID int64, req VendorCreateRequest, couponCode string, capture Capture) (*Booking, error) {
	order := req.order()
	order.CouponCode = couponCode
	return s.create(ctx, paidInput(createInput{
		order:    order,
		vendorID: vendorID,
		resolveCustomer: func(tx *gorm.DB) (int64, error) {
			return vendorCustomer(tx, req)
		},
	}, capture))
}

func paidInput(in createInput, capture Capture) createInput {
	in.redeemCoupon = true
	in.status = StatusConfirmed
	in.paymentStatus = PaymentCompleted
	in.capture = &capture
	in.payment = &PaymentLog{
		Amount:         money.FromMinor(capture.AmountMinor),
		Method:         MethodGateway,
		TransactionID:  capture.PaymentID,
		Status:         LogSuccess,
		GatewayPayload: datatypes.JSON(capture.Payload),
	}
	return in
}

// Quote prices a customer booking request without writing anything.
func (s *Service) Quote(ctx context.Context, req CreateRequest) (*Quote, error) {
	return s.quote(ctx, 0, req)
}

// QuoteForVendor prices a booking on one of the vendor's treks.
func (s *Service) QuoteForVendor(ctx context.Context, vendorID int64, req CreateRequest) (*Quote, error) {
	return s.quote(ctx, vendorID, req)
}

func (s *Service) quote(ctx context.Context, vendorID int64, req CreateRequest) (*Quote, error) {
	db := s.db.WithContext(ctx)
	t, err := loadTrek(db, vendorID, req.TrekID)
	if err != nil {
		return nil, err
	}
	n := len(req.Participants)
	if err := checkPlacement(db, t.ID, nil, req.PickupPointID); err != nil {
		return nil, err
	}
	if t.AvailableSlots < n {
		return nil, &trek.InsufficientSlotsError{Available: max(t.AvailableSlots, 0)}
	}
	if req.BatchID != nil {
		b, err := trek.CheckBatch(db, t.ID, *req.BatchID)
		if err != nil {
			return nil, err
		}
		if b.AvailableSlots < n {
			return nil, &trek.InsufficientSlotsError{Available: max(b.AvailableSlots, 0)}
		}
	}
	q, err := price(db, t, n, req.CouponCode, false, s.now())
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// FindByGatewayPayment returns the booking already created for a gateway
// payment, or ErrNotFound.
func (s *Service) FindByGatewayPayment(ctx context.Context, paymentID string) (*Booking, error) {
	var b Booking
	err := withDetails(s.db.WithContext(ctx)).Where("gateway_payment_id = ?", paymentID).First(&b).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (s *Service) create(ctx context.Context, in createInput) (*Booking, error) {
	if !validStatus(in.status) {
		return nil, ErrInvalidStatus
	}
	if !validPaymentStatus(in.paymentStatus) {
		return nil, ErrInvalidPaymentStatus
	}
	now := s.now()
	n := len(in.order.Participants)
	var b Booking

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := loadTrek(tx, in.vendorID, in.order.TrekID)
		if err != nil {
			return err
		}
		if err := checkPlacement(tx, t.ID, in.order.BatchID, in.order.PickupPointID); err != nil {
			return err
		}

		customerID := in.customerID
		if in.resolveCustomer != nil {
			if customerID, err = in.resolveCustomer(tx); err != nil {
				return err
			}
		}

		if HoldsSlots(in.status) {
			if err := trek.ReserveSlots(tx, t.ID, in.order.BatchID, n); err != nil {
				return err
			}
		}

		couponCode := ""
		if in.redeemCoupon {
			couponCode = in.order.CouponCode
		}
		q, err := price(tx, t, n, couponCode, true, now)
		if err != nil {
			return err
		}
		paymentStatus := in.paymentStatus
		if in.settlePayment {
			paymentStatus = settledStatus(in.payment.Amount, q.FinalAmount)
		}
		if in.capture != nil && money.ToMinor(q.FinalAmount) != in.capture.AmountMinor {
			return fmt.Errorf("%w: expected %d, captured %d", ErrAmountMismatch, money.ToMinor(q.FinalAmount), in.capture.AmountMinor)
		}

		b = Booking{
			CustomerID:      customerID,
			TrekID:          t.ID,
			VendorID:        t.VendorID,
			BatchID:         in.order.BatchID,
			PickupPointID:   in.order.PickupPointID,
			CouponID:        q.CouponID,
			TotalTravelers:  n,
			TotalAmount:     q.TotalAmount,
			DiscountAmount:  q.DiscountAmount,
			FinalAmount:     q.FinalAmount,
			PaymentStatus:   paymentStatus,
			Status:          in.status,
			BookingDate:     now,
			SpecialRequests: in.order.SpecialRequests,
		}
		if in.capture != nil {
			b.GatewayOrderID = &in.capture.OrderID
			b.GatewayPaymentID = &in.capture.PaymentID
		}
		if err := tx.Omit("Trek", "Customer", "Batch", "PickupPoint", "Travelers", "Cancellation").Create(&b).Error; err != nil {
			if in.capture != nil && database.IsUniqueViolation(err) {
				return ErrDuplicatePayment
			}
			return fmt.Errorf("insert booking: %w", err)
		}

		if _, err := traveler.Attach(tx, customerID, b.ID, in.order.Participants); err != nil {
			return err
		}
		if in.payment != nil {
			in.payment.BookingID = b.ID
			if err := tx.Create(in.payment).Error; err != nil {
				return fmt.Errorf("insert payment log: %w", err)
			}
		}
		if b.Status == StatusCancelled {
			return recordCancellation(tx, &b, "", CancelledByVendor, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": b.ID, "trek_id": b.TrekID, "vendor_id": b.VendorID,
		"travelers": b.TotalTravelers, "final_amount": b.FinalAmount, "status": b.Status,
	}).Info("booking created")
	s.publish(EventCreated, &b)
	return s.Get(ctx, b.ID)
}

func (s *Service) publish(eventType string, b *Booking) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(b.VendorID, eventType, map[string]any{
		"booking_id":      b.ID,
		"trek_id":         b.TrekID,
		"customer_id":     b.CustomerID,
		"status":          b.Status,
		"payment_status":  b.PaymentStatus,
		"total_travelers": b.TotalTravelers,
		"final_amount":    b.FinalAmount,
	})
}

func loadTrek(db *gorm.DB, vendorID, trekID int64) (*trek.Trek, error) {
	if vendorID > 0 {
		return trek.Owned(db, vendorID, trekID)
	}
	return trek.Bookable(db, trekID)
}

func checkPlacement(db *gorm.DB, trekID int64, batchID, pickupPointID *int64) error {
	if batchID != nil {
		if _, err := trek.CheckBatch(db, trekID, *batchID); err != nil {
			return err
		}
	}
	if pickupPointID != nil {
		if _, err := trek.CheckPickupPoint(db, trekID, *pickupPointID); err != nil {
			return err
		}
	}
	return nil
}

func vendorCustomer(tx *gorm.DB, req VendorCreateRequest) (int64, error) {
	if req.CustomerID != nil {
		var c identity.Customer
		if err := tx.Select("id").First(&c, *req.CustomerID).Error; err != nil {
			if notFound(err) == ErrNotFound {
				return 0, ErrCustomerNotFound
			}
			return 0, err
		}
		return c.ID, nil
	}
	if req.CustomerPhone == "" {
		return 0, ErrCustomerRequired
	}
	name := req.CustomerName
	if name == "" && len(req.Participants) > 0 {
		name = req.Participants[0].Name
	}
	c, err := identity.FindOrCreateCustomer(tx, name, req.CustomerPhone, req.CustomerEmail)
	if err != nil {
		return 0, err
	}
	return c.ID, nil
}

func validStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

func validPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
