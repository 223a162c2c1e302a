package booking

import (
	"time"

	"gorm.io/datatypes"

	"trekmarket/internal/domain/identity"
	"trekmarket/internal/domain/traveler"
	"trekmarket/internal/domain/trek"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"

	PaymentPending   = "pending"
	PaymentPartial   = "partial"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"

	LogPending = "pending"
	LogSuccess = "success"
	LogFailed  = "failed"

	CancelledByCustomer = "customer"
	CancelledByVendor   = "vendor"
	RefundPending       = "pending"

	MethodCash    = "cash"
	MethodGateway = "gateway"
)

type Booking struct {
	ID               int64     `json:"id" gorm:"primaryKey"`
	CustomerID       int64     `json:"customer_id" gorm:"not null;index"`
	TrekID           int64     `json:"trek_id" gorm:"not null;index"`
	VendorID         int64     `json:"vendor_id" gorm:"not null;index"`
	BatchID          *int64    `json:"batch_id,omitempty" gorm:"index"`
	PickupPointID    *int64    `json:"pickup_point_id,omitempty"`
	CouponID         *int64    `json:"coupon_id,omitempty"`
	TotalTravelers   int       `json:"total_travelers" gorm:"not null"`
	TotalAmount      float64   `json:"total_amount" gorm:"not null"`
	DiscountAmount   float64   `json:"discount_amount" gorm:"not null;default:0"`
	FinalAmount      float64   `json:"final_amount" gorm:"not null"`
	PaymentStatus    string    `json:"payment_status" gorm:"size:16;not null;default:pending"`
	Status           string    `json:"status" gorm:"size:16;not null;default:pending;index"`
	BookingDate      time.Time `json:"booking_date" gorm:"not null"`
	SpecialRequests  string    `json:"special_requests,omitempty"`
	GatewayOrderID   *string   `json:"gateway_order_id,omitempty" gorm:"size:64;index"`
	GatewayPaymentID *string   `json:"gateway_payment_id,omitempty" gorm:"size:64;uniqueIndex"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Trek         *trek.Trek                 `json:"trek,omitempty" gorm:"foreignKey:TrekID"`
	Customer     *identity.Customer         `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Batch        *trek.Batch                `json:"batch,omitempty" gorm:"foreignKey:BatchID"`
	PickupPoint  *trek.PickupPoint          `json:"pickup_point,omitempty" gorm:"foreignKey:PickupPointID"`
	Travelers    []traveler.BookingTraveler `json:"travelers,omitempty" gorm:"foreignKey:BookingID"`
	Cancellation *Cancellation              `json:"cancellation,omitempty" gorm:"foreignKey:BookingID"`
}

func (Booking) TableName() string { return "bookings" }

// HoldsSlots reports whether a booking in this status counts against trek
// and batch capacity.
func HoldsSlots(status string) bool {
	return status == StatusPending || status == StatusConfirmed
}

// PaymentLog is an append-only record of money received for a booking.
type PaymentLog struct {
	ID             int64          `json:"id" gorm:"primaryKey"`
	BookingID      int64          `json:"booking_id" gorm:"not null;index"`
	Amount         float64        `json:"amount" gorm:"not null"`
	Method         string         `json:"method" gorm:"size:32;not null"`
	TransactionID  string         `json:"transaction_id,omitempty" gorm:"size:128"`
	Status         string         `json:"status" gorm:"size:16;not null"`
	GatewayPayload datatypes.JSON `json:"gateway_payload,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

func (PaymentLog) TableName() string { return "payment_logs" }

type Cancellation struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	BookingID    int64     `json:"booking_id" gorm:"not null;uniqueIndex"`
	Reason       string    `json:"reason,omitempty"`
	RefundAmount float64   `json:"refund_amount" gorm:"not null"`
	RefundStatus string    `json:"refund_status" gorm:"size:16;not null;default:pending"`
	CancelledBy  string    `json:"cancelled_by" gorm:"size:16;not null"`
	CancelledAt  time.Time `json:"cancelled_at" gorm:"not null"`
}

func (Cancellation) TableName() string { return "cancellations" }

// Adjustment is a signed correction to what the customer owes. It never
// rewrites the priced amounts of the booking.
type Adjustment struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	BookingID       int64     `json:"booking_id" gorm:"not null;index"`
	Amount          float64   `json:"amount" gorm:"not null"`
	Reason          string    `json:"reason" gorm:"not null"`
	CreatedByUserID int64     `json:"created_by_user_id"`
	CreatedAt       time.Time `json:"created_at"`
}

func (Adjustment) TableName() string { return "booking_adjustments" }

func Models() []any {
	return []any{&Booking{}, &PaymentLog{}, &Cancellation{}, &Adjustment{}}
}
