package booking

import (
	"trekmarket/internal/domain/traveler"
)

// CreateRequest is the customer booking body. The same shape is priced by
// the payment order endpoints.
type CreateRequest struct {
	TrekID          int64                  `json:"trek_id" validate:"required,gt=0"`
	BatchID         *int64                 `json:"batch_id" validate:"omitempty,gt=0"`
	PickupPointID   *int64                 `json:"pickup_point_id" validate:"omitempty,gt=0"`
	CouponCode      string                 `json:"coupon_code" validate:"max=40"`
	SpecialRequests string                 `json:"special_requests" validate:"max=2000"`
	Participants    []traveler.Participant `json:"participants" validate:"required,min=1,max=50,dive"`
}

// VendorCreateRequest is the vendor-assisted booking body.
type VendorCreateRequest struct {
	TrekID          int64                  `json:"trek_id" validate:"required,gt=0"`
	BatchID         *int64                 `json:"batch_id" validate:"omitempty,gt=0"`
	PickupPointID   *int64                 `json:"pickup_point_id" validate:"omitempty,gt=0"`
	SpecialRequests string                 `json:"special_requests" validate:"max=2000"`
	Participants    []traveler.Participant `json:"participants" validate:"required,min=1,max=50,dive"`
	CustomerID      *int64                 `json:"customer_id" validate:"omitempty,gt=0"`
	CustomerName    string                 `json:"customer_name" validate:"max=120"`
	CustomerPhone   string                 `json:"customer_phone" validate:"max=20"`
	CustomerEmail   string                 `json:"customer_email" validate:"omitempty,email"`
	Status          string                 `json:"status" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	PaymentStatus   string                 `json:"payment_status" validate:"omitempty,oneof=pending partial completed failed refunded"`
	AmountPaid      float64                `json:"amount_paid" validate:"gte=0"`
	PaymentMethod   string                 `json:"payment_method" validate:"max=32"`
	TransactionID   string                 `json:"transaction_id" validate:"max=128"`
}

func (r VendorCreateRequest) order() CreateRequest {
	return CreateRequest{
		TrekID: r.TrekID, BatchID: r.BatchID, PickupPointID: r.PickupPointID,
		SpecialRequests: r.SpecialRequests, Participants: r.Participants,
	}
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

// MobileStatusRequest is the status body sent by the mobile app. Only
// "cancelled" is accepted.
type MobileStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason" validate:"max=1000"`
}

type VendorStatusRequest struct {
	Status        string `json:"status" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	PaymentStatus string `json:"payment_status" validate:"omitempty,oneof=pending partial completed failed refunded"`
	Reason        string `json:"reason" validate:"max=1000"`
}

type PaymentRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Method        string  `json:"method" validate:"required,max=32"`
	TransactionID string  `json:"transaction_id" validate:"max=128"`
	Notes         string  `json:"notes" validate:"max=1000"`
}

type AdjustmentRequest struct {
	Amount float64 `json:"amount" validate:"required,ne=0"`
	Reason string  `json:"reason" validate:"required,max=500"`
}

// ListFilter narrows booking lists.
type ListFilter struct {
	Status        string
	PaymentStatus string
	TrekID        int64
	Limit         int
	Offset        int
}

// Quote is the priced outcome of a booking request.
type Quote struct {
	TrekID         int64   `json:"trek_id"`
	VendorID       int64   `json:"vendor_id"`
	TotalTravelers int     `json:"total_travelers"`
	UnitPrice      float64 `json:"unit_price"`
	TotalAmount    float64 `json:"total_amount"`
	DiscountAmount float64 `json:"discount_amount"`
	FinalAmount    float64 `json:"final_amount"`
	CouponCode     string  `json:"coupon_code,omitempty"`
	CouponID       *int64  `json:"-"`
}

// Ledger summarises money owed and received on a booking.
type Ledger struct {
	FinalAmount float64      `json:"final_amount"`
	Adjustments []Adjustment `json:"adjustments"`
	Payments    []PaymentLog `json:"payments"`
	AdjustTotal float64      `json:"adjustment_total"`
	PaidTotal   float64      `json:"paid_total"`
	BalanceDue  float64      `json:"balance_due"`
}
