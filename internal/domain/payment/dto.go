package payment

import "trekmarket/internal/domain/booking"

// VendorOrderRequest prices a vendor-assisted booking. The coupon is only
// honoured on the gateway flow.
type VendorOrderRequest struct {
	Booking    booking.VendorCreateRequest `json:"booking" validate:"required"`
	CouponCode string                      `json:"coupon_code" validate:"max=40"`
}

type VerifyRequest struct {
	OrderID   string                `json:"razorpay_order_id" validate:"required,max=64"`
	PaymentID string                `json:"razorpay_payment_id" validate:"required,max=64"`
	Signature string                `json:"razorpay_signature" validate:"required,max=256"`
	Booking   booking.CreateRequest `json:"booking" validate:"required"`
}

type VendorVerifyRequest struct {
	OrderID    string                      `json:"razorpay_order_id" validate:"required,max=64"`
	PaymentID  string                      `json:"razorpay_payment_id" validate:"required,max=64"`
	Signature  string                      `json:"razorpay_signature" validate:"required,max=256"`
	Booking    booking.VendorCreateRequest `json:"booking" validate:"required"`
	CouponCode string                      `json:"coupon_code" validate:"max=40"`
}

// OrderResponse is what the checkout widget needs to open the payment.
type OrderResponse struct {
	OrderID  string         `json:"order_id"`
	Amount   int64          `json:"amount"`
	Currency string         `json:"currency"`
	KeyID    string         `json:"key_id"`
	Receipt  string         `json:"receipt"`
	Quote    *booking.Quote `json:"quote"`
}

type VerifyResponse struct {
	Booking  *booking.Booking `json:"booking"`
	Replayed bool             `json:"replayed"`
}
