package booking

import "errors"

var (
	ErrNotFound                = errors.New("booking not found")
	ErrAlreadyCancelled        = errors.New("booking is already cancelled")
	ErrAlreadyCompleted        = errors.New("completed bookings cannot be cancelled")
	ErrOnlyCancellationAllowed = errors.New("customers can only cancel a booking")
	ErrInvalidStatus           = errors.New("invalid booking status")
	ErrInvalidPaymentStatus    = errors.New("invalid payment status")
	ErrCustomerRequired        = errors.New("customer_id or customer_phone is required")
	ErrCustomerNotFound        = errors.New("customer not found")
	ErrAmountMismatch          = errors.New("paid amount does not match the booking amount")
	ErrDuplicatePayment        = errors.New("payment is already attached to a booking")
	ErrInvalidAmount           = errors.New("amount must be positive")
)

// ErrConcurrentUpdate means the booking changed between read and write.
var ErrConcurrentUpdate = errors.New("booking was modified concurrently, retry")
