package trek

import (
	"errors"
	"fmt"
)

var (
	ErrTrekNotFound        = errors.New("trek not found")
	ErrTrekNotBookable     = errors.New("trek is not open for booking")
	ErrInvalidStatus       = errors.New("invalid trek status")
	ErrTrekHasImages       = errors.New("delete the trek images first")
	ErrTrekHasBookings     = errors.New("trek has active bookings")
	ErrCapacityBelowBooked = errors.New("capacity cannot be lower than booked slots")
	ErrUnknownReference    = errors.New("referenced destination, badge or policy does not exist")
	ErrImageNotFound       = errors.New("image not found")
	ErrBatchNotFound       = errors.New("batch not found")
	ErrBatchNotOpen        = errors.New("batch is not open for booking")
	ErrBatchExists         = errors.New("a batch already starts on this date")
	ErrBatchHasBookings    = errors.New("batch has bookings")
	ErrInvalidDate         = errors.New("dates must be YYYY-MM-DD")
	ErrPickupPointNotFound = errors.New("pickup point not found")
	ErrInsufficientSlots   = errors.New("not enough slots available")
)

// InsufficientSlotsError carries how many slots were left when a
// reservation was refused.
type InsufficientSlotsError struct {
	Available int
}

func (e *InsufficientSlotsError) Error() string {
	return fmt.Sprintf("not enough slots available: %d left", e.Available)
}

func (e *InsufficientSlotsError) Unwrap() error {
	return ErrInsufficientSlots
}
