package coupon

import "errors"

var (
	ErrNotFound          = errors.New("coupon not found")
	ErrDuplicateCode     = errors.New("coupon code already exists")
	ErrInactive          = errors.New("coupon is not active")
	ErrNotYetValid       = errors.New("coupon is not valid yet")
	ErrExpired           = errors.New("coupon has expired")
	ErrUsageLimitReached = errors.New("coupon usage limit reached")
	ErrMinAmountNotMet   = errors.New("order amount is below the coupon minimum")
	ErrInvalidCoupon     = errors.New("invalid coupon definition")
)
