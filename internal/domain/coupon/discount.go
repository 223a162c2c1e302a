package coupon

import (
	"time"

	"trekmarket/internal/pkg/money"
)

// Discount is the single discount rule used by validation and by booking.
// Percentage discounts are capped by MaxDiscountAmount; no discount exceeds
// the order total.
func Discount(c *Coupon, total float64) float64 {
	if c == nil || total <= 0 {
		return 0
	}

	var d float64
	switch c.DiscountType {
	case TypePercentage:
		d = total * c.DiscountValue / 100
		if c.MaxDiscountAmount != nil && d > *c.MaxDiscountAmount {
			d = *c.MaxDiscountAmount
		}
	case TypeFixed:
		d = c.DiscountValue
	}

	if d > total {
		d = total
	}
	if d < 0 {
		d = 0
	}
	return money.Round2(d)
}

// Check reports why c cannot be used for an order of total at now.
func Check(c *Coupon, total float64, now time.Time) error {
	if c.Status != StatusActive {
		return ErrInactive
	}
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return ErrNotYetValid
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return ErrExpired
	}
	if c.MaxUses != nil && c.CurrentUses >= *c.MaxUses {
		return ErrUsageLimitReached
	}
	if total < c.MinAmount {
		return ErrMinAmountNotMet
	}
	return nil
}
