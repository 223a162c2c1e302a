package booking

import (
	"time"

	"gorm.io/gorm"

	"trekmarket/internal/domain/coupon"
	"trekmarket/internal/domain/trek"
	"trekmarket/internal/pkg/money"
)

// price computes the amounts for n travelers on t. When redeem is true an
// applicable coupon is redeemed in tx, otherwise it is only resolved.
func price(tx *gorm.DB, t *trek.Trek, n int, couponCode string, redeem bool, now time.Time) (Quote, error) {
	q := Quote{
		TrekID:         t.ID,
		VendorID:       t.VendorID,
		TotalTravelers: n,
		UnitPrice:      t.BasePrice,
		TotalAmount:    money.Round2(t.BasePrice * float64(n)),
	}
	if couponCode == "" {
		q.FinalAmount = q.TotalAmount
		return q, nil
	}

	var (
		applied *coupon.Applied
		err     error
	)
	if redeem {
		applied, err = coupon.ApplyForBooking(tx, couponCode, q.TotalAmount, now)
	} else {
		applied, err = coupon.Resolve(tx, couponCode, q.TotalAmount, now)
	}
	if err != nil {
		return q, err
	}
	if applied != nil {
		id := applied.CouponID
		q.CouponID = &id
		q.CouponCode = applied.Code
		q.DiscountAmount = applied.DiscountAmount
	}
	q.FinalAmount = money.Round2(q.TotalAmount - q.DiscountAmount)
	if q.FinalAmount < 0 {
		q.FinalAmount = 0
	}
	return q, nil
}
