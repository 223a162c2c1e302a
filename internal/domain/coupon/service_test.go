package coupon

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"trekmarket/internal/database"
	"trekmarket/internal/pkg/logger"
)

func setupService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := database.OpenInMemory("coupon_" + t.Name())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Coupon{}))
	return NewService(db, logger.Discard()), db
}

func TestValidateAppliesCap(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CouponRequest{
		Code: " trek10 ", DiscountType: TypePercentage, DiscountValue: 10, MaxDiscountAmount: ptrF(150),
	})
	require.NoError(t, err)

	res, err := svc.Validate(ctx, "TREK10", 2000)
	require.NoError(t, err)
	assert.Equal(t, 150.0, res.DiscountAmount)
	assert.Equal(t, 1850.0, res.FinalAmount)

	_, err = svc.Validate(ctx, "NOPE", 2000)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateRejectsBadDefinitions(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CouponRequest{Code: "BIG", DiscountType: TypePercentage, DiscountValue: 120})
	assert.ErrorIs(t, err, ErrInvalidCoupon)

	from := time.Now()
	until := from.Add(-time.Hour)
	_, err = svc.Create(ctx, CouponRequest{Code: "WIN", DiscountType: TypeFixed, DiscountValue: 5, ValidFrom: &from, ValidUntil: &until})
	assert.ErrorIs(t, err, ErrInvalidCoupon)

	_, err = svc.Create(ctx, CouponRequest{Code: "DUP", DiscountType: TypeFixed, DiscountValue: 5})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CouponRequest{Code: "dup", DiscountType: TypeFixed, DiscountValue: 5})
	assert.ErrorIs(t, err, ErrDuplicateCode)
}

func TestApplyForBookingRedeemsUntilLimit(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CouponRequest{Code: "ONCE", DiscountType: TypeFixed, DiscountValue: 100, MaxUses: ptrI(1)})
	require.NoError(t, err)

	now := time.Now()
	applied, err := ApplyForBooking(db, "once", 1000, now)
	require.NoError(t, err)
	require.NotNil(t, applied)
	assert.Equal(t, created.ID, applied.CouponID)
	assert.Equal(t, 100.0, applied.DiscountAmount)

	applied, err = ApplyForBooking(db, "ONCE", 1000, now)
	require.NoError(t, err)
	assert.Nil(t, applied, "exhausted coupons give no discount")

	stored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentUses)
	assert.LessOrEqual(t, stored.CurrentUses, *stored.MaxUses)
}

func TestRedeemGuard(t *testing.T) {
	svc, db := setupService(t)
	created, err := svc.Create(context.Background(), CouponRequest{Code: "TWO", DiscountType: TypeFixed, DiscountValue: 1, MaxUses: ptrI(2)})
	require.NoError(t, err)

	require.NoError(t, Redeem(db, created.ID))
	require.NoError(t, Redeem(db, created.ID))
	assert.ErrorIs(t, Redeem(db, created.ID), ErrUsageLimitReached)
}

func TestResolveIgnoresUnusableCoupons(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CouponRequest{Code: "MIN", DiscountType: TypeFixed, DiscountValue: 50, MinAmount: 5000})
	require.NoError(t, err)

	applied, err := Resolve(db, "MIN", 1000, time.Now())
	require.NoError(t, err)
	assert.Nil(t, applied)

	applied, err = Resolve(db, "", 1000, time.Now())
	require.NoError(t, err)
	assert.Nil(t, applied)

	applied, err = Resolve(db, "MISSING", 1000, time.Now())
	require.NoError(t, err)
	assert.Nil(t, applied)
}

func TestUpdateKeepsUsage(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CouponRequest{Code: "KEEP", DiscountType: TypeFixed, DiscountValue: 10})
	require.NoError(t, err)
	require.NoError(t, Redeem(db, created.ID))

	updated, err := svc.Update(ctx, created.ID, CouponRequest{Code: "KEEP", DiscountType: TypeFixed, DiscountValue: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.CurrentUses)
	assert.Equal(t, 20.0, updated.DiscountValue)

	require.NoError(t, svc.Deactivate(ctx, created.ID))
	_, err = svc.Validate(ctx, "KEEP", 100)
	assert.ErrorIs(t, err, ErrInactive)
}
