package coupon

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"trekmarket/internal/database"
	"trekmarket/internal/pkg/money"
)

type Service struct {
	db  *gorm.DB
	log logrus.FieldLogger
	now func() time.Time
}

func NewService(db *gorm.DB, log logrus.FieldLogger) *Service {
	return &Service{db: db, log: log, now: time.Now}
}

// Applied is the outcome of applying a coupon to an order.
type Applied struct {
	CouponID       int64   `json:"coupon_id"`
	Code           string  `json:"code"`
	DiscountAmount float64 `json:"discount_amount"`
}

type ValidationResult struct {
	Coupon         *Coupon `json:"coupon"`
	OrderAmount    float64 `json:"order_amount"`
	DiscountAmount float64 `json:"discount_amount"`
	FinalAmount    float64 `json:"final_amount"`
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate is the strict check used by the validate endpoints.
func (s *Service) Validate(ctx context.Context, code string, total float64) (*ValidationResult, error) {
	c, err := findByCode(s.db.WithContext(ctx), code)
	if err != nil {
		return nil, err
	}
	if err := Check(c, total, s.now()); err != nil {
		return nil, err
	}
	d := Discount(c, total)
	return &ValidationResult{
		Coupon:         c,
		OrderAmount:    money.Round2(total),
		DiscountAmount: d,
		FinalAmount:    money.Round2(total - d),
	}, nil
}

// Resolve returns the discount code would give to an order of total right
// now, or nil when the coupon does not apply. Only database failures are
// returned as errors.
func Resolve(db *gorm.DB, code string, total float64, now time.Time) (*Applied, error) {
	if strings.TrimSpace(code) == "" {
		return nil, nil
	}
	c, err := findByCode(db, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if Check(c, total, now) != nil {
		return nil, nil
	}
	return &Applied{CouponID: c.ID, Code: c.Code, DiscountAmount: Discount(c, total)}, nil
}

// ApplyForBooking resolves code inside tx and redeems it. A coupon that
// cannot be used yields no discount rather than an error.
func ApplyForBooking(tx *gorm.DB, code string, total float64, now time.Time) (*Applied, error) {
	applied, err := Resolve(tx, code, total, now)
	if err != nil || applied == nil {
		return nil, err
	}
	if err := Redeem(tx, applied.CouponID); err != nil {
		if errors.Is(err, ErrUsageLimitReached) {
			return nil, nil
		}
		return nil, err
	}
	return applied, nil
}

// Redeem increments current_uses unless that would exceed max_uses.
func Redeem(tx *gorm.DB, couponID int64) error {
	res := tx.Model(&Coupon{}).
		Where("id = ? AND (max_uses IS NULL OR current_uses < max_uses)", couponID).
		UpdateColumn("current_uses", gorm.Expr("current_uses + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUsageLimitReached
	}
	return nil
}

func (s *Service) Create(ctx context.Context, req CouponRequest) (*Coupon, error) {
	c := req.toModel()
	if err := validateDefinition(&c); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateCode
		}
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"coupon_id": c.ID, "code": c.Code}).Info("coupon created")
	return &c, nil
}

func (s *Service) Update(ctx context.Context, id int64, req CouponRequest) (*Coupon, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := req.toModel()
	next.ID = current.ID
	next.CurrentUses = current.CurrentUses
	next.CreatedAt = current.CreatedAt
	if err := validateDefinition(&next); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(&next).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateCode
		}
		return nil, err
	}
	return &next, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Coupon, error) {
	var c Coupon
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]Coupon, int64, error) {
	q := s.db.WithContext(ctx).Model(&Coupon{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []Coupon
	err := q.Order("id DESC").Limit(limit).Offset(offset).Find(&out).Error
	return out, total, err
}

// Deactivate retires a coupon; redeemed coupons stay referenced by bookings.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Model(&Coupon{}).Where("id = ?", id).Update("status", StatusInactive)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func findByCode(db *gorm.DB, code string) (*Coupon, error) {
	var c Coupon
	if err := db.Where("code = ?", NormalizeCode(code)).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func validateDefinition(c *Coupon) error {
	switch c.DiscountType {
	case TypePercentage:
		if c.DiscountValue <= 0 || c.DiscountValue > 100 {
			return ErrInvalidCoupon
		}
	case TypeFixed:
		if c.DiscountValue <= 0 {
			return ErrInvalidCoupon
		}
	default:
		return ErrInvalidCoupon
	}
	if c.ValidFrom != nil && c.ValidUntil != nil && !c.ValidUntil.After(*c.ValidFrom) {
		return ErrInvalidCoupon
	}
	if c.MaxUses != nil && *c.MaxUses < c.CurrentUses {
		return ErrInvalidCoupon
	}
	return nil
}
