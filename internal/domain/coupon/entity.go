package coupon

import "time"

const (
	TypePercentage = "percentage"
	TypeFixed      = "fixed"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Coupon struct {
	ID                int64      `json:"id" gorm:"primaryKey"`
	Code              string     `json:"code" gorm:"size:40;not null;uniqueIndex"`
	Description       string     `json:"description"`
	DiscountType      string     `json:"discount_type" gorm:"size:16;not null"`
	DiscountValue     float64    `json:"discount_value" gorm:"not null"`
	MinAmount         float64    `json:"min_amount" gorm:"not null;default:0"`
	MaxDiscountAmount *float64   `json:"max_discount_amount,omitempty"`
	MaxUses           *int       `json:"max_uses,omitempty"`
	CurrentUses       int        `json:"current_uses" gorm:"not null;default:0"`
	ValidFrom         *time.Time `json:"valid_from,omitempty"`
	ValidUntil        *time.Time `json:"valid_until,omitempty"`
	Status            string     `json:"status" gorm:"size:16;not null;default:active;index"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (Coupon) TableName() string { return "coupons" }

func Models() []any {
	return []any{&Coupon{}}
}
