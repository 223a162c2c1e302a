package coupon

import "time"

type CouponRequest struct {
	Code              string     `json:"code" validate:"required,min=3,max=40"`
	Description       string     `json:"description"`
	DiscountType      string     `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue     float64    `json:"discount_value" validate:"gt=0"`
	MinAmount         float64    `json:"min_amount" validate:"gte=0"`
	MaxDiscountAmount *float64   `json:"max_discount_amount" validate:"omitempty,gt=0"`
	MaxUses           *int       `json:"max_uses" validate:"omitempty,gt=0"`
	ValidFrom         *time.Time `json:"valid_from"`
	ValidUntil        *time.Time `json:"valid_until"`
	Status            string     `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r CouponRequest) toModel() Coupon {
	status := r.Status
	if status == "" {
		status = StatusActive
	}
	return Coupon{
		Code:              NormalizeCode(r.Code),
		Description:       r.Description,
		DiscountType:      r.DiscountType,
		DiscountValue:     r.DiscountValue,
		MinAmount:         r.MinAmount,
		MaxDiscountAmount: r.MaxDiscountAmount,
		MaxUses:           r.MaxUses,
		ValidFrom:         r.ValidFrom,
		ValidUntil:        r.ValidUntil,
		Status:            status,
	}
}

type ValidateRequest struct {
	Code   string  `json:"code" validate:"required"`
	Amount float64 `json:"amount" validate:"gt=0"`
}
