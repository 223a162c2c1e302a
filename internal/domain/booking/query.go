package booking

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

func (s *Service) Get(ctx context.Context, id int64) (*Booking, error) {
	var b Booking
	if err := withDetails(s.db.WithContext(ctx)).First(&b, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (s *Service) GetForCustomer(ctx context.Context, customerID, id int64) (*Booking, error) {
	var b Booking
	err := withDetails(s.db.WithContext(ctx)).Where("id = ? AND customer_id = ?", id, customerID).First(&b).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (s *Service) GetForVendor(ctx context.Context, vendorID, id int64) (*Booking, error) {
	var b Booking
	err := withDetails(s.db.WithContext(ctx)).Where("id = ? AND vendor_id = ?", id, vendorID).First(&b).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (s *Service) ListForCustomer(ctx context.Context, customerID int64, f ListFilter) ([]Booking, int64, error) {
	return s.list(s.db.WithContext(ctx).Model(&Booking{}).Where("customer_id = ?", customerID), f)
}

func (s *Service) ListForVendor(ctx context.Context, vendorID int64, f ListFilter) ([]Booking, int64, error) {
	return s.list(s.db.WithContext(ctx).Model(&Booking{}).Where("vendor_id = ?", vendorID), f)
}

func (s *Service) ListAll(ctx context.Context, f ListFilter) ([]Booking, int64, error) {
	return s.list(s.db.WithContext(ctx).Model(&Booking{}), f)
}

func (s *Service) list(q *gorm.DB, f ListFilter) ([]Booking, int64, error) {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}
	if f.TrekID > 0 {
		q = q.Where("trek_id = ?", f.TrekID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []Booking
	err := q.Preload("Trek").Preload("Customer").
		Order("created_at DESC, id DESC").
		Limit(f.Limit).Offset(f.Offset).
		Find(&items).Error
	return items, total, err
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Trek").
		Preload("Customer").
		Preload("Batch").
		Preload("PickupPoint").
		Preload("Travelers", func(db *gorm.DB) *gorm.DB { return db.Order("is_primary DESC, id") }).
		Preload("Travelers.Traveler").
		Preload("Cancellation")
}

func ownedByVendor(db *gorm.DB, vendorID, id int64) (*Booking, error) {
	var b Booking
	if err := db.Where("id = ? AND vendor_id = ?", id, vendorID).First(&b).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
