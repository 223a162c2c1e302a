package booking

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"trekmarket/internal/database"
	"trekmarket/internal/domain/traveler"
	"trekmarket/internal/domain/trek"
)

// Cancel cancels a pending or confirmed booking of the customer, records a
// full pending refund and gives the slots back.
func (s *Service) Cancel(ctx context.Context, customerID, id int64, reason string) (*Booking, error) {
	var b Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND customer_id = ?", id, customerID).First(&b).Error; err != nil {
			return notFound(err)
		}
		return cancelTx(tx, &b, reason, CancelledByCustomer, s.now())
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"booking_id": id, "customer_id": customerID}).Info("booking cancelled by customer")
	s.publish(EventStatusChanged, &b)
	return s.Get(ctx, id)
}

// MobileUpdateStatus is the status endpoint used by the mobile app, which
// may only move a booking to cancelled.
func (s *Service) MobileUpdateStatus(ctx context.Context, customerID, id int64, req MobileStatusRequest) (*Booking, error) {
	if req.Status != StatusCancelled {
		return nil, ErrOnlyCancellationAllowed
	}
	return s.Cancel(ctx, customerID, id, req.Reason)
}

// VendorUpdateStatus sets status and payment status on a vendor's booking
// without transition rules. Slot holds follow the new status.
func (s *Service) VendorUpdateStatus(ctx context.Context, vendorID, id int64, req VendorStatusRequest) (*Booking, error) {
	if req.Status == "" && req.PaymentStatus == "" {
		return nil, ErrInvalidStatus
	}
	var b Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND vendor_id = ?", id, vendorID).First(&b).Error; err != nil {
			return notFound(err)
		}
		prev := b.Status
		next := orDefault(req.Status, prev)
		pay := orDefault(req.PaymentStatus, b.PaymentStatus)
		if !validStatus(next) {
			return ErrInvalidStatus
		}
		if !validPaymentStatus(pay) {
			return ErrInvalidPaymentStatus
		}

		res := tx.Model(&Booking{}).
			Where("id = ? AND status = ?", id, prev).
			Updates(map[string]any{"status": next, "payment_status": pay})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrentUpdate
		}
		b.Status, b.PaymentStatus = next, pay

		switch {
		case HoldsSlots(prev) && !HoldsSlots(next):
			if err := trek.ReleaseSlots(tx, b.TrekID, b.BatchID, b.TotalTravelers); err != nil {
				return err
			}
		case !HoldsSlots(prev) && HoldsSlots(next):
			if err := trek.ReserveSlots(tx, b.TrekID, b.BatchID, b.TotalTravelers); err != nil {
				return err
			}
		}

		if next == StatusCancelled && prev != StatusCancelled {
			if err := recordCancellation(tx, &b, req.Reason, CancelledByVendor, s.now()); err != nil {
				return err
			}
			return traveler.SetLinkStatus(tx, b.ID, traveler.LinkCancelled)
		}
		if prev == StatusCancelled && next != StatusCancelled {
			return traveler.SetLinkStatus(tx, b.ID, traveler.LinkConfirmed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"booking_id": id, "vendor_id": vendorID, "status": b.Status, "payment_status": b.PaymentStatus,
	}).Info("booking status updated by vendor")
	s.publish(EventStatusChanged, &b)
	return s.Get(ctx, id)
}

func cancelTx(tx *gorm.DB, b *Booking, reason, by string, now time.Time) error {
	res := tx.Model(&Booking{}).
		Where("id = ? AND status IN ?", b.ID, []string{StatusPending, StatusConfirmed}).
		Update("status", StatusCancelled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var current Booking
		if err := tx.Select("status").First(&current, b.ID).Error; err != nil {
			return notFound(err)
		}
		if current.Status == StatusCompleted {
			return ErrAlreadyCompleted
		}
		return ErrAlreadyCancelled
	}
	b.Status = StatusCancelled

	if err := recordCancellation(tx, b, reason, by, now); err != nil {
		return err
	}
	if err := trek.ReleaseSlots(tx, b.TrekID, b.BatchID, b.TotalTravelers); err != nil {
		return err
	}
	return traveler.SetLinkStatus(tx, b.ID, traveler.LinkCancelled)
}

// recordCancellation inserts the cancellation row unless one exists.
func recordCancellation(tx *gorm.DB, b *Booking, reason, by string, now time.Time) error {
	var existing Cancellation
	err := tx.Where("booking_id = ?", b.ID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	c := Cancellation{
		BookingID:    b.ID,
		Reason:       reason,
		RefundAmount: b.FinalAmount,
		RefundStatus: RefundPending,
		CancelledBy:  by,
		CancelledAt:  now,
	}
	if err := tx.Create(&c).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrAlreadyCancelled
		}
		return err
	}
	return nil
}
