package booking

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"trekmarket/internal/pkg/money"
)

// RecordPayment appends an offline payment and recomputes payment_status
// against what is owed.
func (s *Service) RecordPayment(ctx context.Context, vendorID, id int64, req PaymentRequest) (*Ledger, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	var ledger *Ledger
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := ownedByVendor(tx, vendorID, id)
		if err != nil {
			return err
		}
		if b.Status == StatusCancelled || b.PaymentStatus == PaymentRefunded {
			return ErrInvalidStatus
		}
		entry := PaymentLog{
			BookingID:     b.ID,
			Amount:        money.Round2(req.Amount),
			Method:        req.Method,
			TransactionID: req.TransactionID,
			Status:        LogSuccess,
			Notes:         req.Notes,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		if ledger, err = buildLedger(tx, b); err != nil {
			return err
		}
		return settle(tx, b, ledger)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"booking_id": id, "vendor_id": vendorID, "amount": req.Amount}).Info("payment recorded")
	return ledger, nil
}

func (s *Service) AddAdjustment(ctx context.Context, vendorID, userID, id int64, req AdjustmentRequest) (*Ledger, error) {
	if req.Amount == 0 {
		return nil, ErrInvalidAmount
	}
	var ledger *Ledger
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := ownedByVendor(tx, vendorID, id)
		if err != nil {
			return err
		}
		adj := Adjustment{BookingID: b.ID, Amount: money.Round2(req.Amount), Reason: req.Reason, CreatedByUserID: userID}
		if err := tx.Create(&adj).Error; err != nil {
			return err
		}
		if ledger, err = buildLedger(tx, b); err != nil {
			return err
		}
		// settled outside the ledger; nothing recorded to compare against
		if ledger.PaidTotal == 0 {
			return nil
		}
		return settle(tx, b, ledger)
	})
	return ledger, err
}

// settledStatus derives payment_status from what was paid against what is
// owed.
func settledStatus(paid, owed float64) string {
	switch {
	case paid >= money.Round2(owed):
		return PaymentCompleted
	case paid > 0:
		return PaymentPartial
	}
	return PaymentPending
}

// settle stores the ledger-derived payment_status. Refunded bookings keep
// theirs.
func settle(tx *gorm.DB, b *Booking, l *Ledger) error {
	if b.PaymentStatus == PaymentRefunded {
		return nil
	}
	status := settledStatus(l.PaidTotal, b.FinalAmount+l.AdjustTotal)
	if status == b.PaymentStatus {
		return nil
	}
	if err := tx.Model(&Booking{}).Where("id = ?", b.ID).Update("payment_status", status).Error; err != nil {
		return err
	}
	b.PaymentStatus = status
	return nil
}

func (s *Service) VendorLedger(ctx context.Context, vendorID, id int64) (*Ledger, error) {
	db := s.db.WithContext(ctx)
	b, err := ownedByVendor(db, vendorID, id)
	if err != nil {
		return nil, err
	}
	return buildLedger(db, b)
}

// LedgerFor builds the ledger of an already authorised booking.
func (s *Service) LedgerFor(ctx context.Context, b *Booking) (*Ledger, error) {
	return buildLedger(s.db.WithContext(ctx), b)
}

func buildLedger(db *gorm.DB, b *Booking) (*Ledger, error) {
	l := &Ledger{FinalAmount: b.FinalAmount, Adjustments: []Adjustment{}, Payments: []PaymentLog{}}
	if err := db.Where("booking_id = ?", b.ID).Order("id").Find(&l.Adjustments).Error; err != nil {
		return nil, err
	}
	if err := db.Where("booking_id = ?", b.ID).Order("id").Find(&l.Payments).Error; err != nil {
		return nil, err
	}
	for _, a := range l.Adjustments {
		l.AdjustTotal += a.Amount
	}
	for _, p := range l.Payments {
		if p.Status == LogSuccess {
			l.PaidTotal += p.Amount
		}
	}
	l.AdjustTotal = money.Round2(l.AdjustTotal)
	l.PaidTotal = money.Round2(l.PaidTotal)
	l.BalanceDue = money.Round2(l.FinalAmount + l.AdjustTotal - l.PaidTotal)
	return l, nil
}
