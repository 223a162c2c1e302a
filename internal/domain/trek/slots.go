package trek

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ReserveSlots books n seats on the trek and, when batchID is set, on the
// batch. Both updates are conditional on capacity, so concurrent callers can
// never push booked_slots past the limit. Call it inside the booking
// transaction so a refused batch rolls back the trek increment.
func ReserveSlots(tx *gorm.DB, trekID int64, batchID *int64, n int) error {
	if n <= 0 {
		return nil
	}
	res := tx.Model(&Trek{}).
		Where("id = ? AND booked_slots + ? <= max_participants", trekID, n).
		UpdateColumn("booked_slots", gorm.Expr("booked_slots + ?", n))
	if res.Error != nil {
		return fmt.Errorf("reserve trek slots: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return refusal(tx, &Trek{}, "max_participants", trekID)
	}

	if batchID == nil {
		return nil
	}
	res = tx.Model(&Batch{}).
		Where("id = ? AND trek_id = ? AND booked_slots + ? <= capacity", *batchID, trekID, n).
		UpdateColumn("booked_slots", gorm.Expr("booked_slots + ?", n))
	if res.Error != nil {
		return fmt.Errorf("reserve batch slots: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return refusal(tx, &Batch{}, "capacity", *batchID)
	}
	return nil
}

// ReleaseSlots gives n seats back. booked_slots never goes below zero.
func ReleaseSlots(tx *gorm.DB, trekID int64, batchID *int64, n int) error {
	if n <= 0 {
		return nil
	}
	dec := gorm.Expr("CASE WHEN booked_slots >= ? THEN booked_slots - ? ELSE 0 END", n, n)
	if err := tx.Model(&Trek{}).Where("id = ?", trekID).UpdateColumn("booked_slots", dec).Error; err != nil {
		return fmt.Errorf("release trek slots: %w", err)
	}
	if batchID == nil {
		return nil
	}
	if err := tx.Model(&Batch{}).Where("id = ?", *batchID).UpdateColumn("booked_slots", dec).Error; err != nil {
		return fmt.Errorf("release batch slots: %w", err)
	}
	return nil
}

func refusal(tx *gorm.DB, model any, limitColumn string, id int64) error {
	var row struct {
		Cap    int `gorm:"column:cap"`
		Booked int `gorm:"column:booked"`
	}
	err := tx.Model(model).
		Select(limitColumn+" AS cap, booked_slots AS booked").
		Where("id = ?", id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if _, ok := model.(*Batch); ok {
			return ErrBatchNotFound
		}
		return ErrTrekNotFound
	}
	if err != nil {
		return err
	}
	available := row.Cap - row.Booked
	if available < 0 {
		available = 0
	}
	return &InsufficientSlotsError{Available: available}
}
