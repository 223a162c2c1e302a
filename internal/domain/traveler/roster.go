package traveler

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var holdingStatuses = []string{"pending", "confirmed"}

// FindOrCreate reuses the customer's active traveler with the same name and
// phone, or creates one from the participant details.
func FindOrCreate(tx *gorm.DB, customerID int64, p Participant) (*Traveler, error) {
	var t Traveler
	err := tx.Where("customer_id = ? AND name = ? AND phone = ? AND is_active = ?",
		customerID, strings.TrimSpace(p.Name), strings.TrimSpace(p.Phone), true).
		Order("id").
		First(&t).Error
	if err == nil {
		return &t, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	t = p.toModel(customerID)
	return insertOrReuse(tx, &t)
}

// insertOrReuse inserts t unless an active traveler with the same customer,
// name and phone already exists, in which case that row is returned. A
// concurrent booking that inserted first wins and both share its row.
func insertOrReuse(tx *gorm.DB, t *Traveler) (*Traveler, error) {
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(t)
	if res.Error != nil {
		return nil, fmt.Errorf("create traveler: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return t, nil
	}
	var existing Traveler
	err := tx.Where("customer_id = ? AND name = ? AND phone = ? AND is_active = ?", t.CustomerID, t.Name, t.Phone, true).
		First(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("reuse traveler: %w", err)
	}
	return &existing, nil
}

// Attach resolves every participant to a traveler and links them to the
// booking. The first participant is the primary traveler.
func Attach(tx *gorm.DB, customerID, bookingID int64, participants []Participant) ([]BookingTraveler, error) {
	links := make([]BookingTraveler, 0, len(participants))
	seen := make(map[int64]bool, len(participants))
	for i, p := range participants {
		t, err := FindOrCreate(tx, customerID, p)
		if err != nil {
			return nil, err
		}
		if seen[t.ID] {
			return nil, ErrDuplicateParticipant
		}
		seen[t.ID] = true
		links = append(links, BookingTraveler{
			BookingID:               bookingID,
			TravelerID:              t.ID,
			IsPrimary:               i == 0,
			AccommodationPreference: p.AccommodationPreference,
			MealPreference:          p.MealPreference,
			Status:                  LinkConfirmed,
			Traveler:                t,
		})
	}
	if len(links) == 0 {
		return links, nil
	}
	if err := tx.Omit("Traveler").Create(&links).Error; err != nil {
		return nil, fmt.Errorf("link travelers: %w", err)
	}
	return links, nil
}

// SetLinkStatus updates every traveler link of a booking.
func SetLinkStatus(tx *gorm.DB, bookingID int64, status string) error {
	return tx.Model(&BookingTraveler{}).Where("booking_id = ?", bookingID).Update("status", status).Error
}

func ForBooking(db *gorm.DB, bookingID int64) ([]BookingTraveler, error) {
	var links []BookingTraveler
	err := db.Preload("Traveler").
		Where("booking_id = ?", bookingID).
		Order("is_primary DESC, id").
		Find(&links).Error
	return links, err
}

func inUse(tx *gorm.DB, travelerID int64) (bool, error) {
	var n int64
	err := tx.Table("booking_travelers AS bt").
		Joins("JOIN bookings AS b ON b.id = bt.booking_id").
		Where("bt.traveler_id = ? AND b.status IN ?", travelerID, holdingStatuses).
		Count(&n).Error
	return n > 0, err
}
