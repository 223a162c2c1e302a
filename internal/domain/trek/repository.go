package trek

import (
	"time"

	"gorm.io/gorm"
)

// Owned loads a trek that belongs to vendorID. Treks of other vendors are
// reported as not found.
func Owned(db *gorm.DB, vendorID, id int64) (*Trek, error) {
	var t Trek
	if err := db.Where("id = ? AND vendor_id = ?", id, vendorID).First(&t).Error; err != nil {
		return nil, notFound(err, ErrTrekNotFound)
	}
	return &t, nil
}

// Bookable loads a trek that customers may book right now.
func Bookable(db *gorm.DB, id int64) (*Trek, error) {
	var t Trek
	if err := db.Where("id = ?", id).First(&t).Error; err != nil {
		return nil, notFound(err, ErrTrekNotFound)
	}
	if t.Status != StatusActive {
		return nil, ErrTrekNotBookable
	}
	return &t, nil
}

// CheckBatch verifies the batch departs for trekID and is still open.
func CheckBatch(db *gorm.DB, trekID, batchID int64) (*Batch, error) {
	var b Batch
	if err := db.Where("id = ? AND trek_id = ?", batchID, trekID).First(&b).Error; err != nil {
		return nil, notFound(err, ErrBatchNotFound)
	}
	if b.Status != BatchOpen {
		return nil, ErrBatchNotOpen
	}
	return &b, nil
}

func CheckPickupPoint(db *gorm.DB, trekID, pointID int64) (*PickupPoint, error) {
	var p PickupPoint
	if err := db.Where("id = ? AND trek_id = ?", pointID, trekID).First(&p).Error; err != nil {
		return nil, notFound(err, ErrPickupPointNotFound)
	}
	return &p, nil
}

func orderImages(db *gorm.DB) *gorm.DB {
	return db.Order("is_cover DESC, sort_order, id")
}

func upcomingBatches(db *gorm.DB, from time.Time) *gorm.DB {
	return db.Where("status = ? AND start_date >= ?", BatchOpen, from).Order("start_date")
}

// withChildren preloads the trek content. A non-nil from restricts batches
// to open departures on or after that date.
func withChildren(db *gorm.DB, from *time.Time) *gorm.DB {
	q := db.
		Preload("Images", orderImages).
		Preload("Itinerary", func(db *gorm.DB) *gorm.DB { return db.Order("day_number") }).
		Preload("Stages", func(db *gorm.DB) *gorm.DB { return db.Order("stage_order") }).
		Preload("Accommodations", func(db *gorm.DB) *gorm.DB { return db.Order("night") }).
		Preload("PickupPoints", func(db *gorm.DB) *gorm.DB { return db.Order("pickup_time, id") })
	if from == nil {
		return q.Preload("Batches", func(db *gorm.DB) *gorm.DB { return db.Order("start_date") })
	}
	start := *from
	return q.Preload("Batches", func(db *gorm.DB) *gorm.DB { return upcomingBatches(db, start) })
}

func replaceChildren(tx *gorm.DB, trekID int64, it []ItineraryInput, st []StageInput, acc []AccommodationInput) error {
	if err := replaceItinerary(tx, trekID, it); err != nil {
		return err
	}
	if err := replaceStages(tx, trekID, st); err != nil {
		return err
	}
	return replaceAccommodations(tx, trekID, acc)
}

func replaceItinerary(tx *gorm.DB, trekID int64, in []ItineraryInput) error {
	if err := tx.Where("trek_id = ?", trekID).Delete(&ItineraryItem{}).Error; err != nil {
		return err
	}
	if len(in) == 0 {
		return nil
	}
	rows := itineraryModels(trekID, in)
	return tx.Create(&rows).Error
}

func replaceStages(tx *gorm.DB, trekID int64, in []StageInput) error {
	if err := tx.Where("trek_id = ?", trekID).Delete(&TrekStage{}).Error; err != nil {
		return err
	}
	if len(in) == 0 {
		return nil
	}
	rows := stageModels(trekID, in)
	return tx.Create(&rows).Error
}

func replaceAccommodations(tx *gorm.DB, trekID int64, in []AccommodationInput) error {
	if err := tx.Where("trek_id = ?", trekID).Delete(&Accommodation{}).Error; err != nil {
		return err
	}
	if len(in) == 0 {
		return nil
	}
	rows := accommodationModels(trekID, in)
	return tx.Create(&rows).Error
}
