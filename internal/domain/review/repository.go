package review

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trekmarket/internal/domain/booking"
	"trekmarket/internal/pkg/money"
)

// upsertRating writes one rating and moves the aggregate by the difference
// from the previous value, if any.
func upsertRating(tx *gorm.DB, customerID, trekID int64, in RatingInput) error {
	value := money.Round2(in.Value)
	if value < 0 || value > MaxRating {
		return ErrInvalidRating
	}

	var existing Rating
	err := tx.Where("customer_id = ? AND trek_id = ? AND category_id = ?", customerID, trekID, in.CategoryID).
		First(&existing).Error
	switch {
	case err == nil:
		delta := value - existing.Value
		if err := tx.Model(&existing).Update("value", value).Error; err != nil {
			return err
		}
		return tx.Model(&RatingAggregate{}).
			Where("trek_id = ? AND category_id = ?", trekID, in.CategoryID).
			UpdateColumn("rating_sum", gorm.Expr("rating_sum + ?", delta)).Error
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	r := Rating{CustomerID: customerID, TrekID: trekID, CategoryID: in.CategoryID, Value: value}
	if err := tx.Create(&r).Error; err != nil {
		return err
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "trek_id"}, {Name: "category_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"rating_sum":   gorm.Expr("rating_aggregates.rating_sum + ?", value),
			"rating_count": gorm.Expr("rating_aggregates.rating_count + 1"),
		}),
	}).Create(&RatingAggregate{TrekID: trekID, CategoryID: in.CategoryID, RatingSum: value, RatingCount: 1}).Error
}

// activeCategories reports whether every id names an active category.
func activeCategories(db *gorm.DB, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	uniq := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		uniq[id] = struct{}{}
	}
	var n int64
	if err := db.Model(&RatingCategory{}).Where("id IN ? AND is_active = ?", ids, true).Count(&n).Error; err != nil {
		return err
	}
	if int(n) != len(uniq) {
		return ErrCategoryNotFound
	}
	return nil
}

type aggregateRow struct {
	CategoryID  int64
	Name        string
	SortOrder   int
	RatingSum   float64
	RatingCount int64
}

// buildSummary reads the aggregates of a trek. Category means are rounded to
// 2 decimals and the overall score is their unweighted mean.
func buildSummary(db *gorm.DB, trekID int64) (*Summary, error) {
	var rows []aggregateRow
	err := db.Table("rating_aggregates AS a").
		Select("a.category_id, c.name, c.sort_order, a.rating_sum, a.rating_count").
		Joins("JOIN rating_categories c ON c.id = a.category_id").
		Where("a.trek_id = ? AND a.rating_count > 0", trekID).
		Order("c.sort_order, c.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	s := &Summary{TrekID: trekID, Categories: make([]CategorySummary, 0, len(rows))}
	var total float64
	for _, r := range rows {
		avg := money.Round2(r.RatingSum / float64(r.RatingCount))
		s.Categories = append(s.Categories, CategorySummary{
			CategoryID: r.CategoryID, Name: r.Name, Average: avg, Count: r.RatingCount,
		})
		s.RatingCount += r.RatingCount
		total += avg
	}
	if len(rows) > 0 {
		s.Overall = money.Round2(total / float64(len(rows)))
	}

	if err := db.Model(&Review{}).Where("trek_id = ? AND status = ?", trekID, StatusApproved).
		Count(&s.ReviewCount).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// completedBookingExists backs the verified badge on reviews.
func completedBookingExists(db *gorm.DB, customerID, trekID int64) (bool, error) {
	var n int64
	err := db.Model(&booking.Booking{}).
		Where("customer_id = ? AND trek_id = ? AND status = ?", customerID, trekID, booking.StatusCompleted).
		Count(&n).Error
	return n > 0, err
}

func checkBooking(db *gorm.DB, customerID, trekID, bookingID int64) error {
	var n int64
	err := db.Model(&booking.Booking{}).
		Where("id = ? AND customer_id = ? AND trek_id = ?", bookingID, customerID, trekID).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingMismatch
	}
	return nil
}
