package favorite

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"trekmarket/internal/database"
	"trekmarket/internal/domain/trek"
)

type Service struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

func NewService(db *gorm.DB, log logrus.FieldLogger) *Service {
	return &Service{db: db, log: log}
}

// Add puts an active trek on the customer's wishlist.
func (s *Service) Add(ctx context.Context, customerID, trekID int64) (*Favorite, error) {
	db := s.db.WithContext(ctx)
	if _, err := trek.Bookable(db, trekID); err != nil {
		if errors.Is(err, trek.ErrTrekNotBookable) {
			return nil, trek.ErrTrekNotFound
		}
		return nil, err
	}

	f := Favorite{CustomerID: customerID, TrekID: trekID}
	if err := db.Omit("Trek").Create(&f).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrAlreadyFavorite
		}
		return nil, fmt.Errorf("add favorite: %w", err)
	}
	s.log.WithFields(logrus.Fields{"customer_id": customerID, "trek_id": trekID}).Debug("favorite added")
	return &f, nil
}

func (s *Service) Remove(ctx context.Context, customerID, trekID int64) error {
	res := s.db.WithContext(ctx).Where("customer_id = ? AND trek_id = ?", customerID, trekID).Delete(&Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFavorite
	}
	return nil
}

func (s *Service) IsFavorite(ctx context.Context, customerID, trekID int64) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Favorite{}).
		Where("customer_id = ? AND trek_id = ?", customerID, trekID).
		Count(&n).Error
	return n > 0, err
}

// List returns the wishlist newest first with each trek preloaded.
func (s *Service) List(ctx context.Context, customerID int64, limit, offset int) ([]Favorite, int64, error) {
	q := s.db.WithContext(ctx).Model(&Favorite{}).Where("customer_id = ?", customerID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []Favorite
	err := q.Preload("Trek").Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}
