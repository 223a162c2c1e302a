package traveler

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"trekmarket/internal/database"
)

type Service struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

func NewService(db *gorm.DB, log logrus.FieldLogger) *Service {
	return &Service{db: db, log: log}
}

func (s *Service) List(ctx context.Context, customerID int64) ([]Traveler, error) {
	var items []Traveler
	err := s.db.WithContext(ctx).
		Where("customer_id = ? AND is_active = ?", customerID, true).
		Order("name, id").
		Find(&items).Error
	return items, err
}

func (s *Service) Get(ctx context.Context, customerID, id int64) (*Traveler, error) {
	return s.owned(s.db.WithContext(ctx), customerID, id)
}

// Create goes through the same dedup as booking so a saved traveler is
// reused when later named on a booking.
func (s *Service) Create(ctx context.Context, customerID int64, req TravelerRequest) (*Traveler, error) {
	var t *Traveler
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		t, err = FindOrCreate(tx, customerID, req.participant())
		return err
	})
	return t, err
}

func (s *Service) Update(ctx context.Context, customerID, id int64, req TravelerRequest) (*Traveler, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.owned(db, customerID, id); err != nil {
		return nil, err
	}
	if err := db.Model(&Traveler{}).Where("id = ?", id).Updates(req.fields()).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrTravelerExists
		}
		return nil, err
	}
	return s.owned(db, customerID, id)
}

// Delete deactivates the traveler. Travelers on a pending or confirmed
// booking cannot be removed.
func (s *Service) Delete(ctx context.Context, customerID, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.owned(tx, customerID, id); err != nil {
			return err
		}
		busy, err := inUse(tx, id)
		if err != nil {
			return err
		}
		if busy {
			return ErrTravelerInUse
		}
		if err := tx.Model(&Traveler{}).Where("id = ?", id).Update("is_active", false).Error; err != nil {
			return err
		}
		s.log.WithFields(logrus.Fields{"traveler_id": id, "customer_id": customerID}).Info("traveler deactivated")
		return nil
	})
}

func (s *Service) owned(db *gorm.DB, customerID, id int64) (*Traveler, error) {
	var t Traveler
	err := db.Where("id = ? AND customer_id = ? AND is_active = ?", id, customerID, true).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
