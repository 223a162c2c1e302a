package review

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"trekmarket/internal/database"
	"trekmarket/internal/domain/trek"
)

type Service struct {
	db    *gorm.DB
	cache SummaryCache
	log   logrus.FieldLogger
}

func NewService(db *gorm.DB, cache SummaryCache, log logrus.FieldLogger) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Service{db: db, cache: cache, log: log}
}

// Create stores the customer's single review of a trek together with any
// ratings sent along.
func (s *Service) Create(ctx context.Context, customerID int64, req CreateRequest) (*Review, error) {
	var rv Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := trekExists(tx, req.TrekID); err != nil {
			return err
		}
		if req.BookingID != nil {
			if err := checkBooking(tx, customerID, req.TrekID, *req.BookingID); err != nil {
				return err
			}
		}
		verified, err := completedBookingExists(tx, customerID, req.TrekID)
		if err != nil {
			return err
		}

		rv = Review{
			CustomerID: customerID,
			TrekID:     req.TrekID,
			BookingID:  req.BookingID,
			Title:      strings.TrimSpace(req.Title),
			Comment:    strings.TrimSpace(req.Comment),
			Status:     StatusApproved,
			IsVerified: verified,
		}
		if err := tx.Create(&rv).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return ErrAlreadyReviewed
			}
			return err
		}
		return s.writeRatings(tx, customerID, req.TrekID, req.Ratings)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, req.TrekID)
	return &rv, nil
}

// Rate sets the customer's ratings on a trek, replacing earlier values per
// category.
func (s *Service) Rate(ctx context.Context, customerID, trekID int64, ratings []RatingInput) (*Summary, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := trekExists(tx, trekID); err != nil {
			return err
		}
		return s.writeRatings(tx, customerID, trekID, ratings)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, trekID)
	return s.Summary(ctx, trekID)
}

func (s *Service) writeRatings(tx *gorm.DB, customerID, trekID int64, ratings []RatingInput) error {
	ids := make([]int64, 0, len(ratings))
	for _, r := range ratings {
		ids = append(ids, r.CategoryID)
	}
	if err := activeCategories(tx, ids); err != nil {
		return err
	}
	for _, r := range ratings {
		if err := upsertRating(tx, customerID, trekID, r); err != nil {
			return err
		}
	}
	return nil
}

// Summary serves from the cache when it can. A cache failure falls back to
// the database.
func (s *Service) Summary(ctx context.Context, trekID int64) (*Summary, error) {
	cached, ok, err := s.cache.Get(ctx, trekID)
	if err != nil {
		s.log.WithError(err).WithField("trek_id", trekID).Warn("rating cache read failed")
	}
	if ok {
		return cached, nil
	}

	sum, err := buildSummary(s.db.WithContext(ctx), trekID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, sum); err != nil {
		s.log.WithError(err).WithField("trek_id", trekID).Warn("rating cache write failed")
	}
	return sum, nil
}

func (s *Service) invalidate(ctx context.Context, trekID int64) {
	if err := s.cache.Invalidate(ctx, trekID); err != nil {
		s.log.WithError(err).WithField("trek_id", trekID).Warn("rating cache invalidation failed")
	}
}

func (s *Service) ListForTrek(ctx context.Context, trekID int64, page, limit int) (*TrekReviews, error) {
	db := s.db.WithContext(ctx)
	if err := trekExists(db, trekID); err != nil {
		return nil, err
	}
	q := db.Model(&Review{}).Where("trek_id = ? AND status = ?", trekID, StatusApproved)

	out := &TrekReviews{Page: page, Limit: limit}
	if err := q.Count(&out.Total).Error; err != nil {
		return nil, err
	}
	if err := q.Preload("Customer").Order("created_at DESC, id DESC").
		Limit(limit).Offset((page - 1) * limit).Find(&out.Items).Error; err != nil {
		return nil, err
	}
	sum, err := s.Summary(ctx, trekID)
	if err != nil {
		return nil, err
	}
	out.Summary = sum
	return out, nil
}

func (s *Service) ListForCustomer(ctx context.Context, customerID int64) ([]Review, error) {
	var items []Review
	err := s.db.WithContext(ctx).Where("customer_id = ?", customerID).
		Order("created_at DESC").Find(&items).Error
	return items, err
}

// ListAll is the moderation queue; status filters when set.
func (s *Service) ListAll(ctx context.Context, status string, limit, offset int) ([]Review, int64, error) {
	q := s.db.WithContext(ctx).Model(&Review{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []Review
	err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (s *Service) SetStatus(ctx context.Context, id int64, status string) (*Review, error) {
	if status != StatusApproved && status != StatusHidden {
		return nil, ErrInvalidStatus
	}
	db := s.db.WithContext(ctx)
	var rv Review
	if err := db.First(&rv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if err := db.Model(&rv).Update("status", status).Error; err != nil {
		return nil, err
	}
	s.invalidate(ctx, rv.TrekID)
	return &rv, nil
}

func (s *Service) Categories(ctx context.Context, activeOnly bool) ([]RatingCategory, error) {
	q := s.db.WithContext(ctx).Order("sort_order, name")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var items []RatingCategory
	return items, q.Find(&items).Error
}

func (s *Service) CreateCategory(ctx context.Context, req CategoryRequest) (*RatingCategory, error) {
	c := RatingCategory{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return &c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id int64, req CategoryRequest) (*RatingCategory, error) {
	db := s.db.WithContext(ctx)
	var c RatingCategory
	if err := db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	c.Name = strings.TrimSpace(req.Name)
	c.Description = req.Description
	c.SortOrder = req.SortOrder
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if err := db.Save(&c).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return &c, nil
}

func trekExists(db *gorm.DB, id int64) error {
	var n int64
	if err := db.Model(&trek.Trek{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return trek.ErrTrekNotFound
	}
	return nil
}
