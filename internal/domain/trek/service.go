package trek

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trekmarket/internal/database"
)

// ReferenceChecker resolves the reference data a trek points at.
type ReferenceChecker interface {
	DestinationExists(ctx context.Context, id int64) (bool, error)
	BadgeExists(ctx context.Context, id int64) (bool, error)
	CancellationPolicyExists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	db   *gorm.DB
	refs ReferenceChecker
	log  logrus.FieldLogger
	now  func() time.Time
}

func NewService(db *gorm.DB, refs ReferenceChecker, log logrus.FieldLogger) *Service {
	return &Service{db: db, refs: refs, log: log, now: time.Now}
}

func (s *Service) Create(ctx context.Context, vendorID int64, req TrekRequest) (*Trek, error) {
	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}
	t := req.toModel(vendorID)
	if !ValidStatus(t.Status) {
		return nil, ErrInvalidStatus
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&t).Error; err != nil {
			return err
		}
		return replaceChildren(tx, t.ID, req.Itinerary, req.Stages, req.Accommodations)
	})
	if err != nil {
		return nil, fmt.Errorf("create trek: %w", err)
	}

	s.log.WithFields(logrus.Fields{"trek_id": t.ID, "vendor_id": vendorID}).Info("trek created")
	return s.GetForVendor(ctx, vendorID, t.ID)
}

func (s *Service) Update(ctx context.Context, vendorID, id int64, req TrekRequest) (*Trek, error) {
	if _, err := Owned(s.db.WithContext(ctx), vendorID, id); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}
	fields := req.fields()
	if st, ok := fields["status"].(string); ok && !ValidStatus(st) {
		return nil, ErrInvalidStatus
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Trek{}).
			Where("id = ? AND booked_slots <= ?", id, req.MaxParticipants).
			Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCapacityBelowBooked
		}
		if req.Itinerary != nil {
			if err := replaceItinerary(tx, id, req.Itinerary); err != nil {
				return err
			}
		}
		if req.Stages != nil {
			if err := replaceStages(tx, id, req.Stages); err != nil {
				return err
			}
		}
		if req.Accommodations != nil {
			if err := replaceAccommodations(tx, id, req.Accommodations); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetForVendor(ctx, vendorID, id)
}

func (s *Service) SetStatus(ctx context.Context, vendorID, id int64, status string) (*Trek, error) {
	status = NormalizeStatus(status)
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	db := s.db.WithContext(ctx)
	if _, err := Owned(db, vendorID, id); err != nil {
		return nil, err
	}
	if err := db.Model(&Trek{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return nil, err
	}
	return s.GetForVendor(ctx, vendorID, id)
}

// Delete removes a trek and its child content. Images must be removed
// first and no booking may hold slots on it.
func (s *Service) Delete(ctx context.Context, vendorID, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := Owned(tx, vendorID, id)
		if err != nil {
			return err
		}
		var images int64
		if err := tx.Model(&TrekImage{}).Where("trek_id = ?", id).Count(&images).Error; err != nil {
			return err
		}
		if images > 0 {
			return ErrTrekHasImages
		}
		if t.BookedSlots > 0 {
			return ErrTrekHasBookings
		}
		for _, child := range []any{&ItineraryItem{}, &TrekStage{}, &Accommodation{}, &PickupPoint{}, &Batch{}} {
			if err := tx.Where("trek_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ? AND booked_slots = 0", id).Delete(&Trek{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTrekHasBookings
		}
		return nil
	})
}

func (s *Service) ListForVendor(ctx context.Context, vendorID int64, status string, limit, offset int) ([]Trek, int64, error) {
	q := s.db.WithContext(ctx).Model(&Trek{}).Where("vendor_id = ?", vendorID)
	if status != "" {
		q = q.Where("status = ?", NormalizeStatus(status))
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []Trek
	err := q.Preload("Images", orderImages).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&items).Error
	return items, total, err
}

func (s *Service) GetForVendor(ctx context.Context, vendorID, id int64) (*Trek, error) {
	var t Trek
	err := withChildren(s.db.WithContext(ctx), nil).
		Where("id = ? AND vendor_id = ?", id, vendorID).
		First(&t).Error
	if err != nil {
		return nil, notFound(err, ErrTrekNotFound)
	}
	return &t, nil
}

func (s *Service) ListPublic(ctx context.Context, f PublicFilter) ([]Trek, int64, error) {
	q := s.db.WithContext(ctx).Model(&Trek{}).Where("status = ?", StatusActive)
	if f.DestinationID > 0 {
		q = q.Where("destination_id = ?", f.DestinationID)
	}
	if f.Difficulty != "" {
		q = q.Where("difficulty = ?", f.Difficulty)
	}
	if f.MinPrice != nil {
		q = q.Where("base_price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("base_price <= ?", *f.MaxPrice)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(term)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []Trek
	err := q.Preload("Images", orderImages).
		Order("created_at DESC, id DESC").
		Limit(f.Limit).Offset(f.Offset).
		Find(&items).Error
	return items, total, err
}

// GetPublic returns an active trek with its content and upcoming open
// batches.
func (s *Service) GetPublic(ctx context.Context, id int64) (*Trek, error) {
	var t Trek
	today := s.today()
	err := withChildren(s.db.WithContext(ctx), &today).
		Where("id = ? AND status = ?", id, StatusActive).
		First(&t).Error
	if err != nil {
		return nil, notFound(err, ErrTrekNotFound)
	}
	return &t, nil
}

func (s *Service) AddImage(ctx context.Context, vendorID, trekID int64, req ImageRequest) (*TrekImage, error) {
	img := TrekImage{TrekID: trekID, URL: req.URL, Caption: req.Caption, IsCover: req.IsCover, SortOrder: req.SortOrder}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := Owned(tx, vendorID, trekID); err != nil {
			return err
		}
		if img.IsCover {
			if err := tx.Model(&TrekImage{}).Where("trek_id = ?", trekID).Update("is_cover", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&img).Error
	})
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (s *Service) DeleteImage(ctx context.Context, vendorID, trekID, imageID int64) error {
	db := s.db.WithContext(ctx)
	if _, err := Owned(db, vendorID, trekID); err != nil {
		return err
	}
	res := db.Where("id = ? AND trek_id = ?", imageID, trekID).Delete(&TrekImage{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrImageNotFound
	}
	return nil
}

func (s *Service) ReplaceItinerary(ctx context.Context, vendorID, trekID int64, items []ItineraryInput) ([]ItineraryItem, error) {
	var out []ItineraryItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := Owned(tx, vendorID, trekID); err != nil {
			return err
		}
		if err := replaceItinerary(tx, trekID, items); err != nil {
			return err
		}
		return tx.Where("trek_id = ?", trekID).Order("day_number").Find(&out).Error
	})
	return out, err
}

func (s *Service) ReplaceStages(ctx context.Context, vendorID, trekID int64, stages []StageInput) ([]TrekStage, error) {
	var out []TrekStage
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := Owned(tx, vendorID, trekID); err != nil {
			return err
		}
		if err := replaceStages(tx, trekID, stages); err != nil {
			return err
		}
		return tx.Where("trek_id = ?", trekID).Order("stage_order").Find(&out).Error
	})
	return out, err
}

func (s *Service) ReplaceAccommodations(ctx context.Context, vendorID, trekID int64, items []AccommodationInput) ([]Accommodation, error) {
	var out []Accommodation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := Owned(tx, vendorID, trekID); err != nil {
			return err
		}
		if err := replaceAccommodations(tx, trekID, items); err != nil {
			return err
		}
		return tx.Where("trek_id = ?", trekID).Order("night").Find(&out).Error
	})
	return out, err
}

// CreateBatches adds one batch per start date. end_date spans the trek's
// duration and capacity defaults to the trek's max_participants.
func (s *Service) CreateBatches(ctx context.Context, vendorID, trekID int64, req BatchesRequest) ([]Batch, error) {
	starts := make([]time.Time, 0, len(req.StartDates))
	seen := make(map[time.Time]bool, len(req.StartDates))
	for _, raw := range req.StartDates {
		d, err := ParseDate(raw)
		if err != nil {
			return nil, err
		}
		if seen[d] {
			return nil, ErrBatchExists
		}
		seen[d] = true
		starts = append(starts, d)
	}

	var created []Batch
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := Owned(tx, vendorID, trekID)
		if err != nil {
			return err
		}
		capacity := t.MaxParticipants
		if req.Capacity != nil {
			capacity = *req.Capacity
		}
		days := t.DurationDays
		if days < 1 {
			days = 1
		}
		for _, start := range starts {
			b := Batch{
				TrekID:    trekID,
				StartDate: start,
				EndDate:   start.AddDate(0, 0, days-1),
				Capacity:  capacity,
				Status:    BatchOpen,
			}
			if err := tx.Create(&b).Error; err != nil {
				if database.IsUniqueViolation(err) {
					return ErrBatchExists
				}
				return err
			}
			b.AvailableSlots = b.Capacity
			created = append(created, b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) ListVendorBatches(ctx context.Context, vendorID, trekID int64) ([]Batch, error) {
	db := s.db.WithContext(ctx)
	if _, err := Owned(db, vendorID, trekID); err != nil {
		return nil, err
	}
	var items []Batch
	err := db.Where("trek_id = ?", trekID).Order("start_date").Find(&items).Error
	return items, err
}

// ListOpenBatches returns the bookable upcoming batches of an active trek.
func (s *Service) ListOpenBatches(ctx context.Context, trekID int64) ([]Batch, error) {
	db := s.db.WithContext(ctx)
	if err := db.Where("id = ? AND status = ?", trekID, StatusActive).First(&Trek{}).Error; err != nil {
		return nil, notFound(err, ErrTrekNotFound)
	}
	var items []Batch
	err := upcomingBatches(db, s.today()).Where("trek_id = ?", trekID).Find(&items).Error
	return items, err
}

func (s *Service) UpdateBatch(ctx context.Context, vendorID, trekID, batchID int64, req BatchUpdateRequest) (*Batch, error) {
	var b Batch
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := Owned(tx, vendorID, trekID); err != nil {
			return err
		}
		fields := map[string]any{}
		if req.Status != "" {
			fields["status"] = req.Status
		}
		q := tx.Model(&Batch{}).Where("id = ? AND trek_id = ?", batchID, trekID)
		if req.Capacity != nil {
			fields["capacity"] = *req.Capacity
			q = q.Where("booked_slots <= ?", *req.Capacity)
		}
		if len(fields) > 0 {
			res := q.Updates(fields)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				if err := tx.Where("id = ? AND trek_id = ?", batchID, trekID).First(&b).Error; err != nil {
					return notFound(err, ErrBatchNotFound)
				}
				return ErrCapacityBelowBooked
			}
		}
		return notFound(tx.Where("id = ? AND trek_id = ?", batchID, trekID).First(&b).Error, ErrBatchNotFound)
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Service) DeleteBatch(ctx context.Context, vendorID, trekID, batchID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := Owned(tx, vendorID, trekID); err != nil {
			return err
		}
		var b Batch
		if err := tx.Where("id = ? AND trek_id = ?", batchID, trekID).First(&b).Error; err != nil {
			return notFound(err, ErrBatchNotFound)
		}
		if b.BookedSlots > 0 {
			return ErrBatchHasBookings
		}
		return tx.Delete(&b).Error
	})
}

func (s *Service) CreatePickupPoint(ctx context.Context, vendorID, trekID int64, req PickupPointRequest) (*PickupPoint, error) {
	db := s.db.WithContext(ctx)
	if _, err := Owned(db, vendorID, trekID); err != nil {
		return nil, err
	}
	p := PickupPoint{TrekID: trekID, Name: strings.TrimSpace(req.Name), Address: req.Address, Landmark: req.Landmark, PickupTime: req.PickupTime}
	if err := db.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) ListPickupPoints(ctx context.Context, trekID int64) ([]PickupPoint, error) {
	var items []PickupPoint
	err := s.db.WithContext(ctx).Where("trek_id = ?", trekID).Order("pickup_time, id").Find(&items).Error
	return items, err
}

func (s *Service) ListVendorPickupPoints(ctx context.Context, vendorID, trekID int64) ([]PickupPoint, error) {
	if _, err := Owned(s.db.WithContext(ctx), vendorID, trekID); err != nil {
		return nil, err
	}
	return s.ListPickupPoints(ctx, trekID)
}

func (s *Service) DeletePickupPoint(ctx context.Context, vendorID, trekID, pointID int64) error {
	db := s.db.WithContext(ctx)
	if _, err := Owned(db, vendorID, trekID); err != nil {
		return err
	}
	res := db.Where("id = ? AND trek_id = ?", pointID, trekID).Delete(&PickupPoint{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPickupPointNotFound
	}
	return nil
}

func (s *Service) checkReferences(ctx context.Context, req TrekRequest) error {
	if s.refs == nil {
		return nil
	}
	checks := []struct {
		id    *int64
		check func(context.Context, int64) (bool, error)
	}{
		{req.DestinationID, s.refs.DestinationExists},
		{req.BadgeID, s.refs.BadgeExists},
		{req.CancellationPolicyID, s.refs.CancellationPolicyExists},
	}
	for _, c := range checks {
		if c.id == nil {
			continue
		}
		ok, err := c.check(ctx, *c.id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUnknownReference
		}
	}
	return nil
}

func (s *Service) today() time.Time {
	n := s.now().UTC()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate reads a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(raw string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d.UTC(), nil
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
