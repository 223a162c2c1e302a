package reference

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"trekmarket/internal/database"
)

// Store is the keyed CRUD shared by every reference entity. Names are unique
// case-insensitively.
type Store[T any] struct {
	db *gorm.DB
}

func NewStore[T any](db *gorm.DB) *Store[T] {
	return &Store[T]{db: db}
}

type ListFilter struct {
	ActiveOnly    bool
	Search        string
	DestinationID int64
}

func (s *Store[T]) List(ctx context.Context, f ListFilter) ([]T, error) {
	q := s.db.WithContext(ctx).Model(new(T))
	if f.ActiveOnly {
		q = q.Where("status = ?", StatusActive)
	}
	if f.Search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}
	if f.DestinationID > 0 {
		q = q.Where("destination_id = ?", f.DestinationID)
	}
	var out []T
	err := q.Order("name ASC").Find(&out).Error
	return out, err
}

func (s *Store[T]) Get(ctx context.Context, id int64) (*T, error) {
	item := new(T)
	if err := s.db.WithContext(ctx).First(item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

// Exists reports whether an active record with id exists.
func (s *Store[T]) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(new(T)).Where("id = ? AND status = ?", id, StatusActive).Count(&n).Error
	return n > 0, err
}

func (s *Store[T]) Create(ctx context.Context, item *T, name string) error {
	if err := s.checkName(ctx, name, 0); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicateName
		}
		return err
	}
	return nil
}

func (s *Store[T]) Update(ctx context.Context, id int64, fields map[string]any) (*T, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if name, ok := fields["name"].(string); ok {
		if err := s.checkName(ctx, name, id); err != nil {
			return nil, err
		}
	}
	if status, ok := fields["status"].(string); ok && status != StatusActive && status != StatusInactive {
		return nil, ErrInvalidStatus
	}
	if len(fields) > 0 {
		if err := s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(fields).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return nil, ErrDuplicateName
			}
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

func (s *Store[T]) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store[T]) checkName(ctx context.Context, name string, exceptID int64) error {
	var n int64
	err := s.db.WithContext(ctx).Model(new(T)).
		Where("LOWER(name) = ? AND id <> ?", strings.ToLower(strings.TrimSpace(name)), exceptID).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrDuplicateName
	}
	return nil
}
