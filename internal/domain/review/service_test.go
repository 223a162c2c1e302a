package review

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"trekmarket/internal/database"
	"trekmarket/internal/domain/booking"
	"trekmarket/internal/domain/identity"
	"trekmarket/internal/domain/traveler"
	"trekmarket/internal/domain/trek"
	"trekmarket/internal/pkg/logger"
)

type memoryCache struct {
	mu    sync.Mutex
	items map[int64]Summary
	hits  int
}

func newMemoryCache() *memoryCache { return &memoryCache{items: map[int64]Summary{}} }

func (m *memoryCache) Get(_ context.Context, trekID int64) (*Summary, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[trekID]
	if ok {
		m.hits++
	}
	return &s, ok, nil
}

func (m *memoryCache) Set(_ context.Context, s *Summary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[s.TrekID] = *s
	return nil
}

func (m *memoryCache) Invalidate(_ context.Context, trekID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, trekID)
	return nil
}

type fixture struct {
	svc       *Service
	db        *gorm.DB
	cache     *memoryCache
	trek      *trek.Trek
	customers []*identity.Customer
	scenery   *RatingCategory
	guide     *RatingCategory
	retired   *RatingCategory
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenInMemory("review_" + t.Name())
	require.NoError(t, err)
	var models []any
	models = append(models, identity.Models()...)
	models = append(models, trek.Models()...)
	models = append(models, traveler.Models()...)
	models = append(models, booking.Models()...)
	models = append(models, Models()...)
	require.NoError(t, db.AutoMigrate(models...))

	f := &fixture{db: db, cache: newMemoryCache()}
	f.svc = NewService(db, f.cache, logger.Discard())

	f.trek = &trek.Trek{VendorID: 1, Title: "Valley of Flowers", BasePrice: 8000, MaxParticipants: 12, DurationDays: 6, Status: trek.StatusActive}
	require.NoError(t, db.Create(f.trek).Error)
	for _, phone := range []string{"+919000000011", "+919000000012", "+919000000013"} {
		c := &identity.Customer{Name: "Trekker", Phone: phone, Status: identity.StatusActive}
		require.NoError(t, db.Create(c).Error)
		f.customers = append(f.customers, c)
	}

	ctx := context.Background()
	f.scenery, err = f.svc.CreateCategory(ctx, CategoryRequest{Name: "Scenery", SortOrder: 1})
	require.NoError(t, err)
	f.guide, err = f.svc.CreateCategory(ctx, CategoryRequest{Name: "Guide", SortOrder: 2})
	require.NoError(t, err)
	off := false
	f.retired, err = f.svc.CreateCategory(ctx, CategoryRequest{Name: "Food", SortOrder: 3, IsActive: &off})
	require.NoError(t, err)
	return f
}

func TestRatingAggregatesFollowWrites(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	first, second := f.customers[0].ID, f.customers[1].ID

	_, err := f.svc.Rate(ctx, first, f.trek.ID, []RatingInput{{CategoryID: f.scenery.ID, Value: 4}, {CategoryID: f.guide.ID, Value: 3}})
	require.NoError(t, err)
	sum, err := f.svc.Rate(ctx, second, f.trek.ID, []RatingInput{{CategoryID: f.scenery.ID, Value: 5}})
	require.NoError(t, err)

	require.Len(t, sum.Categories, 2)
	assert.Equal(t, "Scenery", sum.Categories[0].Name)
	assert.Equal(t, 4.5, sum.Categories[0].Average)
	assert.Equal(t, int64(2), sum.Categories[0].Count)
	assert.Equal(t, 3.0, sum.Categories[1].Average)
	assert.Equal(t, 3.75, sum.Overall)
	assert.Equal(t, int64(3), sum.RatingCount)

	// re-rating replaces the value instead of adding a new one
	sum, err = f.svc.Rate(ctx, first, f.trek.ID, []RatingInput{{CategoryID: f.scenery.ID, Value: 2}})
	require.NoError(t, err)
	assert.Equal(t, 3.5, sum.Categories[0].Average)
	assert.Equal(t, int64(2), sum.Categories[0].Count)
	assert.Equal(t, 3.25, sum.Overall)

	var agg RatingAggregate
	require.NoError(t, f.db.First(&agg, "trek_id = ? AND category_id = ?", f.trek.ID, f.scenery.ID).Error)
	assert.Equal(t, 7.0, agg.RatingSum)
	assert.Equal(t, int64(2), agg.RatingCount)
}

func TestCategoryMeansAreRounded(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	var (
		sum *Summary
		err error
	)
	for i, v := range []float64{4, 5, 4.33} {
		sum, err = f.svc.Rate(ctx, f.customers[i].ID, f.trek.ID, []RatingInput{{CategoryID: f.scenery.ID, Value: v}})
		require.NoError(t, err)
	}

	require.Len(t, sum.Categories, 1)
	assert.Equal(t, 4.44, sum.Categories[0].Average)
	assert.Equal(t, 4.44, sum.Overall)
	assert.Equal(t, int64(3), sum.RatingCount)
}

func TestSummaryIsCachedUntilNextWrite(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Rate(ctx, f.customers[0].ID, f.trek.ID, []RatingInput{{CategoryID: f.scenery.ID, Value: 4}})
	require.NoError(t, err)

	_, err = f.svc.Summary(ctx, f.trek.ID)
	require.NoError(t, err)
	hits := f.cache.hits
	cached, err := f.svc.Summary(ctx, f.trek.ID)
	require.NoError(t, err)
	assert.Equal(t, hits+1, f.cache.hits)
	assert.Equal(t, 4.0, cached.Overall)

	sum, err := f.svc.Rate(ctx, f.customers[1].ID, f.trek.ID, []RatingInput{{CategoryID: f.scenery.ID, Value: 2}})
	require.NoError(t, err)
	assert.Equal(t, 3.0, sum.Overall)
}

func TestUnreachableRedisFallsBackToDatabase(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	svc := NewService(f.db, NewRedisCache(client, time.Minute), logger.Discard())

	sum, err := svc.Rate(ctx, f.customers[0].ID, f.trek.ID, []RatingInput{{CategoryID: f.guide.ID, Value: 5}})
	require.NoError(t, err)
	assert.Equal(t, 5.0, sum.Overall)
}

func TestInactiveCategoryCannotBeRated(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Rate(context.Background(), f.customers[0].ID, f.trek.ID, []RatingInput{{CategoryID: f.retired.ID, Value: 4}})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = f.svc.Rate(context.Background(), f.customers[0].ID, f.trek.ID, []RatingInput{{CategoryID: f.scenery.ID, Value: 5.5}})
	assert.ErrorIs(t, err, ErrInvalidRating)

	var n int64
	require.NoError(t, f.db.Model(&RatingAggregate{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestOneReviewPerCustomerAndTrek(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	customer := f.customers[0].ID

	require.NoError(t, f.db.Create(&booking.Booking{
		CustomerID: customer, TrekID: f.trek.ID, VendorID: 1, TotalTravelers: 1,
		TotalAmount: 8000, FinalAmount: 8000, Status: booking.StatusCompleted,
		PaymentStatus: booking.PaymentCompleted, BookingDate: time.Now(),
	}).Error)

	rv, err := f.svc.Create(ctx, customer, CreateRequest{
		TrekID: f.trek.ID, Title: "Worth it", Comment: "Meadows everywhere",
		Ratings: []RatingInput{{CategoryID: f.scenery.ID, Value: 5}},
	})
	require.NoError(t, err)
	assert.True(t, rv.IsVerified)
	assert.Equal(t, StatusApproved, rv.Status)

	_, err = f.svc.Create(ctx, customer, CreateRequest{TrekID: f.trek.ID, Comment: "again"})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	other, err := f.svc.Create(ctx, f.customers[1].ID, CreateRequest{TrekID: f.trek.ID, Comment: "Rainy"})
	require.NoError(t, err)
	assert.False(t, other.IsVerified)

	page, err := f.svc.ListForTrek(ctx, f.trek.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, int64(2), page.Summary.ReviewCount)
	assert.Equal(t, 5.0, page.Summary.Overall)

	_, err = f.svc.SetStatus(ctx, other.ID, StatusHidden)
	require.NoError(t, err)
	page, err = f.svc.ListForTrek(ctx, f.trek.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, rv.ID, page.Items[0].ID)
	assert.Equal(t, int64(1), page.Summary.ReviewCount)
}

func TestReviewBookingMustMatch(t *testing.T) {
	f := setup(t)
	bookingID := int64(99)

	_, err := f.svc.Create(context.Background(), f.customers[0].ID, CreateRequest{TrekID: f.trek.ID, BookingID: &bookingID, Comment: "x"})
	assert.ErrorIs(t, err, ErrBookingMismatch)

	_, err = f.svc.Create(context.Background(), f.customers[0].ID, CreateRequest{TrekID: f.trek.ID + 100, Comment: "x"})
	assert.ErrorIs(t, err, trek.ErrTrekNotFound)
}

func TestDuplicateCategoryName(t *testing.T) {
	f := setup(t)
	_, err := f.svc.CreateCategory(context.Background(), CategoryRequest{Name: "Guide"})
	assert.ErrorIs(t, err, ErrCategoryExists)
}
