package trek

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"trekmarket/internal/database"
	"trekmarket/internal/pkg/logger"
)

type stubRefs struct{ missing bool }

func (s stubRefs) DestinationExists(context.Context, int64) (bool, error) { return !s.missing, nil }
func (s stubRefs) BadgeExists(context.Context, int64) (bool, error)       { return !s.missing, nil }
func (s stubRefs) CancellationPolicyExists(context.Context, int64) (bool, error) {
	return !s.missing, nil
}

func setupService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := database.OpenInMemory("trek_" + t.Name())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(Models()...))
	return NewService(db, stubRefs{}, logger.Discard()), db
}

func sampleRequest() TrekRequest {
	return TrekRequest{
		Title:           "Kedarkantha",
		BasePrice:       1000,
		MaxParticipants: 10,
		DurationDays:    4,
		DurationNights:  3,
		Status:          "published",
		Inclusions:      []string{"meals", "tents"},
		Itinerary: []ItineraryInput{
			{DayNumber: 2, Title: "Summit"},
			{DayNumber: 1, Title: "Base camp"},
		},
		Stages:         []StageInput{{Name: "Dehradun"}, {Name: "Sankri"}},
		Accommodations: []AccommodationInput{{Night: 1, Type: "tent"}},
	}
}

func TestCreateNestedAndNormalisesStatus(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	tr, err := svc.Create(ctx, 7, sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, StatusActive, tr.Status)
	assert.Equal(t, 10, tr.AvailableSlots)
	require.Len(t, tr.Itinerary, 2)
	assert.Equal(t, 1, tr.Itinerary[0].DayNumber)
	require.Len(t, tr.Stages, 2)
	assert.Equal(t, 2, tr.Stages[1].StageOrder)
	assert.Len(t, tr.Accommodations, 1)
	assert.JSONEq(t, `["meals","tents"]`, string(tr.Inclusions))

	_, err = svc.GetForVendor(ctx, 8, tr.ID)
	assert.ErrorIs(t, err, ErrTrekNotFound)
}

func TestCreateRejectsUnknownReferences(t *testing.T) {
	svc, _ := setupService(t)
	svc.refs = stubRefs{missing: true}
	req := sampleRequest()
	dest := int64(99)
	req.DestinationID = &dest

	_, err := svc.Create(context.Background(), 7, req)
	assert.ErrorIs(t, err, ErrUnknownReference)
}

func TestReserveSlots(t *testing.T) {
	svc, db := setupService(t)
	tr, err := svc.Create(context.Background(), 1, sampleRequest())
	require.NoError(t, err)

	require.NoError(t, ReserveSlots(db, tr.ID, nil, 8))

	err = ReserveSlots(db, tr.ID, nil, 3)
	var slotsErr *InsufficientSlotsError
	require.True(t, errors.As(err, &slotsErr))
	assert.Equal(t, 2, slotsErr.Available)
	assert.ErrorIs(t, err, ErrInsufficientSlots)

	require.NoError(t, ReserveSlots(db, tr.ID, nil, 2))
	err = ReserveSlots(db, tr.ID, nil, 1)
	require.True(t, errors.As(err, &slotsErr))
	assert.Equal(t, 0, slotsErr.Available)

	require.NoError(t, ReleaseSlots(db, tr.ID, nil, 4))
	require.NoError(t, ReleaseSlots(db, tr.ID, nil, 100))
	var reloaded Trek
	require.NoError(t, db.First(&reloaded, tr.ID).Error)
	assert.Equal(t, 0, reloaded.BookedSlots)
}

func TestReserveSlotsBatchFailureRollsBackTrek(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	tr, err := svc.Create(ctx, 1, sampleRequest())
	require.NoError(t, err)
	capacity := 2
	batches, err := svc.CreateBatches(ctx, 1, tr.ID, BatchesRequest{StartDates: []string{"2030-05-01"}, Capacity: &capacity})
	require.NoError(t, err)
	batchID := batches[0].ID

	err = db.Transaction(func(tx *gorm.DB) error {
		return ReserveSlots(tx, tr.ID, &batchID, 3)
	})
	var slotsErr *InsufficientSlotsError
	require.True(t, errors.As(err, &slotsErr))
	assert.Equal(t, 2, slotsErr.Available)

	var reloaded Trek
	require.NoError(t, db.First(&reloaded, tr.ID).Error)
	assert.Equal(t, 0, reloaded.BookedSlots)
}

func TestReserveSlotsConcurrent(t *testing.T) {
	svc, db := setupService(t)
	tr, err := svc.Create(context.Background(), 1, sampleRequest())
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Transaction(func(tx *gorm.DB) error {
				return ReserveSlots(tx, tr.ID, nil, 3)
			})
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, success)
	var reloaded Trek
	require.NoError(t, db.First(&reloaded, tr.ID).Error)
	assert.Equal(t, 9, reloaded.BookedSlots)
	assert.LessOrEqual(t, reloaded.BookedSlots, reloaded.MaxParticipants)
}

func TestCreateBatches(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	tr, err := svc.Create(ctx, 1, sampleRequest())
	require.NoError(t, err)

	batches, err := svc.CreateBatches(ctx, 1, tr.ID, BatchesRequest{StartDates: []string{"2030-01-10", "2030-02-10"}})
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, time.Date(2030, 1, 13, 0, 0, 0, 0, time.UTC), batches[0].EndDate)
	assert.Equal(t, 10, batches[0].Capacity)

	_, err = svc.CreateBatches(ctx, 1, tr.ID, BatchesRequest{StartDates: []string{"2030-01-10"}})
	assert.ErrorIs(t, err, ErrBatchExists)

	_, err = svc.CreateBatches(ctx, 1, tr.ID, BatchesRequest{StartDates: []string{"10/01/2030"}})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = svc.CreateBatches(ctx, 2, tr.ID, BatchesRequest{StartDates: []string{"2030-03-10"}})
	assert.ErrorIs(t, err, ErrTrekNotFound)
}

func TestUpdateBatchCapacityGuard(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	tr, err := svc.Create(ctx, 1, sampleRequest())
	require.NoError(t, err)
	batches, err := svc.CreateBatches(ctx, 1, tr.ID, BatchesRequest{StartDates: []string{"2030-01-10"}})
	require.NoError(t, err)
	batchID := batches[0].ID
	require.NoError(t, ReserveSlots(db, tr.ID, &batchID, 4))

	low := 3
	_, err = svc.UpdateBatch(ctx, 1, tr.ID, batchID, BatchUpdateRequest{Capacity: &low})
	assert.ErrorIs(t, err, ErrCapacityBelowBooked)

	ok := 6
	b, err := svc.UpdateBatch(ctx, 1, tr.ID, batchID, BatchUpdateRequest{Capacity: &ok, Status: BatchClosed})
	require.NoError(t, err)
	assert.Equal(t, 2, b.AvailableSlots)
	assert.Equal(t, BatchClosed, b.Status)

	assert.ErrorIs(t, svc.DeleteBatch(ctx, 1, tr.ID, batchID), ErrBatchHasBookings)
	_, err = CheckBatch(db, tr.ID, batchID)
	assert.ErrorIs(t, err, ErrBatchNotOpen)
}

func TestUpdateCannotDropBelowBooked(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	tr, err := svc.Create(ctx, 1, sampleRequest())
	require.NoError(t, err)
	require.NoError(t, ReserveSlots(db, tr.ID, nil, 5))

	req := sampleRequest()
	req.MaxParticipants = 4
	_, err = svc.Update(ctx, 1, tr.ID, req)
	assert.ErrorIs(t, err, ErrCapacityBelowBooked)

	req.MaxParticipants = 12
	req.Itinerary = nil
	updated, err := svc.Update(ctx, 1, tr.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.AvailableSlots)
	assert.Len(t, updated.Itinerary, 2)
}

func TestDeleteGuards(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	tr, err := svc.Create(ctx, 1, sampleRequest())
	require.NoError(t, err)

	img, err := svc.AddImage(ctx, 1, tr.ID, ImageRequest{URL: "https://cdn.example.com/a.jpg", IsCover: true})
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(ctx, 1, tr.ID), ErrTrekHasImages)

	require.NoError(t, svc.DeleteImage(ctx, 1, tr.ID, img.ID))
	require.NoError(t, ReserveSlots(db, tr.ID, nil, 1))
	assert.ErrorIs(t, svc.Delete(ctx, 1, tr.ID), ErrTrekHasBookings)

	require.NoError(t, ReleaseSlots(db, tr.ID, nil, 1))
	require.NoError(t, svc.Delete(ctx, 1, tr.ID))

	var left int64
	require.NoError(t, db.Model(&ItineraryItem{}).Where("trek_id = ?", tr.ID).Count(&left).Error)
	assert.Zero(t, left)
}

func TestPublicCatalogue(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	svc.now = func() time.Time { return time.Date(2030, 1, 15, 9, 0, 0, 0, time.UTC) }

	active, err := svc.Create(ctx, 1, sampleRequest())
	require.NoError(t, err)
	draft := sampleRequest()
	draft.Title = "Hampta Pass"
	draft.Status = StatusDraft
	_, err = svc.Create(ctx, 1, draft)
	require.NoError(t, err)

	_, err = svc.CreateBatches(ctx, 1, active.ID, BatchesRequest{StartDates: []string{"2030-01-10", "2030-02-10"}})
	require.NoError(t, err)

	items, total, err := svc.ListPublic(ctx, PublicFilter{Search: "kedar", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)

	maxPrice := 500.0
	_, total, err = svc.ListPublic(ctx, PublicFilter{MaxPrice: &maxPrice, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)

	got, err := svc.GetPublic(ctx, active.ID)
	require.NoError(t, err)
	require.Len(t, got.Batches, 1)
	assert.Equal(t, time.Date(2030, 2, 10, 0, 0, 0, 0, time.UTC), got.Batches[0].StartDate.UTC())

	_, err = Bookable(svc.db, active.ID)
	assert.NoError(t, err)
}

func TestBookableRejectsInactive(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	req := sampleRequest()
	req.Status = StatusDraft
	tr, err := svc.Create(ctx, 1, req)
	require.NoError(t, err)

	_, err = Bookable(db, tr.ID)
	assert.ErrorIs(t, err, ErrTrekNotBookable)
	_, err = Bookable(db, 999)
	assert.ErrorIs(t, err, ErrTrekNotFound)

	_, err = svc.GetPublic(ctx, tr.ID)
	assert.ErrorIs(t, err, ErrTrekNotFound)
}
