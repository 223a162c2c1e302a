package favorite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trekmarket/internal/database"
	"trekmarket/internal/domain/trek"
	"trekmarket/internal/pkg/logger"
)

func setup(t *testing.T) (*Service, *trek.Trek, *trek.Trek) {
	t.Helper()
	db, err := database.OpenInMemory("favorite_" + t.Name())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(append(trek.Models(), Models()...)...))

	active := &trek.Trek{VendorID: 1, Title: "Kedarkantha", BasePrice: 9000, MaxParticipants: 12, DurationDays: 6, Status: trek.StatusActive}
	draft := &trek.Trek{VendorID: 1, Title: "Roopkund", BasePrice: 14000, MaxParticipants: 12, DurationDays: 8, Status: trek.StatusDraft}
	require.NoError(t, db.Create(active).Error)
	require.NoError(t, db.Create(draft).Error)
	return NewService(db, logger.Discard()), active, draft
}

func TestAddListRemove(t *testing.T) {
	svc, active, _ := setup(t)
	ctx := context.Background()

	f, err := svc.Add(ctx, 7, active.ID)
	require.NoError(t, err)
	assert.Equal(t, active.ID, f.TrekID)

	_, err = svc.Add(ctx, 7, active.ID)
	assert.ErrorIs(t, err, ErrAlreadyFavorite)

	ok, err := svc.IsFavorite(ctx, 7, active.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsFavorite(ctx, 8, active.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	items, total, err := svc.List(ctx, 7, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Trek)
	assert.Equal(t, "Kedarkantha", items[0].Trek.Title)

	require.NoError(t, svc.Remove(ctx, 7, active.ID))
	assert.ErrorIs(t, svc.Remove(ctx, 7, active.ID), ErrNotFavorite)
}

func TestOnlyActiveTreksCanBeSaved(t *testing.T) {
	svc, _, draft := setup(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, 7, draft.ID)
	assert.ErrorIs(t, err, trek.ErrTrekNotFound)

	_, err = svc.Add(ctx, 7, 999)
	assert.ErrorIs(t, err, trek.ErrTrekNotFound)
}
