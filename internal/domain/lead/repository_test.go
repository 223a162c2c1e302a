package lead

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryRebindsForPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := NewRepository(sqlx.NewDb(db, "pgx"))
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE vendor_leads SET assigned_to = \$1, priority = \$2, updated_at = \$3 WHERE id = \$4`).
		WithArgs(int64(3), 2, now, int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Assign(context.Background(), 11, 3, 2, now))

	mock.ExpectExec(`WHERE id = \$5 AND status <> \$6`).
		WithArgs(StatusConverted, now, int64(42), now, int64(11), StatusConverted).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.MarkConverted(context.Background(), 11, 42, now), ErrAlreadyConverted)

	assert.NoError(t, mock.ExpectationsWereMet())
}
