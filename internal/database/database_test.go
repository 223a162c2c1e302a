package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex"`
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("create: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestSQLiteUniqueFailureIsRecognised(t *testing.T) {
	db, err := OpenInMemory(t.Name())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&widget{}))

	require.NoError(t, db.Create(&widget{Name: "a"}).Error)
	err = db.Create(&widget{Name: "a"}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestSQLXSharesPool(t *testing.T) {
	db, err := OpenInMemory(t.Name())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&widget{}))
	require.NoError(t, db.Create(&widget{Name: "x"}).Error)

	x, err := SQLX(db)
	require.NoError(t, err)

	var count int
	require.NoError(t, x.Get(&count, x.Rebind("SELECT COUNT(*) FROM widgets WHERE name = ?"), "x"))
	assert.Equal(t, 1, count)
}
