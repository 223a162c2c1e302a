package server

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"trekmarket/internal/domain/booking"
	"trekmarket/internal/domain/coupon"
	"trekmarket/internal/domain/favorite"
	"trekmarket/internal/domain/identity"
	"trekmarket/internal/domain/lead"
	"trekmarket/internal/domain/notification"
	"trekmarket/internal/domain/reference"
	"trekmarket/internal/domain/review"
	"trekmarket/internal/domain/traveler"
	"trekmarket/internal/domain/trek"
)

// Models returns every persisted model in dependency order.
func Models() []any {
	var models []any
	for _, group := range [][]any{
		identity.Models(),
		reference.Models(),
		coupon.Models(),
		trek.Models(),
		traveler.Models(),
		booking.Models(),
		review.Models(),
		favorite.Models(),
		notification.Models(),
		lead.Models(),
	} {
		models = append(models, group...)
	}
	return models
}

// Migrate creates or updates the schema and the fixed staff roles.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := identity.NewRepository(db).EnsureRoles(ctx); err != nil {
		return err
	}
	return nil
}
