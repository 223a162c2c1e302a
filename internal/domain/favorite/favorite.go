package favorite

import (
	"errors"
	"time"

	"trekmarket/internal/domain/trek"
)

var (
	ErrAlreadyFavorite = errors.New("trek already in favorites")
	ErrNotFavorite     = errors.New("trek is not in favorites")
)

// Favorite is one trek on a customer's wishlist.
type Favorite struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	CustomerID int64     `json:"customer_id" gorm:"not null;index;uniqueIndex:idx_customer_trek"`
	TrekID     int64     `json:"trek_id" gorm:"not null;index;uniqueIndex:idx_customer_trek"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`

	Trek *trek.Trek `json:"trek,omitempty" gorm:"foreignKey:TrekID"`
}

// TableName keeps the table name stable.
func (Favorite) TableName() string {
	return "favorites"
}

func Models() []any {
	return []any{&Favorite{}}
}
