package review

import (
	"time"

	"trekmarket/internal/domain/identity"
)

const (
	StatusApproved = "approved"
	StatusHidden   = "hidden"

	MaxRating = 5.0
)

type Review struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	CustomerID int64     `json:"customer_id" gorm:"not null;uniqueIndex:idx_review_customer_trek"`
	TrekID     int64     `json:"trek_id" gorm:"not null;uniqueIndex:idx_review_customer_trek;index"`
	BookingID  *int64    `json:"booking_id,omitempty"`
	Title      string    `json:"title" gorm:"size:200"`
	Comment    string    `json:"comment"`
	Status     string    `json:"status" gorm:"size:16;not null;default:approved"`
	IsVerified bool      `json:"is_verified" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Customer *identity.Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
}

func (Review) TableName() string { return "reviews" }

type RatingCategory struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:80;not null;uniqueIndex"`
	Description string    `json:"description"`
	SortOrder   int       `json:"sort_order" gorm:"not null;default:0"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (RatingCategory) TableName() string { return "rating_categories" }

type Rating struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	CustomerID int64     `json:"customer_id" gorm:"not null;uniqueIndex:idx_rating_customer_trek_category"`
	TrekID     int64     `json:"trek_id" gorm:"not null;uniqueIndex:idx_rating_customer_trek_category;index"`
	CategoryID int64     `json:"category_id" gorm:"not null;uniqueIndex:idx_rating_customer_trek_category"`
	Value      float64   `json:"value" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Rating) TableName() string { return "ratings" }

// RatingAggregate is the running sum and count of ratings per trek and
// category. It is written in the same transaction as the rating.
type RatingAggregate struct {
	TrekID      int64   `json:"trek_id" gorm:"primaryKey;autoIncrement:false"`
	CategoryID  int64   `json:"category_id" gorm:"primaryKey;autoIncrement:false"`
	RatingSum   float64 `json:"rating_sum" gorm:"not null;default:0"`
	RatingCount int64   `json:"rating_count" gorm:"not null;default:0"`
}

func (RatingAggregate) TableName() string { return "rating_aggregates" }

func Models() []any {
	return []any{&Review{}, &RatingCategory{}, &Rating{}, &RatingAggregate{}}
}
