package reference

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Destination struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:120;not null;uniqueIndex"`
	State       string    `json:"state"`
	Country     string    `json:"country" gorm:"not null;default:India"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsPopular   bool      `json:"is_popular" gorm:"not null;default:false"`
	Status      string    `json:"status" gorm:"size:16;not null;default:active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Destination) TableName() string { return "destinations" }

type City struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"size:120;not null;uniqueIndex"`
	DestinationID *int64    `json:"destination_id,omitempty" gorm:"index"`
	State         string    `json:"state"`
	Status        string    `json:"status" gorm:"size:16;not null;default:active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (City) TableName() string { return "cities" }

type Activity struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:120;not null;uniqueIndex"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Icon        string    `json:"icon,omitempty"`
	Status      string    `json:"status" gorm:"size:16;not null;default:active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Activity) TableName() string { return "activities" }

type Badge struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:80;not null;uniqueIndex"`
	Icon        string    `json:"icon,omitempty"`
	Color       string    `json:"color,omitempty"`
	Description string    `json:"description"`
	Status      string    `json:"status" gorm:"size:16;not null;default:active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Badge) TableName() string { return "badges" }

// PolicyRule refunds RefundPercent of the booking when cancelled at least
// HoursBefore hours before departure.
type PolicyRule struct {
	HoursBefore   int     `json:"hours_before" validate:"gte=0"`
	RefundPercent float64 `json:"refund_percent" validate:"gte=0,lte=100"`
}

type CancellationPolicy struct {
	ID          int64          `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"size:120;not null;uniqueIndex"`
	Description string         `json:"description"`
	Rules       datatypes.JSON `json:"rules"`
	Status      string         `json:"status" gorm:"size:16;not null;default:active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (CancellationPolicy) TableName() string { return "cancellation_policies" }

func Models() []any {
	return []any{&Destination{}, &City{}, &Activity{}, &Badge{}, &CancellationPolicy{}}
}
