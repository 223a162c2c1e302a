package trek

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusArchived = "archived"

	BatchOpen      = "open"
	BatchClosed    = "closed"
	BatchCancelled = "cancelled"
)

type Trek struct {
	ID                   int64          `json:"id" gorm:"primaryKey"`
	VendorID             int64          `json:"vendor_id" gorm:"not null;index"`
	Title                string         `json:"title" gorm:"not null"`
	Description          string         `json:"description"`
	DestinationID        *int64         `json:"destination_id,omitempty" gorm:"index"`
	CityIDs              datatypes.JSON `json:"city_ids"`
	ActivityIDs          datatypes.JSON `json:"activity_ids"`
	Inclusions           datatypes.JSON `json:"inclusions"`
	Exclusions           datatypes.JSON `json:"exclusions"`
	Policies             datatypes.JSON `json:"policies"`
	BasePrice            float64        `json:"base_price" gorm:"not null"`
	MaxParticipants      int            `json:"max_participants" gorm:"not null"`
	BookedSlots          int            `json:"booked_slots" gorm:"not null;default:0"`
	DurationDays         int            `json:"duration_days" gorm:"not null;default:1"`
	DurationNights       int            `json:"duration_nights" gorm:"not null;default:0"`
	Difficulty           string         `json:"difficulty,omitempty" gorm:"size:16;index"`
	TrekType             string         `json:"trek_type,omitempty" gorm:"size:32"`
	CancellationPolicyID *int64         `json:"cancellation_policy_id,omitempty"`
	BadgeID              *int64         `json:"badge_id,omitempty"`
	Status               string         `json:"status" gorm:"size:16;not null;default:draft;index"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`

	AvailableSlots int `json:"available_slots" gorm:"-"`

	Images         []TrekImage     `json:"images,omitempty" gorm:"foreignKey:TrekID"`
	Itinerary      []ItineraryItem `json:"itinerary,omitempty" gorm:"foreignKey:TrekID"`
	Stages         []TrekStage     `json:"stages,omitempty" gorm:"foreignKey:TrekID"`
	Accommodations []Accommodation `json:"accommodations,omitempty" gorm:"foreignKey:TrekID"`
	Batches        []Batch         `json:"batches,omitempty" gorm:"foreignKey:TrekID"`
	PickupPoints   []PickupPoint   `json:"pickup_points,omitempty" gorm:"foreignKey:TrekID"`
}

func (Trek) TableName() string { return "treks" }

func (t *Trek) AfterFind(_ *gorm.DB) error {
	t.AvailableSlots = t.MaxParticipants - t.BookedSlots
	return nil
}

type TrekImage struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	TrekID    int64     `json:"trek_id" gorm:"not null;index"`
	URL       string    `json:"url" gorm:"not null"`
	Caption   string    `json:"caption,omitempty"`
	IsCover   bool      `json:"is_cover" gorm:"not null;default:false"`
	SortOrder int       `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
}

func (TrekImage) TableName() string { return "trek_images" }

type ItineraryItem struct {
	ID          int64          `json:"id" gorm:"primaryKey"`
	TrekID      int64          `json:"trek_id" gorm:"not null;index"`
	DayNumber   int            `json:"day_number" gorm:"not null"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Activities  datatypes.JSON `json:"activities"`
}

func (ItineraryItem) TableName() string { return "itinerary_items" }

type TrekStage struct {
	ID              int64      `json:"id" gorm:"primaryKey"`
	TrekID          int64      `json:"trek_id" gorm:"not null;index"`
	StageOrder      int        `json:"stage_order" gorm:"not null"`
	Name            string     `json:"name" gorm:"not null"`
	Destination     string     `json:"destination,omitempty"`
	Transport       string     `json:"transport,omitempty"`
	DepartsAt       *time.Time `json:"departs_at,omitempty"`
	IsBoardingPoint bool       `json:"is_boarding_point" gorm:"not null;default:false"`
}

func (TrekStage) TableName() string { return "trek_stages" }

type Accommodation struct {
	ID       int64  `json:"id" gorm:"primaryKey"`
	TrekID   int64  `json:"trek_id" gorm:"not null;index"`
	Night    int    `json:"night" gorm:"not null"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Sharing  string `json:"sharing,omitempty"`
}

func (Accommodation) TableName() string { return "accommodations" }

// Batch is one dated departure of a trek with its own capacity.
type Batch struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	TrekID      int64     `json:"trek_id" gorm:"not null;uniqueIndex:idx_batch_trek_start"`
	StartDate   time.Time `json:"start_date" gorm:"not null;uniqueIndex:idx_batch_trek_start"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	Capacity    int       `json:"capacity" gorm:"not null"`
	BookedSlots int       `json:"booked_slots" gorm:"not null;default:0"`
	Status      string    `json:"status" gorm:"size:16;not null;default:open"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	AvailableSlots int `json:"available_slots" gorm:"-"`
}

func (Batch) TableName() string { return "batches" }

func (b *Batch) AfterFind(_ *gorm.DB) error {
	b.AvailableSlots = b.Capacity - b.BookedSlots
	return nil
}

type PickupPoint struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	TrekID     int64     `json:"trek_id" gorm:"not null;index"`
	Name       string    `json:"name" gorm:"not null"`
	Address    string    `json:"address"`
	Landmark   string    `json:"landmark,omitempty"`
	PickupTime string    `json:"pickup_time,omitempty" gorm:"size:16"`
	CreatedAt  time.Time `json:"created_at"`
}

func (PickupPoint) TableName() string { return "pickup_points" }

func Models() []any {
	return []any{&Trek{}, &TrekImage{}, &ItineraryItem{}, &TrekStage{}, &Accommodation{}, &Batch{}, &PickupPoint{}}
}
