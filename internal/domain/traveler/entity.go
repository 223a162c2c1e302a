package traveler

import "time"

const (
	LinkConfirmed = "confirmed"
	LinkCancelled = "cancelled"
	LinkNoShow    = "no_show"
)

// Traveler is a person a customer books for. Active travelers are unique per
// customer by name and phone.
type Traveler struct {
	ID                    int64     `json:"id" gorm:"primaryKey"`
	CustomerID            int64     `json:"customer_id" gorm:"not null;uniqueIndex:idx_traveler_active_dedup,where:is_active = true"`
	Name                  string    `json:"name" gorm:"not null;uniqueIndex:idx_traveler_active_dedup,where:is_active = true"`
	Age                   int       `json:"age"`
	Gender                string    `json:"gender,omitempty" gorm:"size:16"`
	Phone                 string    `json:"phone,omitempty" gorm:"size:20;uniqueIndex:idx_traveler_active_dedup,where:is_active = true"`
	Email                 string    `json:"email,omitempty"`
	EmergencyContactName  string    `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string    `json:"emergency_contact_phone,omitempty" gorm:"size:20"`
	MedicalConditions     string    `json:"medical_conditions,omitempty"`
	DietaryRestrictions   string    `json:"dietary_restrictions,omitempty"`
	IsActive              bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (Traveler) TableName() string { return "travelers" }

// BookingTraveler links a traveler to one booking.
type BookingTraveler struct {
	ID                      int64     `json:"id" gorm:"primaryKey"`
	BookingID               int64     `json:"booking_id" gorm:"not null;uniqueIndex:idx_booking_traveler"`
	TravelerID              int64     `json:"traveler_id" gorm:"not null;uniqueIndex:idx_booking_traveler;index"`
	IsPrimary               bool      `json:"is_primary" gorm:"not null;default:false"`
	AccommodationPreference string    `json:"accommodation_preference,omitempty"`
	MealPreference          string    `json:"meal_preference,omitempty"`
	Status                  string    `json:"status" gorm:"size:16;not null;default:confirmed"`
	CreatedAt               time.Time `json:"created_at"`

	Traveler *Traveler `json:"traveler,omitempty" gorm:"foreignKey:TravelerID"`
}

func (BookingTraveler) TableName() string { return "booking_travelers" }

func Models() []any {
	return []any{&Traveler{}, &BookingTraveler{}}
}
