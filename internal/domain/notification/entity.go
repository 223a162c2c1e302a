package notification

import (
	"time"

	"gorm.io/datatypes"
)

// Type represents notification type
type Type string

const (
	TypeBookingCreated   Type = "booking_created"
	TypeBookingConfirmed Type = "booking_confirmed"
	TypeBookingCancelled Type = "booking_cancelled"
	TypeBookingCompleted Type = "booking_completed"
	TypePaymentUpdated   Type = "payment_updated"
)

// Notification is one entry in a customer's in-app inbox.
type Notification struct {
	ID         int64          `json:"id" gorm:"primaryKey"`
	CustomerID int64          `json:"customer_id" gorm:"not null;index:idx_notifications_customer_unread"`
	Type       Type           `json:"type" gorm:"size:32;not null"`
	Title      string         `json:"title" gorm:"not null"`
	Body       string         `json:"body,omitempty"`
	Data       datatypes.JSON `json:"data,omitempty"`
	IsRead     bool           `json:"is_read" gorm:"not null;default:false;index:idx_notifications_customer_unread"`
	ReadAt     *time.Time     `json:"read_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at" gorm:"index"`
}

// TableName specifies table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// Data links a notification to the booking it is about.
type Data struct {
	BookingID     int64   `json:"booking_id"`
	TrekID        int64   `json:"trek_id,omitempty"`
	Status        string  `json:"status,omitempty"`
	PaymentStatus string  `json:"payment_status,omitempty"`
	FinalAmount   float64 `json:"final_amount,omitempty"`
}

func Models() []any {
	return []any{&Notification{}}
}
