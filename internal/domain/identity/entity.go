package identity

import "time"

const (
	RoleAdmin  = "admin"
	RoleVendor = "vendor"

	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusPending   = "pending"
	StatusSuspended = "suspended"
)

type Role struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:32;not null;uniqueIndex"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Role) TableName() string { return "roles" }

// User is a staff principal (admin or vendor operator).
type User struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"not null"`
	Email        string     `json:"email" gorm:"size:255;not null;uniqueIndex"`
	Phone        string     `json:"phone,omitempty"`
	PasswordHash string     `json:"-" gorm:"not null"`
	RoleID       int64      `json:"role_id" gorm:"not null;index"`
	Role         *Role      `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	Status       string     `json:"status" gorm:"size:16;not null;default:active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }

type Vendor struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	UserID          int64     `json:"user_id" gorm:"not null;uniqueIndex"`
	User            *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	BusinessName    string    `json:"business_name" gorm:"not null"`
	BusinessAddress string    `json:"business_address"`
	ContactPhone    string    `json:"contact_phone"`
	GSTNumber       string    `json:"gst_number,omitempty"`
	Status          string    `json:"status" gorm:"size:16;not null;default:pending;index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Vendor) TableName() string { return "vendors" }

type Customer struct {
	ID                    int64      `json:"id" gorm:"primaryKey"`
	Name                  string     `json:"name"`
	Email                 string     `json:"email,omitempty"`
	Phone                 string     `json:"phone" gorm:"size:20;not null;uniqueIndex"`
	Gender                string     `json:"gender,omitempty"`
	DateOfBirth           *time.Time `json:"date_of_birth,omitempty"`
	EmergencyContactName  string     `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string     `json:"emergency_contact_phone,omitempty"`
	Status                string     `json:"status" gorm:"size:16;not null;default:active"`
	LastLoginAt           *time.Time `json:"last_login_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

// CustomerOTP keeps one pending login code per phone.
type CustomerOTP struct {
	Phone       string    `gorm:"primaryKey;size:20"`
	CodeHash    string    `gorm:"not null"`
	Attempts    int       `gorm:"not null;default:0"`
	ResendCount int       `gorm:"not null;default:0"`
	LastSentAt  time.Time `gorm:"not null"`
	ExpiresAt   time.Time `gorm:"not null;index"`
	UsedAt      *time.Time
	CreatedAt   time.Time
}

func (CustomerOTP) TableName() string { return "customer_otps" }

// Models lists the tables owned by this package.
func Models() []any {
	return []any{&Role{}, &User{}, &Vendor{}, &Customer{}, &CustomerOTP{}}
}
