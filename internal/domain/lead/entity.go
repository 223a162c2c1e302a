package lead

import (
	"errors"
	"time"
)

var (
	ErrLeadNotFound     = errors.New("lead not found")
	ErrAlreadyConverted = errors.New("lead already converted")
	ErrCannotConvert    = errors.New("lead cannot be converted in current status")
	ErrEmailExists      = errors.New("email already registered")
)

// Status tracks an operator application through the sales pipeline.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusConverted Status = "converted"
	StatusRejected  Status = "rejected"
	StatusLost      Status = "lost"
)

// VendorLead is an application from a trek operator who wants to sell on the
// marketplace. The table is created by gorm and queried through sqlx, so both
// tag sets must agree.
type VendorLead struct {
	ID int64 `db:"id" json:"id" gorm:"primaryKey"`

	ContactName  string `db:"contact_name" json:"contact_name" gorm:"size:255;not null"`
	ContactEmail string `db:"contact_email" json:"contact_email" gorm:"size:255;not null;index"`
	ContactPhone string `db:"contact_phone" json:"contact_phone" gorm:"size:20;not null"`

	BusinessName     string  `db:"business_name" json:"business_name" gorm:"size:255;not null"`
	GSTNumber        *string `db:"gst_number" json:"gst_number,omitempty" gorm:"column:gst_number;size:20"`
	BusinessAddress  *string `db:"business_address" json:"business_address,omitempty"`
	Website          *string `db:"website" json:"website,omitempty" gorm:"size:255"`
	OperatingRegions *string `db:"operating_regions" json:"operating_regions,omitempty"`
	YearsOperating   int     `db:"years_operating" json:"years_operating" gorm:"not null;default:0"`
	Message          *string `db:"message" json:"message,omitempty"`
	HowFoundUs       *string `db:"how_found_us" json:"how_found_us,omitempty" gorm:"size:255"`

	Status     Status  `db:"status" json:"status" gorm:"size:20;not null;default:new;index"`
	Priority   int     `db:"priority" json:"priority" gorm:"not null;default:0"`
	AssignedTo *int64  `db:"assigned_to" json:"assigned_to,omitempty"`
	Notes      *string `db:"notes" json:"notes,omitempty"`

	LastContactedAt *time.Time `db:"last_contacted_at" json:"last_contacted_at,omitempty"`
	FollowUpCount   int        `db:"follow_up_count" json:"follow_up_count" gorm:"not null;default:0"`

	ConvertedAt       *time.Time `db:"converted_at" json:"converted_at,omitempty"`
	ConvertedVendorID *int64     `db:"converted_vendor_id" json:"converted_vendor_id,omitempty"`
	RejectionReason   *string    `db:"rejection_reason" json:"rejection_reason,omitempty"`

	Source      *string `db:"source" json:"source,omitempty" gorm:"size:50"`
	UTMSource   *string `db:"utm_source" json:"utm_source,omitempty" gorm:"column:utm_source;size:100"`
	UTMMedium   *string `db:"utm_medium" json:"utm_medium,omitempty" gorm:"column:utm_medium;size:100"`
	UTMCampaign *string `db:"utm_campaign" json:"utm_campaign,omitempty" gorm:"column:utm_campaign;size:100"`

	IPAddress *string   `db:"ip_address" json:"-" gorm:"column:ip_address;size:64"`
	UserAgent *string   `db:"user_agent" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (VendorLead) TableName() string { return "vendor_leads" }

func (l *VendorLead) IsConverted() bool {
	return l.Status == StatusConverted
}

func Models() []any {
	return []any{&VendorLead{}}
}

// SubmitRequest is the public application form.
type SubmitRequest struct {
	ContactName      string `json:"contact_name" validate:"required"`
	ContactEmail     string `json:"contact_email" validate:"required,email"`
	ContactPhone     string `json:"contact_phone" validate:"required,min=8"`
	BusinessName     string `json:"business_name" validate:"required"`
	GSTNumber        string `json:"gst_number"`
	BusinessAddress  string `json:"business_address"`
	Website          string `json:"website" validate:"omitempty,url"`
	OperatingRegions string `json:"operating_regions"`
	YearsOperating   int    `json:"years_operating" validate:"gte=0"`
	Message          string `json:"message"`
	HowFoundUs       string `json:"how_found_us"`

	UTMSource   string `json:"utm_source"`
	UTMMedium   string `json:"utm_medium"`
	UTMCampaign string `json:"utm_campaign"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=new contacted qualified rejected lost"`
	Notes  string `json:"notes"`
	Reason string `json:"reason"`
}

type AssignRequest struct {
	AdminID  int64 `json:"admin_id" validate:"required,gt=0"`
	Priority int   `json:"priority" validate:"gte=0,lte=5"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

// ConvertRequest carries what the lead does not: the vendor's initial
// password and optional overrides for the account name.
type ConvertRequest struct {
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"`
}
