package identity

type StaffLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type OTPRequest struct {
	Phone string `json:"phone" validate:"required"`
}

type OTPVerifyRequest struct {
	Phone string `json:"phone" validate:"required"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type UpdateProfileRequest struct {
	Name                  *string `json:"name" validate:"omitempty,min=1,max=120"`
	Email                 *string `json:"email" validate:"omitempty,email"`
	Gender                *string `json:"gender" validate:"omitempty,oneof=male female other"`
	DateOfBirth           *string `json:"date_of_birth"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
}

type CreateVendorRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	Phone           string `json:"phone"`
	BusinessName    string `json:"business_name" validate:"required"`
	BusinessAddress string `json:"business_address"`
	GSTNumber       string `json:"gst_number"`
	Status          string `json:"status" validate:"omitempty,oneof=pending active suspended"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}
