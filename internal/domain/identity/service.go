package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"trekmarket/internal/pkg/jwt"
)

type tokenIssuer interface {
	GenerateStaffToken(id jwt.StaffIdentity) (string, error)
	GenerateCustomerToken(customerID int64) (string, error)
}

type OTPConfig struct {
	Pepper         string
	TTL            time.Duration
	ResendCooldown time.Duration
}

type Service struct {
	repo   *Repository
	tokens tokenIssuer
	sms    SMSSender
	otp    OTPConfig
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewService(repo *Repository, tokens tokenIssuer, sms SMSSender, otp OTPConfig, log logrus.FieldLogger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		sms:    sms,
		otp:    otp,
		log:    log,
		now:    time.Now,
	}
}

type StaffLoginResult struct {
	Token  string  `json:"token"`
	User   *User   `json:"user"`
	Vendor *Vendor `json:"vendor,omitempty"`
}

// StaffLogin authenticates an admin or vendor operator by email and password.
// The account role must equal expectedRole.
func (s *Service) StaffLogin(ctx context.Context, email, password, expectedRole string) (*StaffLoginResult, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == ErrNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if user.Status != StatusActive {
		return nil, ErrAccountInactive
	}
	if user.Role == nil || user.Role.Name != expectedRole {
		return nil, ErrRoleMismatch
	}

	identity := jwt.StaffIdentity{UserID: user.ID, RoleID: user.RoleID, Role: user.Role.Name}
	var vendor *Vendor
	if expectedRole == RoleVendor {
		vendor, err = s.repo.GetVendorByUserID(ctx, user.ID)
		if err != nil {
			if err == ErrNotFound {
				return nil, ErrVendorNotActive
			}
			return nil, err
		}
		if vendor.Status != StatusActive {
			return nil, ErrVendorNotActive
		}
		identity.VendorID = &vendor.ID
	}

	token, err := s.tokens.GenerateStaffToken(identity)
	if err != nil {
		return nil, fmt.Errorf("sign staff token: %w", err)
	}
	if err := s.repo.TouchUserLogin(ctx, user.ID, s.now()); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("failed to record last login")
	}

	return &StaffLoginResult{Token: token, User: user, Vendor: vendor}, nil
}

func (s *Service) IsCustomerActive(ctx context.Context, customerID int64) (bool, error) {
	c, err := s.repo.GetCustomer(ctx, customerID)
	if err != nil {
		if err == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return c.Status == StatusActive, nil
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

func (s *Service) UpdateCustomerProfile(ctx context.Context, id int64, req UpdateProfileRequest) (*Customer, error) {
	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Gender != nil {
		fields["gender"] = *req.Gender
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, ErrInvalidDate
		}
		fields["date_of_birth"] = dob
	}
	if req.EmergencyContactName != nil {
		fields["emergency_contact_name"] = *req.EmergencyContactName
	}
	if req.EmergencyContactPhone != nil {
		fields["emergency_contact_phone"] = *req.EmergencyContactPhone
	}
	if len(fields) > 0 {
		if err := s.repo.UpdateCustomer(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.repo.GetCustomer(ctx, id)
}

func (s *Service) GetVendor(ctx context.Context, vendorID int64) (*Vendor, error) {
	return s.repo.GetVendor(ctx, vendorID)
}

// CreateVendor provisions an operator account and its vendor record.
func (s *Service) CreateVendor(ctx context.Context, req CreateVendorRequest) (*Vendor, error) {
	role, err := s.repo.GetRoleByName(ctx, RoleVendor)
	if err != nil {
		return nil, fmt.Errorf("load vendor role: %w", err)
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = StatusActive
	}
	if !validVendorStatus(status) {
		return nil, ErrInvalidStatus
	}

	user := &User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        req.Phone,
		PasswordHash: hash,
		RoleID:       role.ID,
		Status:       StatusActive,
	}
	vendor := &Vendor{
		BusinessName:    strings.TrimSpace(req.BusinessName),
		BusinessAddress: req.BusinessAddress,
		ContactPhone:    req.Phone,
		GSTNumber:       req.GSTNumber,
		Status:          status,
	}
	if err := s.repo.CreateVendor(ctx, user, vendor); err != nil {
		return nil, err
	}
	vendor.User = user

	s.log.WithFields(logrus.Fields{"vendor_id": vendor.ID, "user_id": user.ID}).Info("vendor created")
	return vendor, nil
}

func (s *Service) ListVendors(ctx context.Context, status string, limit, offset int) ([]Vendor, int64, error) {
	return s.repo.ListVendors(ctx, status, limit, offset)
}

func (s *Service) UpdateVendorStatus(ctx context.Context, id int64, status string) error {
	if !validVendorStatus(status) {
		return ErrInvalidStatus
	}
	return s.repo.UpdateVendorStatus(ctx, id, status)
}

func (s *Service) ListCustomers(ctx context.Context, status, search string, limit, offset int) ([]Customer, int64, error) {
	return s.repo.ListCustomers(ctx, status, search, limit, offset)
}

func (s *Service) UpdateCustomerStatus(ctx context.Context, id int64, status string) error {
	if status != StatusActive && status != StatusInactive {
		return ErrInvalidStatus
	}
	if _, err := s.repo.GetCustomer(ctx, id); err != nil {
		return err
	}
	return s.repo.UpdateCustomer(ctx, id, map[string]any{"status": status})
}

func validVendorStatus(s string) bool {
	return s == StatusPending || s == StatusActive || s == StatusSuspended
}
