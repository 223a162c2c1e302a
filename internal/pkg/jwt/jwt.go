package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const (
	TypeStaff    = "staff"
	TypeCustomer = "customer"
)

var ErrInvalidToken = errors.New("invalid token")

type Service struct {
	secret      []byte
	staffTTL    time.Duration
	customerTTL time.Duration
}

// Claims covers both principal families. Staff tokens carry the user, role
// and (for vendors) vendor id; customer tokens only carry the customer id.
type Claims struct {
	Type       string `json:"type"`
	UserID     int64  `json:"id,omitempty"`
	RoleID     int64  `json:"roleId,omitempty"`
	Role       string `json:"role,omitempty"`
	VendorID   *int64 `json:"vendorId,omitempty"`
	CustomerID int64  `json:"customerId,omitempty"`
	jwtlib.RegisteredClaims
}

// StaffIdentity is what an admin or vendor token asserts.
type StaffIdentity struct {
	UserID   int64
	RoleID   int64
	Role     string
	VendorID *int64
}

func New(secret string, staffTTL, customerTTL time.Duration) *Service {
	return &Service{
		secret:      []byte(secret),
		staffTTL:    staffTTL,
		customerTTL: customerTTL,
	}
}

func (s *Service) GenerateStaffToken(id StaffIdentity) (string, error) {
	claims := Claims{
		Type:     TypeStaff,
		UserID:   id.UserID,
		RoleID:   id.RoleID,
		Role:     id.Role,
		VendorID: id.VendorID,
		RegisteredClaims: s.registered(fmt.Sprintf("user:%d", id.UserID), s.staffTTL),
	}
	return s.sign(claims)
}

func (s *Service) GenerateCustomerToken(customerID int64) (string, error) {
	claims := Claims{
		Type:             TypeCustomer,
		CustomerID:       customerID,
		RegisteredClaims: s.registered(fmt.Sprintf("customer:%d", customerID), s.customerTTL),
	}
	return s.sign(claims)
}

func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if claims.Type != TypeStaff && claims.Type != TypeCustomer {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *Service) registered(subject string, ttl time.Duration) jwtlib.RegisteredClaims {
	now := time.Now()
	return jwtlib.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwtlib.NewNumericDate(now),
	}
}

func (s *Service) sign(claims Claims) (string, error) {
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
