package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaffTokenRoundTrip(t *testing.T) {
	svc := New("secret", time.Hour, time.Hour)
	vendorID := int64(9)

	token, err := svc.GenerateStaffToken(StaffIdentity{UserID: 3, RoleID: 2, Role: "vendor", VendorID: &vendorID})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, TypeStaff, claims.Type)
	assert.Equal(t, int64(3), claims.UserID)
	assert.Equal(t, "vendor", claims.Role)
	require.NotNil(t, claims.VendorID)
	assert.Equal(t, int64(9), *claims.VendorID)
}

func TestCustomerToken(t *testing.T) {
	svc := New("secret", time.Hour, time.Hour)

	token, err := svc.GenerateCustomerToken(44)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, TypeCustomer, claims.Type)
	assert.Equal(t, int64(44), claims.CustomerID)
	assert.Nil(t, claims.VendorID)
}

func TestValidateRejectsForeignSecretAndExpiry(t *testing.T) {
	issuer := New("one", time.Hour, time.Hour)
	token, err := issuer.GenerateCustomerToken(1)
	require.NoError(t, err)

	_, err = New("two", time.Hour, time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := New("one", -time.Minute, -time.Minute)
	token, err = expired.GenerateCustomerToken(1)
	require.NoError(t, err)
	_, err = issuer.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{Type: TypeCustomer, CustomerID: 1}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = New("secret", time.Hour, time.Hour).ValidateToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
