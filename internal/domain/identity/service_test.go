package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trekmarket/internal/database"
	"trekmarket/internal/pkg/jwt"
	"trekmarket/internal/pkg/logger"
)

type capturingSender struct {
	codes map[string]string
}

func (s *capturingSender) SendLoginCode(_ context.Context, phone, code string) error {
	s.codes[phone] = code
	return nil
}

func setupService(t *testing.T) (*Service, *capturingSender, *jwt.Service) {
	t.Helper()
	db, err := database.OpenInMemory("identity_" + t.Name())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(Models()...))

	repo := NewRepository(db)
	require.NoError(t, repo.EnsureRoles(context.Background()))

	tokens := jwt.New("secret", time.Hour, time.Hour)
	sms := &capturingSender{codes: map[string]string{}}
	svc := NewService(repo, tokens, sms, OTPConfig{Pepper: "pepper", TTL: 5 * time.Minute, ResendCooldown: time.Minute}, logger.Discard())
	return svc, sms, tokens
}

func TestStaffLoginVendor(t *testing.T) {
	svc, _, tokens := setupService(t)
	ctx := context.Background()

	vendor, err := svc.CreateVendor(ctx, CreateVendorRequest{
		Name: "Ravi", Email: "Ravi@Peaks.example", Password: "hunter2hunter2", BusinessName: "Peak Trails",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusActive, vendor.Status)

	res, err := svc.StaffLogin(ctx, "ravi@peaks.example", "hunter2hunter2", RoleVendor)
	require.NoError(t, err)
	require.NotNil(t, res.Vendor)
	assert.Equal(t, vendor.ID, res.Vendor.ID)

	claims, err := tokens.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, RoleVendor, claims.Role)
	require.NotNil(t, claims.VendorID)
	assert.Equal(t, vendor.ID, *claims.VendorID)

	_, err = svc.StaffLogin(ctx, "ravi@peaks.example", "wrong", RoleVendor)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.StaffLogin(ctx, "ravi@peaks.example", "hunter2hunter2", RoleAdmin)
	assert.ErrorIs(t, err, ErrRoleMismatch)

	require.NoError(t, svc.UpdateVendorStatus(ctx, vendor.ID, StatusSuspended))
	_, err = svc.StaffLogin(ctx, "ravi@peaks.example", "hunter2hunter2", RoleVendor)
	assert.ErrorIs(t, err, ErrVendorNotActive)
}

func TestCreateVendorDuplicateEmail(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	req := CreateVendorRequest{Name: "A", Email: "a@x.example", Password: "password1", BusinessName: "A"}

	_, err := svc.CreateVendor(ctx, req)
	require.NoError(t, err)
	_, err = svc.CreateVendor(ctx, req)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestOTPLoginCreatesCustomerOnce(t *testing.T) {
	svc, sms, tokens := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestLoginCode(ctx, "+91 98765-43210"))
	code := sms.codes["+919876543210"]
	require.Len(t, code, 6)

	res, err := svc.VerifyLoginCode(ctx, "+919876543210", code)
	require.NoError(t, err)
	assert.True(t, res.IsNewCustomer)

	claims, err := tokens.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Customer.ID, claims.CustomerID)

	_, err = svc.VerifyLoginCode(ctx, "+919876543210", code)
	assert.ErrorIs(t, err, ErrInvalidCode, "a code is single-use")

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	require.NoError(t, svc.RequestLoginCode(ctx, "+919876543210"))
	again, err := svc.VerifyLoginCode(ctx, "+919876543210", sms.codes["+919876543210"])
	require.NoError(t, err)
	assert.False(t, again.IsNewCustomer)
	assert.Equal(t, res.Customer.ID, again.Customer.ID)
}

func TestOTPResendCooldown(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestLoginCode(ctx, "9876543210"))
	assert.ErrorIs(t, svc.RequestLoginCode(ctx, "9876543210"), ErrRateLimitExceeded)
}

func TestOTPAttemptsExhausted(t *testing.T) {
	svc, sms, _ := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestLoginCode(ctx, "9876543210"))
	good := sms.codes["9876543210"]
	bad := "000000"
	if good == bad {
		bad = "111111"
	}

	for i := 0; i < maxOTPAttempts-1; i++ {
		_, err := svc.VerifyLoginCode(ctx, "9876543210", bad)
		assert.ErrorIs(t, err, ErrInvalidCode)
	}
	_, err := svc.VerifyLoginCode(ctx, "9876543210", bad)
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	_, err = svc.VerifyLoginCode(ctx, "9876543210", good)
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestOTPExpired(t *testing.T) {
	svc, sms, _ := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestLoginCode(ctx, "9876543210"))
	svc.now = func() time.Time { return time.Now().Add(10 * time.Minute) }

	_, err := svc.VerifyLoginCode(ctx, "9876543210", sms.codes["9876543210"])
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestInactiveCustomer(t *testing.T) {
	svc, sms, _ := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestLoginCode(ctx, "9876543210"))
	res, err := svc.VerifyLoginCode(ctx, "9876543210", sms.codes["9876543210"])
	require.NoError(t, err)

	active, err := svc.IsCustomerActive(ctx, res.Customer.ID)
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, svc.UpdateCustomerStatus(ctx, res.Customer.ID, StatusInactive))
	active, err = svc.IsCustomerActive(ctx, res.Customer.ID)
	require.NoError(t, err)
	assert.False(t, active)

	active, err = svc.IsCustomerActive(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestNormalizePhone(t *testing.T) {
	p, err := NormalizePhone(" (987) 654-3210 ")
	require.NoError(t, err)
	assert.Equal(t, "9876543210", p)

	_, err = NormalizePhone("12ab")
	assert.ErrorIs(t, err, ErrInvalidPhone)
}

func TestPurgeExpiredCodes(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	require.NoError(t, svc.RequestLoginCode(ctx, "9876543210"))

	n, err := PurgeExpiredCodes(ctx, svc.repo.DB(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = PurgeExpiredCodes(ctx, svc.repo.DB(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
