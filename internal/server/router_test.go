package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"trekmarket/internal/config"
	"trekmarket/internal/database"
	"trekmarket/internal/domain/identity"
	"trekmarket/internal/pkg/logger"
)

type testResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type codeBox struct {
	codes map[string]string
}

func (b *codeBox) SendLoginCode(_ context.Context, phone, code string) error {
	b.codes[phone] = code
	return nil
}

type suite struct {
	t      *testing.T
	server *Server
	db     *gorm.DB
	sms    *codeBox
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:            "test",
		JWTSecret:         "router-test-secret",
		StaffTTL:          time.Hour,
		CustomerTTL:       time.Hour,
		OTPPepper:         "pepper",
		OTPTTL:            5 * time.Minute,
		OTPResendCooldown: time.Minute,
		Gateway: config.GatewayConfig{
			BaseURL:   "http://127.0.0.1:1",
			KeyID:     "rzp_test_key",
			KeySecret: "gateway-secret",
			Currency:  "INR",
			Timeout:   time.Second,
		},
		RatingCacheTTL:     time.Minute,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}
}

func setupSuite(t *testing.T) *suite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenInMemory("server_" + t.Name())
	require.NoError(t, err)
	require.NoError(t, Migrate(context.Background(), db))

	sms := &codeBox{codes: map[string]string{}}
	srv, err := New(Deps{Config: testConfig(), DB: db, Log: logger.Discard(), SMS: sms})
	require.NoError(t, err)

	var role identity.Role
	require.NoError(t, db.Where("name = ?", identity.RoleAdmin).First(&role).Error)
	hash, err := identity.HashPassword("admin-password")
	require.NoError(t, err)
	require.NoError(t, db.Create(&identity.User{
		Name: "Root", Email: "admin@trek.example", PasswordHash: hash, RoleID: role.ID, Status: identity.StatusActive,
	}).Error)

	return &suite{t: t, server: srv, db: db, sms: sms}
}

func (s *suite) do(method, path string, body any, token string) (*httptest.ResponseRecorder, testResponse) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.server.Engine.ServeHTTP(w, req)

	var resp testResponse
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func (s *suite) decode(resp testResponse, dst any) {
	s.t.Helper()
	require.NoError(s.t, json.Unmarshal(resp.Data, dst))
}

func (s *suite) staffLogin(prefix, email, password string) string {
	s.t.Helper()
	w, resp := s.do(http.MethodPost, prefix+"/auth/login", map[string]string{"email": email, "password": password}, "")
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	s.decode(resp, &out)
	require.NotEmpty(s.t, out.Token)
	return out.Token
}

func (s *suite) customerLogin(phone string) string {
	s.t.Helper()
	w, _ := s.do(http.MethodPost, "/api/v1/auth/otp/request", map[string]string{"phone": phone}, "")
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	require.Len(s.t, s.sms.codes, 1)
	var code string
	for _, c := range s.sms.codes {
		code = c
	}

	w, resp := s.do(http.MethodPost, "/api/v1/auth/otp/verify", map[string]string{"phone": phone, "code": code}, "")
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Token         string `json:"token"`
		IsNewCustomer bool   `json:"is_new_customer"`
	}
	s.decode(resp, &out)
	assert.True(s.t, out.IsNewCustomer)
	return out.Token
}

// onboardVendor creates a vendor through the admin API and returns its
// token and an active trek id.
func (s *suite) onboardVendor(adminToken string) (string, int64) {
	s.t.Helper()
	w, _ := s.do(http.MethodPost, "/api/admin/vendors", map[string]any{
		"name": "Asha", "email": "asha@summit.example", "password": "summit-pass-1",
		"business_name": "Summit Trails", "status": "active",
	}, adminToken)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	vendorToken := s.staffLogin("/api/vendor", "asha@summit.example", "summit-pass-1")

	w, resp := s.do(http.MethodPost, "/api/vendor/treks", map[string]any{
		"title": "Hampta Pass", "base_price": 1000, "max_participants": 10,
		"duration_days": 5, "duration_nights": 4, "difficulty": "moderate", "status": "active",
	}, vendorToken)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID int64 `json:"id"`
	}
	s.decode(resp, &created)
	require.NotZero(s.t, created.ID)
	return vendorToken, created.ID
}

func TestHealth(t *testing.T) {
	s := setupSuite(t)
	w, resp := s.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestUnknownRoute(t *testing.T) {
	s := setupSuite(t)
	w, resp := s.do(http.MethodGet, "/api/v1/nowhere", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestAudienceSeparation(t *testing.T) {
	s := setupSuite(t)
	adminToken := s.staffLogin("/api/admin", "admin@trek.example", "admin-password")
	customerToken := s.customerLogin("+919876543210")

	w, _ := s.do(http.MethodGet, "/api/v1/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodGet, "/api/v1/profile", nil, customerToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, "/api/v1/profile", nil, adminToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodGet, "/api/vendor/treks", nil, adminToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodGet, "/api/admin/vendors", nil, customerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodPost, "/api/vendor/auth/login", map[string]string{
		"email": "admin@trek.example", "password": "admin-password",
	}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBookingFlow(t *testing.T) {
	s := setupSuite(t)
	adminToken := s.staffLogin("/api/admin", "admin@trek.example", "admin-password")
	vendorToken, trekID := s.onboardVendor(adminToken)
	customerToken := s.customerLogin("+919876543210")

	w, resp := s.do(http.MethodGet, "/api/v1/treks", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Total int64 `json:"total"`
	}
	s.decode(resp, &page)
	assert.Equal(t, int64(1), page.Total)

	w, resp = s.do(http.MethodPost, "/api/v1/bookings", map[string]any{
		"trek_id": trekID,
		"participants": []map[string]any{
			{"name": "Meera", "age": 29},
			{"name": "Kabir", "age": 31},
		},
	}, customerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var b struct {
		ID            int64   `json:"id"`
		Status        string  `json:"status"`
		PaymentStatus string  `json:"payment_status"`
		FinalAmount   float64 `json:"final_amount"`
	}
	s.decode(resp, &b)
	assert.Equal(t, "pending", b.Status)
	assert.Equal(t, "pending", b.PaymentStatus)
	assert.Equal(t, 2000.0, b.FinalAmount)

	w, resp = s.do(http.MethodGet, "/api/vendor/bookings", nil, vendorToken)
	require.Equal(t, http.StatusOK, w.Code)
	s.decode(resp, &page)
	assert.Equal(t, int64(1), page.Total)

	w, _ = s.do(http.MethodGet, fmt.Sprintf("/api/v1/bookings/%d/invoice", b.ID), nil, customerToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w, resp = s.do(http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/cancel", b.ID), map[string]string{"reason": "plans changed"}, customerToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	s.decode(resp, &b)
	assert.Equal(t, "cancelled", b.Status)

	w, resp = s.do(http.MethodGet, "/api/v1/notifications", nil, customerToken)
	require.Equal(t, http.StatusOK, w.Code)
	var inbox struct {
		Total       int64 `json:"total"`
		UnreadCount int64 `json:"unread_count"`
	}
	s.decode(resp, &inbox)
	assert.Equal(t, int64(2), inbox.Total)
	assert.Equal(t, int64(2), inbox.UnreadCount)

	w, _ = s.do(http.MethodPost, fmt.Sprintf("/api/v1/favorites/%d", trekID), nil, customerToken)
	assert.Equal(t, http.StatusCreated, w.Code)
	w, _ = s.do(http.MethodPost, fmt.Sprintf("/api/v1/favorites/%d", trekID), nil, customerToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, resp = s.do(http.MethodGet, "/api/vendor/dashboard", nil, vendorToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var stats struct {
		Bookings map[string]int64 `json:"bookings"`
	}
	s.decode(resp, &stats)
	assert.Equal(t, int64(1), stats.Bookings["cancelled"])

	w, _ = s.do(http.MethodGet, "/api/admin/dashboard", nil, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVendorFeedReceivesNewBookings(t *testing.T) {
	s := setupSuite(t)
	adminToken := s.staffLogin("/api/admin", "admin@trek.example", "admin-password")
	vendorToken, trekID := s.onboardVendor(adminToken)
	customerToken := s.customerLogin("+919812345678")

	ts := httptest.NewServer(s.server.Engine)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/vendor/feed/ws?token=" + vendorToken
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	claims, err := s.server.Tokens.ValidateToken(vendorToken)
	require.NoError(t, err)
	require.NotNil(t, claims.VendorID)
	require.Eventually(t, func() bool {
		return s.server.Hub.Connections(*claims.VendorID) == 1
	}, 2*time.Second, 10*time.Millisecond)

	w, _ := s.do(http.MethodPost, "/api/v1/bookings", map[string]any{
		"trek_id":      trekID,
		"participants": []map[string]any{{"name": "Meera", "age": 29}},
	}, customerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var event struct {
		Type string `json:"type"`
	}
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "booking.created", event.Type)
}

func TestVendorLeadConversion(t *testing.T) {
	s := setupSuite(t)
	adminToken := s.staffLogin("/api/admin", "admin@trek.example", "admin-password")

	w, resp := s.do(http.MethodPost, "/api/v1/vendor-leads", map[string]any{
		"contact_name": "Pemba", "contact_email": "pemba@khumbu.example", "contact_phone": "+977981234567",
		"business_name": "Khumbu Treks", "years_operating": 12,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var l struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	s.decode(resp, &l)
	assert.Equal(t, "new", l.Status)

	w, _ = s.do(http.MethodGet, "/api/admin/leads", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, resp = s.do(http.MethodGet, "/api/admin/leads?status=new", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var page struct {
		Total int64 `json:"total"`
	}
	s.decode(resp, &page)
	assert.Equal(t, int64(1), page.Total)

	path := fmt.Sprintf("/api/admin/leads/%d", l.ID)
	w, _ = s.do(http.MethodPost, path+"/contacted", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, resp = s.do(http.MethodPost, path+"/convert", map[string]string{"password": "khumbu-pass-1"}, adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var vendor struct {
		ID           int64  `json:"id"`
		BusinessName string `json:"business_name"`
		Status       string `json:"status"`
	}
	s.decode(resp, &vendor)
	assert.Equal(t, "Khumbu Treks", vendor.BusinessName)
	assert.Equal(t, "active", vendor.Status)

	w, resp = s.do(http.MethodPost, path+"/convert", map[string]string{"password": "khumbu-pass-1"}, adminToken)
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "LEAD_CONVERTED", resp.Error.Code)

	s.staffLogin("/api/vendor", "pemba@khumbu.example", "khumbu-pass-1")

	w, resp = s.do(http.MethodPost, "/api/v1/vendor-leads", map[string]any{
		"contact_name": "Pemba", "contact_email": "pemba@khumbu.example", "contact_phone": "+977981234567",
		"business_name": "Khumbu Treks",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "EMAIL_EXISTS", resp.Error.Code)
}
