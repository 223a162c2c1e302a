package trek

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trekmarket/internal/middleware"
	"trekmarket/internal/pkg/jwt"
)

func setupRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _ := setupService(t)

	tokens := jwt.New("test-secret", time.Hour, time.Hour)
	vendorID := int64(5)
	token, err := tokens.GenerateStaffToken(jwt.StaffIdentity{UserID: 9, RoleID: 2, Role: "vendor", VendorID: &vendorID})
	require.NoError(t, err)

	h := NewHandler(svc)
	r := gin.New()
	h.RegisterPublicRoutes(r.Group("/api/v1"))
	h.RegisterVendorRoutes(r.Group("/api/vendor", middleware.StaffAuth(tokens), middleware.VendorOnly()))
	return r, token
}

func call(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestVendorTrekLifecycle(t *testing.T) {
	r, token := setupRouter(t)

	w := call(r, http.MethodPost, "/api/vendor/treks", token, map[string]any{
		"title": "Brahmatal", "base_price": 1500, "max_participants": 12, "duration_days": 5, "status": "published",
		"itinerary": []map[string]any{{"day_number": 1, "title": "Lohajung"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data Trek `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, StatusActive, created.Data.Status)

	w = call(r, http.MethodGet, "/api/v1/treks?q=brahma", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)

	w = call(r, http.MethodPost, "/api/vendor/treks/1/batches", token, map[string]any{"start_dates": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "start_dates")

	w = call(r, http.MethodPatch, "/api/vendor/treks/1/status", token, map[string]any{"status": "archived"})
	require.Equal(t, http.StatusOK, w.Code)

	w = call(r, http.MethodGet, "/api/v1/treks/1", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "TREK_NOT_FOUND")
}

func TestVendorRoutesRequireToken(t *testing.T) {
	r, _ := setupRouter(t)
	w := call(r, http.MethodGet, "/api/vendor/treks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestItineraryValidationReportsPath(t *testing.T) {
	r, token := setupRouter(t)
	w := call(r, http.MethodPost, "/api/vendor/treks", token, map[string]any{
		"title": "Valley", "base_price": 900, "max_participants": 8, "duration_days": 2,
		"itinerary": []map[string]any{{"day_number": 0, "title": "x"}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "itinerary[0].day_number")
}
