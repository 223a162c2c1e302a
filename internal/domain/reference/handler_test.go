package reference

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trekmarket/internal/database"
)

func setupRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenInMemory("reference_" + t.Name())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(Models()...))

	svc := NewService(db)
	h := NewHandler(svc)
	r := gin.New()
	h.RegisterPublicRoutes(r.Group("/api/v1"))
	h.RegisterAdminRoutes(r.Group("/api/admin"))
	return r, svc
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDestinationCRUD(t *testing.T) {
	r, svc := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/api/admin/destinations", map[string]any{"name": "Himachal", "state": "HP"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data Destination `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "India", created.Data.Country)
	assert.Equal(t, StatusActive, created.Data.Status)

	w = doJSON(r, http.MethodPost, "/api/admin/destinations", map[string]any{"name": "himachal"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "DUPLICATE_NAME")

	w = doJSON(r, http.MethodPut, "/api/admin/destinations/1", map[string]any{"name": "Himachal Pradesh", "status": "inactive"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(r, http.MethodGet, "/api/v1/destinations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Data []Destination `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Empty(t, listed.Data)

	ok, err := svc.DestinationExists(t.Context(), created.Data.ID)
	require.NoError(t, err)
	assert.False(t, ok, "inactive destinations are not referenceable")

	w = doJSON(r, http.MethodDelete, "/api/admin/destinations/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodGet, "/api/admin/destinations/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancellationPolicyRulesValidated(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/api/admin/cancellation-policies", map[string]any{
		"name":  "Flexible",
		"rules": []map[string]any{{"hours_before": 48, "refund_percent": 150}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "rules[0].refund_percent")

	w = doJSON(r, http.MethodPost, "/api/admin/cancellation-policies", map[string]any{
		"name":  "Flexible",
		"rules": []map[string]any{{"hours_before": 48, "refund_percent": 100}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"refund_percent":100`)
}

func TestCitiesFilterByDestination(t *testing.T) {
	r, _ := setupRouter(t)

	require.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/api/admin/destinations", map[string]any{"name": "Uttarakhand"}).Code)
	require.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/api/admin/cities", map[string]any{"name": "Dehradun", "destination_id": 1}).Code)
	require.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/api/admin/cities", map[string]any{"name": "Manali"}).Code)

	w := doJSON(r, http.MethodGet, "/api/v1/cities?destination_id=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []City `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Dehradun", body.Data[0].Name)
}
