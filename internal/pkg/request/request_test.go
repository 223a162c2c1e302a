package request

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type loginBody struct {
	Phone string `json:"phone" validate:"required,min=8"`
}

func TestBindJSONValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"phone":"12"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var body loginBody
	assert.False(t, BindJSON(c, &body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"phone":"min"`)
}

func TestPaginationBounds(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=-3&limit=1000", nil)

	page, limit := Pagination(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, maxLimit, limit)
	assert.Equal(t, 0, Offset(page, limit))
}

func TestParamID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	_, ok := ParamID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
