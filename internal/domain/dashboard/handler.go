package dashboard

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"trekmarket/internal/middleware"
	"trekmarket/internal/pkg/response"
)

type Handler struct {
	repo *Repository
	now  func() time.Time
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo, now: time.Now}
}

func (h *Handler) RegisterVendorRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Vendor)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Admin)
}

func (h *Handler) Vendor(c *gin.Context) {
	stats, err := h.repo.Vendor(c.Request.Context(), middleware.VendorID(c), h.now())
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) Admin(c *gin.Context) {
	stats, err := h.repo.Admin(c.Request.Context())
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}
