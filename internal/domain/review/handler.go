package review

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trekmarket/internal/domain/trek"
	"trekmarket/internal/middleware"
	"trekmarket/internal/pkg/request"
	"trekmarket/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/treks/:id/reviews", h.ListForTrek)
	rg.GET("/treks/:id/ratings", h.Summary)
	rg.GET("/rating-categories", h.ActiveCategories)
}

func (h *Handler) RegisterCustomerRoutes(rg *gin.RouterGroup) {
	rg.GET("/reviews", h.ListMine)
	rg.POST("/reviews", h.Create)
	rg.PUT("/treks/:id/ratings", h.Rate)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/reviews", h.ListAll)
	rg.PATCH("/reviews/:id/status", h.SetStatus)
	rg.GET("/rating-categories", h.AllCategories)
	rg.POST("/rating-categories", h.CreateCategory)
	rg.PUT("/rating-categories/:id", h.UpdateCategory)
}

func (h *Handler) ListForTrek(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	page, limit := request.Pagination(c)
	out, err := h.service.ListForTrek(c.Request.Context(), id, page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) Summary(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	out, err := h.service.Summary(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) ActiveCategories(c *gin.Context) {
	h.categories(c, true)
}

func (h *Handler) AllCategories(c *gin.Context) {
	h.categories(c, false)
}

func (h *Handler) categories(c *gin.Context, activeOnly bool) {
	items, err := h.service.Categories(c.Request.Context(), activeOnly)
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) ListMine(c *gin.Context) {
	items, err := h.service.ListForCustomer(c.Request.Context(), middleware.CustomerID(c))
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if !request.BindJSON(c, &req) {
		return
	}
	rv, err := h.service.Create(c.Request.Context(), middleware.CustomerID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rv)
}

func (h *Handler) Rate(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req RateRequest
	if !request.BindJSON(c, &req) {
		return
	}
	out, err := h.service.Rate(c.Request.Context(), middleware.CustomerID(c), id, req.Ratings)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) ListAll(c *gin.Context) {
	page, limit := request.Pagination(c)
	items, total, err := h.service.ListAll(c.Request.Context(), c.Query("status"), limit, request.Offset(page, limit))
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Page{Items: items, Total: total, Page: page, Limit: limit})
}

func (h *Handler) SetStatus(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if !request.BindJSON(c, &req) {
		return
	}
	rv, err := h.service.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rv)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if !request.BindJSON(c, &req) {
		return
	}
	cat, err := h.service.CreateCategory(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, cat)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req CategoryRequest
	if !request.BindJSON(c, &req) {
		return
	}
	cat, err := h.service.UpdateCategory(c.Request.Context(), id, req)
	if errors.Is(err, ErrCategoryNotFound) {
		response.Error(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", err.Error())
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cat)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, trek.ErrTrekNotFound):
		response.Error(c, http.StatusNotFound, "TREK_NOT_FOUND", err.Error())
	case errors.Is(err, ErrReviewNotFound):
		response.Error(c, http.StatusNotFound, "REVIEW_NOT_FOUND", err.Error())
	case errors.Is(err, ErrCategoryNotFound):
		response.Error(c, http.StatusBadRequest, "CATEGORY_NOT_FOUND", err.Error())
	case errors.Is(err, ErrAlreadyReviewed):
		response.Error(c, http.StatusConflict, "ALREADY_REVIEWED", err.Error())
	case errors.Is(err, ErrCategoryExists):
		response.Error(c, http.StatusConflict, "DUPLICATE_NAME", err.Error())
	case errors.Is(err, ErrInvalidRating), errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrBookingMismatch):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		response.Internal(c, err)
	}
}
