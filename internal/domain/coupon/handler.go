package coupon

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trekmarket/internal/pkg/request"
	"trekmarket/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/coupons", h.List)
	rg.POST("/coupons", h.Create)
	rg.POST("/coupons/validate", h.Validate)
	rg.GET("/coupons/:id", h.Get)
	rg.PUT("/coupons/:id", h.Update)
	rg.DELETE("/coupons/:id", h.Deactivate)
}

// RegisterCustomerRoutes lets customers preview a code before booking.
func (h *Handler) RegisterCustomerRoutes(rg *gin.RouterGroup) {
	rg.POST("/coupons/validate", h.Validate)
}

func (h *Handler) Create(c *gin.Context) {
	var req CouponRequest
	if !request.BindJSON(c, &req) {
		return
	}
	coupon, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, coupon)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req CouponRequest
	if !request.BindJSON(c, &req) {
		return
	}
	coupon, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, coupon)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	coupon, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, coupon)
}

func (h *Handler) List(c *gin.Context) {
	page, limit := request.Pagination(c)
	items, total, err := h.service.List(c.Request.Context(), c.Query("status"), limit, request.Offset(page, limit))
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Page{Items: items, Total: total, Page: page, Limit: limit})
}

func (h *Handler) Deactivate(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "status": StatusInactive})
}

func (h *Handler) Validate(c *gin.Context) {
	var req ValidateRequest
	if !request.BindJSON(c, &req) {
		return
	}
	res, err := h.service.Validate(c.Request.Context(), req.Code, req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "COUPON_NOT_FOUND", err.Error())
	case errors.Is(err, ErrDuplicateCode):
		response.Error(c, http.StatusConflict, "DUPLICATE_CODE", err.Error())
	case errors.Is(err, ErrInactive):
		response.Error(c, http.StatusBadRequest, "COUPON_INACTIVE", err.Error())
	case errors.Is(err, ErrNotYetValid):
		response.Error(c, http.StatusBadRequest, "COUPON_NOT_YET_VALID", err.Error())
	case errors.Is(err, ErrExpired):
		response.Error(c, http.StatusBadRequest, "COUPON_EXPIRED", err.Error())
	case errors.Is(err, ErrUsageLimitReached):
		response.Error(c, http.StatusBadRequest, "COUPON_USAGE_LIMIT", err.Error())
	case errors.Is(err, ErrMinAmountNotMet):
		response.Error(c, http.StatusBadRequest, "COUPON_MIN_AMOUNT", err.Error())
	case errors.Is(err, ErrInvalidCoupon):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		response.Internal(c, err)
	}
}
