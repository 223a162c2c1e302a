package payment

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trekmarket/internal/domain/booking"
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

func (h *Handler) RegisterCustomerRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/orders", h.CreateCustomerOrder)
	rg.POST("/payments/verify", h.VerifyCustomer)
}

func (h *Handler) RegisterVendorRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/orders", h.CreateVendorOrder)
	rg.POST("/payments/verify", h.VerifyVendor)
}

func (h *Handler) CreateCustomerOrder(c *gin.Context) {
	var req booking.CreateRequest
	if !request.BindJSON(c, &req) {
		return
	}
	out, err := h.service.CreateCustomerOrder(c.Request.Context(), middleware.CustomerID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, out)
}

func (h *Handler) VerifyCustomer(c *gin.Context) {
	var req VerifyRequest
	if !request.BindJSON(c, &req) {
		return
	}
	out, err := h.service.VerifyCustomer(c.Request.Context(), middleware.CustomerID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, verifyStatus(out), out)
}

func (h *Handler) CreateVendorOrder(c *gin.Context) {
	var req VendorOrderRequest
	if !request.BindJSON(c, &req) {
		return
	}
	out, err := h.service.CreateVendorOrder(c.Request.Context(), middleware.VendorID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, out)
}

func (h *Handler) VerifyVendor(c *gin.Context) {
	var req VendorVerifyRequest
	if !request.BindJSON(c, &req) {
		return
	}
	out, err := h.service.VerifyVendor(c.Request.Context(), middleware.VendorID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, verifyStatus(out), out)
}

func verifyStatus(out *VerifyResponse) int {
	if out.Replayed {
		return http.StatusOK
	}
	return http.StatusCreated
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidSignature):
		response.Error(c, http.StatusBadRequest, "INVALID_SIGNATURE", err.Error())
	case errors.Is(err, ErrPaymentNotCaptured):
		response.Error(c, http.StatusBadRequest, "PAYMENT_NOT_CAPTURED", err.Error())
	case errors.Is(err, ErrOrderMismatch):
		response.Error(c, http.StatusBadRequest, "ORDER_MISMATCH", err.Error())
	case errors.Is(err, ErrPaymentClaimed):
		response.Error(c, http.StatusConflict, "PAYMENT_CLAIMED", err.Error())
	case errors.Is(err, ErrGatewayRejected):
		_ = c.Error(err)
		response.Error(c, http.StatusBadGateway, "GATEWAY_REJECTED", ErrGatewayRejected.Error())
	case errors.Is(err, ErrGatewayUnavailable):
		_ = c.Error(err)
		response.Error(c, http.StatusBadGateway, "GATEWAY_UNAVAILABLE", ErrGatewayUnavailable.Error())
	default:
		booking.WriteError(c, err)
	}
}
