package identity

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

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

// RegisterStaffLoginRoute mounts POST /auth/login for one staff role.
func (h *Handler) RegisterStaffLoginRoute(rg *gin.RouterGroup, role string) {
	rg.POST("/auth/login", h.staffLogin(role))
}

func (h *Handler) RegisterCustomerAuthRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/otp/request", h.RequestOTP)
	rg.POST("/auth/otp/verify", h.VerifyOTP)
}

func (h *Handler) RegisterCustomerRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.GetCustomerProfile)
	rg.PUT("/profile", h.UpdateCustomerProfile)
}

func (h *Handler) RegisterVendorRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.GetVendorProfile)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/vendors", h.CreateVendor)
	rg.GET("/vendors", h.ListVendors)
	rg.PATCH("/vendors/:id/status", h.UpdateVendorStatus)
	rg.GET("/customers", h.ListCustomers)
	rg.PATCH("/customers/:id/status", h.UpdateCustomerStatus)
}

func (h *Handler) staffLogin(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StaffLoginRequest
		if !request.BindJSON(c, &req) {
			return
		}

		res, err := h.service.StaffLogin(c.Request.Context(), req.Email, req.Password, role)
		if err != nil {
			h.writeError(c, err)
			return
		}
		response.Success(c, http.StatusOK, res)
	}
}

func (h *Handler) RequestOTP(c *gin.Context) {
	var req OTPRequest
	if !request.BindJSON(c, &req) {
		return
	}
	if err := h.service.RequestLoginCode(c.Request.Context(), req.Phone); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "sent"})
}

func (h *Handler) VerifyOTP(c *gin.Context) {
	var req OTPVerifyRequest
	if !request.BindJSON(c, &req) {
		return
	}
	res, err := h.service.VerifyLoginCode(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) GetCustomerProfile(c *gin.Context) {
	customer, err := h.service.GetCustomer(c.Request.Context(), middleware.CustomerID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, customer)
}

func (h *Handler) UpdateCustomerProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !request.BindJSON(c, &req) {
		return
	}
	customer, err := h.service.UpdateCustomerProfile(c.Request.Context(), middleware.CustomerID(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, customer)
}

func (h *Handler) GetVendorProfile(c *gin.Context) {
	vendor, err := h.service.GetVendor(c.Request.Context(), middleware.VendorID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, vendor)
}

func (h *Handler) CreateVendor(c *gin.Context) {
	var req CreateVendorRequest
	if !request.BindJSON(c, &req) {
		return
	}
	vendor, err := h.service.CreateVendor(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, vendor)
}

func (h *Handler) ListVendors(c *gin.Context) {
	page, limit := request.Pagination(c)
	vendors, total, err := h.service.ListVendors(c.Request.Context(), c.Query("status"), limit, request.Offset(page, limit))
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Page{Items: vendors, Total: total, Page: page, Limit: limit})
}

func (h *Handler) UpdateVendorStatus(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if !request.BindJSON(c, &req) {
		return
	}
	if err := h.service.UpdateVendorStatus(c.Request.Context(), id, req.Status); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "status": req.Status})
}

func (h *Handler) ListCustomers(c *gin.Context) {
	page, limit := request.Pagination(c)
	customers, total, err := h.service.ListCustomers(c.Request.Context(), c.Query("status"), c.Query("q"), limit, request.Offset(page, limit))
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Page{Items: customers, Total: total, Page: page, Limit: limit})
}

func (h *Handler) UpdateCustomerStatus(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if !request.BindJSON(c, &req) {
		return
	}
	if err := h.service.UpdateCustomerStatus(c.Request.Context(), id, req.Status); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "status": req.Status})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, ErrRoleMismatch):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrAccountInactive), errors.Is(err, ErrVendorNotActive):
		response.Error(c, http.StatusForbidden, "ACCOUNT_INACTIVE", err.Error())
	case errors.Is(err, ErrEmailTaken):
		response.Error(c, http.StatusConflict, "EMAIL_TAKEN", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, ErrInvalidPhone), errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrInvalidCodeFormat):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrInvalidCode):
		response.Error(c, http.StatusUnauthorized, "INVALID_CODE", err.Error())
	case errors.Is(err, ErrTooManyAttempts), errors.Is(err, ErrRateLimitExceeded):
		response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", err.Error())
	default:
		response.Internal(c, err)
	}
}
