package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trekmarket/internal/domain/identity"
	"trekmarket/internal/domain/traveler"
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

func (h *Handler) RegisterCustomerRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateCustomer)
	rg.POST("/bookings/quote", h.Quote)
	rg.GET("/bookings", h.ListCustomer)
	rg.GET("/bookings/:id", h.GetCustomer)
	rg.POST("/bookings/:id/cancel", h.Cancel)
	rg.PATCH("/bookings/:id/status", h.MobileStatus)
}

func (h *Handler) RegisterVendorRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateVendor)
	rg.GET("/bookings", h.ListVendor)
	rg.GET("/bookings/:id", h.GetVendor)
	rg.PATCH("/bookings/:id/status", h.VendorStatus)
	rg.POST("/bookings/:id/payments", h.RecordPayment)
	rg.GET("/bookings/:id/adjustments", h.Ledger)
	rg.POST("/bookings/:id/adjustments", h.AddAdjustment)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.ListAll)
	rg.GET("/bookings/:id", h.GetAdmin)
}

func (h *Handler) CreateCustomer(c *gin.Context) {
	var req CreateRequest
	if !request.BindJSON(c, &req) {
		return
	}
	b, err := h.service.CreateCustomerBooking(c.Request.Context(), middleware.CustomerID(c), req)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) Quote(c *gin.Context) {
	var req CreateRequest
	if !request.BindJSON(c, &req) {
		return
	}
	q, err := h.service.Quote(c.Request.Context(), req)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, q)
}

func (h *Handler) ListCustomer(c *gin.Context) {
	f, page := listFilter(c)
	items, total, err := h.service.ListForCustomer(c.Request.Context(), middleware.CustomerID(c), f)
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Page{Items: items, Total: total, Page: page, Limit: f.Limit})
}

func (h *Handler) GetCustomer(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	b, err := h.service.GetForCustomer(c.Request.Context(), middleware.CustomerID(c), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req CancelRequest
	if c.Request.ContentLength > 0 && !request.BindJSON(c, &req) {
		return
	}
	b, err := h.service.Cancel(c.Request.Context(), middleware.CustomerID(c), id, req.Reason)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) MobileStatus(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req MobileStatusRequest
	if !request.BindJSON(c, &req) {
		return
	}
	b, err := h.service.MobileUpdateStatus(c.Request.Context(), middleware.CustomerID(c), id, req)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) CreateVendor(c *gin.Context) {
	var req VendorCreateRequest
	if !request.BindJSON(c, &req) {
		return
	}
	b, err := h.service.CreateVendorBooking(c.Request.Context(), middleware.VendorID(c), req)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) ListVendor(c *gin.Context) {
	f, page := listFilter(c)
	items, total, err := h.service.ListForVendor(c.Request.Context(), middleware.VendorID(c), f)
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Page{Items: items, Total: total, Page: page, Limit: f.Limit})
}

func (h *Handler) GetVendor(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	b, err := h.service.GetForVendor(c.Request.Context(), middleware.VendorID(c), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) VendorStatus(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req VendorStatusRequest
	if !request.BindJSON(c, &req) {
		return
	}
	b, err := h.service.VendorUpdateStatus(c.Request.Context(), middleware.VendorID(c), id, req)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) RecordPayment(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req PaymentRequest
	if !request.BindJSON(c, &req) {
		return
	}
	l, err := h.service.RecordPayment(c.Request.Context(), middleware.VendorID(c), id, req)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, l)
}

func (h *Handler) Ledger(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	l, err := h.service.VendorLedger(c.Request.Context(), middleware.VendorID(c), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

func (h *Handler) AddAdjustment(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req AdjustmentRequest
	if !request.BindJSON(c, &req) {
		return
	}
	l, err := h.service.AddAdjustment(c.Request.Context(), middleware.VendorID(c), middleware.UserID(c), id, req)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, l)
}

func (h *Handler) ListAll(c *gin.Context) {
	f, page := listFilter(c)
	items, total, err := h.service.ListAll(c.Request.Context(), f)
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Page{Items: items, Total: total, Page: page, Limit: f.Limit})
}

func (h *Handler) GetAdmin(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	b, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func listFilter(c *gin.Context) (ListFilter, int) {
	page, limit := request.Pagination(c)
	f := ListFilter{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
		Limit:         limit,
		Offset:        request.Offset(page, limit),
	}
	if v, err := strconv.ParseInt(c.Query("trek_id"), 10, 64); err == nil {
		f.TrekID = v
	}
	return f, page
}

// WriteError maps booking, trek and traveler failures to the envelope.
func WriteError(c *gin.Context, err error) {
	var slots *trek.InsufficientSlotsError
	switch {
	case errors.As(err, &slots):
		response.ErrorWithDetails(c, http.StatusBadRequest, "INSUFFICIENT_SLOTS", err.Error(),
			gin.H{"availableSlots": slots.Available})
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", err.Error())
	case errors.Is(err, trek.ErrTrekNotFound):
		response.Error(c, http.StatusNotFound, "TREK_NOT_FOUND", err.Error())
	case errors.Is(err, ErrCustomerNotFound):
		response.Error(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", err.Error())
	case errors.Is(err, trek.ErrTrekNotBookable):
		response.Error(c, http.StatusBadRequest, "TREK_NOT_BOOKABLE", err.Error())
	case errors.Is(err, trek.ErrBatchNotFound), errors.Is(err, trek.ErrBatchNotOpen),
		errors.Is(err, trek.ErrPickupPointNotFound):
		response.Error(c, http.StatusBadRequest, "INVALID_DEPARTURE", err.Error())
	case errors.Is(err, ErrAlreadyCancelled):
		response.Error(c, http.StatusBadRequest, "ALREADY_CANCELLED", err.Error())
	case errors.Is(err, ErrAlreadyCompleted):
		response.Error(c, http.StatusBadRequest, "ALREADY_COMPLETED", err.Error())
	case errors.Is(err, ErrOnlyCancellationAllowed):
		response.Error(c, http.StatusBadRequest, "ONLY_CANCELLATION_ALLOWED", err.Error())
	case errors.Is(err, ErrAmountMismatch):
		response.Error(c, http.StatusBadRequest, "AMOUNT_MISMATCH", ErrAmountMismatch.Error())
	case errors.Is(err, ErrDuplicatePayment), errors.Is(err, ErrConcurrentUpdate):
		response.Error(c, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidPaymentStatus),
		errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrCustomerRequired),
		errors.Is(err, identity.ErrInvalidPhone), errors.Is(err, traveler.ErrDuplicateParticipant):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		response.Internal(c, err)
	}
}
