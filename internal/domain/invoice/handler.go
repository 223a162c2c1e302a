package invoice

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"trekmarket/internal/domain/booking"
	"trekmarket/internal/middleware"
	"trekmarket/internal/pkg/request"
	"trekmarket/internal/pkg/response"
)

// Source loads bookings the caller is allowed to see.
type Source interface {
	GetForCustomer(ctx context.Context, customerID, id int64) (*booking.Booking, error)
	GetForVendor(ctx context.Context, vendorID, id int64) (*booking.Booking, error)
	LedgerFor(ctx context.Context, b *booking.Booking) (*booking.Ledger, error)
}

type Handler struct {
	source Source
	now    func() time.Time
}

func NewHandler(source Source) *Handler {
	return &Handler{source: source, now: time.Now}
}

func (h *Handler) RegisterCustomerRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings/:id/invoice", h.Customer)
}

func (h *Handler) RegisterVendorRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings/:id/invoice", h.Vendor)
}

func (h *Handler) Customer(c *gin.Context) {
	h.serve(c, func(ctx context.Context, id int64) (*booking.Booking, error) {
		return h.source.GetForCustomer(ctx, middleware.CustomerID(c), id)
	})
}

func (h *Handler) Vendor(c *gin.Context) {
	h.serve(c, func(ctx context.Context, id int64) (*booking.Booking, error) {
		return h.source.GetForVendor(ctx, middleware.VendorID(c), id)
	})
}

func (h *Handler) serve(c *gin.Context, load func(context.Context, int64) (*booking.Booking, error)) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	b, err := load(ctx, id)
	if err != nil {
		booking.WriteError(c, err)
		return
	}
	l, err := h.source.LedgerFor(ctx, b)
	if err != nil {
		response.Internal(c, err)
		return
	}
	pdf, filename, err := Render(b, l, h.now())
	if err != nil {
		response.Internal(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
