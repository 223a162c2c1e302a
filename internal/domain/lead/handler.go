package lead

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trekmarket/internal/domain/identity"
	"trekmarket/internal/pkg/request"
	"trekmarket/internal/pkg/response"
)

// Handler serves operator applications: public submission and the admin
// pipeline.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SubmitLead handles POST /api/v1/vendor-leads
func (h *Handler) SubmitLead(c *gin.Context) {
	var req SubmitRequest
	if !request.BindJSON(c, &req) {
		return
	}
	l, err := h.service.Submit(c.Request.Context(), req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, l)
}

// ListLeads handles GET /api/admin/leads?status=
func (h *Handler) ListLeads(c *gin.Context) {
	page, limit := request.Pagination(c)
	items, total, err := h.service.List(c.Request.Context(), Status(c.Query("status")), limit, request.Offset(page, limit))
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Page{Items: items, Total: total, Page: page, Limit: limit})
}

func (h *Handler) GetLead(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	l, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !request.BindJSON(c, &req) {
		return
	}
	h.respond(c, id, h.service.UpdateStatus(c.Request.Context(), id, req))
}

func (h *Handler) AssignLead(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req AssignRequest
	if !request.BindJSON(c, &req) {
		return
	}
	h.respond(c, id, h.service.Assign(c.Request.Context(), id, req))
}

func (h *Handler) MarkContacted(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	h.respond(c, id, h.service.MarkContacted(c.Request.Context(), id))
}

func (h *Handler) RejectLead(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req RejectRequest
	if !request.BindJSON(c, &req) {
		return
	}
	h.respond(c, id, h.service.Reject(c.Request.Context(), id, req.Reason))
}

// ConvertLead handles POST /api/admin/leads/:id/convert and returns the new
// vendor.
func (h *Handler) ConvertLead(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req ConvertRequest
	if !request.BindJSON(c, &req) {
		return
	}
	v, err := h.service.Convert(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, v)
}

// respond returns the lead as stored after a successful change.
func (h *Handler) respond(c *gin.Context, id int64, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	l, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrLeadNotFound):
		response.Error(c, http.StatusNotFound, "LEAD_NOT_FOUND", err.Error())
	case errors.Is(err, ErrEmailExists), errors.Is(err, identity.ErrEmailTaken):
		response.Error(c, http.StatusConflict, "EMAIL_EXISTS", err.Error())
	case errors.Is(err, ErrAlreadyConverted):
		response.Error(c, http.StatusConflict, "LEAD_CONVERTED", err.Error())
	case errors.Is(err, ErrCannotConvert):
		response.Error(c, http.StatusConflict, "LEAD_NOT_CONVERTIBLE", err.Error())
	default:
		response.Internal(c, err)
	}
}
