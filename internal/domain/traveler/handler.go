package traveler

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

func (h *Handler) RegisterCustomerRoutes(rg *gin.RouterGroup) {
	rg.GET("/travelers", h.List)
	rg.POST("/travelers", h.Create)
	rg.GET("/travelers/:id", h.Get)
	rg.PUT("/travelers/:id", h.Update)
	rg.DELETE("/travelers/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), middleware.CustomerID(c))
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	t, err := h.service.Get(c.Request.Context(), middleware.CustomerID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

func (h *Handler) Create(c *gin.Context) {
	var req TravelerRequest
	if !request.BindJSON(c, &req) {
		return
	}
	t, err := h.service.Create(c.Request.Context(), middleware.CustomerID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, t)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	var req TravelerRequest
	if !request.BindJSON(c, &req) {
		return
	}
	t, err := h.service.Update(c.Request.Context(), middleware.CustomerID(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.CustomerID(c), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "TRAVELER_NOT_FOUND", err.Error())
	case errors.Is(err, ErrTravelerInUse):
		response.Error(c, http.StatusConflict, "TRAVELER_IN_USE", err.Error())
	case errors.Is(err, ErrTravelerExists):
		response.Error(c, http.StatusConflict, "TRAVELER_EXISTS", err.Error())
	default:
		response.Internal(c, err)
	}
}
