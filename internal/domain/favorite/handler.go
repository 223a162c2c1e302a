package favorite

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trekmarket/internal/domain/trek"
	"trekmarket/internal/middleware"
	"trekmarket/internal/pkg/request"
	"trekmarket/internal/pkg/response"
)

// Handler serves the customer wishlist.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetFavorites(c *gin.Context) {
	page, limit := request.Pagination(c)
	items, total, err := h.service.List(c.Request.Context(), middleware.CustomerID(c), limit, request.Offset(page, limit))
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Page{Items: items, Total: total, Page: page, Limit: limit})
}

func (h *Handler) AddFavorite(c *gin.Context) {
	trekID, ok := request.ParamID(c, "trekId")
	if !ok {
		return
	}
	f, err := h.service.Add(c.Request.Context(), middleware.CustomerID(c), trekID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, f)
}

func (h *Handler) RemoveFavorite(c *gin.Context) {
	trekID, ok := request.ParamID(c, "trekId")
	if !ok {
		return
	}
	if err := h.service.Remove(c.Request.Context(), middleware.CustomerID(c), trekID); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": true})
}

func (h *Handler) CheckFavorite(c *gin.Context) {
	trekID, ok := request.ParamID(c, "trekId")
	if !ok {
		return
	}
	fav, err := h.service.IsFavorite(c.Request.Context(), middleware.CustomerID(c), trekID)
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"trek_id": trekID, "is_favorite": fav})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, trek.ErrTrekNotFound):
		response.Error(c, http.StatusNotFound, "TREK_NOT_FOUND", err.Error())
	case errors.Is(err, ErrNotFavorite):
		response.Error(c, http.StatusNotFound, "NOT_FAVORITE", err.Error())
	case errors.Is(err, ErrAlreadyFavorite):
		response.Error(c, http.StatusConflict, "ALREADY_FAVORITE", err.Error())
	default:
		response.Internal(c, err)
	}
}
