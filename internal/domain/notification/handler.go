package notification

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

// ListResponse is a page of notifications plus the unread counter.
type ListResponse struct {
	response.Page
	UnreadCount int64 `json:"unread_count"`
}

// GetNotifications lists the customer's inbox, newest first. ?unread=true
// narrows it to unread entries.
func (h *Handler) GetNotifications(c *gin.Context) {
	page, limit := request.Pagination(c)
	unreadOnly := c.Query("unread") == "true"

	items, total, unread, err := h.service.List(c.Request.Context(), middleware.CustomerID(c), unreadOnly, limit, request.Offset(page, limit))
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, ListResponse{
		Page:        response.Page{Items: items, Total: total, Page: page, Limit: limit},
		UnreadCount: unread,
	})
}

func (h *Handler) GetUnreadCount(c *gin.Context) {
	unread, err := h.service.UnreadCount(c.Request.Context(), middleware.CustomerID(c))
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unread_count": unread})
}

func (h *Handler) MarkAsRead(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.MarkAsRead(c.Request.Context(), middleware.CustomerID(c), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "is_read": true})
}

func (h *Handler) MarkAllAsRead(c *gin.Context) {
	n, err := h.service.MarkAllAsRead(c.Request.Context(), middleware.CustomerID(c))
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": n})
}

func (h *Handler) DeleteNotification(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.CustomerID(c), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func writeError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotificationNotFound) {
		response.Error(c, http.StatusNotFound, "NOTIFICATION_NOT_FOUND", err.Error())
		return
	}
	response.Internal(c, err)
}
