package notification

import "github.com/gin-gonic/gin"

// RegisterCustomerRoutes mounts the inbox on a customer-authenticated group.
func (h *Handler) RegisterCustomerRoutes(rg *gin.RouterGroup) {
	notifGroup := rg.Group("/notifications")
	{
		notifGroup.GET("", h.GetNotifications)
		notifGroup.GET("/unread-count", h.GetUnreadCount)
		notifGroup.PATCH("/:id/read", h.MarkAsRead)
		notifGroup.POST("/read-all", h.MarkAllAsRead)
		notifGroup.DELETE("/:id", h.DeleteNotification)
	}
}
