package handlers

import (
	"net/http"

	"studlance_backend/internal/middleware"
	"studlance_backend/internal/services"
	"studlance_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService *services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.POST("/:id/read", h.MarkAsRead)
		notifications.POST("/read-all", h.MarkAllAsRead)
		notifications.DELETE("", h.Clear)
	}
}

// List godoc
// @Summary Notification stream, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.NotificationListResponse
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	var query dto.NotificationListQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	recipientType := services.RecipientTypeForRole(middleware.GetUserRole(c))
	resp, err := h.notificationService.List(h.GetDB(c), userID, recipientType, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	recipientType := services.RecipientTypeForRole(middleware.GetUserRole(c))
	count, err := h.notificationService.UnreadCount(h.GetDB(c), userID, recipientType)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAsRead(h.GetDB(c), c.Param("id"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	recipientType := services.RecipientTypeForRole(middleware.GetUserRole(c))
	count, err := h.notificationService.MarkAllAsRead(h.GetDB(c), userID, recipientType)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked_count": count})
}

// Clear godoc
// @Summary Remove all of the caller's notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int64
// @Router /notifications [delete]
func (h *NotificationHandler) Clear(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	recipientType := services.RecipientTypeForRole(middleware.GetUserRole(c))
	count, err := h.notificationService.Clear(h.GetDB(c), userID, recipientType)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cleared_count": count})
}
