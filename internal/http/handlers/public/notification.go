package public

import (
	"github.com/krishi-setu/internal/http/handlers/shared"
	"github.com/krishi-setu/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListNotifications 站内通知列表与未读数
func (h *Handler) ListNotifications(c *gin.Context) {
	userID, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	list, err := h.NotificationService.List(userID)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	shared.Success(c, list)
}

// MarkNotificationRead 标记单条已读
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	userID, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		shared.RespondError(c, response.CodeNotFound, "error.notification_not_found", nil)
		return
	}
	if err := h.NotificationService.MarkRead(id, userID); err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	shared.Success(c, gin.H{"message": shared.T(c, "success.marked_read")})
}

// MarkAllNotificationsRead 全部标记已读
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	userID, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	updated, err := h.NotificationService.MarkAllRead(userID)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	shared.Success(c, gin.H{"message": shared.T(c, "success.all_marked"), "updated": updated})
}
