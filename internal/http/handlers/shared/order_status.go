package shared

import (
	"github.com/krishi-setu/internal/http/response"
	"github.com/krishi-setu/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 订单状态更新请求
type UpdateOrderStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"tracking_number"`
	Note           string `json:"note" binding:"max=500"`
}

// UpdateOrderStatus 农户端与管理端共用的订单状态更新流程，权限由 service 按角色判定
func UpdateOrderStatus(c *gin.Context, orders *service.OrderService) {
	userID, ok := GetUserID(c)
	if !ok {
		return
	}
	orderID, ok := ParseIDParam(c, "id")
	if !ok {
		RespondError(c, response.CodeNotFound, "error.order_not_found", nil)
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, response.CodeBadRequest, "error.order_status_invalid", nil)
		return
	}
	order, err := orders.UpdateStatus(orderID, service.StatusActor{
		UserID: userID,
		Role:   GetUserRole(c),
	}, service.UpdateStatusInput{
		Status:         req.Status,
		TrackingNumber: req.TrackingNumber,
		Note:           req.Note,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	Success(c, order)
}
