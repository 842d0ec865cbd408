package public

import (
	"strings"

	"github.com/krishi-setu/internal/http/handlers/shared"
	"github.com/krishi-setu/internal/http/response"
	"github.com/krishi-setu/internal/models"
	"github.com/krishi-setu/internal/service"
	"github.com/krishi-setu/internal/session"

	"github.com/gin-gonic/gin"
)

// PlaceOrderRequest 下单请求
type PlaceOrderRequest struct {
	DeliveryAddress     models.DeliveryAddress `json:"delivery_address" binding:"required"`
	PaymentMethod       string                 `json:"payment_method"`
	SpecialInstructions string                 `json:"special_instructions" binding:"max=500"`
}

// RateOrderRequest 订单评价请求
type RateOrderRequest struct {
	Score  int    `json:"score" binding:"required"`
	Review string `json:"review" binding:"max=1000"`
}

// PlaceOrder 使用会话购物车下单
func (h *Handler) PlaceOrder(c *gin.Context) {
	sess := session.Current(c)
	if sess != nil && len(sess.Data.Cart) == 0 {
		shared.RespondServiceError(c, service.ErrEmptyCart)
		return
	}
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RequestLog(c).Debugw("place_order_bind_failed", "error", err)
		shared.RespondError(c, response.CodeBadRequest, "error.address_invalid", nil)
		return
	}
	order, err := h.OrderService.PlaceOrder(sess, service.PlaceOrderInput{
		DeliveryAddress:     req.DeliveryAddress,
		PaymentMethod:       req.PaymentMethod,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	shared.SuccessCommitted(c, gin.H{
		"message":      shared.T(c, "success.order_placed"),
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"order":        order,
	})
}

// ListOrders 我的订单
func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	page, pageSize := shared.ParsePagination(c)
	orders, total, err := h.OrderService.ListMine(userID, page, pageSize, strings.TrimSpace(c.Query("status")))
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	shared.SuccessWithPage(c, orders, page, pageSize, total)
}

// GetOrder 我的订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	userID, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	orderID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		shared.RespondError(c, response.CodeNotFound, "error.order_not_found", nil)
		return
	}
	order, err := h.OrderService.GetMine(orderID, userID)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	shared.Success(c, order)
}

// RateOrder 评价已送达订单
func (h *Handler) RateOrder(c *gin.Context) {
	userID, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	orderID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		shared.RespondError(c, response.CodeNotFound, "error.order_not_found", nil)
		return
	}
	var req RateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.rating_invalid", nil)
		return
	}
	order, err := h.OrderService.Rate(orderID, userID, service.RateOrderInput{Score: req.Score, Review: req.Review})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	shared.Success(c, order)
}
