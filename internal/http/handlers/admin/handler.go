package admin

import (
	"strings"

	"github.com/krishi-setu/internal/http/handlers/shared"
	"github.com/krishi-setu/internal/http/response"
	"github.com/krishi-setu/internal/provider"
	"github.com/krishi-setu/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler 管理端接口处理器
type Handler struct {
	*provider.Container
}

// New 创建管理端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

// UpdateUserRequest 用户更新请求
type UpdateUserRequest struct {
	Role       *string `json:"role"`
	IsVerified *bool   `json:"is_verified"`
}

// ProductStatusRequest 商品状态请求
type ProductStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetStats 平台概览，refresh=true 时跳过缓存
func (h *Handler) GetStats(c *gin.Context) {
	forceRefresh := strings.EqualFold(strings.TrimSpace(c.Query("refresh")), "true")
	stats, err := h.AdminService.Stats(c.Request.Context(), forceRefresh)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	shared.Success(c, stats)
}

// GetRevenue 营收统计（week / month / year）
func (h *Handler) GetRevenue(c *gin.Context) {
	report, err := h.AdminService.Revenue(c.DefaultQuery("period", "month"))
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	shared.Success(c, report)
}

// ListUsers 用户列表
func (h *Handler) ListUsers(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	users, total, err := h.AdminService.ListUsers(page, pageSize, strings.TrimSpace(c.Query("role")), strings.TrimSpace(c.Query("search")))
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	shared.SuccessWithPage(c, users, page, pageSize, total)
}

// UpdateUser 修改用户角色或认证状态
func (h *Handler) UpdateUser(c *gin.Context) {
	actorID, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	userID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		shared.RespondError(c, response.CodeNotFound, "error.user_not_found", nil)
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	user, err := h.AdminService.UpdateUser(actorID, userID, service.AdminUpdateUserInput{
		Role:       req.Role,
		IsVerified: req.IsVerified,
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	shared.Success(c, user)
}

// DeleteUser 删除用户
func (h *Handler) DeleteUser(c *gin.Context) {
	actorID, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	userID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		shared.RespondError(c, response.CodeNotFound, "error.user_not_found", nil)
		return
	}
	if err := h.AdminService.DeleteUser(actorID, userID); err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	shared.Success(c, gin.H{"message": shared.T(c, "success.user_deleted")})
}

// ListOrders 全部订单，可按状态与订单号/顾客名检索
func (h *Handler) ListOrders(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	orders, total, err := h.AdminService.ListOrders(page, pageSize, strings.TrimSpace(c.Query("status")), strings.TrimSpace(c.Query("search")))
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	shared.SuccessWithPage(c, orders, page, pageSize, total)
}

// UpdateOrderStatus 管理员更新订单状态，可跳过中间状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	shared.UpdateOrderStatus(c, h.OrderService)
}

// ListProducts 全部商品
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	products, total, err := h.ProductService.AdminList(
		page,
		pageSize,
		strings.TrimSpace(c.Query("status")),
		strings.TrimSpace(c.Query("category")),
		strings.TrimSpace(c.Query("search")),
	)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	shared.SuccessWithPage(c, products, page, pageSize, total)
}

// SetProductStatus 上下架商品
func (h *Handler) SetProductStatus(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		shared.RespondError(c, response.CodeNotFound, "error.product_not_found", nil)
		return
	}
	var req ProductStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.product_status", nil)
		return
	}
	product, err := h.ProductService.AdminSetStatus(id, req.Status)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	shared.Success(c, product)
}

// DeleteProduct 删除任意商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		shared.RespondError(c, response.CodeNotFound, "error.product_not_found", nil)
		return
	}
	if err := h.ProductService.AdminDelete(id); err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	shared.Success(c, gin.H{"message": shared.T(c, "success.product_delete")})
}

// ListRolePolicies 当前角色权限矩阵
func (h *Handler) ListRolePolicies(c *gin.Context) {
	roles, err := h.AuthzService.ListRolePolicies()
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	shared.Success(c, roles)
}
