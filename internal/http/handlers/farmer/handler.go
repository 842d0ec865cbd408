package farmer

import (
	"strings"

	"github.com/krishi-setu/internal/http/handlers/shared"
	"github.com/krishi-setu/internal/http/response"
	"github.com/krishi-setu/internal/provider"
	"github.com/krishi-setu/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler 农户端接口处理器
type Handler struct {
	*provider.Container
}

// New 创建农户端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

// ProductRequest 商品发布/编辑请求
type ProductRequest struct {
	Name          string `json:"name" binding:"required,max=120"`
	Category      string `json:"category" binding:"required"`
	Price         string `json:"price" binding:"required"`
	OriginalPrice string `json:"original_price"`
	Stock         int    `json:"stock" binding:"min=0"`
	Unit          string `json:"unit"`
	Image         string `json:"image"`
	Description   string `json:"description" binding:"max=2000"`
	Status        string `json:"status"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:          r.Name,
		Category:      r.Category,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Stock:         r.Stock,
		Unit:          r.Unit,
		Image:         r.Image,
		Description:   r.Description,
		Status:        r.Status,
	}
}

// ListProducts 我的商品
func (h *Handler) ListProducts(c *gin.Context) {
	farmerID, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	products, err := h.ProductService.ListMine(farmerID)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	shared.Success(c, products)
}

// CreateProduct 发布商品
func (h *Handler) CreateProduct(c *gin.Context) {
	farmerID, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.product_invalid", nil)
		return
	}
	farmer, err := h.AuthService.GetUser(farmerID)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	product, err := h.ProductService.Create(farmer, req.toInput())
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	shared.Success(c, product)
}

// UpdateProduct 编辑商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	farmerID, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		shared.RespondError(c, response.CodeNotFound, "error.product_not_found", nil)
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.product_invalid", nil)
		return
	}
	product, err := h.ProductService.Update(id, farmerID, req.toInput())
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	shared.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	farmerID, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		shared.RespondError(c, response.CodeNotFound, "error.product_not_found", nil)
		return
	}
	if err := h.ProductService.Delete(id, farmerID); err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	shared.Success(c, gin.H{"message": shared.T(c, "success.product_delete")})
}

// ListOrders 包含我商品的订单，仅展示我的订单项
func (h *Handler) ListOrders(c *gin.Context) {
	farmerID, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	page, pageSize := shared.ParsePagination(c)
	orders, total, err := h.OrderService.ListForFarmer(farmerID, page, pageSize, strings.TrimSpace(c.Query("status")))
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	shared.SuccessWithPage(c, orders, page, pageSize, total)
}

// UpdateOrderStatus 推进订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	shared.UpdateOrderStatus(c, h.OrderService)
}
