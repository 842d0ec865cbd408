package public

import (
	"strings"

	"github.com/krishi-setu/internal/http/handlers/shared"
	"github.com/krishi-setu/internal/http/response"
	"github.com/krishi-setu/internal/service"

	"github.com/gin-gonic/gin"
)

// ListProducts 公开商品列表，支持分类、关键字、价格区间、农户与排序筛选
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	inStock := strings.EqualFold(strings.TrimSpace(c.Query("in_stock")), "true")
	products, total, err := h.ProductService.ListPublic(service.ProductQuery{
		Page:       page,
		PageSize:   pageSize,
		Category:   strings.TrimSpace(c.Query("category")),
		Search:     strings.TrimSpace(c.Query("search")),
		MinPrice:   c.Query("min_price"),
		MaxPrice:   c.Query("max_price"),
		FarmerName: strings.TrimSpace(c.Query("farmer")),
		InStock:    inStock,
		SortBy:     strings.TrimSpace(c.Query("sort")),
	})
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	shared.SuccessWithPage(c, products, page, pageSize, total)
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		shared.RespondError(c, response.CodeNotFound, "error.product_not_found", nil)
		return
	}
	product, err := h.ProductService.GetPublic(id)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	shared.Success(c, product)
}
