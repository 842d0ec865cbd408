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

// AddToCartRequest 加购请求；有 product_id 时以商品目录为准
type AddToCartRequest struct {
	ProductID *uint  `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Weight    string `json:"weight"`
	Image     string `json:"image"`
	Category  string `json:"category"`
}

// CartLineRequest 定位购物车行：优先 key，其次 product_id，最后 name
type CartLineRequest struct {
	Key       string `json:"key"`
	ProductID *uint  `json:"product_id"`
	Name      string `json:"name"`
}

// UpdateCartRequest 修改数量请求
type UpdateCartRequest struct {
	CartLineRequest
	Quantity int `json:"quantity"`
}

func (r CartLineRequest) lineKey() string {
	if key := strings.TrimSpace(r.Key); key != "" {
		return key
	}
	return models.CartLineKey(r.ProductID, r.Name)
}

// GetCart 购物车明细
func (h *Handler) GetCart(c *gin.Context) {
	shared.Success(c, h.CartService.Summary(session.Current(c)))
}

// GetCartCount 购物车件数
func (h *Handler) GetCartCount(c *gin.Context) {
	shared.Success(c, gin.H{"cart_count": h.CartService.Count(session.Current(c))})
}

// AddToCart 加入购物车
func (h *Handler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	count, added, err := h.CartService.AddItem(session.Current(c), service.AddCartItemInput{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		Weight:    req.Weight,
		Image:     req.Image,
		Category:  req.Category,
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	shared.Success(c, gin.H{
		"cart_count": count,
		"duplicate":  !added,
	})
}

// UpdateCart 修改数量，数量为 0 时移除
func (h *Handler) UpdateCart(c *gin.Context) {
	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	sess := session.Current(c)
	h.CartService.UpdateQuantity(sess, req.lineKey(), req.Quantity)
	shared.Success(c, h.CartService.Summary(sess))
}

// RemoveFromCart 移除购物车行
func (h *Handler) RemoveFromCart(c *gin.Context) {
	var req CartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	sess := session.Current(c)
	h.CartService.RemoveItem(sess, req.lineKey())
	shared.Success(c, h.CartService.Summary(sess))
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	h.CartService.Clear(session.Current(c))
	shared.Success(c, gin.H{"message": shared.T(c, "success.cart_cleared"), "cart_count": 0})
}
