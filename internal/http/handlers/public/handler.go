package public

import "github.com/krishi-setu/internal/provider"

// Handler 前台接口处理器入口
// 说明：覆盖游客、顾客侧 API（商品浏览、购物车、下单、通知、个人资料）。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
