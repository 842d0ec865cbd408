package models

import (
	"strconv"
	"strings"
	"time"
)

// CartLine 购物车行（仅存在于会话中，不落库）
type CartLine struct {
	ProductID *uint  `json:"product_id,omitempty"` // 商品ID，旧版自由文本商品为空
	FarmerID  *uint  `json:"farmer_id,omitempty"`  // 商品所属农户
	Name      string `json:"name"`                 // 商品名称
	Price     Money  `json:"price"`                // 加购时单价快照
	Weight    string `json:"weight"`               // 规格/单位
	Image     string `json:"image"`
	Category  string `json:"category"`
	Quantity  int    `json:"quantity"`
}

// Key 购物车行标识：有商品ID时使用商品ID，否则退回商品名称
func (l CartLine) Key() string {
	return CartLineKey(l.ProductID, l.Name)
}

// LineTotal 行小计
func (l CartLine) LineTotal() Money {
	return l.Price.Mul(l.Quantity)
}

// CartLineKey 生成购物车行标识
func CartLineKey(productID *uint, name string) string {
	if productID != nil && *productID > 0 {
		return "id:" + strconv.FormatUint(uint64(*productID), 10)
	}
	return "name:" + strings.TrimSpace(name)
}

// CartAddMark 最近一次加购记录，用于拦截重复提交
type CartAddMark struct {
	Key string    `json:"key"`
	At  time.Time `json:"at"`
}
