package service

import (
	"strings"
	"time"

	"github.com/krishi-setu/internal/config"
	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/logger"
	"github.com/krishi-setu/internal/metrics"
	"github.com/krishi-setu/internal/models"
	"github.com/krishi-setu/internal/repository"
	"github.com/krishi-setu/internal/session"

	"github.com/shopspring/decimal"
)

// AddCartItemInput 加购输入：有商品ID时以商品目录为准，否则使用客户端提交的自由文本
type AddCartItemInput struct {
	ProductID *uint
	Name      string
	Price     string
	Weight    string
	Image     string
	Category  string
}

// CartSummary 购物车汇总
type CartSummary struct {
	Items           []CartLineView `json:"items"`
	Count           int            `json:"count"`
	Subtotal        models.Money   `json:"subtotal"`
	DeliveryCharges models.Money   `json:"delivery_charges"`
	Total           models.Money   `json:"total"`
}

// CartLineView 购物车行（响应用）
type CartLineView struct {
	models.CartLine
	Key       string       `json:"key"`
	LineTotal models.Money `json:"line_total"`
}

// CartService 购物车服务，只修改会话中的购物车，不直接落库
type CartService struct {
	productRepo  repository.ProductRepository
	dedupeWindow time.Duration
	maxQuantity  int
	deliveryRule config.DeliveryRule
	metrics      *metrics.Metrics
	now          func() time.Time
}

// NewCartService 创建购物车服务
func NewCartService(productRepo repository.ProductRepository, cfg config.OrderConfig, m *metrics.Metrics) *CartService {
	return &CartService{
		productRepo:  productRepo,
		dedupeWindow: cfg.CartDedupeWindow(),
		maxQuantity:  cfg.MaxLineQuantity,
		deliveryRule: cfg.ResolveDeliveryRule(),
		metrics:      m,
		now:          time.Now,
	}
}

// AddItem 加入购物车，返回件数与是否实际加入。
// 同一行在拦截窗口内重复提交视为幂等，直接返回当前件数。
func (s *CartService) AddItem(sess *session.Session, input AddCartItemInput) (int, bool, error) {
	line, err := s.buildLine(input)
	if err != nil {
		return 0, false, err
	}
	key := line.Key()
	now := s.now()

	if last := sess.Data.LastAdd; last != nil && last.Key == key {
		elapsed := now.Sub(last.At)
		if elapsed >= 0 && elapsed < s.dedupeWindow {
			s.metrics.IncCartDuplicate()
			logger.Debugw("cart_add_duplicate_ignored", "session_id", sess.ID, "key", key, "elapsed_ms", elapsed.Milliseconds())
			return Count(sess.Data.Cart), false, nil
		}
	}
	sess.Data.LastAdd = &models.CartAddMark{Key: key, At: now}

	merged := false
	for i := range sess.Data.Cart {
		if sess.Data.Cart[i].Key() == key {
			// 合并时只加数量，单价与图片保持首次加购时的快照
			sess.Data.Cart[i].Quantity = s.capQuantity(sess.Data.Cart[i].Quantity + 1)
			merged = true
			break
		}
	}
	if !merged {
		line.Quantity = 1
		sess.Data.Cart = append(sess.Data.Cart, line)
	}
	sess.MarkDirty()
	return Count(sess.Data.Cart), true, nil
}

// UpdateQuantity 修改数量，quantity <= 0 时移除该行；行不存在时不做修改
func (s *CartService) UpdateQuantity(sess *session.Session, key string, quantity int) int {
	if quantity <= 0 {
		return s.RemoveItem(sess, key)
	}
	for i := range sess.Data.Cart {
		if sess.Data.Cart[i].Key() == key {
			sess.Data.Cart[i].Quantity = s.capQuantity(quantity)
			sess.MarkDirty()
			break
		}
	}
	return Count(sess.Data.Cart)
}

// RemoveItem 移除所有匹配的行
func (s *CartService) RemoveItem(sess *session.Session, key string) int {
	kept := sess.Data.Cart[:0]
	removed := false
	for _, line := range sess.Data.Cart {
		if line.Key() == key {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	sess.Data.Cart = kept
	if removed {
		sess.MarkDirty()
	}
	return Count(sess.Data.Cart)
}

// Count 购物车件数
func (s *CartService) Count(sess *session.Session) int {
	return Count(sess.Data.Cart)
}

// Clear 清空购物车
func (s *CartService) Clear(sess *session.Session) {
	sess.Data.Cart = []models.CartLine{}
	sess.Data.LastAdd = nil
	sess.MarkDirty()
}

// Summary 购物车明细与金额
func (s *CartService) Summary(sess *session.Session) CartSummary {
	lines := sess.Data.Cart
	views := make([]CartLineView, 0, len(lines))
	for _, line := range lines {
		views = append(views, CartLineView{CartLine: line, Key: line.Key(), LineTotal: line.LineTotal()})
	}
	subtotal := CalcSubtotal(lines)
	delivery := CalcDeliveryCharge(subtotal, s.deliveryRule)
	return CartSummary{
		Items:           views,
		Count:           Count(lines),
		Subtotal:        subtotal,
		DeliveryCharges: delivery,
		Total:           subtotal.Plus(delivery),
	}
}

// Count 购物车行数量之和
func Count(lines []models.CartLine) int {
	total := 0
	for _, line := range lines {
		total += line.Quantity
	}
	return total
}

func (s *CartService) capQuantity(quantity int) int {
	if s.maxQuantity > 0 && quantity > s.maxQuantity {
		return s.maxQuantity
	}
	return quantity
}

func (s *CartService) buildLine(input AddCartItemInput) (models.CartLine, error) {
	if input.ProductID != nil && *input.ProductID > 0 {
		product, err := s.productRepo.GetByID(*input.ProductID)
		if err != nil {
			return models.CartLine{}, err
		}
		if product == nil {
			return models.CartLine{}, ErrProductNotFound
		}
		if product.Status != constants.ProductStatusActive {
			return models.CartLine{}, ErrProductUnavailable
		}
		productID := product.ID
		farmerID := product.FarmerID
		return models.CartLine{
			ProductID: &productID,
			FarmerID:  &farmerID,
			Name:      product.Name,
			Price:     product.Price,
			Weight:    product.Unit,
			Image:     product.Image,
			Category:  product.Category,
		}, nil
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.CartLine{}, ErrCartItemNameRequired
	}
	price, err := decimal.NewFromString(strings.TrimSpace(input.Price))
	if err != nil || price.IsNegative() {
		return models.CartLine{}, ErrInvalidInput
	}
	return models.CartLine{
		Name:     name,
		Price:    models.NewMoneyFromDecimal(price),
		Weight:   strings.TrimSpace(input.Weight),
		Image:    strings.TrimSpace(input.Image),
		Category: strings.TrimSpace(input.Category),
	}, nil
}
