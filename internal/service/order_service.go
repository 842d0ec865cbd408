package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/krishi-setu/internal/config"
	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/events"
	"github.com/krishi-setu/internal/logger"
	"github.com/krishi-setu/internal/metrics"
	"github.com/krishi-setu/internal/models"
	"github.com/krishi-setu/internal/repository"
	"github.com/krishi-setu/internal/session"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo         repository.OrderRepository
	productRepo       repository.ProductRepository
	userRepo          repository.UserRepository
	sequenceRepo      repository.OrderSequenceRepository
	notifier          *NotificationService
	emitter           *events.Emitter
	metrics           *metrics.Metrics
	deliveryRule      config.DeliveryRule
	lowStockThreshold int
	deliveryDays      int
	now               func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, userRepo repository.UserRepository, sequenceRepo repository.OrderSequenceRepository, notifier *NotificationService, emitter *events.Emitter, cfg config.OrderConfig, m *metrics.Metrics) *OrderService {
	lowStock := cfg.LowStockThreshold
	if lowStock <= 0 {
		lowStock = 10
	}
	days := cfg.EstimatedDeliveryDays
	if days <= 0 {
		days = 7
	}
	return &OrderService{
		orderRepo:         orderRepo,
		productRepo:       productRepo,
		userRepo:          userRepo,
		sequenceRepo:      sequenceRepo,
		notifier:          notifier,
		emitter:           emitter,
		metrics:           m,
		deliveryRule:      cfg.ResolveDeliveryRule(),
		lowStockThreshold: lowStock,
		deliveryDays:      days,
		now:               time.Now,
	}
}

// PlaceOrderInput 下单输入
type PlaceOrderInput struct {
	DeliveryAddress     models.DeliveryAddress
	PaymentMethod       string
	SpecialInstructions string
}

var validPaymentMethods = map[string]bool{
	constants.PaymentMethodCOD:    true,
	constants.PaymentMethodUPI:    true,
	constants.PaymentMethodCard:   true,
	constants.PaymentMethodOnline: true,
}

var validAddressTypes = map[string]bool{
	constants.AddressTypeHome:  true,
	constants.AddressTypeWork:  true,
	constants.AddressTypeOther: true,
}

// CalcSubtotal 商品小计 = Σ 单价 × 数量
func CalcSubtotal(lines []models.CartLine) models.Money {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Price.Mul(line.Quantity).Decimal)
	}
	return models.NewMoneyFromDecimal(total)
}

// CalcDeliveryCharge 小计达到门槛免运费，否则收取固定运费
func CalcDeliveryCharge(subtotal models.Money, rule config.DeliveryRule) models.Money {
	if subtotal.GreaterThanOrEqual(rule.FreeThreshold) {
		return models.NewMoneyFromInt(0)
	}
	return models.NewMoneyFromDecimal(rule.FlatCharge)
}

// PlaceOrder 将会话购物车转换为订单。
// 订单落库后的清空购物车、通知、扣减库存均为尽力而为，失败只记日志。
func (s *OrderService) PlaceOrder(sess *session.Session, input PlaceOrderInput) (*models.Order, error) {
	if !sess.LoggedIn() {
		return nil, ErrForbidden
	}
	if len(sess.Data.Cart) == 0 || Count(sess.Data.Cart) == 0 {
		return nil, ErrEmptyCart
	}
	address, err := normalizeDeliveryAddress(input.DeliveryAddress)
	if err != nil {
		return nil, err
	}
	paymentMethod := strings.ToLower(strings.TrimSpace(input.PaymentMethod))
	if paymentMethod == "" {
		paymentMethod = constants.PaymentMethodCOD
	}
	if !validPaymentMethods[paymentMethod] {
		return nil, ErrPaymentMethodInvalid
	}

	lines := append([]models.CartLine(nil), sess.Data.Cart...)
	items := buildOrderItems(lines)
	subtotal := CalcSubtotal(lines)
	deliveryCharges := CalcDeliveryCharge(subtotal, s.deliveryRule)
	now := s.now()

	order := &models.Order{
		UserID:                sess.Data.UserID,
		UserName:              sess.Data.Name,
		UserEmail:             sess.Data.Email,
		Subtotal:              subtotal,
		DeliveryCharges:       deliveryCharges,
		Discount:              models.NewMoneyFromInt(0),
		TotalAmount:           subtotal.Plus(deliveryCharges),
		Status:                constants.OrderStatusPending,
		DeliveryAddress:       address,
		PaymentMethod:         paymentMethod,
		PaymentStatus:         constants.PaymentStatusPending,
		SpecialInstructions:   strings.TrimSpace(input.SpecialInstructions),
		OrderDate:             now,
		EstimatedDeliveryDate: now.AddDate(0, 0, s.deliveryDays),
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	farmer := s.resolveRepresentativeFarmer(lines)
	if farmer != nil {
		farmerID := farmer.ID
		order.FarmerID = &farmerID
		order.FarmerName = farmer.Name
	}
	history := models.OrderStatusHistory{
		Status:    constants.OrderStatusPending,
		UpdatedBy: constants.HistoryActorSystem,
		Note:      "Order placed successfully",
		Timestamp: now,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		seq, err := s.sequenceRepo.WithTx(tx).Next(constants.OrderSequenceName)
		if err != nil {
			return err
		}
		order.OrderNumber = formatOrderNumber(now, seq)
		return s.orderRepo.WithTx(tx).Create(order, items, history)
	})
	if err != nil {
		logger.Errorw("order_create_failed", "user_id", order.UserID, "item_count", len(items), "error", err)
		return nil, ErrOrderPersistence
	}
	s.metrics.IncOrdersPlaced()
	logger.Infow("order_placed",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"user_id", order.UserID,
		"total", order.TotalAmount.String(),
	)

	sess.Data.Cart = []models.CartLine{}
	sess.Data.LastAdd = nil
	sess.MarkDirty()

	s.notifyOrderPlaced(order, farmer)
	s.emitter.OrderPlaced(order, order.Items)
	s.decrementStock(order.Items)
	return order, nil
}

func (s *OrderService) notifyOrderPlaced(order *models.Order, farmer *models.User) {
	if s.notifier == nil {
		return
	}
	customer, err := s.userRepo.GetByID(order.UserID)
	if err != nil {
		logger.Warnw("order_notify_customer_lookup_failed", "order_id", order.ID, "error", err)
	}
	customerNotified := true
	if err := s.notifier.OrderPlaced(order, customer); err != nil {
		customerNotified = false
		logger.Warnw("order_notify_customer_failed", "order_id", order.ID, "error", err)
	}
	farmerNotified := false
	if farmer != nil {
		farmerNotified = true
		if err := s.notifier.FarmerNewOrder(order, farmer); err != nil {
			farmerNotified = false
			logger.Warnw("order_notify_farmer_failed", "order_id", order.ID, "farmer_id", farmer.ID, "error", err)
		}
	}
	if !customerNotified && !farmerNotified {
		return
	}
	if err := s.orderRepo.MarkNotified(order.ID, customerNotified, farmerNotified); err != nil {
		logger.Warnw("order_mark_notified_failed", "order_id", order.ID, "error", err)
		return
	}
	order.CustomerNotified = customerNotified
	order.FarmerNotified = farmerNotified
}

// decrementStock 扣减库存，库存落入 (0, 阈值) 时提醒农户；售罄不提醒
func (s *OrderService) decrementStock(items []models.OrderItem) {
	for _, item := range items {
		if item.ProductID == nil {
			continue
		}
		product, err := s.productRepo.DecrementStock(*item.ProductID, item.Quantity)
		if err != nil {
			logger.Warnw("order_stock_decrement_failed", "product_id", *item.ProductID, "quantity", item.Quantity, "error", err)
			continue
		}
		if product == nil {
			continue
		}
		if product.Stock <= 0 || product.Stock >= s.lowStockThreshold {
			continue
		}
		s.emitter.ProductLowStock(product)
		if s.notifier == nil {
			continue
		}
		farmer, err := s.userRepo.GetByID(product.FarmerID)
		if err != nil || farmer == nil {
			logger.Warnw("order_low_stock_farmer_lookup_failed", "product_id", product.ID, "farmer_id", product.FarmerID, "error", err)
			continue
		}
		if err := s.notifier.LowStock(product, farmer); err != nil {
			logger.Warnw("order_low_stock_notify_failed", "product_id", product.ID, "error", err)
		}
	}
}

// resolveRepresentativeFarmer 取首个可识别农户的购物车行作为订单的代表农户
func (s *OrderService) resolveRepresentativeFarmer(lines []models.CartLine) *models.User {
	for _, line := range lines {
		farmerID := uint(0)
		switch {
		case line.FarmerID != nil:
			farmerID = *line.FarmerID
		case line.ProductID != nil:
			product, err := s.productRepo.GetByID(*line.ProductID)
			if err != nil || product == nil {
				continue
			}
			farmerID = product.FarmerID
		}
		if farmerID == 0 {
			continue
		}
		farmer, err := s.userRepo.GetByID(farmerID)
		if err != nil {
			logger.Warnw("order_farmer_lookup_failed", "farmer_id", farmerID, "error", err)
			continue
		}
		if farmer != nil {
			return farmer
		}
	}
	return nil
}

func buildOrderItems(lines []models.CartLine) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		items = append(items, models.OrderItem{
			ProductID:  line.ProductID,
			FarmerID:   line.FarmerID,
			Name:       line.Name,
			Price:      line.Price,
			Quantity:   line.Quantity,
			TotalPrice: line.LineTotal(),
			Weight:     line.Weight,
			Image:      line.Image,
			Category:   line.Category,
		})
	}
	return items
}

func normalizeDeliveryAddress(address models.DeliveryAddress) (models.DeliveryAddress, error) {
	address.FullName = strings.TrimSpace(address.FullName)
	address.Phone = strings.TrimSpace(address.Phone)
	address.Address = strings.TrimSpace(address.Address)
	address.Landmark = strings.TrimSpace(address.Landmark)
	address.City = strings.TrimSpace(address.City)
	address.State = strings.TrimSpace(address.State)
	address.Pincode = strings.TrimSpace(address.Pincode)
	address.Type = strings.ToLower(strings.TrimSpace(address.Type))
	if address.Type == "" {
		address.Type = constants.AddressTypeHome
	}
	if address.FullName == "" || address.Phone == "" || address.Address == "" ||
		address.City == "" || address.State == "" || address.Pincode == "" {
		return address, ErrDeliveryAddressInvalid
	}
	if !validAddressTypes[address.Type] {
		return address, ErrDeliveryAddressInvalid
	}
	return address, nil
}

// formatOrderNumber ORD + 毫秒时间戳 + 4 位序列
func formatOrderNumber(now time.Time, seq int64) string {
	return fmt.Sprintf("%s%d%0*d", constants.OrderNumberPrefix, now.UnixMilli(), constants.OrderSequenceDigits, seq)
}
