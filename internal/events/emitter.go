package events

import (
	"context"
	"strconv"
	"time"

	"github.com/krishi-setu/internal/config"
	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/logger"
	"github.com/krishi-setu/internal/models"
)

const publishTimeout = 5 * time.Second

// OrderPlacedPayload 下单事件
type OrderPlacedPayload struct {
	OrderID     uint     `json:"order_id"`
	OrderNumber string   `json:"order_number"`
	UserID      uint     `json:"user_id"`
	TotalAmount string   `json:"total_amount"`
	ItemCount   int      `json:"item_count"`
	FarmerIDs   []uint   `json:"farmer_ids"`
	Products    []string `json:"products"`
}

// OrderStatusChangedPayload 订单状态变更事件
type OrderStatusChangedPayload struct {
	OrderID     uint   `json:"order_id"`
	OrderNumber string `json:"order_number"`
	From        string `json:"from"`
	To          string `json:"to"`
	UpdatedBy   string `json:"updated_by"`
}

// LowStockPayload 低库存事件
type LowStockPayload struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	FarmerID  uint   `json:"farmer_id"`
	Stock     int    `json:"stock"`
	Unit      string `json:"unit"`
}

// Emitter 领域事件出口，发布失败只记日志，不影响主流程
type Emitter struct {
	publisher    Publisher
	orderTopic   string
	productTopic string
}

// NewEmitter 创建事件出口
func NewEmitter(publisher Publisher, cfg config.EventsConfig) *Emitter {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	orderTopic := cfg.OrderTopic
	if orderTopic == "" {
		orderTopic = "order_events"
	}
	productTopic := cfg.ProductTopic
	if productTopic == "" {
		productTopic = "product_events"
	}
	return &Emitter{publisher: publisher, orderTopic: orderTopic, productTopic: productTopic}
}

// OrderPlaced 发布下单事件
func (e *Emitter) OrderPlaced(order *models.Order, items []models.OrderItem) {
	if e == nil || order == nil {
		return
	}
	payload := OrderPlacedPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount.String(),
		ItemCount:   len(items),
	}
	seen := make(map[uint]struct{})
	for _, item := range items {
		payload.Products = append(payload.Products, item.Name)
		if item.FarmerID == nil {
			continue
		}
		if _, ok := seen[*item.FarmerID]; ok {
			continue
		}
		seen[*item.FarmerID] = struct{}{}
		payload.FarmerIDs = append(payload.FarmerIDs, *item.FarmerID)
	}
	e.publish(e.orderTopic, order.OrderNumber, constants.EventOrderPlaced, payload)
}

// OrderStatusChanged 发布订单状态变更事件
func (e *Emitter) OrderStatusChanged(order *models.Order, from, updatedBy string) {
	if e == nil || order == nil {
		return
	}
	e.publish(e.orderTopic, order.OrderNumber, constants.EventOrderStatusChanged, OrderStatusChangedPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		From:        from,
		To:          order.Status,
		UpdatedBy:   updatedBy,
	})
}

// ProductLowStock 发布低库存事件
func (e *Emitter) ProductLowStock(product *models.Product) {
	if e == nil || product == nil {
		return
	}
	e.publish(e.productTopic, strconv.FormatUint(uint64(product.ID), 10), constants.EventProductLowStock, LowStockPayload{
		ProductID: product.ID,
		Name:      product.Name,
		FarmerID:  product.FarmerID,
		Stock:     product.Stock,
		Unit:      product.Unit,
	})
}

func (e *Emitter) publish(topic, key, eventType string, payload interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	event := Event{Type: eventType, OccurredAt: time.Now(), Payload: payload}
	if err := e.publisher.Publish(ctx, topic, key, event); err != nil {
		logger.Warnw("event_publish_failed",
			"topic", topic,
			"event_type", eventType,
			"key", key,
			"error", err,
		)
	}
}
