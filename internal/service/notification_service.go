package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/logger"
	"github.com/krishi-setu/internal/metrics"
	"github.com/krishi-setu/internal/models"
	"github.com/krishi-setu/internal/queue"
	"github.com/krishi-setu/internal/repository"

	"github.com/hibiken/asynq"
)

// EmailSender 邮件发送接口
type EmailSender interface {
	Send(to, subject, html string) error
}

// EmailQueue 邮件任务入队接口
type EmailQueue interface {
	Enabled() bool
	EnqueueNotificationEmail(payload queue.NotificationEmailPayload, opts ...asynq.Option) error
}

// NotificationList 通知列表与未读数
type NotificationList struct {
	Items       []models.Notification `json:"notifications"`
	UnreadCount int64                 `json:"unread_count"`
}

// NotificationService 通知分发服务：站内通知落库，邮件尽力投递
type NotificationService struct {
	repo    repository.NotificationRepository
	email   EmailSender
	queue   EmailQueue
	metrics *metrics.Metrics
	appName string
	now     func() time.Time
}

// NewNotificationService 创建通知服务
func NewNotificationService(repo repository.NotificationRepository, email EmailSender, emailQueue EmailQueue, m *metrics.Metrics, appName string) *NotificationService {
	if strings.TrimSpace(appName) == "" {
		appName = "Krishi-Setu"
	}
	return &NotificationService{
		repo:    repo,
		email:   email,
		queue:   emailQueue,
		metrics: m,
		appName: appName,
		now:     time.Now,
	}
}

// OrderPlaced 通知顾客下单成功
func (s *NotificationService) OrderPlaced(order *models.Order, customer *models.User) error {
	orderID := order.ID
	record, err := s.createInApp(&models.Notification{
		UserID:  order.UserID,
		Type:    constants.NotificationTypeOrder,
		Title:   "Order Placed Successfully",
		Message: fmt.Sprintf("Your order #%s has been placed successfully. Total: ₹%s", order.OrderNumber, order.TotalAmount.Display()),
		Link:    fmt.Sprintf("/orders/%d", order.ID),
		OrderID: &orderID,
	})
	if customer != nil && customer.Notifications.Email {
		html, renderErr := renderEmail("order_placed", emailTemplateData{
			AppName:           s.appName,
			Name:              customer.Name,
			OrderNumber:       order.OrderNumber,
			Total:             order.TotalAmount.Display(),
			EstimatedDelivery: formatEstimatedDelivery(order.EstimatedDeliveryDate),
		})
		s.dispatchEmail(record, constants.NotificationTypeOrder, customer.Email, "Order Confirmation - "+s.appName, html, renderErr)
	}
	return err
}

// FarmerNewOrder 通知农户收到新订单
func (s *NotificationService) FarmerNewOrder(order *models.Order, farmer *models.User) error {
	if farmer == nil {
		return nil
	}
	orderID := order.ID
	record, err := s.createInApp(&models.Notification{
		UserID:  farmer.ID,
		Type:    constants.NotificationTypeOrder,
		Title:   "New Order Received",
		Message: fmt.Sprintf("You have received a new order #%s worth ₹%s", order.OrderNumber, order.TotalAmount.Display()),
		Link:    "/farmer-dashboard?tab=orders",
		OrderID: &orderID,
	})
	if farmer.Notifications.Email {
		html, renderErr := renderEmail("farmer_new_order", emailTemplateData{
			AppName:     s.appName,
			Name:        farmer.Name,
			OrderNumber: order.OrderNumber,
			Total:       order.TotalAmount.Display(),
			ItemCount:   len(order.Items),
		})
		s.dispatchEmail(record, constants.NotificationTypeOrder, farmer.Email, "New Order - "+s.appName, html, renderErr)
	}
	return err
}

// OrderStatusUpdate 通知顾客订单状态变化
func (s *NotificationService) OrderStatusUpdate(order *models.Order, customer *models.User, status string) error {
	message, ok := orderStatusMessages[status]
	if !ok {
		message = "Status updated"
	}
	orderID := order.ID
	record, err := s.createInApp(&models.Notification{
		UserID:  order.UserID,
		Type:    constants.NotificationTypeOrder,
		Title:   "Order " + statusTitle(status),
		Message: fmt.Sprintf("Order #%s: %s", order.OrderNumber, message),
		Link:    fmt.Sprintf("/orders/%d", order.ID),
		OrderID: &orderID,
	})
	if customer != nil && customer.Notifications.Email {
		emailMessage := message
		if !ok {
			emailMessage = "Your order status has been updated."
		}
		html, renderErr := renderEmail("order_status", emailTemplateData{
			AppName:        s.appName,
			Name:           customer.Name,
			OrderNumber:    order.OrderNumber,
			Message:        emailMessage,
			StatusLabel:    statusLabel(status),
			TrackingNumber: order.TrackingNumber,
		})
		s.dispatchEmail(record, constants.NotificationTypeOrder, customer.Email, "Order Update - "+order.OrderNumber, html, renderErr)
	}
	return err
}

// LowStock 通知农户库存不足（无邮件）
func (s *NotificationService) LowStock(product *models.Product, farmer *models.User) error {
	if product == nil || farmer == nil {
		return nil
	}
	productID := product.ID
	_, err := s.createInApp(&models.Notification{
		UserID:    farmer.ID,
		Type:      constants.NotificationTypeLowStock,
		Title:     "Low Stock Alert",
		Message:   fmt.Sprintf("%s is running low on stock. Current stock: %d %s", product.Name, product.Stock, product.Unit),
		Link:      "/farmer-dashboard?tab=myProducts",
		ProductID: &productID,
	})
	if err == nil {
		s.metrics.IncLowStockAlert()
	}
	return err
}

// List 最新通知与未读数
func (s *NotificationService) List(userID uint) (*NotificationList, error) {
	items, err := s.repo.List(repository.NotificationListFilter{
		UserID: userID,
		Limit:  constants.NotificationListLimit,
	})
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Notification{}
	}
	return &NotificationList{Items: items, UnreadCount: unread}, nil
}

// UnreadCount 未读数
func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	return s.repo.CountUnread(userID)
}

// MarkRead 标记已读，只能操作本人的通知
func (s *NotificationService) MarkRead(id, userID uint) error {
	found, err := s.repo.MarkRead(id, userID, s.now())
	if err != nil {
		return err
	}
	if !found {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead 标记本人全部通知已读
func (s *NotificationService) MarkAllRead(userID uint) (int64, error) {
	return s.repo.MarkAllRead(userID, s.now())
}

// DeliverEmail 投递邮件并回写投递状态（worker 与同步路径共用）
func (s *NotificationService) DeliverEmail(_ context.Context, payload queue.NotificationEmailPayload) error {
	if s.email == nil {
		s.markEmailStatus(payload.NotificationID, constants.NotificationStatusFailed)
		return ErrEmailServiceDisabled
	}
	err := s.email.Send(payload.To, payload.Subject, payload.HTML)
	status := constants.NotificationStatusSent
	result := "sent"
	if err != nil {
		status = constants.NotificationStatusFailed
		result = "failed"
	}
	s.metrics.IncNotification(payload.Type, constants.NotificationChannelEmail, result)
	s.markEmailStatus(payload.NotificationID, status)
	return err
}

func (s *NotificationService) markEmailStatus(notificationID uint, status string) {
	if notificationID == 0 {
		return
	}
	if err := s.repo.UpdateEmailStatus(notificationID, status); err != nil {
		logger.Warnw("notification_email_status_update_failed",
			"notification_id", notificationID,
			"status", status,
			"error", err,
		)
	}
}

func (s *NotificationService) createInApp(notification *models.Notification) (*models.Notification, error) {
	now := s.now()
	notification.Channel = constants.NotificationChannelInApp
	notification.DeliveryStatus = constants.NotificationStatusSent
	notification.SentAt = &now
	if err := s.repo.Create(notification); err != nil {
		s.metrics.IncNotification(notification.Type, constants.NotificationChannelInApp, "failed")
		logger.Warnw("notification_create_failed",
			"user_id", notification.UserID,
			"type", notification.Type,
			"title", notification.Title,
			"error", err,
		)
		return nil, err
	}
	s.metrics.IncNotification(notification.Type, constants.NotificationChannelInApp, "sent")
	return notification, nil
}

// dispatchEmail 邮件与站内通知互不影响：入队或同步发送失败只记日志
func (s *NotificationService) dispatchEmail(record *models.Notification, notificationType, to, subject, html string, renderErr error) {
	if renderErr != nil {
		logger.Warnw("notification_email_render_failed", "subject", subject, "error", renderErr)
		return
	}
	if strings.TrimSpace(to) == "" {
		return
	}
	queued := s.queue != nil && s.queue.Enabled()
	if !queued && s.email == nil {
		// 未配置邮件通道，不写投递状态
		logger.Debugw("notification_email_skip_disabled", "to", to, "subject", subject)
		return
	}
	payload := queue.NotificationEmailPayload{
		To:      to,
		Subject: subject,
		HTML:    html,
		Type:    notificationType,
	}
	if record != nil {
		payload.NotificationID = record.ID
		s.markEmailStatus(record.ID, constants.NotificationStatusPending)
	}

	if queued {
		if err := s.queue.EnqueueNotificationEmail(payload); err != nil {
			s.metrics.IncNotification(notificationType, constants.NotificationChannelEmail, "failed")
			s.markEmailStatus(payload.NotificationID, constants.NotificationStatusFailed)
			logger.Warnw("notification_email_enqueue_failed", "to", to, "subject", subject, "error", err)
		}
		return
	}
	if err := s.DeliverEmail(context.Background(), payload); err != nil {
		logger.Warnw("notification_dispatch_failed",
			"channel", constants.NotificationChannelEmail,
			"to", to,
			"subject", subject,
			"error", err,
		)
	}
}

func formatEstimatedDelivery(at time.Time) string {
	if at.IsZero() {
		return "5-7 business days"
	}
	return at.Format("02/01/2006")
}
