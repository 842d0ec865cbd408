package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/krishi-setu/internal/logger"
	"github.com/krishi-setu/internal/provider"
	"github.com/krishi-setu/internal/queue"
	"github.com/krishi-setu/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskNotificationEmail, c.handleNotificationEmail)
}

func (c *Consumer) handleNotificationEmail(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_notification_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseNotificationEmailPayload(task)
	if err != nil {
		logger.Warnw("worker_notification_email_unmarshal_failed", "error", err)
		return err
	}
	if strings.TrimSpace(payload.To) == "" {
		logger.Debugw("worker_notification_email_skip_empty_receiver", "notification_id", payload.NotificationID)
		return nil
	}
	if c.NotificationService == nil {
		logger.Warnw("worker_notification_email_skip_service_nil", "notification_id", payload.NotificationID)
		return nil
	}
	if err := c.NotificationService.DeliverEmail(ctx, payload); err != nil {
		if errors.Is(err, service.ErrEmailServiceDisabled) {
			// 邮件未配置时重试没有意义
			logger.Debugw("worker_notification_email_skip_disabled", "notification_id", payload.NotificationID)
			return nil
		}
		logger.Warnw("worker_notification_email_send_failed",
			"notification_id", payload.NotificationID,
			"receiver_email", payload.To,
			"type", payload.Type,
			"error", err,
		)
		// 投递状态已记为 failed，任务直接归档
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	return nil
}
