package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/krishi-setu/internal/config"
	"github.com/krishi-setu/internal/logger"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = "default"
	// NotificationQueue 通知邮件队列
	NotificationQueue = "notifications"

	// 邮件尽力投递，失败只记录状态不重试
	notificationEmailMaxRetry = 0
	notificationEmailTimeout  = 30 * time.Second
)

type taskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// Client 队列客户端；未启用时所有投递为空操作
type Client struct {
	enqueuer taskEnqueuer
}

// NewClient 创建队列客户端，未启用时返回禁用态客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{enqueuer: asynq.NewClient(buildRedisOpt(cfg))}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enqueuer != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.enqueuer.Close()
}

// EnqueueNotificationEmail 推送通知邮件任务；同一条站内通知只会入队一次
func (c *Client) EnqueueNotificationEmail(payload NotificationEmailPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewNotificationEmailTask(payload)
	if err != nil {
		return err
	}
	options := []asynq.Option{
		asynq.Queue(NotificationQueue),
		asynq.MaxRetry(notificationEmailMaxRetry),
		asynq.Timeout(notificationEmailTimeout),
	}
	if payload.NotificationID > 0 {
		options = append(options, asynq.TaskID(notificationEmailTaskID(payload.NotificationID)))
	}
	options = append(options, opts...)
	if _, err := c.enqueuer.Enqueue(task, options...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			logger.Debugw("queue_notification_email_duplicate", "notification_id", payload.NotificationID)
			return nil
		}
		return err
	}
	return nil
}

func notificationEmailTaskID(notificationID uint) string {
	return fmt.Sprintf("notification-email-%d", notificationID)
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	concurrency := 10
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{NotificationQueue: 10, DefaultQueue: 1}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return buildRedisOpt(cfg), asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
			logger.Warnw("queue_task_failed", "type", task.Type(), "error", err)
		}),
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
