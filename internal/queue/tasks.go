package queue

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/hibiken/asynq"
)

const (
	// TaskNotificationEmail 通知邮件投递任务
	TaskNotificationEmail = "notification:email"
)

// NotificationEmailPayload 通知邮件任务载荷
type NotificationEmailPayload struct {
	NotificationID uint   `json:"notification_id,omitempty"` // 关联的站内通知，用于回写邮件状态
	To             string `json:"to"`
	Subject        string `json:"subject"`
	HTML           string `json:"html"`
	Type           string `json:"type"` // 通知类型，用于指标
}

// NewNotificationEmailTask 创建通知邮件任务
func NewNotificationEmailTask(payload NotificationEmailPayload) (*asynq.Task, error) {
	if strings.TrimSpace(payload.To) == "" {
		return nil, errors.New("email receiver is required")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotificationEmail, body), nil
}

// ParseNotificationEmailPayload 解析通知邮件任务载荷
func ParseNotificationEmailPayload(task *asynq.Task) (NotificationEmailPayload, error) {
	var payload NotificationEmailPayload
	if task == nil {
		return payload, errors.New("task is nil")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	return payload, nil
}
