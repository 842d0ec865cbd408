package queue

import (
	"errors"
	"testing"

	"github.com/krishi-setu/internal/config"

	"github.com/hibiken/asynq"
)

func TestNotificationEmailTaskRoundTrip(t *testing.T) {
	task, err := NewNotificationEmailTask(NotificationEmailPayload{
		NotificationID: 12,
		To:             "asha@example.com",
		Subject:        "Order Confirmation - Krishi-Setu",
		HTML:           "<p>ok</p>",
	})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskNotificationEmail {
		t.Fatalf("unexpected task type %s", task.Type())
	}
	payload, err := ParseNotificationEmailPayload(task)
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.NotificationID != 12 || payload.To != "asha@example.com" {
		t.Fatalf("unexpected payload: %+v", payload)
	}

	if _, err := NewNotificationEmailTask(NotificationEmailPayload{To: "  "}); err == nil {
		t.Fatalf("empty receiver should be rejected")
	}
}

func TestDisabledClientIsNoop(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueNotificationEmail(NotificationEmailPayload{To: "a@b.c"}); err != nil {
		t.Fatalf("disabled enqueue should be noop, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close disabled client failed: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: " redis ", Port: 6380, DB: 2})
	if opt.Addr != "redis:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
	if cfg.Concurrency != 10 || cfg.Queues[NotificationQueue] != 10 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
	if cfg.RetryDelayFunc != nil {
		t.Fatalf("notification tasks are not retried, no retry delay expected")
	}
}

type recordingEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (r *recordingEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	r.tasks = append(r.tasks, task)
	r.opts = append(r.opts, opts)
	if r.err != nil {
		return nil, r.err
	}
	return &asynq.TaskInfo{ID: "x"}, nil
}

func (r *recordingEnqueuer) Close() error { return nil }

func TestEnqueueNotificationEmailOptions(t *testing.T) {
	rec := &recordingEnqueuer{}
	client := &Client{enqueuer: rec}

	if err := client.EnqueueNotificationEmail(NotificationEmailPayload{NotificationID: 5, To: "ravi@farm.in"}); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if len(rec.tasks) != 1 || rec.tasks[0].Type() != TaskNotificationEmail {
		t.Fatalf("unexpected tasks: %+v", rec.tasks)
	}
	var queueName, taskID string
	maxRetry := -1
	for _, opt := range rec.opts[0] {
		switch opt.Type() {
		case asynq.QueueOpt:
			queueName = opt.Value().(string)
		case asynq.TaskIDOpt:
			taskID = opt.Value().(string)
		case asynq.MaxRetryOpt:
			maxRetry = opt.Value().(int)
		}
	}
	if queueName != NotificationQueue || taskID != "notification-email-5" || maxRetry != 0 {
		t.Fatalf("unexpected options queue=%s id=%s retry=%d", queueName, taskID, maxRetry)
	}
}

func TestEnqueueNotificationEmailIgnoresDuplicate(t *testing.T) {
	client := &Client{enqueuer: &recordingEnqueuer{err: asynq.ErrTaskIDConflict}}
	if err := client.EnqueueNotificationEmail(NotificationEmailPayload{NotificationID: 5, To: "ravi@farm.in"}); err != nil {
		t.Fatalf("duplicate enqueue should be ignored, got %v", err)
	}

	failing := &Client{enqueuer: &recordingEnqueuer{err: errors.New("redis down")}}
	if err := failing.EnqueueNotificationEmail(NotificationEmailPayload{To: "ravi@farm.in"}); err == nil {
		t.Fatalf("enqueue failure should be returned")
	}
}
