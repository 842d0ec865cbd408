package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/krishi-setu/internal/config"

	"github.com/segmentio/kafka-go"
)

// Event 领域事件信封
type Event struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, topic, key string, event Event) error
	Close() error
}

// NoopPublisher 未启用事件时使用
type NoopPublisher struct{}

// Publish 丢弃事件
func (NoopPublisher) Publish(context.Context, string, string, Event) error { return nil }

// Close 无操作
func (NoopPublisher) Close() error { return nil }

// KafkaPublisher 基于 kafka-go Writer 的发布者
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher 创建 Kafka 发布者，topic 按消息指定
func NewKafkaPublisher(cfg config.EventsConfig) (*KafkaPublisher, error) {
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, broker := range cfg.Brokers {
		if trimmed := strings.TrimSpace(broker); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	timeout := time.Duration(cfg.WriteTimeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			WriteTimeout:           timeout,
			AllowAutoTopicCreation: true,
		},
	}, nil
}

// Publish 以 key 分区写入一条 JSON 消息
func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: marshal event failed: %w", err)
	}
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write %s failed: %w", topic, err)
	}
	return nil
}

// Close 刷新并关闭 Writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NewPublisher 按配置创建发布者
func NewPublisher(cfg config.EventsConfig) (Publisher, error) {
	if !cfg.Enabled {
		return NoopPublisher{}, nil
	}
	return NewKafkaPublisher(cfg)
}
