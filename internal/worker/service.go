package worker

import (
	"context"
	"errors"
	"time"

	"github.com/krishi-setu/internal/config"
	"github.com/krishi-setu/internal/logger"
	"github.com/krishi-setu/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	sessionPurgeInterval = 30 * time.Minute
)

// SessionPurger 过期会话清理
type SessionPurger interface {
	Purge() (int64, error)
}

// Service 异步队列与后台维护服务；队列未启用时只执行维护任务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
	purger   SessionPurger
}

// NewService 创建后台服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	s := &Service{
		name:     "worker",
		consumer: consumer,
	}
	if consumer.Container != nil && consumer.SessionDBStore != nil {
		s.purger = consumer.SessionDBStore
	}
	if cfg != nil && cfg.Enabled {
		opt, serverCfg := queue.BuildServerConfig(cfg)
		s.server = asynq.NewServer(opt, serverCfg)
		s.mux = asynq.NewServeMux()
		consumer.Register(s.mux)
	} else {
		logger.Infow("worker_queue_disabled", "maintenance_only", true)
	}
	return s, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务，阻塞直到 ctx 结束
func (s *Service) Start(ctx context.Context) error {
	if s == nil {
		return errors.New("worker not initialized")
	}
	if s.purger != nil {
		go s.runSessionPurgeLoop(ctx)
	}
	if s.server != nil {
		if err := s.server.Start(s.mux); err != nil {
			return err
		}
	}
	<-ctx.Done()
	return nil
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runSessionPurgeLoop(ctx context.Context) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	s.purgeSessions()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.purgeSessions()
		}
	}
}

func (s *Service) purgeSessions() {
	if s == nil || s.purger == nil {
		return
	}
	removed, err := s.purger.Purge()
	if err != nil {
		logger.Warnw("worker_session_purge_failed", "error", err)
		return
	}
	if removed > 0 {
		logger.Infow("worker_session_purged", "removed", removed)
	}
}
