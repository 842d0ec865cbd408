package app

import (
	"os"
	"strings"
	"time"

	"github.com/krishi-setu/internal/config"
	"github.com/krishi-setu/internal/logger"

	"go.uber.org/zap"
)

// 启动模式
const (
	ModeAll    = "all"    // HTTP 与后台 worker 同进程
	ModeAPI    = "api"    // 仅 HTTP
	ModeWorker = "worker" // 仅队列消费与会话清理
)

// Options 应用启动选项
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
}

func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	opts.Mode = strings.ToLower(strings.TrimSpace(opts.Mode))
	if opts.Mode == "" {
		opts.Mode = ModeAll
	}
	return opts
}
