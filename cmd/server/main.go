package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/krishi-setu/internal/app"
	"github.com/krishi-setu/internal/config"
	"github.com/krishi-setu/internal/logger"
	"github.com/krishi-setu/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiGreen = "\033[32m"
	ansiDim   = "\033[2m"
)

func main() {
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	printStartupBanner()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	release := cfg.Server.Mode == "release"
	if isWeakSecret(cfg.Session.Secret) {
		if release {
			stdLog.Fatalf("session secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
		}
		stdLog.Printf("警告: session secret 过弱或仍为默认值，建议在生产环境中更换")
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, !release); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 默认管理员：生产环境必须显式提供密码
	if release && strings.TrimSpace(cfg.Admin.Password) == "" {
		stdLog.Printf("警告: 未设置 admin.password，已跳过默认管理员初始化")
	} else if err := models.InitDefaultAdmin(cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		stdLog.Printf("警告: 初始化默认管理员失败: %v", err)
	}

	if release {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiGreen + ansiBold + "Krishi-Setu marketplace API" + ansiReset)
	fmt.Println(ansiDim + "farm produce, direct to your door" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	for _, marker := range []string{"change-me", "change-in-production", "your-secret-key"} {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}
