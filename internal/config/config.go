package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/krishi-setu/internal/logger"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Session  SessionConfig  `mapstructure:"session"`
	Email    EmailConfig    `mapstructure:"email"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Security SecurityConfig `mapstructure:"security"`
	Captcha  CaptchaConfig  `mapstructure:"captcha"`
	Order    OrderConfig    `mapstructure:"order"`
	Events   EventsConfig   `mapstructure:"events"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Admin    AdminConfig    `mapstructure:"admin"`
}

// AppConfig 站点基础信息
type AppConfig struct {
	Name    string `mapstructure:"name"`     // 站点名称，用于邮件标题
	BaseURL string `mapstructure:"base_url"` // 站点地址，用于邮件中的链接
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
	Stdout     bool   `mapstructure:"stdout"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		Level:      c.Level,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
		Stdout:     c.Stdout,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // 数据库驱动（sqlite/postgres）
	DSN    string             `mapstructure:"dsn"`    // 数据库连接串
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// SessionConfig 会话配置
type SessionConfig struct {
	Secret     string `mapstructure:"secret"`      // 会话令牌签名密钥
	CookieName string `mapstructure:"cookie_name"` // Cookie 名称
	TTLHours   int    `mapstructure:"ttl_hours"`   // 会话有效期（小时）
	Secure     bool   `mapstructure:"secure"`      // 仅 HTTPS 发送 Cookie
	Domain     string `mapstructure:"domain"`
}

// TTL 返回会话有效期
func (c SessionConfig) TTL() time.Duration {
	if c.TTLHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(c.TTLHours) * time.Hour
}

// EmailConfig 邮件服务配置
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
	UseTLS   bool   `mapstructure:"use_tls"`
	UseSSL   bool   `mapstructure:"use_ssl"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	LoginRateLimit LoginRateLimitConfig `mapstructure:"login_rate_limit"`
	PasswordPolicy PasswordPolicyConfig `mapstructure:"password_policy"`
	BcryptCost     int                  `mapstructure:"bcrypt_cost"`
}

// LoginRateLimitConfig 登录限流配置
type LoginRateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxAttempts   int `mapstructure:"max_attempts"`
	BlockSeconds  int `mapstructure:"block_seconds"`
}

// PasswordPolicyConfig 密码策略配置
type PasswordPolicyConfig struct {
	MinLength     int  `mapstructure:"min_length"`
	RequireLetter bool `mapstructure:"require_letter"`
	RequireNumber bool `mapstructure:"require_number"`
}

// CaptchaConfig 图片验证码配置
type CaptchaConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	Login         bool `mapstructure:"login"`
	Register      bool `mapstructure:"register"`
	Length        int  `mapstructure:"length"`
	Width         int  `mapstructure:"width"`
	Height        int  `mapstructure:"height"`
	NoiseCount    int  `mapstructure:"noise_count"`
	ShowLine      int  `mapstructure:"show_line"`
	ExpireSeconds int  `mapstructure:"expire_seconds"`
	MaxStore      int  `mapstructure:"max_store"`
}

// OrderConfig 下单与配送规则
type OrderConfig struct {
	FreeDeliveryThreshold string `mapstructure:"free_delivery_threshold"` // 免运费门槛
	DeliveryCharge        string `mapstructure:"delivery_charge"`         // 固定运费
	LowStockThreshold     int    `mapstructure:"low_stock_threshold"`     // 低库存提醒阈值（开区间上界）
	EstimatedDeliveryDays int    `mapstructure:"estimated_delivery_days"`
	CartDedupeWindowMS    int    `mapstructure:"cart_dedupe_window_ms"` // 重复加购拦截窗口
	MaxLineQuantity       int    `mapstructure:"max_line_quantity"`     // 单行数量上限，0 表示不限制
}

// DeliveryRule 解析后的配送费规则
type DeliveryRule struct {
	FreeThreshold decimal.Decimal
	FlatCharge    decimal.Decimal
}

// ResolveDeliveryRule 解析配送费规则，非法值回退到默认 500 / 40
func (c OrderConfig) ResolveDeliveryRule() DeliveryRule {
	rule := DeliveryRule{
		FreeThreshold: decimal.NewFromInt(500),
		FlatCharge:    decimal.NewFromInt(40),
	}
	if v, err := decimal.NewFromString(strings.TrimSpace(c.FreeDeliveryThreshold)); err == nil && !v.IsNegative() {
		rule.FreeThreshold = v
	}
	if v, err := decimal.NewFromString(strings.TrimSpace(c.DeliveryCharge)); err == nil && !v.IsNegative() {
		rule.FlatCharge = v
	}
	return rule
}

// CartDedupeWindow 返回重复加购拦截窗口
func (c OrderConfig) CartDedupeWindow() time.Duration {
	if c.CartDedupeWindowMS <= 0 {
		return time.Second
	}
	return time.Duration(c.CartDedupeWindowMS) * time.Millisecond
}

// EventsConfig 领域事件（Kafka）配置
type EventsConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	Brokers      []string `mapstructure:"brokers"`
	OrderTopic   string   `mapstructure:"order_topic"`
	ProductTopic string   `mapstructure:"product_topic"`
	WriteTimeout int      `mapstructure:"write_timeout_ms"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// AdminConfig 默认管理员
type AdminConfig struct {
	Name     string `mapstructure:"name"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// Load 从 config.yml 加载配置
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		logger.Infow("dotenv_loaded", "file", ".env")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("../")   // 如果从 cmd/server 运行
	v.AddConfigPath("./etc") // etc 文件夹

	setDefaults(v)

	// 环境变量支持（例如 server.port -> SERVER_PORT）
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("config unmarshal failed: %w", err))
	}
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Krishi-Setu")
	v.SetDefault("app.base_url", "http://localhost:8080")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "krishi-setu.log")
	v.SetDefault("log.level", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("log.stdout", false)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/krishi-setu.db")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "ks")
	v.SetDefault("queue.enabled", false)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 10)
	v.SetDefault("queue.queues", map[string]int{
		"notifications": 10,
		"default":       1,
	})
	v.SetDefault("session.secret", "change-me-in-production")
	v.SetDefault("session.cookie_name", "ks_session")
	v.SetDefault("session.ttl_hours", 168)
	v.SetDefault("session.secure", false)
	v.SetDefault("session.domain", "")
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.host", "")
	v.SetDefault("email.port", 587)
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.from", "")
	v.SetDefault("email.from_name", "Krishi-Setu")
	v.SetDefault("email.use_tls", true)
	v.SetDefault("email.use_ssl", false)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Accept-Language",
		"Authorization",
		"X-Requested-With",
		"X-Request-ID",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("security.login_rate_limit.window_seconds", 300)
	v.SetDefault("security.login_rate_limit.max_attempts", 5)
	v.SetDefault("security.login_rate_limit.block_seconds", 900)
	v.SetDefault("security.password_policy.min_length", 6)
	v.SetDefault("security.password_policy.require_letter", false)
	v.SetDefault("security.password_policy.require_number", false)
	v.SetDefault("security.bcrypt_cost", 10)
	v.SetDefault("captcha.enabled", false)
	v.SetDefault("captcha.login", false)
	v.SetDefault("captcha.register", false)
	v.SetDefault("captcha.length", 5)
	v.SetDefault("captcha.width", 240)
	v.SetDefault("captcha.height", 80)
	v.SetDefault("captcha.noise_count", 2)
	v.SetDefault("captcha.show_line", 2)
	v.SetDefault("captcha.expire_seconds", 300)
	v.SetDefault("captcha.max_store", 10240)
	v.SetDefault("order.free_delivery_threshold", "500")
	v.SetDefault("order.delivery_charge", "40")
	v.SetDefault("order.low_stock_threshold", 10)
	v.SetDefault("order.estimated_delivery_days", 7)
	v.SetDefault("order.cart_dedupe_window_ms", 1000)
	v.SetDefault("order.max_line_quantity", 99)
	v.SetDefault("events.enabled", false)
	v.SetDefault("events.brokers", []string{"127.0.0.1:9092"})
	v.SetDefault("events.order_topic", "order_events")
	v.SetDefault("events.product_topic", "product_events")
	v.SetDefault("events.write_timeout_ms", 5000)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("admin.name", "Administrator")
	v.SetDefault("admin.email", "admin@krishisetu.local")
	v.SetDefault("admin.password", "")
}
