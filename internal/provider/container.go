package provider

import (
	"github.com/krishi-setu/internal/authz"
	"github.com/krishi-setu/internal/cache"
	"github.com/krishi-setu/internal/config"
	"github.com/krishi-setu/internal/events"
	"github.com/krishi-setu/internal/logger"
	"github.com/krishi-setu/internal/metrics"
	"github.com/krishi-setu/internal/models"
	"github.com/krishi-setu/internal/queue"
	"github.com/krishi-setu/internal/repository"
	"github.com/krishi-setu/internal/service"
	"github.com/krishi-setu/internal/session"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Publisher   events.Publisher
	Emitter     *events.Emitter
	Registry    *prometheus.Registry
	Metrics     *metrics.Metrics

	// Repositories
	UserRepo          repository.UserRepository
	ProductRepo       repository.ProductRepository
	OrderRepo         repository.OrderRepository
	OrderSequenceRepo repository.OrderSequenceRepository
	NotificationRepo  repository.NotificationRepository
	SessionRepo       repository.SessionRepository

	// Session
	SessionStore   session.Store
	SessionDBStore *session.DBStore // 仅数据库存储时非空，供 worker 清理过期会话
	SessionManager *session.Manager

	// Services
	AuthzService        *authz.Service
	EmailService        *service.EmailService
	CaptchaService      *service.CaptchaService
	AuthService         *service.AuthService
	ProfileService      *service.ProfileService
	ProductService      *service.ProductService
	CartService         *service.CartService
	NotificationService *service.NotificationService
	OrderService        *service.OrderService
	AdminService        *service.AdminService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initObservability()
	c.initRepositories()
	c.initSession()
	c.initServices()

	return c
}

func (c *Container) initObservability() {
	if c.Config.Metrics.Enabled {
		c.Registry = prometheus.NewRegistry()
		c.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		c.Metrics = metrics.New(c.Registry)
	}

	publisher, err := events.NewPublisher(c.Config.Events)
	if err != nil {
		logger.Warnw("provider_init_event_publisher_failed", "error", err)
		publisher = events.NoopPublisher{}
	}
	c.Publisher = publisher
	c.Emitter = events.NewEmitter(publisher, c.Config.Events)
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.OrderSequenceRepo = repository.NewOrderSequenceRepository(db)
	c.NotificationRepo = repository.NewNotificationRepository(db)
	c.SessionRepo = repository.NewSessionRepository(db)
}

func (c *Container) initSession() {
	if cache.Enabled() {
		c.SessionStore = session.NewRedisStore()
	} else {
		c.SessionDBStore = session.NewDBStore(c.SessionRepo)
		c.SessionStore = c.SessionDBStore
	}
	c.SessionManager = session.NewManager(c.SessionStore, c.Config.Session)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config.Security, c.UserRepo, c.CaptchaService)
	c.ProfileService = service.NewProfileService(c.UserRepo, c.OrderRepo, c.NotificationRepo, c.AuthService)
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.CartService = service.NewCartService(c.ProductRepo, c.Config.Order, c.Metrics)

	var emailSender service.EmailSender
	if c.EmailService.Enabled() {
		emailSender = c.EmailService
	}
	var emailQueue service.EmailQueue
	if c.QueueClient != nil {
		emailQueue = c.QueueClient
	}
	c.NotificationService = service.NewNotificationService(c.NotificationRepo, emailSender, emailQueue, c.Metrics, c.Config.App.Name)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.ProductRepo,
		c.UserRepo,
		c.OrderSequenceRepo,
		c.NotificationService,
		c.Emitter,
		c.Config.Order,
		c.Metrics,
	)
	c.AdminService = service.NewAdminService(c.UserRepo, c.OrderRepo, c.ProductRepo)
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			logger.Warnw("provider_close_event_publisher_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
