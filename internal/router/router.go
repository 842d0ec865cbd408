package router

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/krishi-setu/internal/authz"
	"github.com/krishi-setu/internal/cache"
	"github.com/krishi-setu/internal/config"
	"github.com/krishi-setu/internal/constants"
	adminhandlers "github.com/krishi-setu/internal/http/handlers/admin"
	farmerhandlers "github.com/krishi-setu/internal/http/handlers/farmer"
	publichandlers "github.com/krishi-setu/internal/http/handlers/public"
	"github.com/krishi-setu/internal/http/response"
	"github.com/krishi-setu/internal/logger"
	"github.com/krishi-setu/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	if err := RegisterValidators(); err != nil {
		logger.Errorw("router_register_validators_failed", "error", err)
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	farmerHandler := farmerhandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ks"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_blocked",
	}
	registerRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:register", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(MetricsMiddleware(c.Metrics))

	apiV1 := r.Group("/api/v1")
	apiV1.Use(c.SessionManager.Middleware())
	{
		apiV1.GET("/health", healthHandler)

		// 商品目录与验证码
		apiV1.GET("/products", publicHandler.ListProducts)
		apiV1.GET("/products/:id", publicHandler.GetProduct)
		apiV1.GET("/captcha/image", publicHandler.GetImageCaptcha)

		// 认证
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", RateLimitMiddleware(redisClient, registerRule, KeyByIP), publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
			auth.POST("/logout", publicHandler.Logout)
			auth.GET("/session", publicHandler.GetSession)
		}

		// 登录用户接口，按角色鉴权
		user := apiV1.Group("")
		user.Use(RequireLoginMiddleware(c.UserRepo), RoleAuthzMiddleware(c.AuthzService))
		{
			cart := user.Group("/cart")
			{
				cart.GET("", publicHandler.GetCart)
				cart.GET("/count", publicHandler.GetCartCount)
				cart.POST("/add", publicHandler.AddToCart)
				cart.POST("/update", publicHandler.UpdateCart)
				cart.POST("/remove", publicHandler.RemoveFromCart)
				cart.DELETE("", publicHandler.ClearCart)
			}

			user.POST("/orders", publicHandler.PlaceOrder)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.POST("/orders/:id/rating", publicHandler.RateOrder)

			user.GET("/notifications", publicHandler.ListNotifications)
			user.PUT("/notifications/read-all", publicHandler.MarkAllNotificationsRead)
			user.PUT("/notifications/:id/read", publicHandler.MarkNotificationRead)

			user.GET("/profile", publicHandler.GetProfile)
			user.PUT("/profile", publicHandler.UpdateProfile)
			user.PUT("/profile/address", publicHandler.UpdateAddress)
			user.PUT("/profile/password", publicHandler.ChangePassword)
			user.PUT("/profile/notifications", publicHandler.UpdateNotificationPrefs)
			user.GET("/profile/stats", publicHandler.GetProfileStats)

			farmer := user.Group("/farmer")
			{
				farmer.GET("/products", farmerHandler.ListProducts)
				farmer.POST("/products", farmerHandler.CreateProduct)
				farmer.PUT("/products/:id", farmerHandler.UpdateProduct)
				farmer.DELETE("/products/:id", farmerHandler.DeleteProduct)
				farmer.GET("/orders", farmerHandler.ListOrders)
				farmer.PATCH("/orders/:id/status", farmerHandler.UpdateOrderStatus)
			}

			admin := user.Group("/admin")
			{
				admin.GET("/stats", adminHandler.GetStats)
				admin.GET("/revenue", adminHandler.GetRevenue)

				admin.GET("/users", adminHandler.ListUsers)
				admin.PATCH("/users/:id", adminHandler.UpdateUser)
				admin.DELETE("/users/:id", adminHandler.DeleteUser)

				admin.GET("/orders", adminHandler.ListOrders)
				admin.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)

				admin.GET("/products", adminHandler.ListProducts)
				admin.PATCH("/products/:id/status", adminHandler.SetProductStatus)
				admin.DELETE("/products/:id", adminHandler.DeleteProduct)

				admin.GET("/authz/roles", adminHandler.ListRolePolicies)
				admin.GET("/authz/routes", func(ctx *gin.Context) {
					response.Success(ctx, buildRoutePermissionCatalog(r, c.AuthzService))
				})
			}
		}
	}

	if cfg.Metrics.Enabled && c.Registry != nil {
		path := strings.TrimSpace(cfg.Metrics.Path)
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})))
	}

	// 健康检查
	r.GET("/health", healthHandler)

	return r
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type routePermissionItem struct {
	Method string   `json:"method"`
	Object string   `json:"object"`
	Roles  []string `json:"roles"`
}

var catalogRoles = []string{constants.RoleCustomer, constants.RoleFarmer, constants.RoleAdmin}

// buildRoutePermissionCatalog 列出受角色保护的路由以及可访问的角色
func buildRoutePermissionCatalog(engine *gin.Engine, authzService *authz.Service) []routePermissionItem {
	if engine == nil || authzService == nil {
		return []routePermissionItem{}
	}

	routes := engine.Routes()
	items := make([]routePermissionItem, 0, len(routes))
	for _, route := range routes {
		method := strings.ToUpper(strings.TrimSpace(route.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		object := authz.NormalizeObject(route.Path)
		if !isRoleProtectedObject(object) {
			continue
		}
		roles := make([]string, 0, len(catalogRoles))
		for _, role := range catalogRoles {
			allowed, err := authzService.EnforceRole(role, object, method)
			if err != nil {
				logger.Warnw("route_catalog_enforce_failed", "role", role, "object", object, "error", err)
				continue
			}
			if allowed {
				roles = append(roles, role)
			}
		}
		items = append(items, routePermissionItem{Method: method, Object: object, Roles: roles})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Object == items[j].Object {
			return items[i].Method < items[j].Method
		}
		return items[i].Object < items[j].Object
	})
	return items
}

func isRoleProtectedObject(object string) bool {
	for _, prefix := range []string{"/cart", "/orders", "/notifications", "/profile", "/farmer/", "/admin/"} {
		if strings.HasPrefix(object, prefix) {
			return true
		}
	}
	return false
}
