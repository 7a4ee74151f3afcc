package router

import (
	"fmt"
	"strings"

	"github.com/hostara-next/internal/cache"
	"github.com/hostara-next/internal/config"
	adminhandlers "github.com/hostara-next/internal/http/handlers/admin"
	publichandlers "github.com/hostara-next/internal/http/handlers/public"
	"github.com/hostara-next/internal/logger"
	"github.com/hostara-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ha"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "登录尝试过于频繁，请稍后再试",
	}
	adminLoginRule := loginRule
	adminLoginRule.Prefix = fmt.Sprintf("%s:rate:admin_login", redisPrefix)

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetConfig)
			public.GET("/plans", publicHandler.GetPlans)
			public.GET("/plans/:slug", publicHandler.GetPlanBySlug)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}

		// 网关公开配置与服务端回调（无需登录态）
		apiV1.GET("/payments/config", publicHandler.GetPaymentConfig)
		apiV1.POST("/payments/webhook/razorpay", publicHandler.RazorpayWebhook)

		// 用户接口（需鉴权）
		user := apiV1.Group("/user")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.POST("/orders", publicHandler.CreateOrder)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.POST("/orders/:id/cancel", publicHandler.CancelOrder)
			user.GET("/orders/:id/payments", publicHandler.ListOrderPayments)
			user.GET("/invoices", publicHandler.ListInvoices)
			user.GET("/invoices/:id", publicHandler.GetInvoice)
			user.GET("/referrals/earnings", publicHandler.ListReferralEarnings)
			user.GET("/referrals/summary", publicHandler.GetReferralSummary)
		}

		payments := apiV1.Group("/payments")
		payments.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			payments.POST("/checkout", publicHandler.CheckoutPayment)
			payments.POST("/verify", publicHandler.VerifyPayment)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.AdminLogin)

			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/me", adminHandler.GetAdminProfile)

				authorized.GET("/dashboard/overview", adminHandler.GetDashboardOverview)
				authorized.GET("/dashboard/trends", adminHandler.GetDashboardTrends)
				authorized.GET("/dashboard/top-plans", adminHandler.GetDashboardTopPlans)

				authorized.GET("/orders", adminHandler.GetAdminOrders)
				authorized.GET("/orders/:id", adminHandler.GetAdminOrder)
				authorized.POST("/orders/:id/complete", adminHandler.CompleteAdminOrder)

				authorized.GET("/plans", adminHandler.GetAdminPlans)
				authorized.GET("/plans/:id", adminHandler.GetAdminPlan)
				authorized.POST("/plans", adminHandler.CreatePlan)
				authorized.PUT("/plans/:id", adminHandler.UpdatePlan)
				authorized.DELETE("/plans/:id", adminHandler.DeletePlan)

				authorized.GET("/referral-earnings", adminHandler.GetAdminReferralEarnings)
			}
		}
	}

	return r
}
