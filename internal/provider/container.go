package provider

import (
	"github.com/hostara-next/internal/authz"
	"github.com/hostara-next/internal/cache"
	"github.com/hostara-next/internal/config"
	"github.com/hostara-next/internal/logger"
	"github.com/hostara-next/internal/models"
	"github.com/hostara-next/internal/queue"
	"github.com/hostara-next/internal/repository"
	"github.com/hostara-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo     repository.AdminRepository
	UserRepo      repository.UserRepository
	PlanRepo      repository.PlanRepository
	OrderRepo     repository.OrderRepository
	InvoiceRepo   repository.InvoiceRepository
	PaymentRepo   repository.PaymentRepository
	ReferralRepo  repository.ReferralRepository
	DashboardRepo repository.DashboardRepository

	// Services
	AuthzService     *authz.Service
	AuthService      *service.AuthService
	UserAuthService  *service.UserAuthService
	CaptchaService   *service.CaptchaService
	PlanService      *service.PlanService
	OrderService     *service.OrderService
	PaymentService   *service.PaymentService
	ReferralService  *service.ReferralService
	DashboardService *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

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

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.PlanRepo = repository.NewPlanRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.InvoiceRepo = repository.NewInvoiceRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.ReferralRepo = repository.NewReferralRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	cfg := c.Config

	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
	} else {
		if err := authzService.BootstrapBuiltinRoles(); err != nil {
			logger.Warnw("provider_bootstrap_authz_roles_failed", "error", err)
		}
		c.AuthzService = authzService
	}

	c.AuthService = service.NewAuthService(cfg, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(cfg, c.UserRepo)
	c.CaptchaService = service.NewCaptchaService(cfg.Captcha)
	c.PlanService = service.NewPlanService(c.PlanRepo)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.InvoiceRepo,
		c.PlanRepo,
		c.QueueClient,
		cfg.Order.PaymentExpireMinutes,
		cfg.Order.InvoiceDueDays,
	)
	c.ReferralService = service.NewReferralService(c.UserRepo, c.ReferralRepo, cfg.Referral)
	c.PaymentService = service.NewPaymentService(
		c.OrderRepo,
		c.InvoiceRepo,
		c.PaymentRepo,
		c.ReferralService,
		c.QueueClient,
		cfg.Razorpay,
		cfg.Referral,
	)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)
}
