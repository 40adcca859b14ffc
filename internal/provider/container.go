package provider

import (
	"time"

	"github.com/inkpress/internal/authz"
	"github.com/inkpress/internal/cache"
	"github.com/inkpress/internal/config"
	"github.com/inkpress/internal/logger"
	"github.com/inkpress/internal/models"
	"github.com/inkpress/internal/queue"
	"github.com/inkpress/internal/render"
	"github.com/inkpress/internal/repository"
	"github.com/inkpress/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Renderer    *render.Renderer

	// Repositories
	UserRepo         repository.UserRepository
	PostRepo         repository.PostRepository
	TranslationRepo  repository.PostTranslationRepository
	RevisionRepo     repository.RevisionRepository
	PreviewTokenRepo repository.PreviewTokenRepository
	CategoryRepo     repository.CategoryRepository
	TagRepo          repository.TagRepository
	AuditLogRepo     repository.AuditLogRepository

	// Services
	AuthzService         *authz.Service
	AuthService          *service.AuthService
	AuditService         *service.AuditService
	TranslationValidator *service.TranslationValidator
	PostService          *service.PostService
	PreviewService       *service.PreviewService
	DashboardService     *service.DashboardService
	PublishNotifier      *service.PublishNotifier
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端，失败时退化为同步模式
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Renderer:    render.NewRenderer(),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.PostRepo = repository.NewPostRepository(db)
	c.TranslationRepo = repository.NewPostTranslationRepository(db)
	c.RevisionRepo = repository.NewRevisionRepository(db)
	c.PreviewTokenRepo = repository.NewPreviewTokenRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.TagRepo = repository.NewTagRepository(db)
	c.AuditLogRepo = repository.NewAuditLogRepository(db)
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

	content := c.Config.Content
	c.AuditService = service.NewAuditService(c.AuditLogRepo, c.QueueClient, c.Config.Audit.Async)
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo, c.AuditService)
	c.TranslationValidator = service.NewTranslationValidator(c.TranslationRepo, content.Locales)
	c.PostService = service.NewPostService(
		c.PostRepo,
		c.TranslationRepo,
		c.RevisionRepo,
		c.CategoryRepo,
		c.TagRepo,
		c.TranslationValidator,
		c.Renderer,
		c.AuditService,
		c.QueueClient,
		content.PublicListLimit,
	)
	c.PreviewService = service.NewPreviewService(
		c.PreviewTokenRepo,
		c.PostRepo,
		c.TranslationValidator,
		c.AuditService,
		time.Duration(content.PreviewTTLHours)*time.Hour,
		content.FrontendURL,
	)
	c.DashboardService = service.NewDashboardService(c.PostRepo, c.RevisionRepo)
	c.PublishNotifier = service.NewPublishNotifier(c.PostRepo, content.PublishWebhookURL, content.SiteURL)
}
