package router

import (
	"fmt"
	"strings"

	"github.com/inkpress/internal/cache"
	"github.com/inkpress/internal/config"
	adminhandlers "github.com/inkpress/internal/http/handlers/admin"
	publichandlers "github.com/inkpress/internal/http/handlers/public"
	handlershared "github.com/inkpress/internal/http/handlers/shared"
	"github.com/inkpress/internal/http/response"
	"github.com/inkpress/internal/logger"
	"github.com/inkpress/internal/metrics"
	"github.com/inkpress/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	handlershared.RegisterValidators()
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ink"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
	}
	previewRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:preview", redisPrefix),
		WindowSeconds: cfg.Security.PreviewRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.PreviewRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.PreviewRateLimit.BlockSeconds,
		FailOpen:      true,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log, "/health", cfg.Metrics.Path))
	r.Use(CORSMiddleware(cfg.CORS))
	if cfg.Metrics.Enabled {
		r.Use(metrics.Middleware(cfg.Metrics.Path))
		r.GET(cfg.Metrics.Path, metrics.Handler())
	}

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetConfig)
			public.GET("/taxonomies", publicHandler.GetTaxonomies)
			public.GET("/posts", publicHandler.GetPosts)
			public.GET("/posts/:locale/:slug", publicHandler.GetPostBySlug)
			public.GET("/preview/:token", RateLimitMiddleware(redisClient, previewRule, KeyByIP), publicHandler.GetPreview)
		}

		// 后台接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), adminHandler.Login)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(c.AuthService, c.UserRepo), RBACMiddleware(c.AuthzService))
			{
				authorized.GET("/me", adminHandler.GetMe)

				// 仪表盘
				authorized.GET("/dashboard/stats", adminHandler.GetDashboardStats)

				// 文章管理
				authorized.GET("/posts", adminHandler.GetAdminPosts)
				authorized.POST("/posts", adminHandler.CreatePost)
				authorized.GET("/posts/:id", adminHandler.GetAdminPost)
				authorized.PATCH("/posts/:id", adminHandler.UpdatePost)
				authorized.DELETE("/posts/:id", adminHandler.DeletePost)
				authorized.POST("/posts/:id/publish", adminHandler.PublishPost)
				authorized.POST("/posts/:id/unpublish", adminHandler.UnpublishPost)
				authorized.POST("/posts/:id/preview-token", adminHandler.IssuePreviewToken)

				// 修订与回滚
				authorized.GET("/posts/:id/revisions/:locale", adminHandler.GetPostRevisions)
				authorized.GET("/posts/:id/revisions/:locale/:version", adminHandler.GetPostRevision)
				authorized.POST("/posts/:id/rollback/:locale/:version", adminHandler.RollbackPost)

				// 审计日志
				authorized.GET("/audit-logs", adminHandler.GetAuditLogs)

				// 用户管理
				authorized.POST("/users", adminHandler.CreateUser)

				// 权限管理
				authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				authorized.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
				authorized.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildPermissionCatalog(r.Routes(), c.AuthzService))
				})
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
