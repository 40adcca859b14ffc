package router

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/inkpress/internal/authz"
	"github.com/inkpress/internal/cache"
	"github.com/inkpress/internal/config"
	handlershared "github.com/inkpress/internal/http/handlers/shared"
	"github.com/inkpress/internal/http/response"
	"github.com/inkpress/internal/i18n"
	"github.com/inkpress/internal/logger"
	"github.com/inkpress/internal/repository"
	"github.com/inkpress/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = handlershared.ContextRequestIDKey
const requestIDHeader = "X-Request-ID"

// 浏览器端需要读取的响应头：请求 ID 便于排查，Retry-After 用于限流提示
var corsExposeHeaders = strings.Join([]string{requestIDHeader, "Retry-After"}, ", ")

var defaultCORSHeaders = []string{
	"Content-Type",
	"Accept-Language",
	"Authorization",
	"Cache-Control",
	requestIDHeader,
}

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := orDefault(cfg.AllowedOrigins, []string{"*"})
	methodsHeader := strings.Join(orDefault(cfg.AllowedMethods, []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}), ", ")
	headersHeader := strings.Join(orDefault(cfg.AllowedHeaders, defaultCORSHeaders), ", ")

	return func(c *gin.Context) {
		header := c.Writer.Header()
		if origin := resolveAllowedOrigin(c.GetHeader("Origin"), allowedOrigins, cfg.AllowCredentials); origin != "" {
			header.Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				header.Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			header.Set("Access-Control-Allow-Credentials", "true")
		}
		header.Set("Access-Control-Allow-Headers", headersHeader)
		header.Set("Access-Control-Allow-Methods", methodsHeader)
		header.Set("Access-Control-Expose-Headers", corsExposeHeaders)
		if cfg.MaxAge > 0 {
			header.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}

// resolveAllowedOrigin 携带凭证时不能返回 *，改为回显请求来源
func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件，沿用上游传入的 X-Request-ID
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
// 5xx 记为 error，4xx 记为 warn；skipPaths 中的探活与指标请求不记录
func LoggerMiddleware(base *zap.Logger, skipPaths ...string) gin.HandlerFunc {
	if base == nil {
		base = zap.L()
	}
	sugar := base.Sugar()
	skip := make(map[string]struct{}, len(skipPaths))
	for _, path := range skipPaths {
		skip[path] = struct{}{}
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if _, ok := skip[c.Request.URL.Path]; ok {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		fields := []interface{}{
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"route", route,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if userID, ok := c.Get(handlershared.ContextUserIDKey); ok {
			fields = append(fields, "user_id", userID)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}
		switch {
		case status >= http.StatusInternalServerError || len(c.Errors) > 0:
			sugar.Errorw("http_request", fields...)
		case status >= http.StatusBadRequest:
			sugar.Warnw("http_request", fields...)
		default:
			sugar.Infow("http_request", fields...)
		}
	}
}

func getRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// bearerToken 解析 Authorization 头，scheme 不区分大小写
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// JWTAuthMiddleware 后台 JWT 鉴权中间件
// 校验签名后比对 token_version，用户被禁用或令牌被吊销时拒绝
func JWTAuthMiddleware(authService *service.AuthService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authService == nil || userRepo == nil {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "error.auth_header_missing")
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			abortUnauthorized(c, "error.auth_header_invalid")
			return
		}

		claims, err := authService.ParseJWT(token)
		if err != nil || claims == nil || claims.UserID == 0 {
			abortUnauthorized(c, "error.token_invalid")
			return
		}

		state, err := loadAuthState(c, userRepo, claims.UserID)
		if err != nil {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		if key := state.Check(claims.TokenVersion); key != "" {
			abortUnauthorized(c, key)
			return
		}
		setAuthContext(c, state.UserID, state.Role)
		c.Next()
	}
}

// loadAuthState 优先读 Redis 快照，未命中时查库并回写
func loadAuthState(c *gin.Context, userRepo repository.UserRepository, userID uint) (*cache.UserAuthState, error) {
	ctx := c.Request.Context()
	if cached, hit, err := cache.GetUserAuthState(ctx, userID); err == nil && hit {
		return cached, nil
	}
	user, err := userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	state := cache.BuildUserAuthState(user)
	if state == nil {
		return nil, nil
	}
	if err := cache.SetUserAuthState(ctx, state); err != nil {
		logger.Debugw("auth_state_cache_set_failed", "user_id", userID, "error", err)
	}
	return state, nil
}

// RBACMiddleware 后台 RBAC 鉴权中间件，按角色匹配路由模板与请求方法
func RBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("admin_rbac_service_unavailable")
			abortUnauthorized(c, "error.unauthorized")
			return
		}

		role := strings.TrimSpace(c.GetString(handlershared.ContextUserRoleKey))
		if role == "" {
			abortUnauthorized(c, "error.unauthorized")
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := authzService.EnforceRole(role, resource, c.Request.Method)
		if errors.Is(err, authz.ErrUnknownRole) {
			allowed, err = false, nil
		}
		if err != nil {
			logger.Errorw("admin_rbac_enforce_failed",
				"role", role,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		if !allowed {
			logger.Warnw("admin_rbac_permission_denied",
				"role", role,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			msg := i18n.T(i18n.ResolveLocale(c), "error.forbidden")
			response.Forbidden(c, msg)
			c.Abort()
			return
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, key string) {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	response.Unauthorized(c, msg)
	c.Abort()
}

func setAuthContext(c *gin.Context, userID uint, role string) {
	c.Set(handlershared.ContextUserIDKey, userID)
	c.Set(handlershared.ContextUserRoleKey, role)
}
