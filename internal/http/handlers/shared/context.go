package shared

import (
	"github.com/inkpress/internal/http/response"
	"github.com/inkpress/internal/service"

	"github.com/gin-gonic/gin"
)

// 上下文键，由鉴权中间件写入
const (
	ContextUserIDKey    = "user_id"
	ContextUserRoleKey  = "user_role"
	ContextRequestIDKey = "request_id"
)

// GetContextUintWithKeys 从上下文读取 uint 值并统一处理错误响应。
func GetContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, typeInvalidKey, nil)
		return 0, false
	}
}

// GetUserID 读取当前登录用户 ID
func GetUserID(c *gin.Context) (uint, bool) {
	return GetContextUintWithKeys(c, ContextUserIDKey, "error.user_id_invalid", "error.user_id_type_invalid")
}

// ActorFromContext 组装审计用的操作主体（未登录时 UserID 为 0）
func ActorFromContext(c *gin.Context) service.Actor {
	actor := service.Actor{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: c.GetString(ContextRequestIDKey),
		Role:      c.GetString(ContextUserRoleKey),
	}
	if value, ok := c.Get(ContextUserIDKey); ok {
		if id, ok := value.(uint); ok {
			actor.UserID = id
		}
	}
	return actor
}
