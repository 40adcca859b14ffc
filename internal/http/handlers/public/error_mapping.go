package public

import (
	"errors"

	handlershared "github.com/inkpress/internal/http/handlers/shared"
	"github.com/inkpress/internal/http/response"
	"github.com/inkpress/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

// 前台不区分“不存在”与“未发布”，统一返回 404
var publicPostErrorRules = []mappedHandlerError{
	{target: service.ErrPostNotFound, code: response.CodeNotFound, key: "error.post_not_found"},
	{target: service.ErrLocaleInvalid, code: response.CodeBadRequest, key: "error.locale_invalid"},
}

// 过期、未知、已删除文章的令牌对外表现一致
var previewErrorRules = []mappedHandlerError{
	{target: service.ErrPreviewTokenInvalid, code: response.CodeNotFound, key: "error.preview_token_invalid"},
	{target: service.ErrPostNotFound, code: response.CodeNotFound, key: "error.preview_token_invalid"},
}
