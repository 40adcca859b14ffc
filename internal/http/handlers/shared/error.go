package shared

import (
	"errors"

	"github.com/inkpress/internal/http/response"
	"github.com/inkpress/internal/i18n"
	"github.com/inkpress/internal/logger"
	"github.com/inkpress/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get(ContextRequestIDKey); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.T(locale, key)
	respond(c, code, msg, err, nil)
}

// RespondErrorWithMsg 返回自定义消息错误响应，并在有原始错误时记录日志。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	respond(c, code, msg, err, nil)
}

type keyedError interface {
	Key() string
	Args() []interface{}
}

var invalidArgumentKeys = []struct {
	target error
	key    string
}{
	{service.ErrPreviewTokenInvalid, "error.preview_token_invalid"},
	{service.ErrLocaleInvalid, "error.locale_invalid"},
	{service.ErrTranslationRequired, "error.translation_required"},
	{service.ErrTranslationDuplicate, "error.translation_duplicate"},
	{service.ErrTranslationFieldsRequired, "error.translation_fields_required"},
	{service.ErrSlugInvalid, "error.slug_invalid"},
	{service.ErrStatusInvalid, "error.status_invalid"},
	{service.ErrVersionInvalid, "error.version_invalid"},
	{service.ErrCategoryNotFound, "error.category_not_found"},
	{service.ErrTagNotFound, "error.tag_not_found"},
	{service.ErrRoleInvalid, "error.role_invalid"},
}

var notFoundKeys = []struct {
	target error
	key    string
}{
	{service.ErrPostNotFound, "error.post_not_found"},
	{service.ErrTranslationNotFound, "error.translation_not_found"},
	{service.ErrRevisionNotFound, "error.revision_not_found"},
}

// RespondServiceError 按业务错误分类输出响应
// Conflict -> 409，NotFound -> 404，InvalidArgument -> 400，其余按 500 处理并使用 fallbackKey
// 修订版本竞争属于 Internal，仍为 500，仅提示文案不同
func RespondServiceError(c *gin.Context, err error, fallbackKey string) {
	locale := i18n.ResolveLocale(c)

	var slugConflict *service.SlugConflictError
	if errors.As(err, &slugConflict) {
		respond(c, response.CodeConflict,
			i18n.Sprintf(locale, "error.slug_conflict", slugConflict.Slug, slugConflict.Locale),
			nil,
			gin.H{"locale": slugConflict.Locale, "slug": slugConflict.Slug},
		)
		return
	}
	switch {
	case errors.Is(err, service.ErrUserEmailExists):
		RespondError(c, response.CodeConflict, "error.user_email_exists", nil)
		return
	case errors.Is(err, service.ErrConflict):
		RespondError(c, response.CodeConflict, "error.conflict", nil)
		return
	}

	var fieldsErr *service.TranslationFieldsError
	if errors.As(err, &fieldsErr) {
		respond(c, response.CodeBadRequest,
			i18n.T(locale, "error.translation_fields_required"),
			nil,
			gin.H{"locale": fieldsErr.Locale, "fields": fieldsErr.Fields},
		)
		return
	}
	var keyed keyedError
	if errors.As(err, &keyed) {
		RespondErrorWithMsg(c, response.CodeBadRequest, i18n.Sprintf(locale, keyed.Key(), keyed.Args()...), nil)
		return
	}
	if errors.Is(err, service.ErrInvalidArgument) {
		for _, item := range invalidArgumentKeys {
			if errors.Is(err, item.target) {
				RespondError(c, response.CodeBadRequest, item.key, nil)
				return
			}
		}
		RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		for _, item := range notFoundKeys {
			if errors.Is(err, item.target) {
				RespondError(c, response.CodeNotFound, item.key, nil)
				return
			}
		}
		RespondError(c, response.CodeNotFound, "error.not_found", nil)
		return
	}
	if errors.Is(err, service.ErrConcurrentEdit) {
		fallbackKey = "error.concurrent_edit"
	}
	RespondError(c, response.CodeInternal, fallbackKey, err)
}

func respond(c *gin.Context, code int, msg string, err error, data interface{}) {
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", code,
			"message", msg,
			"error", err,
		)
	}
	response.ErrorWithData(c, code, msg, data)
}
