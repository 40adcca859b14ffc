package shared

import (
	"sync"

	"github.com/inkpress/internal/i18n"
	"github.com/inkpress/internal/service"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators 注册请求体使用的自定义校验标签：slug、locale
func RegisterValidators() {
	registerOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return service.IsValidSlug(fl.Field().String())
		})
		_ = engine.RegisterValidation("locale", func(fl validator.FieldLevel) bool {
			_, ok := i18n.Normalize(fl.Field().String())
			return ok
		})
	})
}
