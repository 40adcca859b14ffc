package public

import "github.com/inkpress/internal/provider"

// Handler 前台/公开接口处理器入口
// 说明：该处理器仅用于读者侧与预览 API，不需要登录。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
