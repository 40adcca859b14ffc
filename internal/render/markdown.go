package render

import (
	"strings"

	"gitlab.com/golang-commonmark/markdown"
)

// Renderer Markdown 渲染器，输出经过白名单净化的 HTML
// 同一输入总是得到同一输出，可并发使用
type Renderer struct {
	md        *markdown.Markdown
	sanitizer *Sanitizer
}

// NewRenderer 创建渲染器
func NewRenderer() *Renderer {
	return &Renderer{
		md: markdown.New(
			markdown.HTML(true),
			markdown.Linkify(true),
			markdown.Typographer(false),
			markdown.MaxNesting(20),
		),
		sanitizer: NewSanitizer(),
	}
}

// Render 将 Markdown 渲染为安全 HTML
func (r *Renderer) Render(source string) string {
	if strings.TrimSpace(source) == "" {
		return ""
	}
	raw := r.md.RenderToString([]byte(source))
	return r.sanitizer.Sanitize(raw)
}
