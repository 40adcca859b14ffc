package public

import (
	"strings"
	"time"

	handlershared "github.com/inkpress/internal/http/handlers/shared"
	"github.com/inkpress/internal/http/response"
	"github.com/inkpress/internal/i18n"
	"github.com/inkpress/internal/models"
	"github.com/inkpress/internal/repository"

	"github.com/gin-gonic/gin"
)

// PostAlternate 其他语言版本的链接信息（hreflang）
type PostAlternate struct {
	Locale string `json:"locale"`
	Slug   string `json:"slug"`
}

// PublicPostView 前台文章响应结构
type PublicPostView struct {
	ID          string                  `json:"id"`
	PublishAt   *time.Time              `json:"publish_at"`
	Translation *models.PostTranslation `json:"translation"`
	Alternates  []PostAlternate         `json:"alternates"`
	Categories  []models.Category       `json:"categories"`
	Tags        []models.Tag            `json:"tags"`
}

func buildPublicPostView(post *models.Post, locale string) PublicPostView {
	view := PublicPostView{
		ID:         post.ID,
		PublishAt:  post.PublishAt,
		Alternates: make([]PostAlternate, 0, len(post.Translations)),
		Categories: post.Categories,
		Tags:       post.Tags,
	}
	for i := range post.Translations {
		t := &post.Translations[i]
		if t.Locale == locale && view.Translation == nil {
			view.Translation = t
			continue
		}
		view.Alternates = append(view.Alternates, PostAlternate{Locale: t.Locale, Slug: t.Slug})
	}
	if view.Translation == nil && len(post.Translations) > 0 {
		view.Translation = &post.Translations[0]
		view.Alternates = view.Alternates[:0]
		for _, t := range post.Translations[1:] {
			view.Alternates = append(view.Alternates, PostAlternate{Locale: t.Locale, Slug: t.Slug})
		}
	}
	return view
}

// GetPosts 已发布文章列表
func (h *Handler) GetPosts(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	locale := strings.TrimSpace(c.Query("locale"))
	filter := repository.PublicPostListFilter{
		Page:     page,
		PageSize: pageSize,
		Locale:   locale,
		Search:   strings.TrimSpace(c.Query("search")),
	}

	if slug := strings.TrimSpace(c.Query("category")); slug != "" {
		category, err := h.CategoryRepo.GetBySlug(slug)
		if err != nil {
			respondError(c, response.CodeInternal, "error.post_fetch_failed", err)
			return
		}
		if category == nil {
			response.SuccessWithPage(c, []PublicPostView{}, handlershared.BuildPagination(page, pageSize, 0))
			return
		}
		filter.CategoryID = category.ID
	}
	if slug := strings.TrimSpace(c.Query("tag")); slug != "" {
		tag, err := h.TagRepo.GetBySlug(slug)
		if err != nil {
			respondError(c, response.CodeInternal, "error.post_fetch_failed", err)
			return
		}
		if tag == nil {
			response.SuccessWithPage(c, []PublicPostView{}, handlershared.BuildPagination(page, pageSize, 0))
			return
		}
		filter.TagID = tag.ID
	}

	posts, total, err := h.PostService.ListPublished(filter)
	if err != nil {
		respondWithMappedError(c, err, publicPostErrorRules, response.CodeInternal, "error.post_fetch_failed")
		return
	}
	items := make([]PublicPostView, 0, len(posts))
	for i := range posts {
		items = append(items, buildPublicPostView(&posts[i], normalizeLocaleQuery(locale)))
	}
	response.SuccessWithPage(c, items, handlershared.BuildPagination(page, pageSize, total))
}

// GetPostBySlug 按语言与 slug 获取已发布文章
func (h *Handler) GetPostBySlug(c *gin.Context) {
	locale := c.Param("locale")
	post, err := h.PostService.GetPublishedBySlug(locale, c.Param("slug"))
	if err != nil {
		respondWithMappedError(c, err, publicPostErrorRules, response.CodeInternal, "error.post_fetch_failed")
		return
	}
	response.Success(c, buildPublicPostView(post, normalizeLocaleQuery(locale)))
}

// GetTaxonomies 分类与标签列表
func (h *Handler) GetTaxonomies(c *gin.Context) {
	categories, err := h.CategoryRepo.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	tags, err := h.TagRepo.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, gin.H{
		"categories": categories,
		"tags":       tags,
	})
}

// GetConfig 前台站点配置
func (h *Handler) GetConfig(c *gin.Context) {
	content := h.Config.Content
	response.Success(c, gin.H{
		"locales":        content.Locales,
		"default_locale": content.DefaultLocale,
		"site_url":       content.SiteURL,
	})
}

func normalizeLocaleQuery(raw string) string {
	if raw == "" {
		return ""
	}
	if normalized, ok := i18n.Normalize(raw); ok {
		return normalized
	}
	return strings.ToLower(strings.TrimSpace(raw))
}
