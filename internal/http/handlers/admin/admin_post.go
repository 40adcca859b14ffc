package admin

import (
	"strings"

	handlershared "github.com/inkpress/internal/http/handlers/shared"
	"github.com/inkpress/internal/http/response"
	"github.com/inkpress/internal/repository"
	"github.com/inkpress/internal/service"

	"github.com/gin-gonic/gin"
)

// TranslationRequest 单个语言版本请求体
type TranslationRequest struct {
	Locale          string                 `json:"locale" binding:"required,locale"`
	Title           string                 `json:"title"`
	Slug            string                 `json:"slug" binding:"omitempty,slug"`
	Excerpt         string                 `json:"excerpt"`
	Body            string                 `json:"body"`
	MetaTitle       string                 `json:"meta_title"`
	MetaDescription string                 `json:"meta_description"`
	Canonical       string                 `json:"canonical" binding:"omitempty,url"`
	OGImage         string                 `json:"og_image"`
	SchemaType      string                 `json:"schema_type"`
	SchemaData      map[string]interface{} `json:"schema_data"`
	HeroImageID     string                 `json:"hero_image_id"`
}

func (r TranslationRequest) toInput() service.TranslationInput {
	return service.TranslationInput{
		Locale:          r.Locale,
		Title:           r.Title,
		Slug:            r.Slug,
		Excerpt:         r.Excerpt,
		Body:            r.Body,
		MetaTitle:       r.MetaTitle,
		MetaDescription: r.MetaDescription,
		Canonical:       r.Canonical,
		OGImage:         r.OGImage,
		SchemaType:      r.SchemaType,
		SchemaData:      r.SchemaData,
		HeroImageID:     r.HeroImageID,
	}
}

func toTranslationInputs(reqs []TranslationRequest) []service.TranslationInput {
	inputs := make([]service.TranslationInput, 0, len(reqs))
	for _, r := range reqs {
		inputs = append(inputs, r.toInput())
	}
	return inputs
}

// CreatePostRequest 创建文章请求
type CreatePostRequest struct {
	Status       string               `json:"status"`
	PublishAt    string               `json:"publish_at"`
	Translations []TranslationRequest `json:"translations" binding:"required,min=1,dive"`
	CategoryIDs  []uint               `json:"category_ids"`
	TagIDs       []uint               `json:"tag_ids"`
}

// UpdatePostRequest 更新文章请求，缺省字段保持不变
type UpdatePostRequest struct {
	Status       *string              `json:"status"`
	PublishAt    string               `json:"publish_at"`
	Translations []TranslationRequest `json:"translations" binding:"omitempty,dive"`
	CategoryIDs  *[]uint              `json:"category_ids"`
	TagIDs       *[]uint              `json:"tag_ids"`
}

// GetAdminPosts 后台文章列表
func (h *Handler) GetAdminPosts(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	categoryID, _ := parseQueryUint(c.Query("category_id"))
	tagID, _ := parseQueryUint(c.Query("tag_id"))
	authorID, _ := parseQueryUint(c.Query("author_id"))

	posts, total, err := h.PostService.ListAdmin(repository.PostListFilter{
		Page:       page,
		PageSize:   pageSize,
		Status:     strings.TrimSpace(c.Query("status")),
		AuthorID:   authorID,
		CategoryID: categoryID,
		TagID:      tagID,
		Locale:     strings.TrimSpace(c.Query("locale")),
		Search:     strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondServiceError(c, err, "error.post_fetch_failed")
		return
	}
	response.SuccessWithPage(c, posts, handlershared.BuildPagination(page, pageSize, total))
}

// GetAdminPost 后台文章详情
func (h *Handler) GetAdminPost(c *gin.Context) {
	post, err := h.PostService.GetAdmin(c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "error.post_fetch_failed")
		return
	}
	response.Success(c, post)
}

// CreatePost 创建文章
func (h *Handler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	publishAt, err := parseTimeNullable(req.PublishAt)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	post, err := h.PostService.Create(service.CreatePostInput{
		Status:       req.Status,
		PublishAt:    publishAt,
		Translations: toTranslationInputs(req.Translations),
		CategoryIDs:  req.CategoryIDs,
		TagIDs:       req.TagIDs,
	}, actorFromContext(c))
	if err != nil {
		respondServiceError(c, err, "error.post_save_failed")
		return
	}
	response.Success(c, post)
}

// UpdatePost 更新文章，已存在的语言版本会生成修订快照
func (h *Handler) UpdatePost(c *gin.Context) {
	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	publishAt, err := parseTimeNullable(req.PublishAt)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	post, err := h.PostService.Update(c.Param("id"), service.UpdatePostInput{
		Status:       req.Status,
		PublishAt:    publishAt,
		Translations: toTranslationInputs(req.Translations),
		CategoryIDs:  req.CategoryIDs,
		TagIDs:       req.TagIDs,
	}, actorFromContext(c))
	if err != nil {
		respondServiceError(c, err, "error.post_save_failed")
		return
	}
	response.Success(c, post)
}

// DeletePost 删除文章及其语言版本、修订与预览令牌
func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.PostService.Delete(c.Param("id"), actorFromContext(c)); err != nil {
		respondServiceError(c, err, "error.post_save_failed")
		return
	}
	response.Success(c, nil)
}

// PublishPostRequest 发布请求，publish_at 为空表示立即发布
type PublishPostRequest struct {
	PublishAt string `json:"publish_at"`
}

// PublishPost 发布或定时发布文章
func (h *Handler) PublishPost(c *gin.Context) {
	var req PublishPostRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}
	publishAt, err := parseTimeNullable(req.PublishAt)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	post, err := h.PostService.Publish(c.Param("id"), publishAt, actorFromContext(c))
	if err != nil {
		respondServiceError(c, err, "error.post_save_failed")
		return
	}
	response.Success(c, post)
}

// UnpublishPost 撤回文章至草稿
func (h *Handler) UnpublishPost(c *gin.Context) {
	post, err := h.PostService.Unpublish(c.Param("id"), actorFromContext(c))
	if err != nil {
		respondServiceError(c, err, "error.post_save_failed")
		return
	}
	response.Success(c, post)
}
