package service

import (
	"strings"

	"github.com/inkpress/internal/models"
	"github.com/inkpress/internal/repository"
)

const (
	defaultPublicListLimit    = 50
	defaultPublicListPageSize = 10
)

// ListPublished 前台文章列表，只返回满足公开可见条件的文章
// locale 非空时仅加载该语言版本，search 在该语言内匹配
func (s *PostService) ListPublished(filter repository.PublicPostListFilter) ([]models.Post, int64, error) {
	if strings.TrimSpace(filter.Locale) != "" {
		locale, err := s.validator.NormalizeLocale(filter.Locale)
		if err != nil {
			return nil, 0, err
		}
		filter.Locale = locale
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultPublicListPageSize
	}
	if filter.PageSize > s.publicListLimit {
		filter.PageSize = s.publicListLimit
	}
	posts, total, err := s.postRepo.ListVisible(filter, s.now())
	if err != nil {
		return nil, 0, internalErr("list published posts", err)
	}
	return posts, total, nil
}

// GetPublishedBySlug 根据语言与 slug 获取公开文章，不可见时与不存在一样返回 ErrPostNotFound
func (s *PostService) GetPublishedBySlug(locale, slug string) (*models.Post, error) {
	locale, err := s.validator.NormalizeLocale(locale)
	if err != nil {
		return nil, err
	}
	translation, err := s.translationRepo.GetByLocaleSlug(locale, slug)
	if err != nil {
		return nil, internalErr("get translation", err)
	}
	if translation == nil {
		return nil, ErrPostNotFound
	}
	post, err := s.postRepo.GetVisibleByID(translation.PostID, s.now(), "")
	if err != nil {
		return nil, internalErr("get published post", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}
