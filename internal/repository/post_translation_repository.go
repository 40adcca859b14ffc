package repository

import (
	"strings"

	"github.com/inkpress/internal/models"

	"gorm.io/gorm"
)

// PostTranslationRepository 文章语言版本数据访问接口
type PostTranslationRepository interface {
	WithTx(tx *gorm.DB) PostTranslationRepository

	GetByPostLocale(postID, locale string) (*models.PostTranslation, error)
	GetByLocaleSlug(locale, slug string) (*models.PostTranslation, error)
	CountSlugInLocale(locale, slug string, excludePostID string) (int64, error)
	Create(translation *models.PostTranslation) error
	Update(translation *models.PostTranslation) error
}

// GormPostTranslationRepository GORM 实现
type GormPostTranslationRepository struct {
	db *gorm.DB
}

// NewPostTranslationRepository 创建语言版本仓库
func NewPostTranslationRepository(db *gorm.DB) *GormPostTranslationRepository {
	return &GormPostTranslationRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPostTranslationRepository) WithTx(tx *gorm.DB) PostTranslationRepository {
	if tx == nil {
		return r
	}
	return &GormPostTranslationRepository{db: tx}
}

// GetByPostLocale 获取文章指定语言版本
func (r *GormPostTranslationRepository) GetByPostLocale(postID, locale string) (*models.PostTranslation, error) {
	return firstOrNil[models.PostTranslation](r.db.Where("post_id = ? AND locale = ?", postID, locale))
}

// GetByLocaleSlug 根据语言与 slug 获取语言版本
func (r *GormPostTranslationRepository) GetByLocaleSlug(locale, slug string) (*models.PostTranslation, error) {
	locale = strings.TrimSpace(locale)
	slug = strings.TrimSpace(slug)
	if locale == "" || slug == "" {
		return nil, nil
	}
	return firstOrNil[models.PostTranslation](r.db.Where("locale = ? AND slug = ?", locale, slug))
}

// CountSlugInLocale 统计语言内 slug 被其他文章占用的数量（excludePostID 为空时不排除）
func (r *GormPostTranslationRepository) CountSlugInLocale(locale, slug string, excludePostID string) (int64, error) {
	var count int64
	query := r.db.Model(&models.PostTranslation{}).Where("locale = ? AND slug = ?", locale, slug)
	if excludePostID = strings.TrimSpace(excludePostID); excludePostID != "" {
		query = query.Where("post_id <> ?", excludePostID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create 创建语言版本
func (r *GormPostTranslationRepository) Create(translation *models.PostTranslation) error {
	return r.db.Create(translation).Error
}

// Update 保存语言版本全部字段
func (r *GormPostTranslationRepository) Update(translation *models.PostTranslation) error {
	return r.db.Save(translation).Error
}
