package repository

import (
	"context"
	"strings"
	"time"

	"github.com/inkpress/internal/models"

	"gorm.io/gorm"
)

// PreviewTokenRepository 预览令牌数据访问接口
type PreviewTokenRepository interface {
	Create(token *models.PreviewToken) error
	GetByToken(token string) (*models.PreviewToken, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	CountActiveByPost(postID string, now time.Time) (int64, error)
}

// GormPreviewTokenRepository GORM 实现
type GormPreviewTokenRepository struct {
	db *gorm.DB
}

// NewPreviewTokenRepository 创建预览令牌仓库
func NewPreviewTokenRepository(db *gorm.DB) *GormPreviewTokenRepository {
	return &GormPreviewTokenRepository{db: db}
}

// Create 创建预览令牌
func (r *GormPreviewTokenRepository) Create(token *models.PreviewToken) error {
	return r.db.Create(token).Error
}

// GetByToken 根据令牌获取记录（不判断是否过期）
func (r *GormPreviewTokenRepository) GetByToken(token string) (*models.PreviewToken, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	return firstOrNil[models.PreviewToken](r.db.Where("token = ?", token))
}

// DeleteExpired 清理已过期令牌（expires_at <= now）
func (r *GormPreviewTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.PreviewToken{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountActiveByPost 统计文章未过期的令牌数量
func (r *GormPreviewTokenRepository) CountActiveByPost(postID string, now time.Time) (int64, error) {
	var count int64
	if err := r.db.Model(&models.PreviewToken{}).
		Where("post_id = ? AND expires_at > ?", postID, now).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
