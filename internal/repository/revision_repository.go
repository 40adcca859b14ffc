package repository

import (
	"errors"
	"fmt"

	"github.com/inkpress/internal/models"

	"gorm.io/gorm"
)

// ErrRevisionVersionTaken 同一 (post, locale, version) 已存在，说明有并发写入
var ErrRevisionVersionTaken = errors.New("revision version already taken")

// RevisionRepository 历史版本数据访问接口
type RevisionRepository interface {
	WithTx(tx *gorm.DB) RevisionRepository

	MaxVersion(postID, locale string) (uint, error)
	Append(revision *models.Revision) error
	ListByPostLocale(postID, locale string) ([]models.Revision, error)
	GetByVersion(postID, locale string, version uint) (*models.Revision, error)
	CountAll() (int64, error)
}

// GormRevisionRepository GORM 实现
type GormRevisionRepository struct {
	db *gorm.DB
}

// NewRevisionRepository 创建历史版本仓库
func NewRevisionRepository(db *gorm.DB) *GormRevisionRepository {
	return &GormRevisionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormRevisionRepository) WithTx(tx *gorm.DB) RevisionRepository {
	if tx == nil {
		return r
	}
	return &GormRevisionRepository{db: tx}
}

// MaxVersion 获取当前最大版本号，无记录时返回 0
func (r *GormRevisionRepository) MaxVersion(postID, locale string) (uint, error) {
	var max uint
	if err := r.db.Model(&models.Revision{}).
		Where("post_id = ? AND locale = ?", postID, locale).
		Select("COALESCE(MAX(version), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max, nil
}

// Append 追加历史版本，版本号由仓库按 max+1 分配，调用方传入的 Version 会被覆盖
// 需在持有文章行锁的事务内调用；唯一索引冲突返回 ErrRevisionVersionTaken
func (r *GormRevisionRepository) Append(revision *models.Revision) error {
	if revision == nil {
		return fmt.Errorf("revision is nil")
	}
	max, err := r.MaxVersion(revision.PostID, revision.Locale)
	if err != nil {
		return err
	}
	revision.ID = 0
	revision.Version = max + 1
	if revision.SchemaVersion == 0 {
		revision.SchemaVersion = models.RevisionSnapshotSchemaVersion
	}
	if err := r.db.Create(revision).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrRevisionVersionTaken
		}
		return err
	}
	return nil
}

// ListByPostLocale 按版本号倒序列出历史版本
func (r *GormRevisionRepository) ListByPostLocale(postID, locale string) ([]models.Revision, error) {
	var revisions []models.Revision
	if err := r.db.Preload("CreatedBy").
		Where("post_id = ? AND locale = ?", postID, locale).
		Order("version DESC").
		Find(&revisions).Error; err != nil {
		return nil, err
	}
	return revisions, nil
}

// GetByVersion 获取指定版本
func (r *GormRevisionRepository) GetByVersion(postID, locale string, version uint) (*models.Revision, error) {
	if version == 0 {
		return nil, nil
	}
	return firstOrNil[models.Revision](r.db.Preload("CreatedBy").
		Where("post_id = ? AND locale = ? AND version = ?", postID, locale, version))
}

// CountAll 统计历史版本总数
func (r *GormRevisionRepository) CountAll() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Revision{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
