package repository

import (
	"strings"
	"time"

	"github.com/inkpress/internal/constants"
	"github.com/inkpress/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository 文章数据访问接口
type PostRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) PostRepository

	GetByID(id string) (*models.Post, error)
	GetByIDForUpdate(id string) (*models.Post, error)
	GetVisibleByID(id string, now time.Time, locale string) (*models.Post, error)
	Create(post *models.Post) error
	UpdatePublication(id string, status string, publishAt *time.Time, updatedAt time.Time) error
	Touch(id string, updatedAt time.Time) error
	Delete(id string) error
	List(filter PostListFilter) ([]models.Post, int64, error)
	ListVisible(filter PublicPostListFilter, now time.Time) ([]models.Post, int64, error)
	ReplaceCategories(postID string, categories []models.Category) error
	ReplaceTags(postID string, tags []models.Tag) error
	CountByStatus() (map[string]int64, error)
	CountScheduledPending(now time.Time) (int64, error)
	PromoteDueScheduled(now time.Time) ([]string, error)
}

// GormPostRepository GORM 实现
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建文章仓库
func NewPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPostRepository) WithTx(tx *gorm.DB) PostRepository {
	if tx == nil {
		return r
	}
	return &GormPostRepository{db: tx}
}

// Transaction 执行事务
func (r *GormPostRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// VisibleScope 公开可见条件：status = PUBLISHED 且 (publish_at 为空或不晚于 now)
func VisibleScope(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.status = ?", constants.PostStatusPublished).
			Where("(posts.publish_at IS NULL OR posts.publish_at <= ?)", now)
	}
}

func (r *GormPostRepository) withDetails(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Translations", func(db *gorm.DB) *gorm.DB {
			return db.Order("locale ASC")
		}).
		Preload("Categories").
		Preload("Tags").
		Preload("Author")
}

// GetByID 根据 ID 获取文章（含语言版本、分类、标签与作者）
func (r *GormPostRepository) GetByID(id string) (*models.Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	return firstOrNil[models.Post](r.withDetails(r.db).Where("id = ?", id))
}

// GetByIDForUpdate 加行锁获取文章，用于串行化同一文章的写操作
func (r *GormPostRepository) GetByIDForUpdate(id string) (*models.Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	return firstOrNil[models.Post](r.db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id))
}

// GetVisibleByID 获取公开可见的文章，locale 非空时只加载该语言版本
func (r *GormPostRepository) GetVisibleByID(id string, now time.Time, locale string) (*models.Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	query := r.db.Scopes(VisibleScope(now)).Where("posts.id = ?", id)
	query = preloadPublic(query, locale)
	return firstOrNil[models.Post](query)
}

// Create 创建文章（不级联写入关联，语言版本与分类标签单独写入）
func (r *GormPostRepository) Create(post *models.Post) error {
	return r.db.Omit(clause.Associations).Create(post).Error
}

// UpdatePublication 更新发布状态与发布时间（publishAt 为 nil 时清空）
func (r *GormPostRepository) UpdatePublication(id string, status string, publishAt *time.Time, updatedAt time.Time) error {
	return r.db.Model(&models.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"publish_at": publishAt,
			"updated_at": updatedAt,
		}).Error
}

// Touch 刷新更新时间
func (r *GormPostRepository) Touch(id string, updatedAt time.Time) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).Update("updated_at", updatedAt).Error
}

// Delete 删除文章并级联删除语言版本、历史版本、预览令牌与分类标签关联
func (r *GormPostRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM post_categories WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_tags WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Revision{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PreviewToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostTranslation{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Post{}).Error
	})
}

// List 后台文章列表
func (r *GormPostRepository) List(filter PostListFilter) ([]models.Post, int64, error) {
	query := r.db.Model(&models.Post{})

	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("posts.status = ?", strings.ToUpper(status))
	}
	if filter.AuthorID != 0 {
		query = query.Where("posts.author_id = ?", filter.AuthorID)
	}
	query = r.applyTaxonomyFilter(query, filter.CategoryID, filter.TagID)
	query = r.applyTranslationFilter(query, filter.Locale, filter.Search)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	query = applyPagination(r.withDetails(query), filter.Page, filter.PageSize)
	if err := query.Order("posts.updated_at DESC").Order("posts.id ASC").Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListVisible 前台公开文章列表，按发布时间倒序
func (r *GormPostRepository) ListVisible(filter PublicPostListFilter, now time.Time) ([]models.Post, int64, error) {
	query := r.db.Model(&models.Post{}).Scopes(VisibleScope(now))
	query = r.applyTaxonomyFilter(query, filter.CategoryID, filter.TagID)
	query = r.applyTranslationFilter(query, filter.Locale, filter.Search)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	query = applyPagination(preloadPublic(query, filter.Locale), filter.Page, filter.PageSize)
	if err := query.Order("COALESCE(posts.publish_at, posts.created_at) DESC").Order("posts.id ASC").Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func preloadPublic(query *gorm.DB, locale string) *gorm.DB {
	locale = strings.TrimSpace(locale)
	if locale != "" {
		query = query.Preload("Translations", "locale = ?", locale)
	} else {
		query = query.Preload("Translations", func(db *gorm.DB) *gorm.DB {
			return db.Order("locale ASC")
		})
	}
	return query.Preload("Categories").Preload("Tags").Preload("Author")
}

func (r *GormPostRepository) applyTaxonomyFilter(query *gorm.DB, categoryID, tagID uint) *gorm.DB {
	if categoryID != 0 {
		query = query.Where("posts.id IN (?)", r.db.Table("post_categories").Select("post_id").Where("category_id = ?", categoryID))
	}
	if tagID != 0 {
		query = query.Where("posts.id IN (?)", r.db.Table("post_tags").Select("post_id").Where("tag_id = ?", tagID))
	}
	return query
}

func (r *GormPostRepository) applyTranslationFilter(query *gorm.DB, locale, search string) *gorm.DB {
	locale = strings.TrimSpace(locale)
	search = strings.TrimSpace(search)
	if locale == "" && search == "" {
		return query
	}
	sub := r.db.Model(&models.PostTranslation{}).Select("post_id")
	if locale != "" {
		sub = sub.Where("locale = ?", locale)
	}
	if search != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"title", "slug", "excerpt"})
		sub = sub.Where(condition, repeatLikeArgs(likePattern(search), argCount)...)
	}
	return query.Where("posts.id IN (?)", sub)
}

// ReplaceCategories 覆盖文章分类关联
func (r *GormPostRepository) ReplaceCategories(postID string, categories []models.Category) error {
	post := &models.Post{ID: postID}
	if len(categories) == 0 {
		return r.db.Model(post).Association("Categories").Clear()
	}
	return r.db.Model(post).Association("Categories").Replace(categories)
}

// ReplaceTags 覆盖文章标签关联
func (r *GormPostRepository) ReplaceTags(postID string, tags []models.Tag) error {
	post := &models.Post{ID: postID}
	if len(tags) == 0 {
		return r.db.Model(post).Association("Tags").Clear()
	}
	return r.db.Model(post).Association("Tags").Replace(tags)
}

// CountByStatus 按状态统计文章数量
func (r *GormPostRepository) CountByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}
	var rows []row
	if err := r.db.Model(&models.Post{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	result := map[string]int64{
		constants.PostStatusDraft:     0,
		constants.PostStatusReview:    0,
		constants.PostStatusScheduled: 0,
		constants.PostStatusPublished: 0,
	}
	for _, item := range rows {
		result[item.Status] = item.Total
	}
	return result, nil
}

// CountScheduledPending 统计尚未到发布时间的文章数量（SCHEDULED 或未来时间的 PUBLISHED）
func (r *GormPostRepository) CountScheduledPending(now time.Time) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Post{}).
		Where("status IN ?", []string{constants.PostStatusScheduled, constants.PostStatusPublished}).
		Where("publish_at > ?", now).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// PromoteDueScheduled 将发布时间已到的 SCHEDULED 文章改为 PUBLISHED，返回被更新的文章 ID
func (r *GormPostRepository) PromoteDueScheduled(now time.Time) ([]string, error) {
	var ids []string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("status = ? AND publish_at IS NOT NULL AND publish_at <= ?", constants.PostStatusScheduled, now).
			Order("publish_at ASC").
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(&models.Post{}).
			Where("id IN ? AND status = ?", ids, constants.PostStatusScheduled).
			Updates(map[string]interface{}{
				"status":     constants.PostStatusPublished,
				"updated_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
