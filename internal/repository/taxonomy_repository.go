package repository

import (
	"strings"

	"github.com/inkpress/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository 分类数据访问接口
type CategoryRepository interface {
	ListByIDs(ids []uint) ([]models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	Create(category *models.Category) error
	List() ([]models.Category, error)
}

// TagRepository 标签数据访问接口
type TagRepository interface {
	ListByIDs(ids []uint) ([]models.Tag, error)
	GetBySlug(slug string) (*models.Tag, error)
	Create(tag *models.Tag) error
	List() ([]models.Tag, error)
}

// taxonomyRepository 分类与标签共用的查询实现，二者只在排序规则上不同
type taxonomyRepository[T models.Category | models.Tag] struct {
	db    *gorm.DB
	order string
}

func (r *taxonomyRepository[T]) ListByIDs(ids []uint) ([]T, error) {
	items := []T{}
	if len(ids) == 0 {
		return items, nil
	}
	err := r.db.Where("id IN ?", ids).Order(r.order).Find(&items).Error
	return items, err
}

func (r *taxonomyRepository[T]) GetBySlug(slug string) (*T, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}
	return firstOrNil[T](r.db.Where("slug = ?", slug))
}

func (r *taxonomyRepository[T]) Create(item *T) error {
	return r.db.Create(item).Error
}

func (r *taxonomyRepository[T]) List() ([]T, error) {
	items := []T{}
	err := r.db.Order(r.order).Find(&items).Error
	return items, err
}

// GormCategoryRepository 分类按 sort_order 降序
type GormCategoryRepository struct {
	taxonomyRepository[models.Category]
}

func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{taxonomyRepository[models.Category]{db: db, order: "sort_order DESC, id ASC"}}
}

// GormTagRepository 标签按创建顺序
type GormTagRepository struct {
	taxonomyRepository[models.Tag]
}

func NewTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{taxonomyRepository[models.Tag]{db: db, order: "id ASC"}}
}
