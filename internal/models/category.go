package models

import "time"

// Category 文章分类表
type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`              // 主键
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`  // 唯一标识
	NameJSON  JSON      `gorm:"type:json;not null" json:"name"`    // 多语言名称（vi/en）
	SortOrder int       `gorm:"default:0;index" json:"sort_order"` // 排序权重
	CreatedAt time.Time `gorm:"index" json:"created_at"`           // 创建时间
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}

// Tag 文章标签表
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`             // 主键
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"` // 唯一标识
	NameJSON  JSON      `gorm:"type:json;not null" json:"name"`   // 多语言名称（vi/en）
	CreatedAt time.Time `gorm:"index" json:"created_at"`          // 创建时间
}

// TableName 指定表名
func (Tag) TableName() string {
	return "tags"
}
