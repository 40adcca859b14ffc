package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post 文章表（与语言无关的公共部分）
type Post struct {
	ID           string            `gorm:"primaryKey;type:varchar(36)" json:"id"`                         // 主键（UUID）
	AuthorID     uint              `gorm:"index;not null" json:"author_id"`                               // 作者
	Author       *User             `gorm:"foreignKey:AuthorID" json:"author,omitempty"`                   // 作者信息
	Status       string            `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"` // 状态（DRAFT/REVIEW/SCHEDULED/PUBLISHED）
	PublishAt    *time.Time        `gorm:"index" json:"publish_at"`                                       // 发布时间（定时发布时为未来时间）
	Translations []PostTranslation `gorm:"foreignKey:PostID" json:"translations"`                         // 各语言版本
	Categories   []Category        `gorm:"many2many:post_categories;" json:"categories"`                  // 分类
	Tags         []Tag             `gorm:"many2many:post_tags;" json:"tags"`                              // 标签
	CreatedAt    time.Time         `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt    time.Time         `json:"updated_at"`                                                    // 更新时间
}

// TableName 指定表名
func (Post) TableName() string {
	return "posts"
}

// BeforeCreate 自动生成主键
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Translation 返回指定语言的版本
func (p *Post) Translation(locale string) *PostTranslation {
	if p == nil {
		return nil
	}
	for i := range p.Translations {
		if p.Translations[i].Locale == locale {
			return &p.Translations[i]
		}
	}
	return nil
}

// PostTranslation 文章语言版本表
// 同一语言下 slug 唯一，同一文章每种语言最多一条
type PostTranslation struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                                                                                                                  // 主键
	PostID          string    `gorm:"type:varchar(36);not null;uniqueIndex:uk_post_translation_post_locale,priority:1" json:"post_id"`                                                       // 文章 ID
	Locale          string    `gorm:"type:varchar(16);not null;uniqueIndex:uk_post_translation_post_locale,priority:2;uniqueIndex:uk_post_translation_locale_slug,priority:1" json:"locale"` // 语言
	Slug            string    `gorm:"type:varchar(255);not null;uniqueIndex:uk_post_translation_locale_slug,priority:2" json:"slug"`                                                         // URL 标识
	Title           string    `gorm:"type:varchar(255);not null" json:"title"`                                                                                                               // 标题
	Excerpt         string    `gorm:"type:text" json:"excerpt"`                                                                                                                              // 摘要
	Body            string    `gorm:"type:text;not null" json:"body"`                                                                                                                        // Markdown 正文
	BodyHTML        string    `gorm:"type:text;not null" json:"body_html"`                                                                                                                   // 渲染并净化后的 HTML
	MetaTitle       string    `gorm:"type:varchar(255)" json:"meta_title"`                                                                                                                   // SEO 标题
	MetaDescription string    `gorm:"type:varchar(500)" json:"meta_description"`                                                                                                             // SEO 描述
	Canonical       string    `gorm:"type:varchar(500)" json:"canonical"`                                                                                                                    // 规范链接
	OGImage         string    `gorm:"type:varchar(500)" json:"og_image"`                                                                                                                     // 分享图
	SchemaType      string    `gorm:"type:varchar(50)" json:"schema_type"`                                                                                                                   // 结构化数据类型
	SchemaData      JSON      `gorm:"type:json" json:"schema_data"`                                                                                                                          // 结构化数据
	HeroImageID     string    `gorm:"type:varchar(64)" json:"hero_image_id"`                                                                                                                 // 头图媒体 ID
	CreatedAt       time.Time `json:"created_at"`                                                                                                                                            // 创建时间
	UpdatedAt       time.Time `json:"updated_at"`                                                                                                                                            // 更新时间
}

// TableName 指定表名
func (PostTranslation) TableName() string {
	return "post_translations"
}
