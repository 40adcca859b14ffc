package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// RevisionSnapshotSchemaVersion 当前快照结构版本
// 调整 TranslationSnapshot 字段含义时需要递增
const RevisionSnapshotSchemaVersion = 1

// Revision 文章语言版本的历史快照表（只追加，不修改）
type Revision struct {
	ID            uint                `gorm:"primarykey" json:"id"`                                                                            // 主键
	PostID        string              `gorm:"type:varchar(36);not null;uniqueIndex:uk_revision_post_locale_version,priority:1" json:"post_id"` // 文章 ID
	Locale        string              `gorm:"type:varchar(16);not null;uniqueIndex:uk_revision_post_locale_version,priority:2" json:"locale"`  // 语言
	Version       uint                `gorm:"not null;uniqueIndex:uk_revision_post_locale_version,priority:3" json:"version"`                  // 版本号（从 1 开始递增）
	SchemaVersion int                 `gorm:"not null;default:1" json:"schema_version"`                                                        // 快照结构版本
	Snapshot      TranslationSnapshot `gorm:"type:json;not null" json:"data"`                                                                  // 快照内容
	CreatedByID   uint                `gorm:"index;not null" json:"created_by_id"`                                                             // 操作人
	CreatedBy     *User               `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`                                              // 操作人信息
	CreatedAt     time.Time           `gorm:"index" json:"created_at"`                                                                         // 创建时间
}

// TableName 指定表名
func (Revision) TableName() string {
	return "revisions"
}

// TranslationSnapshot 语言版本快照（不含渲染结果，回滚时重新渲染）
type TranslationSnapshot struct {
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	Excerpt         string `json:"excerpt"`
	Body            string `json:"body"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	Canonical       string `json:"canonical"`
	OGImage         string `json:"og_image"`
	SchemaType      string `json:"schema_type"`
	SchemaData      JSON   `json:"schema_data"`
	HeroImageID     string `json:"hero_image_id"`
}

// Value 实现 driver.Valuer 接口
func (s TranslationSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan 实现 sql.Scanner 接口
func (s *TranslationSnapshot) Scan(value interface{}) error {
	if value == nil {
		*s = TranslationSnapshot{}
		return nil
	}
	raw, err := scanBytes(value)
	if err != nil {
		return err
	}
	var decoded TranslationSnapshot
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*s = decoded
	return nil
}

// SnapshotOf 从当前语言版本生成快照
func SnapshotOf(t *PostTranslation) TranslationSnapshot {
	if t == nil {
		return TranslationSnapshot{}
	}
	return TranslationSnapshot{
		Title:           t.Title,
		Slug:            t.Slug,
		Excerpt:         t.Excerpt,
		Body:            t.Body,
		MetaTitle:       t.MetaTitle,
		MetaDescription: t.MetaDescription,
		Canonical:       t.Canonical,
		OGImage:         t.OGImage,
		SchemaType:      t.SchemaType,
		SchemaData:      t.SchemaData.Clone(),
		HeroImageID:     t.HeroImageID,
	}
}

// ApplyTo 将快照内容写回语言版本，BodyHTML 由调用方重新渲染
func (s TranslationSnapshot) ApplyTo(t *PostTranslation) {
	if t == nil {
		return
	}
	t.Title = s.Title
	t.Slug = s.Slug
	t.Excerpt = s.Excerpt
	t.Body = s.Body
	t.MetaTitle = s.MetaTitle
	t.MetaDescription = s.MetaDescription
	t.Canonical = s.Canonical
	t.OGImage = s.OGImage
	t.SchemaType = s.SchemaType
	t.SchemaData = s.SchemaData.Clone()
	t.HeroImageID = s.HeroImageID
}
