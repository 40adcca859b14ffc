package models

import "time"

// PreviewToken 预览令牌表
// 持有令牌即可在过期前读取文章当前内容，不受发布状态限制
type PreviewToken struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                // 主键
	Token       string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"token"` // 随机令牌（hex）
	PostID      string    `gorm:"type:varchar(36);index;not null" json:"post_id"`      // 文章 ID
	Locale      string    `gorm:"type:varchar(16);not null;default:''" json:"locale"`  // 锁定语言（为空表示全部语言）
	ExpiresAt   time.Time `gorm:"index;not null" json:"expires_at"`                    // 过期时间（绝对时间）
	CreatedByID uint      `gorm:"index;not null;default:0" json:"created_by_id"`       // 签发人
	CreatedAt   time.Time `json:"created_at"`                                          // 创建时间
}

// TableName 指定表名
func (PreviewToken) TableName() string {
	return "preview_tokens"
}

// ValidAt 判断令牌在指定时间是否有效（now < expiresAt）
func (t *PreviewToken) ValidAt(now time.Time) bool {
	if t == nil {
		return false
	}
	return now.Before(t.ExpiresAt)
}
