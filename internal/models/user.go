package models

import "time"

// User 后台用户表（作者/编辑/管理员）
type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`                                           // 主键
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`            // 登录邮箱
	Name         string     `gorm:"type:varchar(100);not null;default:''" json:"name"`              // 显示名称
	PasswordHash string     `gorm:"not null" json:"-"`                                              // 密码哈希（不返回给前端）
	Role         string     `gorm:"type:varchar(20);not null;default:'AUTHOR';index" json:"role"`   // 角色（AUTHOR/EDITOR/ADMIN）
	Status       string     `gorm:"type:varchar(20);not null;default:'active';index" json:"status"` // 状态（active/disabled）
	TokenVersion uint64     `gorm:"not null;default:0" json:"-"`                                    // Token 版本（用于全量失效）
	LastLoginAt  *time.Time `json:"last_login_at"`                                                  // 最后登录时间
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt    time.Time  `json:"updated_at"`                                                     // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
