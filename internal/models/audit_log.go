package models

import "time"

// AuditLog 内容操作审计日志
// 说明：记录谁在何时对哪个实体做了什么，写入失败不影响主流程
type AuditLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"index;not null;default:0" json:"user_id"`
	Action    string    `gorm:"type:varchar(32);index;not null" json:"action"`
	Entity    string    `gorm:"type:varchar(64);index;not null" json:"entity"`
	EntityID  string    `gorm:"type:varchar(64);index;not null;default:''" json:"entity_id"`
	OldValue  JSON      `gorm:"type:json" json:"old_value"`
	NewValue  JSON      `gorm:"type:json" json:"new_value"`
	IP        string    `gorm:"type:varchar(64);not null;default:''" json:"ip"`
	UserAgent string    `gorm:"type:varchar(500);not null;default:''" json:"user_agent"`
	RequestID string    `gorm:"type:varchar(64);index;not null;default:''" json:"request_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (AuditLog) TableName() string {
	return "audit_logs"
}
