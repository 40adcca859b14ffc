package repository

import "time"

// PostListFilter 后台文章列表过滤条件
type PostListFilter struct {
	Page       int
	PageSize   int
	Status     string
	AuthorID   uint
	CategoryID uint
	TagID      uint
	Locale     string
	Search     string
}

// PublicPostListFilter 前台已发布文章列表过滤条件
type PublicPostListFilter struct {
	Page       int
	PageSize   int
	Locale     string
	CategoryID uint
	TagID      uint
	Search     string
}

// AuditLogListFilter 审计日志列表过滤条件
type AuditLogListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Action      string
	Entity      string
	EntityID    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
