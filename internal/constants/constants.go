package constants

// 文章状态常量
const (
	PostStatusDraft     = "DRAFT"
	PostStatusReview    = "REVIEW"
	PostStatusScheduled = "SCHEDULED"
	PostStatusPublished = "PUBLISHED"
)

// 后台角色常量（AUTHOR < EDITOR < ADMIN）
const (
	RoleAuthor = "AUTHOR"
	RoleEditor = "EDITOR"
	RoleAdmin  = "ADMIN"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 审计动作常量
const (
	AuditActionCreate    = "CREATE"
	AuditActionUpdate    = "UPDATE"
	AuditActionDelete    = "DELETE"
	AuditActionPublish   = "PUBLISH"
	AuditActionSchedule  = "SCHEDULE"
	AuditActionUnpublish = "UNPUBLISH"
	AuditActionRollback  = "ROLLBACK"
	AuditActionPreview   = "PREVIEW_TOKEN"
	AuditActionLogin     = "LOGIN"
	AuditActionGrant     = "POLICY_GRANT"
	AuditActionRevoke    = "POLICY_REVOKE"
)

// 审计实体常量
const (
	AuditEntityPost = "Post"
	AuditEntityUser = "User"
	AuditEntityRole = "Role"
)

// 支持的内容语言
const (
	LocaleVietnamese = "vi"
	LocaleEnglish    = "en"
)

// 异步队列常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskAuditRecord      = "audit:record"
	TaskPostPublished    = "post:published"
	TaskPromoteScheduled = "maintenance:promote_scheduled"
	TaskPurgePreviews    = "maintenance:purge_previews"
)
