package service

import (
	"time"

	"github.com/inkpress/internal/logger"
	"github.com/inkpress/internal/models"
	"github.com/inkpress/internal/queue"
	"github.com/inkpress/internal/repository"
)

// Actor 执行操作的主体，由上层鉴权后传入，本层不做权限判断
type Actor struct {
	UserID    uint
	Role      string
	IP        string
	UserAgent string
	RequestID string
}

// AuditEntry 一条审计记录
type AuditEntry struct {
	Action   string
	Entity   string
	EntityID string
	OldValue map[string]interface{}
	NewValue map[string]interface{}
}

// AuditService 审计日志服务
// Record 为尽力而为：任何失败只记日志，不影响主流程
type AuditService struct {
	repo        repository.AuditLogRepository
	queueClient *queue.Client
	async       bool
	now         func() time.Time
}

// NewAuditService 创建审计服务，async 为 true 且队列可用时经队列异步写入
func NewAuditService(repo repository.AuditLogRepository, queueClient *queue.Client, async bool) *AuditService {
	return &AuditService{
		repo:        repo,
		queueClient: queueClient,
		async:       async,
		now:         utcNow,
	}
}

// Record 记录审计日志（fire-and-forget）
func (s *AuditService) Record(actor Actor, entry AuditEntry) {
	if s == nil {
		return
	}
	payload := queue.AuditRecordPayload{
		UserID:    actor.UserID,
		Action:    entry.Action,
		Entity:    entry.Entity,
		EntityID:  entry.EntityID,
		OldValue:  entry.OldValue,
		NewValue:  entry.NewValue,
		IP:        actor.IP,
		UserAgent: actor.UserAgent,
		RequestID: actor.RequestID,
		At:        s.now(),
	}
	if s.async && s.queueClient.Enabled() {
		err := s.queueClient.EnqueueAuditRecord(payload)
		if err == nil {
			return
		}
		logger.Warnw("audit_record_enqueue_failed",
			"action", entry.Action,
			"entity", entry.Entity,
			"entity_id", entry.EntityID,
			"error", err,
		)
	}
	if err := s.Write(payload); err != nil {
		logger.Warnw("audit_record_failed",
			"action", entry.Action,
			"entity", entry.Entity,
			"entity_id", entry.EntityID,
			"error", err,
		)
	}
}

// Write 同步写入审计日志，由队列消费者或同步模式调用
func (s *AuditService) Write(payload queue.AuditRecordPayload) error {
	if s == nil || s.repo == nil {
		return nil
	}
	createdAt := payload.At
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	log := &models.AuditLog{
		UserID:    payload.UserID,
		Action:    payload.Action,
		Entity:    payload.Entity,
		EntityID:  payload.EntityID,
		OldValue:  models.JSON(payload.OldValue),
		NewValue:  models.JSON(payload.NewValue),
		IP:        payload.IP,
		UserAgent: truncate(payload.UserAgent, 500),
		RequestID: payload.RequestID,
		CreatedAt: createdAt.UTC(),
	}
	return s.repo.Create(log)
}

// List 审计日志列表
func (s *AuditService) List(filter repository.AuditLogListFilter) ([]models.AuditLog, int64, error) {
	logs, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, internalErr("list audit logs", err)
	}
	return logs, total, nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max])
}
