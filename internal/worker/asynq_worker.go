package worker

import (
	"context"
	"strings"

	"github.com/inkpress/internal/logger"
	"github.com/inkpress/internal/provider"
	"github.com/inkpress/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskAuditRecord, c.handleAuditRecord)
	mux.HandleFunc(queue.TaskPostPublished, c.handlePostPublished)
	mux.HandleFunc(queue.TaskPromoteScheduled, c.handlePromoteScheduled)
	mux.HandleFunc(queue.TaskPurgePreviews, c.handlePurgePreviews)
}

func (c *Consumer) handleAuditRecord(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_audit_record_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.DecodeAuditRecord(task)
	if err != nil {
		logger.Warnw("worker_audit_record_unmarshal_failed", "error", err)
		return err
	}
	if strings.TrimSpace(payload.Action) == "" {
		logger.Debugw("worker_audit_record_skip_invalid_payload", "entity", payload.Entity)
		return nil
	}
	if c.AuditService == nil {
		logger.Warnw("worker_audit_record_skip_service_nil", "action", payload.Action)
		return nil
	}
	if err := c.AuditService.Write(payload); err != nil {
		logger.Warnw("worker_audit_record_write_failed",
			"action", payload.Action,
			"entity", payload.Entity,
			"entity_id", payload.EntityID,
			"error", err,
		)
		return err
	}
	return nil
}

// handlePostPublished 在发布时间到达后执行：先把到期的定时文章转为已发布，再推送上线通知
func (c *Consumer) handlePostPublished(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_post_published_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.DecodePostPublished(task)
	if err != nil {
		logger.Warnw("worker_post_published_unmarshal_failed", "error", err)
		return err
	}
	if strings.TrimSpace(payload.PostID) == "" {
		logger.Debugw("worker_post_published_skip_invalid_payload")
		return nil
	}
	if c.PostService != nil {
		if _, err := c.PostService.PromoteDueScheduled(); err != nil {
			logger.Warnw("worker_post_published_promote_failed", "post_id", payload.PostID, "error", err)
			return err
		}
	}
	if c.PublishNotifier == nil {
		return nil
	}
	if err := c.PublishNotifier.Notify(ctx, payload); err != nil {
		logger.Warnw("worker_post_published_notify_failed", "post_id", payload.PostID, "error", err)
		return err
	}
	return nil
}
