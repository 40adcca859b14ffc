package worker

import (
	"context"
	"time"

	"github.com/inkpress/internal/logger"

	"github.com/hibiken/asynq"
)

// RunMaintenanceLoop 队列关闭时的进程内维护循环：启动时各执行一次，之后按周期执行直到 ctx 结束
// 队列启用时同样的工作由 Scheduler 入队、handlePromoteScheduled / handlePurgePreviews 执行
func RunMaintenanceLoop(ctx context.Context, consumer *Consumer, promoteEvery, purgeEvery time.Duration) {
	if consumer == nil || consumer.Container == nil {
		return
	}
	_ = consumer.promoteDueScheduled()
	_ = consumer.purgeExpiredPreviews(ctx)

	promote := time.NewTicker(promoteEvery)
	defer promote.Stop()
	purge := time.NewTicker(purgeEvery)
	defer purge.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-promote.C:
			_ = consumer.promoteDueScheduled()
		case <-purge.C:
			_ = consumer.purgeExpiredPreviews(ctx)
		}
	}
}

func (c *Consumer) handlePromoteScheduled(_ context.Context, _ *asynq.Task) error {
	return c.promoteDueScheduled()
}

func (c *Consumer) handlePurgePreviews(ctx context.Context, _ *asynq.Task) error {
	return c.purgeExpiredPreviews(ctx)
}

func (c *Consumer) promoteDueScheduled() error {
	if c.PostService == nil {
		return nil
	}
	if _, err := c.PostService.PromoteDueScheduled(); err != nil {
		logger.Warnw("worker_promote_scheduled_failed", "error", err)
		return err
	}
	return nil
}

func (c *Consumer) purgeExpiredPreviews(ctx context.Context) error {
	if c.PreviewService == nil {
		return nil
	}
	if _, err := c.PreviewService.PurgeExpired(ctx); err != nil {
		logger.Warnw("worker_preview_purge_failed", "error", err)
		return err
	}
	return nil
}
