package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inkpress/internal/config"
	"github.com/inkpress/internal/logger"
	"github.com/inkpress/internal/queue"

	"github.com/hibiken/asynq"
)

// periodicTask 由 asynq Scheduler 周期入队的维护任务
// Unique 窗口略短于周期，多个 worker 实例同时调度时同一轮只入队一次
type periodicTask struct {
	spec   string
	task   string
	unique time.Duration
}

var maintenanceSchedule = []periodicTask{
	{spec: "@every 1m", task: queue.TaskPromoteScheduled, unique: 50 * time.Second},
	{spec: "@every 1h", task: queue.TaskPurgePreviews, unique: 55 * time.Minute},
}

// Service asynq worker：消费队列任务并调度周期维护
type Service struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
}

// NewService 创建 worker，队列未启用时返回错误
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("worker: queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("worker: consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	serverCfg.ErrorHandler = asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
		logger.Warnw("worker_task_failed", "task", task.Type(), "error", err)
	})

	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		Location: time.UTC,
		EnqueueErrorHandler: func(task *asynq.Task, _ []asynq.Option, err error) {
			if errors.Is(err, asynq.ErrDuplicateTask) {
				return
			}
			logger.Warnw("worker_schedule_enqueue_failed", "task", task.Type(), "error", err)
		},
	})
	for _, entry := range maintenanceSchedule {
		if _, err := scheduler.Register(entry.spec, asynq.NewTask(entry.task, nil),
			asynq.Queue(queue.DefaultQueue),
			asynq.MaxRetry(0),
			asynq.Unique(entry.unique),
		); err != nil {
			return nil, fmt.Errorf("worker: register %s: %w", entry.task, err)
		}
	}

	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		server:    asynq.NewServer(opt, serverCfg),
		scheduler: scheduler,
		mux:       mux,
	}, nil
}

func (s *Service) Name() string {
	return "worker"
}

// Start 启动消费与调度，阻塞到 ctx 结束
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("worker: not initialized")
	}
	if err := s.server.Start(s.mux); err != nil {
		return fmt.Errorf("worker: start server: %w", err)
	}
	if err := s.scheduler.Start(); err != nil {
		s.server.Shutdown()
		return fmt.Errorf("worker: start scheduler: %w", err)
	}
	logger.Infow("worker_started", "periodic_tasks", len(maintenanceSchedule))
	<-ctx.Done()
	return nil
}

// Stop 先停调度再等待进行中的任务完成；asynq 自身按 ShutdownTimeout 限时
func (s *Service) Stop(context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	s.scheduler.Shutdown()
	s.server.Shutdown()
	return nil
}
