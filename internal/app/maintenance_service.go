package app

import (
	"context"
	"time"

	"github.com/inkpress/internal/worker"
)

const (
	maintenancePromoteInterval = time.Minute
	maintenancePurgeInterval   = time.Hour
)

// MaintenanceService 无队列模式下的周期任务服务
type MaintenanceService struct {
	consumer *worker.Consumer
	done     chan struct{}
}

// NewMaintenanceService 创建周期任务服务
func NewMaintenanceService(consumer *worker.Consumer) *MaintenanceService {
	return &MaintenanceService{consumer: consumer, done: make(chan struct{})}
}

// Name 服务名称
func (s *MaintenanceService) Name() string {
	return "maintenance"
}

// Start 运行直到 ctx 取消
func (s *MaintenanceService) Start(ctx context.Context) error {
	defer close(s.done)
	worker.RunMaintenanceLoop(ctx, s.consumer, maintenancePromoteInterval, maintenancePurgeInterval)
	return nil
}

// Stop 等待周期任务退出
func (s *MaintenanceService) Stop(ctx context.Context) error {
	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
