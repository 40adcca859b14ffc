package app

import (
	"errors"
	"net"

	"github.com/inkpress/internal/config"
	"github.com/inkpress/internal/provider"
	"github.com/inkpress/internal/router"
	"github.com/inkpress/internal/worker"
)

// BuildRunner 按启动模式组装服务
// 队列关闭时由 MaintenanceService 负责定时发布与预览令牌清理
func BuildRunner(opts Options) (*Runner, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	container := provider.NewContainer(cfg)

	var services []Service
	if opts.runsAPI() {
		services = append(services, NewHTTPService(listenAddr(cfg.Server), router.SetupRouter(cfg, container)))
	}
	if opts.runsWorker() {
		consumer := worker.NewConsumer(container)
		if cfg.Queue.Enabled {
			workerService, err := worker.NewService(&cfg.Queue, consumer)
			if err != nil {
				return nil, err
			}
			services = append(services, workerService)
		} else {
			services = append(services, NewMaintenanceService(consumer))
		}
	}
	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts, err := normalizeOptions(opts)
	if err != nil {
		return err
	}
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts)
	if err != nil {
		return err
	}
	opts.Logger.Infow("app_start",
		"addr", listenAddr(opts.Config.Server),
		"mode", opts.Mode,
		"queue_enabled", opts.Config.Queue.Enabled,
		"locales", opts.Config.Content.Locales,
	)
	return RunWithOptions(runner, opts)
}

func listenAddr(server config.ServerConfig) string {
	return net.JoinHostPort(server.Host, server.Port)
}
