package queue

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/inkpress/internal/config"
	"github.com/inkpress/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	DefaultQueue  = constants.QueueDefault
	CriticalQueue = constants.QueueCritical

	auditMaxRetry     = 5
	auditTimeout      = 10 * time.Second
	publishedMaxRetry = 3
	publishedTimeout  = 30 * time.Second
	// 通知任务完成后保留一段时间，期间同一 TaskID 重复入队会被去重
	publishedRetention = 24 * time.Hour
)

// Client asynq 客户端封装
// 队列未启用时 Enqueue 系列方法直接返回 nil，由调用方决定是否同步降级
type Client struct {
	client *asynq.Client
}

// NewClient 创建队列客户端，cfg 为空或未启用时返回禁用状态的客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{client: asynq.NewClient(redisOpt(cfg))}, nil
}

// Enabled 是否已连接队列
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭底层连接
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueAuditRecord 异步写入审计日志
func (c *Client) EnqueueAuditRecord(payload AuditRecordPayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewAuditRecordTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.Enqueue(task,
		asynq.Queue(DefaultQueue),
		asynq.MaxRetry(auditMaxRetry),
		asynq.Timeout(auditTimeout),
	)
	return err
}

// EnqueuePostPublished 推送文章上线通知
// processAt 在未来时延迟到该时刻执行；同一文章同一上线时间只会入队一次
func (c *Client) EnqueuePostPublished(payload PostPublishedPayload, processAt time.Time) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewPostPublishedTask(payload)
	if err != nil {
		return err
	}
	opts := []asynq.Option{
		asynq.Queue(CriticalQueue),
		asynq.MaxRetry(publishedMaxRetry),
		asynq.Timeout(publishedTimeout),
		asynq.TaskID(PostPublishedTaskID(payload.PostID, payload.PublishAt)),
		asynq.Retention(publishedRetention),
	}
	if processAt.After(time.Now()) {
		opts = append(opts, asynq.ProcessAt(processAt))
	}
	_, err = c.client.Enqueue(task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// PostPublishedTaskID 上线通知的去重 ID：post:<id>:published:<unix>
func PostPublishedTaskID(postID string, publishAt time.Time) string {
	return "post:" + postID + ":published:" + strconv.FormatInt(publishAt.Unix(), 10)
}

// BuildServerConfig 生成 worker 端的 asynq 连接与并发配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{CriticalQueue: 6, DefaultQueue: 3},
	}
	if cfg != nil && cfg.Concurrency > 0 {
		serverCfg.Concurrency = cfg.Concurrency
	}
	if cfg != nil && len(cfg.Queues) > 0 {
		serverCfg.Queues = cfg.Queues
	}
	return redisOpt(cfg), serverCfg
}

func redisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = net.JoinHostPort(host, fmt.Sprint(port))
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
