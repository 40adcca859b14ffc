package queue

import (
	"encoding/json"
	"time"

	"github.com/inkpress/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskAuditRecord 审计日志写入任务
	TaskAuditRecord = constants.TaskAuditRecord
	// TaskPostPublished 文章上线通知任务
	TaskPostPublished = constants.TaskPostPublished
	// 周期维护任务，载荷为空
	TaskPromoteScheduled = constants.TaskPromoteScheduled
	TaskPurgePreviews    = constants.TaskPurgePreviews
)

// AuditRecordPayload 审计日志任务载荷
type AuditRecordPayload struct {
	UserID    uint                   `json:"user_id"`
	Action    string                 `json:"action"`
	Entity    string                 `json:"entity"`
	EntityID  string                 `json:"entity_id"`
	OldValue  map[string]interface{} `json:"old_value,omitempty"`
	NewValue  map[string]interface{} `json:"new_value,omitempty"`
	IP        string                 `json:"ip"`
	UserAgent string                 `json:"user_agent"`
	RequestID string                 `json:"request_id"`
	At        time.Time              `json:"at"`
}

// PostPublishedPayload 文章上线通知载荷
type PostPublishedPayload struct {
	PostID    string    `json:"post_id"`
	Status    string    `json:"status"`
	PublishAt time.Time `json:"publish_at"`
}

// NewAuditRecordTask 创建审计日志任务
func NewAuditRecordTask(payload AuditRecordPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditRecord, body), nil
}

// NewPostPublishedTask 创建文章上线通知任务
func NewPostPublishedTask(payload PostPublishedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPostPublished, body), nil
}

// DecodeAuditRecord 解析审计日志任务载荷
func DecodeAuditRecord(task *asynq.Task) (AuditRecordPayload, error) {
	var payload AuditRecordPayload
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}

// DecodePostPublished 解析文章上线通知载荷
func DecodePostPublished(task *asynq.Task) (PostPublishedPayload, error) {
	var payload PostPublishedPayload
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
