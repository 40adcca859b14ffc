package service

import (
	"strings"
	"time"

	"github.com/inkpress/internal/constants"
)

var validPostStatuses = map[string]struct{}{
	constants.PostStatusDraft:     {},
	constants.PostStatusReview:    {},
	constants.PostStatusScheduled: {},
	constants.PostStatusPublished: {},
}

// PublicationState 发布状态机的计算结果
type PublicationState struct {
	Status    string
	PublishAt *time.Time
}

// Scheduled 是否为定时发布
func (s PublicationState) Scheduled() bool {
	return s.Status == constants.PostStatusScheduled
}

// ResolvePublication 根据请求的发布时间计算状态
// requested 为空或不晚于 now 时立即发布（publishAt = now），严格晚于 now 时定时发布（publishAt = requested）
func ResolvePublication(now time.Time, requested *time.Time) PublicationState {
	now = now.UTC()
	if requested != nil && requested.After(now) {
		at := requested.UTC()
		return PublicationState{Status: constants.PostStatusScheduled, PublishAt: &at}
	}
	return PublicationState{Status: constants.PostStatusPublished, PublishAt: &now}
}

// UnpublishedState 下线后的状态：无论之前处于何种状态都回到 DRAFT 并清空发布时间
func UnpublishedState() PublicationState {
	return PublicationState{Status: constants.PostStatusDraft}
}

// IsPubliclyVisible 公开可见判定：status == PUBLISHED 且 (publishAt 为空或 publishAt <= now)
// 与 repository.VisibleScope 的 SQL 条件保持一致
func IsPubliclyVisible(status string, publishAt *time.Time, now time.Time) bool {
	if status != constants.PostStatusPublished {
		return false
	}
	return publishAt == nil || !publishAt.After(now)
}

// NormalizePostStatus 校验并归一化状态值，空值返回 fallback
func NormalizePostStatus(raw string, fallback string) (string, error) {
	status := strings.ToUpper(strings.TrimSpace(raw))
	if status == "" {
		return fallback, nil
	}
	if _, ok := validPostStatuses[status]; !ok {
		return "", ErrStatusInvalid
	}
	return status, nil
}
