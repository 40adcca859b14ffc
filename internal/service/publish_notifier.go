package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/inkpress/internal/logger"
	"github.com/inkpress/internal/queue"
	"github.com/inkpress/internal/repository"
)

const publishWebhookTimeout = 10 * time.Second

// PublishedPostLink 已发布文章在前台的地址
type PublishedPostLink struct {
	Locale string `json:"locale"`
	Slug   string `json:"slug"`
	URL    string `json:"url"`
}

// PublishWebhookBody 发布通知请求体
type PublishWebhookBody struct {
	Event     string              `json:"event"`
	PostID    string              `json:"post_id"`
	PublishAt *time.Time          `json:"publish_at"`
	Links     []PublishedPostLink `json:"links"`
}

// PublishNotifier 文章上线后通知前台（缓存失效、重新生成静态页等）
// 执行时重新判断公开可见条件，已下线或改期的文章不会被通知
type PublishNotifier struct {
	postRepo   repository.PostRepository
	webhookURL string
	siteURL    string
	client     *http.Client
	now        func() time.Time
}

// NewPublishNotifier 创建发布通知器，webhookURL 为空时只记日志
func NewPublishNotifier(postRepo repository.PostRepository, webhookURL, siteURL string) *PublishNotifier {
	return &PublishNotifier{
		postRepo:   postRepo,
		webhookURL: strings.TrimSpace(webhookURL),
		siteURL:    strings.TrimRight(strings.TrimSpace(siteURL), "/"),
		client:     &http.Client{Timeout: publishWebhookTimeout},
		now:        utcNow,
	}
}

// Notify 处理一条上线通知
func (n *PublishNotifier) Notify(ctx context.Context, payload queue.PostPublishedPayload) error {
	if strings.TrimSpace(payload.PostID) == "" {
		return nil
	}
	post, err := n.postRepo.GetVisibleByID(payload.PostID, n.now(), "")
	if err != nil {
		return err
	}
	if post == nil {
		logger.Debugw("post_published_notify_skip_not_visible", "post_id", payload.PostID)
		return nil
	}

	body := PublishWebhookBody{
		Event:     "post.published",
		PostID:    post.ID,
		PublishAt: post.PublishAt,
		Links:     make([]PublishedPostLink, 0, len(post.Translations)),
	}
	for _, translation := range post.Translations {
		body.Links = append(body.Links, PublishedPostLink{
			Locale: translation.Locale,
			Slug:   translation.Slug,
			URL:    fmt.Sprintf("%s/%s/%s", n.siteURL, translation.Locale, translation.Slug),
		})
	}
	if n.webhookURL == "" {
		logger.Infow("post_published", "post_id", post.ID, "links", len(body.Links))
		return nil
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("publish webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("publish webhook status %d", resp.StatusCode)
	}
	logger.Infow("post_published_webhook_sent", "post_id", post.ID, "status", resp.StatusCode)
	return nil
}
