package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/inkpress/internal/cache"
	"github.com/inkpress/internal/constants"
	"github.com/inkpress/internal/logger"
	"github.com/inkpress/internal/metrics"
	"github.com/inkpress/internal/models"
	"github.com/inkpress/internal/repository"
)

const (
	previewTokenBytes      = 32
	defaultPreviewTokenTTL = 24 * time.Hour
)

// PreviewService 预览令牌签发与解析
// 令牌是持有即可访问的能力凭证：过期前可读取文章当前内容，不受发布状态限制；过期时间固定，不续期
type PreviewService struct {
	tokenRepo    repository.PreviewTokenRepository
	postRepo     repository.PostRepository
	validator    *TranslationValidator
	auditService *AuditService
	ttl          time.Duration
	frontendURL  string
	now          func() time.Time
}

// NewPreviewService 创建预览服务
func NewPreviewService(
	tokenRepo repository.PreviewTokenRepository,
	postRepo repository.PostRepository,
	validator *TranslationValidator,
	auditService *AuditService,
	ttl time.Duration,
	frontendURL string,
) *PreviewService {
	if ttl <= 0 {
		ttl = defaultPreviewTokenTTL
	}
	return &PreviewService{
		tokenRepo:    tokenRepo,
		postRepo:     postRepo,
		validator:    validator,
		auditService: auditService,
		ttl:          ttl,
		frontendURL:  strings.TrimRight(strings.TrimSpace(frontendURL), "/"),
		now:          utcNow,
	}
}

// IssuedPreviewToken 签发结果
type IssuedPreviewToken struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	Locale    string    `json:"locale,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Issue 为文章签发预览令牌，locale 非空时只允许预览该语言
func (s *PreviewService) Issue(ctx context.Context, postID, locale string, actor Actor) (*IssuedPreviewToken, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, internalErr("get post", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if strings.TrimSpace(locale) != "" {
		locale, err = s.validator.NormalizeLocale(locale)
		if err != nil {
			return nil, err
		}
		if post.Translation(locale) == nil {
			return nil, ErrTranslationNotFound
		}
	}

	token, err := generatePreviewToken()
	if err != nil {
		return nil, &InternalError{Op: "generate preview token", Err: err}
	}
	now := s.now()
	record := &models.PreviewToken{
		Token:       token,
		PostID:      post.ID,
		Locale:      locale,
		ExpiresAt:   now.Add(s.ttl),
		CreatedByID: actor.UserID,
		CreatedAt:   now,
	}
	if err := s.tokenRepo.Create(record); err != nil {
		return nil, internalErr("create preview token", err)
	}
	if err := cache.SetPreviewToken(ctx, token, &cache.PreviewTokenEntry{
		PostID:    record.PostID,
		Locale:    record.Locale,
		ExpiresAt: record.ExpiresAt,
	}, now); err != nil {
		logger.Warnw("preview_token_cache_set_failed", "post_id", post.ID, "error", err)
	}

	s.auditService.Record(actor, AuditEntry{
		Action:   constants.AuditActionPreview,
		Entity:   constants.AuditEntityPost,
		EntityID: post.ID,
		NewValue: map[string]interface{}{"locale": locale, "expires_at": record.ExpiresAt},
	})
	return &IssuedPreviewToken{
		Token:     token,
		URL:       s.buildURL(token),
		Locale:    locale,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

// Resolve 解析令牌并返回文章当前内容
// 令牌不存在与已过期返回同一个错误，避免被用来探测令牌
func (s *PreviewService) Resolve(ctx context.Context, token string) (*models.Post, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrPreviewTokenInvalid
	}
	now := s.now()
	entry, err := s.lookup(ctx, token, now)
	if err != nil {
		return nil, err
	}
	if entry == nil || !now.Before(entry.ExpiresAt) {
		metrics.PreviewResolutions.WithLabelValues("invalid").Inc()
		return nil, ErrPreviewTokenInvalid
	}

	post, err := s.postRepo.GetByID(entry.PostID)
	if err != nil {
		return nil, internalErr("get post", err)
	}
	if post == nil {
		// 文章已删除，令牌随之级联删除，缓存条目也不再有效
		if err := cache.DelPreviewToken(ctx, token); err != nil {
			logger.Warnw("preview_token_cache_del_failed", "post_id", entry.PostID, "error", err)
		}
		metrics.PreviewResolutions.WithLabelValues("invalid").Inc()
		return nil, ErrPreviewTokenInvalid
	}
	if entry.Locale != "" {
		post.Translations = filterTranslations(post.Translations, entry.Locale)
	}
	metrics.PreviewResolutions.WithLabelValues("ok").Inc()
	return post, nil
}

// PurgeExpired 删除已过期的令牌记录（仅回收存储，有效性始终在读取时判断）
func (s *PreviewService) PurgeExpired(ctx context.Context) (int64, error) {
	deleted, err := s.tokenRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, internalErr("purge preview tokens", err)
	}
	if deleted > 0 {
		logger.Infow("preview_tokens_purged", "count", deleted)
	}
	return deleted, nil
}

func (s *PreviewService) lookup(ctx context.Context, token string, now time.Time) (*cache.PreviewTokenEntry, error) {
	entry, hit, err := cache.GetPreviewToken(ctx, token)
	if err != nil {
		logger.Warnw("preview_token_cache_get_failed", "error", err)
	}
	if hit && entry != nil {
		return entry, nil
	}
	record, err := s.tokenRepo.GetByToken(token)
	if err != nil {
		return nil, internalErr("get preview token", err)
	}
	if record == nil || !record.ValidAt(now) {
		return nil, nil
	}
	entry = &cache.PreviewTokenEntry{
		PostID:    record.PostID,
		Locale:    record.Locale,
		ExpiresAt: record.ExpiresAt,
	}
	if err := cache.SetPreviewToken(ctx, token, entry, now); err != nil {
		logger.Warnw("preview_token_cache_set_failed", "post_id", record.PostID, "error", err)
	}
	return entry, nil
}

func (s *PreviewService) buildURL(token string) string {
	if s.frontendURL == "" {
		return fmt.Sprintf("/preview/%s", token)
	}
	return fmt.Sprintf("%s/preview/%s", s.frontendURL, token)
}

func generatePreviewToken() (string, error) {
	buf := make([]byte, previewTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func filterTranslations(translations []models.PostTranslation, locale string) []models.PostTranslation {
	result := make([]models.PostTranslation, 0, 1)
	for _, item := range translations {
		if item.Locale == locale {
			result = append(result, item)
		}
	}
	return result
}
