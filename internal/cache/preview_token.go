package cache

import (
	"context"
	"time"
)

// PreviewTokenEntry 预览令牌缓存记录
// 只缓存令牌指向的文章与过期时间，文章内容每次都实时读取
type PreviewTokenEntry struct {
	PostID    string    `json:"post_id"`
	Locale    string    `json:"locale"`
	ExpiresAt time.Time `json:"expires_at"`
}

func previewTokenKey(token string) string {
	return "preview:" + token
}

// GetPreviewToken 获取预览令牌缓存
func GetPreviewToken(ctx context.Context, token string) (*PreviewTokenEntry, bool, error) {
	if token == "" {
		return nil, false, nil
	}
	var entry PreviewTokenEntry
	hit, err := GetJSON(ctx, previewTokenKey(token), &entry)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &entry, true, nil
}

// SetPreviewToken 写入预览令牌缓存，TTL 不超过令牌剩余有效期
func SetPreviewToken(ctx context.Context, token string, entry *PreviewTokenEntry, now time.Time) error {
	if token == "" || entry == nil {
		return nil
	}
	return SetJSON(ctx, previewTokenKey(token), entry, entry.ExpiresAt.Sub(now))
}

// DelPreviewToken 删除预览令牌缓存
func DelPreviewToken(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return Del(ctx, previewTokenKey(token))
}
