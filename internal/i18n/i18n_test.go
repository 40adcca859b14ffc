package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newContext(target string, headers map[string]string) *gin.Context {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	c.Request = req
	return c
}

func TestResolveLocale(t *testing.T) {
	assert.Equal(t, LocaleEN, ResolveLocale(newContext("/?lang=en-US", nil)))
	assert.Equal(t, LocaleVI, ResolveLocale(newContext("/", map[string]string{"X-Locale": "vi-VN"})))
	assert.Equal(t, LocaleEN, ResolveLocale(newContext("/", map[string]string{"Accept-Language": "fr-FR,en;q=0.8"})))
	assert.Equal(t, LocaleVI, ResolveLocale(newContext("/", map[string]string{"Accept-Language": "vi,en;q=0.5"})))
	assert.Equal(t, DefaultLocale, ResolveLocale(newContext("/", nil)))
	assert.Equal(t, DefaultLocale, ResolveLocale(nil))
}

func TestNormalize(t *testing.T) {
	locale, ok := Normalize("EN-gb")
	assert.True(t, ok)
	assert.Equal(t, LocaleEN, locale)

	_, ok = Normalize("zh-CN")
	assert.False(t, ok)
	_, ok = Normalize("not a tag!!")
	assert.False(t, ok)
}

func TestTranslateFallbacks(t *testing.T) {
	assert.Equal(t, "Không tìm thấy bài viết", T(LocaleVI, "error.post_not_found"))
	assert.Equal(t, "Post not found", T("fr", "error.post_not_found"))
	assert.Equal(t, "error.unknown_key", T(LocaleEN, "error.unknown_key"))
	assert.Equal(t, `Slug "hello" already exists for locale "en"`, Sprintf(LocaleEN, "error.slug_conflict", "hello", "en"))
}

func TestMessageTablesHaveSameKeys(t *testing.T) {
	for key := range messages[LocaleEN] {
		_, ok := messages[LocaleVI][key]
		assert.True(t, ok, "missing vi translation for %s", key)
	}
	assert.Equal(t, len(messages[LocaleEN]), len(messages[LocaleVI]))
}
