package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// 支持的界面语言
const (
	LocaleVI = "vi"
	LocaleEN = "en"
)

// DefaultLocale 默认语言
const DefaultLocale = LocaleVI

var matcher = language.NewMatcher([]language.Tag{
	language.Vietnamese,
	language.English,
})

// ResolveLocale 解析请求语言，优先级：?lang= > X-Locale > Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if locale, ok := Normalize(c.Query("lang")); ok {
		return locale
	}
	if locale, ok := Normalize(c.GetHeader("X-Locale")); ok {
		return locale
	}
	header := strings.TrimSpace(c.GetHeader("Accept-Language"))
	if header == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	if index == 1 {
		return LocaleEN
	}
	return LocaleVI
}

// Normalize 将任意语言标签归一为支持的界面语言
func Normalize(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	switch base.String() {
	case LocaleVI:
		return LocaleVI, true
	case LocaleEN:
		return LocaleEN, true
	default:
		return "", false
	}
}

// T 翻译消息，缺失时回退到英文，再回退到 key 本身
func T(locale, key string) string {
	if table, ok := messages[locale]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[LocaleEN][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化消息
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
