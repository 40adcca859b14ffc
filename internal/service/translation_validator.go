package service

import (
	"regexp"
	"strings"

	"github.com/inkpress/internal/models"
	"github.com/inkpress/internal/repository"

	"golang.org/x/text/language"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

const maxSlugLength = 255

// TranslationInput 单个语言版本的写入内容
type TranslationInput struct {
	Locale          string
	Title           string
	Slug            string
	Excerpt         string
	Body            string
	MetaTitle       string
	MetaDescription string
	Canonical       string
	OGImage         string
	SchemaType      string
	SchemaData      map[string]interface{}
	HeroImageID     string
}

// ApplyTo 将输入写入语言版本，BodyHTML 由调用方渲染
func (in TranslationInput) ApplyTo(t *models.PostTranslation) {
	t.Locale = in.Locale
	t.Title = in.Title
	t.Slug = in.Slug
	t.Excerpt = in.Excerpt
	t.Body = in.Body
	t.MetaTitle = in.MetaTitle
	t.MetaDescription = in.MetaDescription
	t.Canonical = in.Canonical
	t.OGImage = in.OGImage
	t.SchemaType = in.SchemaType
	t.SchemaData = models.JSON(in.SchemaData).Clone()
	t.HeroImageID = in.HeroImageID
}

// TranslationValidator 写入前校验语言版本：语言合法、必填字段、同请求内语言不重复、语言内 slug 唯一
// 只读，不产生任何写入
type TranslationValidator struct {
	translationRepo repository.PostTranslationRepository
	locales         map[string]struct{}
}

// NewTranslationValidator 创建校验器，locales 为允许的内容语言
func NewTranslationValidator(translationRepo repository.PostTranslationRepository, locales []string) *TranslationValidator {
	allowed := make(map[string]struct{}, len(locales))
	for _, locale := range locales {
		if normalized, ok := normalizeLocaleTag(locale); ok {
			allowed[normalized] = struct{}{}
		}
	}
	return &TranslationValidator{
		translationRepo: translationRepo,
		locales:         allowed,
	}
}

// NormalizeLocale 归一化语言代码（vi-VN -> vi），不在允许列表时返回 ErrLocaleInvalid
func (v *TranslationValidator) NormalizeLocale(raw string) (string, error) {
	normalized, ok := normalizeLocaleTag(raw)
	if !ok {
		return "", ErrLocaleInvalid
	}
	if len(v.locales) > 0 {
		if _, allowed := v.locales[normalized]; !allowed {
			return "", ErrLocaleInvalid
		}
	}
	return normalized, nil
}

// Normalize 校验并归一化请求内的语言版本（不访问存储）
func (v *TranslationValidator) Normalize(inputs []TranslationInput) ([]TranslationInput, error) {
	result := make([]TranslationInput, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for _, input := range inputs {
		locale, err := v.NormalizeLocale(input.Locale)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[locale]; dup {
			return nil, ErrTranslationDuplicate
		}
		seen[locale] = struct{}{}

		input.Locale = locale
		input.Title = strings.TrimSpace(input.Title)
		input.Slug = strings.TrimSpace(input.Slug)
		var missing []string
		if input.Title == "" {
			missing = append(missing, "title")
		}
		if input.Slug == "" {
			missing = append(missing, "slug")
		}
		if len(missing) > 0 {
			return nil, &TranslationFieldsError{Locale: locale, Fields: missing}
		}
		if !IsValidSlug(input.Slug) {
			return nil, ErrSlugInvalid
		}
		result = append(result, input)
	}
	return result, nil
}

// Validate 完整校验：先归一化全部语言，再逐个检查 slug 是否被其他文章占用
// excludePostID 为更新时的当前文章；repo 为空时使用默认仓库，事务内应传入 WithTx 后的仓库
func (v *TranslationValidator) Validate(repo repository.PostTranslationRepository, inputs []TranslationInput, excludePostID string) ([]TranslationInput, error) {
	normalized, err := v.Normalize(inputs)
	if err != nil {
		return nil, err
	}
	if repo == nil {
		repo = v.translationRepo
	}
	for _, input := range normalized {
		count, err := repo.CountSlugInLocale(input.Locale, input.Slug, excludePostID)
		if err != nil {
			return nil, internalErr("check slug", err)
		}
		if count > 0 {
			return nil, &SlugConflictError{Locale: input.Locale, Slug: input.Slug}
		}
	}
	return normalized, nil
}

// IsValidSlug 判断 slug 是否只含小写字母、数字与连字符
func IsValidSlug(slug string) bool {
	if slug == "" || len(slug) > maxSlugLength {
		return false
	}
	return slugPattern.MatchString(slug)
}

func normalizeLocaleTag(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", false
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return "", false
	}
	return base.String(), true
}
