package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator() *TranslationValidator {
	return NewTranslationValidator(nil, []string{"vi", "en"})
}

func TestNormalizeLocale(t *testing.T) {
	v := newTestValidator()
	cases := map[string]string{
		"vi":    "vi",
		"VI":    "vi",
		"vi-VN": "vi",
		"en-US": "en",
		" en ":  "en",
	}
	for raw, want := range cases {
		got, err := v.NormalizeLocale(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "fr", "zh-CN", "not a locale"} {
		_, err := v.NormalizeLocale(raw)
		assert.ErrorIs(t, err, ErrLocaleInvalid, raw)
	}
}

func TestNormalizeTrimsAndKeepsOrder(t *testing.T) {
	v := newTestValidator()
	result, err := v.Normalize([]TranslationInput{
		{Locale: "VI", Title: "  Xin chào ", Slug: " xin-chao "},
		{Locale: "en", Title: "Hello", Slug: "hello"},
	})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "vi", result[0].Locale)
	assert.Equal(t, "Xin chào", result[0].Title)
	assert.Equal(t, "xin-chao", result[0].Slug)
	assert.Equal(t, "en", result[1].Locale)
}

func TestNormalizeMissingFields(t *testing.T) {
	v := newTestValidator()
	_, err := v.Normalize([]TranslationInput{{Locale: "en", Title: "   ", Slug: ""}})

	var fieldsErr *TranslationFieldsError
	require.True(t, errors.As(err, &fieldsErr))
	assert.Equal(t, "en", fieldsErr.Locale)
	assert.Equal(t, []string{"title", "slug"}, fieldsErr.Fields)
	assert.ErrorIs(t, err, ErrTranslationFieldsRequired)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNormalizeDuplicateLocaleAfterNormalization(t *testing.T) {
	v := newTestValidator()
	_, err := v.Normalize([]TranslationInput{
		{Locale: "en", Title: "A", Slug: "a"},
		{Locale: "en-US", Title: "B", Slug: "b"},
	})
	assert.ErrorIs(t, err, ErrTranslationDuplicate)
}

func TestIsValidSlug(t *testing.T) {
	for _, slug := range []string{"a", "hello-world", "post-2026", "x1-y2-z3"} {
		assert.True(t, IsValidSlug(slug), slug)
	}
	for _, slug := range []string{"", "Hello", "hello_world", "-lead", "trail-", "double--dash", "xin chào", "ä", strings.Repeat("a", maxSlugLength+1)} {
		assert.False(t, IsValidSlug(slug), slug)
	}
}

func TestValidateChecksSlugAgainstStorage(t *testing.T) {
	f := setupContentServiceTest(t)
	existing := f.createPost(t, enTranslation("occupied", "Occupied"))

	_, err := f.posts.validator.Validate(nil, []TranslationInput{enTranslation("occupied", "Other")}, "")
	var conflict *SlugConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "occupied", conflict.Slug)

	_, err = f.posts.validator.Validate(nil, []TranslationInput{enTranslation("occupied", "Self")}, existing.ID)
	assert.NoError(t, err, "a post does not conflict with itself")

	_, err = f.posts.validator.Validate(nil, []TranslationInput{viTranslation("occupied", "Khác")}, "")
	assert.NoError(t, err, "slug uniqueness is per locale")
}
