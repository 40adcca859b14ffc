package service

import (
	"errors"
	"fmt"
)

// 业务错误分类：Conflict / NotFound / InvalidArgument / Internal
var (
	ErrNotFound            = errors.New("not found")
	ErrPostNotFound        = fmt.Errorf("post %w", ErrNotFound)
	ErrTranslationNotFound = fmt.Errorf("translation %w", ErrNotFound)
	ErrRevisionNotFound    = fmt.Errorf("revision %w", ErrNotFound)
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)

	ErrConflict        = errors.New("conflict")
	ErrSlugConflict    = fmt.Errorf("slug %w", ErrConflict)
	ErrUserEmailExists = fmt.Errorf("user email %w", ErrConflict)

	ErrInvalidArgument           = errors.New("invalid argument")
	ErrPreviewTokenInvalid       = fmt.Errorf("invalid or expired preview token: %w", ErrInvalidArgument)
	ErrLocaleInvalid             = fmt.Errorf("locale: %w", ErrInvalidArgument)
	ErrTranslationRequired       = fmt.Errorf("at least one translation is required: %w", ErrInvalidArgument)
	ErrTranslationDuplicate      = fmt.Errorf("duplicate locale in payload: %w", ErrInvalidArgument)
	ErrTranslationFieldsRequired = fmt.Errorf("translation fields required: %w", ErrInvalidArgument)
	ErrSlugInvalid               = fmt.Errorf("slug: %w", ErrInvalidArgument)
	ErrStatusInvalid             = fmt.Errorf("status: %w", ErrInvalidArgument)
	ErrVersionInvalid            = fmt.Errorf("version: %w", ErrInvalidArgument)
	ErrCategoryNotFound          = fmt.Errorf("category: %w", ErrInvalidArgument)
	ErrTagNotFound               = fmt.Errorf("tag: %w", ErrInvalidArgument)
	ErrRoleInvalid               = fmt.Errorf("role: %w", ErrInvalidArgument)
	ErrWeakPassword              = fmt.Errorf("weak password: %w", ErrInvalidArgument)

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user disabled")

	ErrInternal = errors.New("internal error")
	// ErrConcurrentEdit 版本号分配竞争失败，只作为 InternalError 的原因出现
	ErrConcurrentEdit = errors.New("concurrent edit")
)

// SlugConflictError 指明冲突的语言与 slug，调用方可只修正该字段
type SlugConflictError struct {
	Locale string
	Slug   string
}

func (e *SlugConflictError) Error() string {
	return fmt.Sprintf("slug %q already exists for locale %q", e.Slug, e.Locale)
}

func (e *SlugConflictError) Is(target error) bool {
	return target == ErrSlugConflict || target == ErrConflict
}

// TranslationFieldsError 指明缺少必填字段的语言
type TranslationFieldsError struct {
	Locale string
	Fields []string
}

func (e *TranslationFieldsError) Error() string {
	return fmt.Sprintf("translation %q missing fields %v", e.Locale, e.Fields)
}

func (e *TranslationFieldsError) Is(target error) bool {
	return target == ErrTranslationFieldsRequired || target == ErrInvalidArgument
}

// InternalError 包装存储层失败
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("internal error: %v", e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

func (e *InternalError) Is(target error) bool {
	return target == ErrInternal
}

// internalErr 已分类的业务错误原样返回，其余包装为 InternalError
func internalErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if isClassified(err) {
		return err
	}
	return &InternalError{Op: op, Err: err}
}

func isClassified(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrInternal)
}
