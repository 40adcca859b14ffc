package service

import (
	"strings"
	"unicode"

	"github.com/inkpress/internal/config"
)

// bcrypt 只使用前 72 字节，超出部分会被静默忽略
const bcryptMaxBytes = 72

// passwordPolicyError 携带 i18n 键与参数，由 HTTP 层翻译成对应语言
type passwordPolicyError struct {
	key  string
	args []interface{}
}

func (e passwordPolicyError) Error() string       { return e.key }
func (e passwordPolicyError) Key() string         { return e.key }
func (e passwordPolicyError) Args() []interface{} { return e.args }

func (e passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword || target == ErrInvalidArgument
}

type charClasses struct {
	upper, lower, digit, special bool
}

func classify(password string) charClasses {
	var c charClasses
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			c.upper = true
		case unicode.IsLower(r):
			c.lower = true
		case unicode.IsDigit(r):
			c.digit = true
		default:
			c.special = true
		}
	}
	return c
}

// validatePassword 按配置校验密码；email 非空时密码不得包含邮箱用户名
func validatePassword(policy config.PasswordPolicyConfig, password, email string) error {
	if n := len([]rune(password)); policy.MinLength > 0 && n < policy.MinLength {
		return passwordPolicyError{key: "error.password_min_length", args: []interface{}{policy.MinLength}}
	}
	if len(password) > bcryptMaxBytes {
		return passwordPolicyError{key: "error.password_max_length", args: []interface{}{bcryptMaxBytes}}
	}

	classes := classify(password)
	rules := []struct {
		required bool
		present  bool
		key      string
	}{
		{policy.RequireUpper, classes.upper, "error.password_require_upper"},
		{policy.RequireLower, classes.lower, "error.password_require_lower"},
		{policy.RequireNumber, classes.digit, "error.password_require_number"},
		{policy.RequireSpecial, classes.special, "error.password_require_special"},
	}
	for _, rule := range rules {
		if rule.required && !rule.present {
			return passwordPolicyError{key: rule.key}
		}
	}

	local, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(email)), "@")
	if len(local) >= 3 && strings.Contains(strings.ToLower(password), local) {
		return passwordPolicyError{key: "error.password_contains_email"}
	}
	return nil
}
