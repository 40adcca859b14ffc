package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/inkpress/internal/cache"
	"github.com/inkpress/internal/config"
	"github.com/inkpress/internal/constants"
	"github.com/inkpress/internal/models"
	"github.com/inkpress/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.MigrateDB(db))
	cache.UseClient(nil, "")

	cfg := &config.Config{
		JWT: config.JWTConfig{SecretKey: "test-secret", ExpireHours: 2},
		Security: config.SecurityConfig{PasswordPolicy: config.PasswordPolicyConfig{
			MinLength:     8,
			RequireUpper:  true,
			RequireLower:  true,
			RequireNumber: true,
		}},
	}
	auditSvc := NewAuditService(repository.NewAuditLogRepository(db), nil, false)
	return NewAuthService(cfg, repository.NewUserRepository(db), auditSvc), db
}

func TestCreateUserAndLogin(t *testing.T) {
	svc, db := setupAuthServiceTest(t)

	user, err := svc.CreateUser(CreateUserInput{Email: " Editor@Example.com ", Name: "Ed", Password: "Secret123", Role: "editor"})
	require.NoError(t, err)
	assert.Equal(t, "editor@example.com", user.Email)
	assert.Equal(t, constants.RoleEditor, user.Role)
	assert.NotEqual(t, "Secret123", user.PasswordHash)

	loggedIn, token, expiresAt, err := svc.Login("EDITOR@example.com", "Secret123", Actor{IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, constants.RoleEditor, claims.Role)

	var logins int64
	require.NoError(t, db.Model(&models.AuditLog{}).Where("action = ?", constants.AuditActionLogin).Count(&logins).Error)
	assert.Equal(t, int64(1), logins)
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	_, err := svc.CreateUser(CreateUserInput{Email: "weak@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.CreateUser(CreateUserInput{Email: "role@example.com", Password: "Secret123", Role: "owner"})
	assert.ErrorIs(t, err, ErrRoleInvalid)

	_, err = svc.CreateUser(CreateUserInput{Email: "no-at-sign", Password: "Secret123"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	user, err := svc.CreateUser(CreateUserInput{Email: "dup@example.com", Password: "Secret123"})
	require.NoError(t, err)
	assert.Equal(t, constants.RoleAuthor, user.Role, "role defaults to author")
	_, err = svc.CreateUser(CreateUserInput{Email: "DUP@example.com", Password: "Secret123"})
	assert.ErrorIs(t, err, ErrUserEmailExists)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLoginFailures(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	_, err := svc.CreateUser(CreateUserInput{Email: "writer@example.com", Password: "Secret123"})
	require.NoError(t, err)

	_, _, _, err = svc.Login("writer@example.com", "Wrong123", Actor{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, _, err = svc.Login("nobody@example.com", "Secret123", Actor{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "writer@example.com").Update("status", constants.UserStatusDisabled).Error)
	_, _, _, err = svc.Login("writer@example.com", "Secret123", Actor{})
	assert.ErrorIs(t, err, ErrUserDisabled)
}

func TestParseJWTRejectsForeignSecret(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	user := &models.User{ID: 7, Email: "x@example.com", Role: constants.RoleAdmin}
	token, _, err := svc.GenerateJWT(user)
	require.NoError(t, err)

	other := NewAuthService(&config.Config{JWT: config.JWTConfig{SecretKey: "other"}}, nil, nil)
	_, err = other.ParseJWT(token)
	assert.Error(t, err)
}

func TestValidatePasswordPolicy(t *testing.T) {
	policy := config.PasswordPolicyConfig{MinLength: 8, RequireUpper: true, RequireLower: true, RequireNumber: true, RequireSpecial: true}
	cases := map[string]string{
		"Ab1!":      "error.password_min_length",
		"abcdefg1!": "error.password_require_upper",
		"ABCDEFG1!": "error.password_require_lower",
		"Abcdefgh!": "error.password_require_number",
		"Abcdefgh1": "error.password_require_special",
	}
	for password, key := range cases {
		err := validatePassword(policy, password, "")
		require.Error(t, err, password)
		policyErr, ok := err.(passwordPolicyError)
		require.True(t, ok, password)
		assert.Equal(t, key, policyErr.Key(), password)
		assert.ErrorIs(t, err, ErrWeakPassword)
	}
	assert.NoError(t, validatePassword(policy, "Abcdefg1!", "editor@example.com"))
}

func TestValidatePasswordLimits(t *testing.T) {
	policy := config.PasswordPolicyConfig{MinLength: 8}

	err := validatePassword(policy, strings.Repeat("a", 73), "")
	require.Error(t, err)
	assert.Equal(t, "error.password_max_length", err.(passwordPolicyError).Key())
	assert.Equal(t, []interface{}{72}, err.(passwordPolicyError).Args())

	err = validatePassword(policy, "My-Minh.Nguyen-2026", "minh.nguyen@example.com")
	require.Error(t, err)
	assert.Equal(t, "error.password_contains_email", err.(passwordPolicyError).Key())

	assert.NoError(t, validatePassword(policy, "xx-ab-2026-long", "ab@example.com"))
}
