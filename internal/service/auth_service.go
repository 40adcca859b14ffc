package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/inkpress/internal/cache"
	"github.com/inkpress/internal/config"
	"github.com/inkpress/internal/constants"
	"github.com/inkpress/internal/logger"
	"github.com/inkpress/internal/models"
	"github.com/inkpress/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var validRoles = map[string]struct{}{
	constants.RoleAuthor: {},
	constants.RoleEditor: {},
	constants.RoleAdmin:  {},
}

// AuthService 后台用户认证服务
type AuthService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	auditService *AuditService
}

// NewAuthService 创建认证服务实例
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, auditService *AuditService) *AuthService {
	return &AuthService{
		cfg:          cfg,
		userRepo:     userRepo,
		auditService: auditService,
	}
}

// HashPassword 使用 bcrypt 加密密码
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 验证密码
func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePassword 校验密码是否符合策略，email 用于拒绝包含邮箱用户名的密码
func (s *AuthService) ValidatePassword(password, email string) error {
	if s == nil || s.cfg == nil {
		return nil
	}
	return validatePassword(s.cfg.Security.PasswordPolicy, password, email)
}

// JWTClaims JWT 声明
type JWTClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateJWT 生成 JWT Token
func (s *AuthService) GenerateJWT(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expireHours := s.cfg.JWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	expiresAt := now.Add(time.Duration(expireHours) * time.Hour)

	claims := JWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT 解析 JWT Token
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("无效的 token")
}

// Login 后台用户登录
func (s *AuthService) Login(email, password string, actor Actor) (*models.User, string, time.Time, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", time.Time{}, internalErr("get user", err)
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := s.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if user.Status != constants.UserStatusActive {
		return nil, "", time.Time{}, ErrUserDisabled
	}

	token, expiresAt, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", time.Time{}, &InternalError{Op: "generate jwt", Err: err}
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	if err := s.userRepo.UpdateLastLogin(user.ID, now); err != nil {
		logger.Warnw("auth_update_last_login_failed", "user_id", user.ID, "error", err)
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	actor.UserID = user.ID
	s.auditService.Record(actor, AuditEntry{
		Action:   constants.AuditActionLogin,
		Entity:   constants.AuditEntityUser,
		EntityID: user.Email,
	})
	return user, token, expiresAt, nil
}

// CreateUserInput 创建后台用户输入
type CreateUserInput struct {
	Email    string
	Name     string
	Password string
	Role     string
}

// CreateUser 创建后台用户（命令行工具与初始化数据使用）
func (s *AuthService) CreateUser(input CreateUserInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidArgument
	}
	role := strings.ToUpper(strings.TrimSpace(input.Role))
	if role == "" {
		role = constants.RoleAuthor
	}
	if _, ok := validRoles[role]; !ok {
		return nil, ErrRoleInvalid
	}
	if err := s.ValidatePassword(input.Password, email); err != nil {
		return nil, err
	}
	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, internalErr("get user", err)
	}
	if existing != nil {
		return nil, ErrUserEmailExists
	}
	hash, err := s.HashPassword(input.Password)
	if err != nil {
		return nil, &InternalError{Op: "hash password", Err: err}
	}
	user := &models.User{
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		Role:         role,
		Status:       constants.UserStatusActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrUserEmailExists
		}
		return nil, internalErr("create user", err)
	}
	return user, nil
}
