package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/inkpress/internal/constants"
	"github.com/inkpress/internal/models"
)

const authStateTTL = 10 * time.Minute

// UserAuthState JWT 中间件需要的用户快照：角色、状态与令牌版本
type UserAuthState struct {
	UserID       uint   `json:"user_id"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	TokenVersion uint64 `json:"token_version"`
}

// Check 校验快照是否允许携带 tokenVersion 的令牌访问，拒绝时返回 i18n 错误键
func (s *UserAuthState) Check(tokenVersion uint64) string {
	if s == nil {
		return "error.token_invalid"
	}
	if !strings.EqualFold(strings.TrimSpace(s.Status), constants.UserStatusActive) {
		return "error.user_disabled"
	}
	if s.TokenVersion != tokenVersion {
		return "error.token_revoked"
	}
	return ""
}

func authStateKey(userID uint) string {
	return "auth:user:" + strconv.FormatUint(uint64(userID), 10)
}

// BuildUserAuthState 从用户记录生成快照
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	return &UserAuthState{
		UserID:       user.ID,
		Role:         user.Role,
		Status:       user.Status,
		TokenVersion: user.TokenVersion,
	}
}

func GetUserAuthState(ctx context.Context, userID uint) (*UserAuthState, bool, error) {
	if userID == 0 {
		return nil, false, nil
	}
	var state UserAuthState
	hit, err := GetJSON(ctx, authStateKey(userID), &state)
	if err != nil || !hit {
		return nil, false, err
	}
	return &state, true, nil
}

func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	return SetJSON(ctx, authStateKey(state.UserID), state, authStateTTL)
}
