package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/krishi-setu/internal/models"
)

const userStateCacheTTL = 10 * time.Minute

// UserState 用户鉴权快照，角色校验时避免每次查库
type UserState struct {
	UserID    uint   `json:"user_id"`
	Role      string `json:"role"`
	UpdatedAt int64  `json:"updated_at"`
}

func userStateKey(userID uint) string {
	return fmt.Sprintf("auth:user:%d", userID)
}

// BuildUserState 从用户模型构建快照
func BuildUserState(user *models.User) *UserState {
	if user == nil {
		return nil
	}
	return &UserState{
		UserID:    user.ID,
		Role:      user.NormalizedRole(),
		UpdatedAt: time.Now().Unix(),
	}
}

// GetUserState 获取用户快照
func GetUserState(ctx context.Context, userID uint) (*UserState, bool, error) {
	if userID == 0 {
		return nil, false, nil
	}
	var state UserState
	hit, err := GetJSON(ctx, userStateKey(userID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetUserState 写入用户快照
func SetUserState(ctx context.Context, state *UserState) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	return SetJSON(ctx, userStateKey(state.UserID), state, userStateCacheTTL)
}

// DelUserState 删除用户快照（角色变更或删除用户后调用）
func DelUserState(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	return Del(ctx, userStateKey(userID))
}
