package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/hostara-next/internal/models"
)

const authStateTTL = 5 * time.Minute

// AdminAuthState 管理员鉴权态缓存；避免每个请求都回数据库查管理员
type AdminAuthState struct {
	AdminID uint   `json:"admin_id"`
	Role    string `json:"role"`
	IsSuper bool   `json:"is_super"`
}

// UserAuthState 用户鉴权态缓存
type UserAuthState struct {
	UserID uint   `json:"user_id"`
	Status string `json:"status"`
}

func adminAuthStateKey(adminID uint) string {
	return fmt.Sprintf("auth:admin:%d", adminID)
}

func userAuthStateKey(userID uint) string {
	return fmt.Sprintf("auth:user:%d", userID)
}

// BuildAdminAuthState 从管理员模型构建缓存态
func BuildAdminAuthState(admin *models.Admin) *AdminAuthState {
	if admin == nil {
		return nil
	}
	return &AdminAuthState{
		AdminID: admin.ID,
		Role:    admin.Role,
		IsSuper: admin.IsSuper,
	}
}

// BuildUserAuthState 从用户模型构建缓存态
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	return &UserAuthState{
		UserID: user.ID,
		Status: user.Status,
	}
}

// GetAdminAuthState 读取管理员鉴权态缓存
func GetAdminAuthState(ctx context.Context, adminID uint) (*AdminAuthState, bool, error) {
	if adminID == 0 {
		return nil, false, nil
	}
	var state AdminAuthState
	hit, err := GetJSON(ctx, adminAuthStateKey(adminID), &state)
	if err != nil || !hit {
		return nil, false, err
	}
	return &state, true, nil
}

// SetAdminAuthState 写入管理员鉴权态缓存
func SetAdminAuthState(ctx context.Context, state *AdminAuthState) error {
	if state == nil || state.AdminID == 0 {
		return nil
	}
	return SetJSON(ctx, adminAuthStateKey(state.AdminID), state, authStateTTL)
}

// DelAdminAuthState 失效管理员鉴权态缓存
func DelAdminAuthState(ctx context.Context, adminID uint) error {
	if adminID == 0 {
		return nil
	}
	return Del(ctx, adminAuthStateKey(adminID))
}

// GetUserAuthState 读取用户鉴权态缓存
func GetUserAuthState(ctx context.Context, userID uint) (*UserAuthState, bool, error) {
	if userID == 0 {
		return nil, false, nil
	}
	var state UserAuthState
	hit, err := GetJSON(ctx, userAuthStateKey(userID), &state)
	if err != nil || !hit {
		return nil, false, err
	}
	return &state, true, nil
}

// SetUserAuthState 写入用户鉴权态缓存
func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	return SetJSON(ctx, userAuthStateKey(state.UserID), state, authStateTTL)
}

// DelUserAuthState 失效用户鉴权态缓存
func DelUserAuthState(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	return Del(ctx, userAuthStateKey(userID))
}
