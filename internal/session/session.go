package session

import (
	"time"

	"github.com/krishi-setu/internal/models"
)

// Data 会话内容：登录身份、购物车与最近一次加购记录
type Data struct {
	UserID    uint                `json:"user_id,omitempty"`
	Role      string              `json:"role,omitempty"`
	Name      string              `json:"name,omitempty"`
	Email     string              `json:"email,omitempty"`
	Cart      []models.CartLine   `json:"cart"`
	LastAdd   *models.CartAddMark `json:"last_add,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// Session 单个会话
type Session struct {
	ID        string
	Data      Data
	ExpiresAt time.Time

	dirty     bool
	destroyed bool
}

// LoggedIn 是否已登录
func (s *Session) LoggedIn() bool {
	return s != nil && s.Data.UserID > 0
}

// SetUser 写入登录身份
func (s *Session) SetUser(user *models.User) {
	if s == nil || user == nil {
		return
	}
	s.Data.UserID = user.ID
	s.Data.Role = user.NormalizedRole()
	s.Data.Name = user.Name
	s.Data.Email = user.Email
	s.dirty = true
}

// ClearUser 清除登录身份，购物车保留
func (s *Session) ClearUser() {
	if s == nil {
		return
	}
	s.Data.UserID = 0
	s.Data.Role = ""
	s.Data.Name = ""
	s.Data.Email = ""
	s.dirty = true
}

// MarkDirty 标记会话需要写回
func (s *Session) MarkDirty() {
	if s != nil {
		s.dirty = true
	}
}

// Dirty 会话是否有未写回的修改
func (s *Session) Dirty() bool {
	return s != nil && s.dirty
}

// Destroyed 会话是否已销毁
func (s *Session) Destroyed() bool {
	return s != nil && s.destroyed
}
