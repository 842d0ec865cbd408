package public

import (
	"github.com/krishi-setu/internal/http/handlers/shared"
	"github.com/krishi-setu/internal/http/response"
	"github.com/krishi-setu/internal/models"
	"github.com/krishi-setu/internal/service"
	"github.com/krishi-setu/internal/session"

	"github.com/gin-gonic/gin"
)

// UpdateProfileRequest 资料更新请求，未提交的字段保持不变
type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone" binding:"omitempty,phone_in"`
}

// UpdateAddressRequest 地址更新请求
type UpdateAddressRequest struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode" binding:"omitempty,pincode"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// GetProfile 个人资料
func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	user, err := h.ProfileService.Get(userID)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	shared.Success(c, user)
}

// UpdateProfile 更新资料，名称变更同步到会话
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	user, err := h.ProfileService.Update(userID, service.UpdateProfileInput{Name: req.Name, Phone: req.Phone})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	if sess := session.Current(c); sess.Data.Name != user.Name {
		sess.Data.Name = user.Name
		sess.MarkDirty()
	}
	shared.Success(c, user)
}

// UpdateAddress 更新默认地址
func (h *Handler) UpdateAddress(c *gin.Context) {
	userID, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	var req UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.address_invalid", nil)
		return
	}
	user, err := h.ProfileService.UpdateAddress(userID, models.Address{
		Street:  req.Street,
		City:    req.City,
		State:   req.State,
		Pincode: req.Pincode,
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	shared.Success(c, user)
}

// ChangePassword 修改密码
func (h *Handler) ChangePassword(c *gin.Context) {
	userID, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.ProfileService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	shared.Success(c, gin.H{"message": shared.T(c, "success.password")})
}

// UpdateNotificationPrefs 更新通知偏好
func (h *Handler) UpdateNotificationPrefs(c *gin.Context) {
	userID, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	var req models.NotificationPrefs
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	user, err := h.ProfileService.UpdateNotificationPrefs(userID, req)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	shared.Success(c, user.Notifications)
}

// GetProfileStats 个人统计
func (h *Handler) GetProfileStats(c *gin.Context) {
	userID, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	stats, err := h.ProfileService.Stats(userID)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	shared.Success(c, stats)
}
