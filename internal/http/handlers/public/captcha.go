package public

import (
	"github.com/krishi-setu/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// GetImageCaptcha 获取图片验证码；未启用时返回 enabled=false
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	if !h.CaptchaService.Enabled() {
		shared.Success(c, gin.H{"enabled": false})
		return
	}
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	shared.Success(c, gin.H{
		"enabled":      true,
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}
