package public

import (
	"github.com/hostara-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetImageCaptcha 生成图片验证码
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondError(c, response.CodeInternal, "验证码生成失败", err)
		return
	}
	response.Success(c, challenge)
}
