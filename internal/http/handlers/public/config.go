package public

import (
	"github.com/hostara-next/internal/constants"
	"github.com/hostara-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetConfig 获取站点公开配置
func (h *Handler) GetConfig(c *gin.Context) {
	response.Success(c, gin.H{
		"currency":               constants.SiteCurrencyDefault,
		"captcha_login_enabled":  h.CaptchaService.LoginRequired(),
		"payment_expire_minutes": h.Config.Order.PaymentExpireMinutes,
	})
}
