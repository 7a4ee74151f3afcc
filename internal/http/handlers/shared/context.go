package shared

import (
	"github.com/hostara-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetContextUint 从 gin 上下文读取 uint 值，缺失或类型不符时直接写错误响应。
func GetContextUint(c *gin.Context, key string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, "未认证")
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, "上下文标识无效", nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, "上下文标识无效", nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, "上下文标识类型错误", nil)
		return 0, false
	}
}
