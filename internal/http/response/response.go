package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应体
type Response struct {
	StatusCode int         `json:"status_code"`          // 业务状态码，0 表示成功
	Msg        string      `json:"msg"`                  // 提示信息
	Data       interface{} `json:"data,omitempty"`       // 业务数据
	RequestID  string      `json:"request_id,omitempty"` // 请求 ID，便于排查
}

// Pagination 分页信息
type Pagination struct {
	Page     int   `json:"page"`      // 当前页码
	PageSize int   `json:"page_size"` // 每页数量
	Total    int64 `json:"total"`     // 总条数
}

// PageData 分页数据载荷
type PageData struct {
	List       interface{} `json:"list"`
	Pagination Pagination  `json:"pagination"`
}

func requestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if value, ok := c.Get("request_id"); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		StatusCode: CodeOK,
		Msg:        "success",
		Data:       data,
		RequestID:  requestID(c),
	})
}

// SuccessWithMsg 带自定义提示的成功响应
func SuccessWithMsg(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		StatusCode: CodeOK,
		Msg:        msg,
		Data:       data,
		RequestID:  requestID(c),
	})
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, list interface{}, page, pageSize int, total int64) {
	Success(c, PageData{
		List: list,
		Pagination: Pagination{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
		},
	})
}

// Error 错误响应；HTTP 层始终返回 200，业务码放在响应体内
func Error(c *gin.Context, code int, msg string) {
	c.JSON(http.StatusOK, Response{
		StatusCode: code,
		Msg:        msg,
		RequestID:  requestID(c),
	})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, msg string) {
	Error(c, CodeBadRequest, msg)
}

// Unauthorized 未认证响应
func Unauthorized(c *gin.Context, msg string) {
	Error(c, CodeUnauthorized, msg)
}

// Forbidden 无权限响应
func Forbidden(c *gin.Context, msg string) {
	Error(c, CodeForbidden, msg)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, msg string) {
	Error(c, CodeNotFound, msg)
}
