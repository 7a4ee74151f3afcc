package admin

import (
	"strconv"

	handlershared "github.com/hostara-next/internal/http/handlers/shared"
	"github.com/hostara-next/internal/http/response"
	"github.com/hostara-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAdminReferralEarnings 获取推广佣金列表 (Admin)
func (h *Handler) GetAdminReferralEarnings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	referredUserID, _ := strconv.ParseUint(c.Query("referred_user_id"), 10, 64)
	orderID, _ := strconv.ParseUint(c.Query("order_id"), 10, 64)
	level, _ := strconv.Atoi(c.Query("level"))

	filter := repository.ReferralEarningListFilter{
		Page:           page,
		PageSize:       pageSize,
		UserID:         uint(userID),
		ReferredUserID: uint(referredUserID),
		OrderID:        uint(orderID),
		Status:         c.Query("status"),
		Level:          level,
	}

	earnings, total, err := h.ReferralService.ListEarnings(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "佣金查询失败", err)
		return
	}
	response.SuccessWithPage(c, earnings, page, pageSize, total)
}
