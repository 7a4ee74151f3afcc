package public

import (
	"strconv"

	handlershared "github.com/hostara-next/internal/http/handlers/shared"
	"github.com/hostara-next/internal/http/response"
	"github.com/hostara-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListReferralEarnings 查询当前用户的推广佣金明细
func (h *Handler) ListReferralEarnings(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	level, _ := strconv.Atoi(c.Query("level"))
	filter := repository.ReferralEarningListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   c.Query("status"),
		Level:    level,
	}

	earnings, total, err := h.ReferralService.ListEarnings(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "佣金查询失败", err)
		return
	}
	response.SuccessWithPage(c, earnings, page, pageSize, total)
}

// GetReferralSummary 查询当前用户的推广收益汇总
func (h *Handler) GetReferralSummary(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	summary, err := h.ReferralService.Summary(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "佣金汇总查询失败", err)
		return
	}
	response.Success(c, summary)
}
