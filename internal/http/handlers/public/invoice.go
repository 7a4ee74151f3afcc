package public

import (
	"errors"
	"strconv"

	handlershared "github.com/hostara-next/internal/http/handlers/shared"
	"github.com/hostara-next/internal/http/response"
	"github.com/hostara-next/internal/repository"
	"github.com/hostara-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListInvoices 查询当前用户发票
func (h *Handler) ListInvoices(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.InvoiceListFilter{
		Page:      page,
		PageSize:  pageSize,
		UserID:    userID,
		Status:    c.Query("status"),
		InvoiceNo: c.Query("invoice_no"),
	}

	invoices, total, err := h.OrderService.ListUserInvoices(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "发票查询失败", err)
		return
	}
	response.SuccessWithPage(c, invoices, page, pageSize, total)
}

// GetInvoice 查询当前用户发票详情
func (h *Handler) GetInvoice(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	invoiceID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "发票 ID 无效", nil)
		return
	}

	invoice, err := h.OrderService.GetUserInvoice(uint(invoiceID), userID)
	if err != nil {
		if errors.Is(err, service.ErrInvoiceNotFound) {
			respondError(c, response.CodeNotFound, "发票不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "发票查询失败", err)
		return
	}
	response.Success(c, invoice)
}
