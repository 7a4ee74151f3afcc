package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hostara-next/internal/logger"
	"github.com/hostara-next/internal/models"
	"github.com/hostara-next/internal/provider"
	"github.com/hostara-next/internal/queue"
	"github.com/hostara-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderTimeoutCancel, c.handleOrderTimeoutCancel)
	mux.HandleFunc(queue.TaskReferralConfirmDue, c.handleReferralConfirmDue)
	mux.HandleFunc(queue.TaskOrderReceiptNotify, c.handleOrderReceiptNotify)
}

func (c *Consumer) handleOrderTimeoutCancel(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderTimeoutCancelPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_timeout_cancel_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_timeout_cancel_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.OrderService == nil {
		logger.Warnw("worker_order_timeout_cancel_skip_order_service_nil", "order_id", payload.OrderID)
		return nil
	}
	if err := c.OrderService.CancelExpiredOrder(payload.OrderID); err != nil {
		if errors.Is(err, service.ErrOrderUpdateFailed) {
			logger.Warnw("worker_order_timeout_cancel_update_failed", "order_id", payload.OrderID, "error", err)
		} else {
			logger.Warnw("worker_order_timeout_cancel_failed", "order_id", payload.OrderID, "error", err)
		}
		return err
	}
	return nil
}

func (c *Consumer) handleReferralConfirmDue(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	if c.ReferralService == nil {
		logger.Warnw("worker_referral_confirm_due_skip_service_nil")
		return nil
	}
	confirmed, err := c.ReferralService.ConfirmDueEarnings(time.Now())
	if err != nil {
		logger.Warnw("worker_referral_confirm_due_failed", "error", err)
		return err
	}
	if confirmed > 0 {
		logger.Infow("worker_referral_confirm_due_done", "confirmed", confirmed)
	}
	return nil
}

func (c *Consumer) handleOrderReceiptNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderReceiptNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_receipt_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_receipt_notify_fetch_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_receipt_notify_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}

	// 回执投递目前只落结构化日志；邮件通道接入后在此扩展。
	logger.Infow("order_receipt",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", order.UserID,
		"summary", buildOrderReceiptSummary(order),
		"status", order.Status,
	)
	return nil
}

// buildOrderReceiptSummary 生成回执摘要文本
func buildOrderReceiptSummary(order *models.Order) string {
	if order == nil {
		return ""
	}
	cycle := strings.TrimSpace(order.BillingCycle)
	if cycle == "" {
		cycle = "unknown"
	}
	return fmt.Sprintf("%s %s %s/%s", order.OrderNo, order.GrandTotal.String(), order.Currency, cycle)
}
