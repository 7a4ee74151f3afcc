package queue

import (
	"encoding/json"

	"github.com/hostara-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderTimeoutCancel 超时取消任务
	TaskOrderTimeoutCancel = constants.TaskOrderTimeoutCancel
	// TaskReferralConfirmDue 佣金到期确认任务
	TaskReferralConfirmDue = constants.TaskReferralConfirmDue
	// TaskOrderReceiptNotify 订单回执通知任务
	TaskOrderReceiptNotify = constants.TaskOrderReceiptNotify
)

// OrderTimeoutCancelPayload 超时取消任务载荷
type OrderTimeoutCancelPayload struct {
	OrderID uint `json:"order_id"`
}

// ReferralConfirmDuePayload 佣金到期确认任务载荷
type ReferralConfirmDuePayload struct {
	OrderID uint `json:"order_id"`
}

// OrderReceiptNotifyPayload 订单回执通知任务载荷
type OrderReceiptNotifyPayload struct {
	OrderID uint `json:"order_id"`
}

// NewOrderTimeoutCancelTask 创建超时取消任务
func NewOrderTimeoutCancelTask(payload OrderTimeoutCancelPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderTimeoutCancel, body), nil
}

// NewReferralConfirmDueTask 创建佣金到期确认任务
func NewReferralConfirmDueTask(payload ReferralConfirmDuePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReferralConfirmDue, body), nil
}

// NewOrderReceiptNotifyTask 创建订单回执通知任务
func NewOrderReceiptNotifyTask(payload OrderReceiptNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderReceiptNotify, body), nil
}
