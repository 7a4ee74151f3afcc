package service

import (
	"context"
	"time"

	"github.com/hostara-next/internal/config"
	"github.com/hostara-next/internal/constants"
	"github.com/hostara-next/internal/logger"
	"github.com/hostara-next/internal/models"
	"github.com/hostara-next/internal/payment/razorpay"
	"github.com/hostara-next/internal/queue"
	"github.com/hostara-next/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentService 支付服务;负责网关对接与订单完成
type PaymentService struct {
	orderRepo       repository.OrderRepository
	invoiceRepo     repository.InvoiceRepository
	paymentRepo     repository.PaymentRepository
	referralService *ReferralService
	queueClient     *queue.Client
	gatewayCfg      razorpay.Config
	confirmDays     int
}

// NewPaymentService 创建支付服务
func NewPaymentService(orderRepo repository.OrderRepository, invoiceRepo repository.InvoiceRepository, paymentRepo repository.PaymentRepository, referralService *ReferralService, queueClient *queue.Client, cfg config.RazorpayConfig, referralCfg config.ReferralConfig) *PaymentService {
	return &PaymentService{
		orderRepo:       orderRepo,
		invoiceRepo:     invoiceRepo,
		paymentRepo:     paymentRepo,
		referralService: referralService,
		queueClient:     queueClient,
		gatewayCfg: razorpay.Config{
			KeyID:         cfg.KeyID,
			KeySecret:     cfg.KeySecret,
			WebhookSecret: cfg.WebhookSecret,
			BaseURL:       cfg.BaseURL,
			TimeoutMS:     cfg.TimeoutMS,
		},
		confirmDays: referralCfg.ConfirmDays,
	}
}

// CheckoutResult 收银台参数
type CheckoutResult struct {
	OrderNo        string `json:"order_no"`
	GatewayOrderID string `json:"gateway_order_id"`
	AmountSubunits int64  `json:"amount_subunits"`
	Currency       string `json:"currency"`
	KeyID          string `json:"key_id"`
}

// PublicConfig 下发给前端的网关公开配置
type PublicConfig struct {
	KeyID    string `json:"key_id"`
	Currency string `json:"currency"`
}

// GetPublicConfig 获取网关公开配置
func (s *PaymentService) GetPublicConfig() PublicConfig {
	return PublicConfig{
		KeyID:    s.gatewayCfg.KeyID,
		Currency: constants.SiteCurrencyDefault,
	}
}

// Checkout 为本地订单创建网关订单
func (s *PaymentService) Checkout(ctx context.Context, orderID, userID uint) (*CheckoutResult, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.PaymentStatus == constants.OrderPaymentStatusPaid {
		return nil, ErrOrderAlreadyPaid
	}
	if order.Status != constants.OrderStatusPending {
		return nil, ErrOrderCancelNotAllowed
	}

	// 已有网关订单时直接复用,避免重复建单
	if order.GatewayOrderID != "" {
		return &CheckoutResult{
			OrderNo:        order.OrderNo,
			GatewayOrderID: order.GatewayOrderID,
			AmountSubunits: razorpay.ToSubunits(order.GrandTotal.Decimal),
			Currency:       order.Currency,
			KeyID:          s.gatewayCfg.KeyID,
		}, nil
	}

	receipt := uuid.NewString()
	gatewayOrder, err := razorpay.CreateOrder(ctx, &s.gatewayCfg, razorpay.CreateOrderInput{
		Amount:   order.GrandTotal.Decimal,
		Currency: order.Currency,
		Receipt:  receipt,
		Notes:    map[string]string{"order_no": order.OrderNo},
	})
	if err != nil {
		logger.SW().Errorw("创建网关订单失败", "order_id", order.ID, "error", err)
		return nil, ErrPaymentGatewayFailed
	}

	if err := s.orderRepo.UpdateStatus(order.ID, order.Status, map[string]interface{}{
		"gateway_order_id": gatewayOrder.ID,
	}); err != nil {
		return nil, ErrOrderUpdateFailed
	}

	payment := &models.Payment{
		OrderID:        order.ID,
		Provider:       constants.PaymentProviderRazorpay,
		GatewayOrderID: gatewayOrder.ID,
		Amount:         order.GrandTotal,
		Currency:       order.Currency,
		Status:         constants.PaymentStatusInitiated,
		Receipt:        receipt,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		logger.SW().Errorw("记录支付流水失败", "order_id", order.ID, "error", err)
	}

	return &CheckoutResult{
		OrderNo:        order.OrderNo,
		GatewayOrderID: gatewayOrder.ID,
		AmountSubunits: gatewayOrder.Amount,
		Currency:       gatewayOrder.Currency,
		KeyID:          s.gatewayCfg.KeyID,
	}, nil
}

// VerifyInput 前端回传的支付校验输入
type VerifyInput struct {
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
}

// VerifyAndComplete 校验支付签名并完成订单。
// 签名通过后向网关查询支付单,仅 captured 状态触发完成。
func (s *PaymentService) VerifyAndComplete(ctx context.Context, input VerifyInput) (*models.Order, error) {
	if err := razorpay.VerifyPaymentSignature(&s.gatewayCfg, input.GatewayOrderID, input.GatewayPaymentID, input.Signature); err != nil {
		return nil, ErrPaymentSignatureInvalid
	}

	gatewayPayment, err := razorpay.FetchPayment(ctx, &s.gatewayCfg, input.GatewayPaymentID)
	if err != nil {
		logger.SW().Errorw("查询网关支付单失败", "gateway_payment_id", input.GatewayPaymentID, "error", err)
		return nil, ErrPaymentGatewayFailed
	}
	if gatewayPayment.Status != razorpay.PaymentStatusCaptured {
		return nil, ErrPaymentNotCaptured
	}

	order, err := s.orderRepo.GetByGatewayOrderID(input.GatewayOrderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if err := s.CompleteOrder(order, input.GatewayPaymentID); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(order.ID)
}

// HandleWebhook 处理网关 Webhook 回调。
// 未知事件直接确认;重复投递经由条件更新退化为空操作。
func (s *PaymentService) HandleWebhook(body []byte, signature string) error {
	if err := razorpay.VerifyWebhookSignature(&s.gatewayCfg, body, signature); err != nil {
		return ErrPaymentSignatureInvalid
	}

	event, err := razorpay.ParseWebhookEvent(body)
	if err != nil {
		return ErrPaymentSignatureInvalid
	}

	entity := event.Payload.Payment.Entity
	switch event.Event {
	case constants.WebhookEventPaymentCaptured:
		order, err := s.orderRepo.GetByGatewayOrderID(entity.OrderID)
		if err != nil {
			return ErrOrderFetchFailed
		}
		if order == nil {
			logger.SW().Warnw("Webhook 关联订单不存在", "gateway_order_id", entity.OrderID)
			return nil
		}
		if !amountMatchesOrder(order, entity.Amount) {
			logger.SW().Warnw("Webhook 金额与订单不符", "order_id", order.ID, "amount", entity.Amount)
			return ErrPaymentNotCaptured
		}
		return s.CompleteOrder(order, entity.ID)
	case constants.WebhookEventPaymentFailed:
		s.markPaymentFailed(entity)
		return nil
	default:
		return nil
	}
}

// CompleteOrder 完成订单:条件更新订单状态、镜像发票、派发佣金。
// 条件更新零行生效表示订单已被完成,本次调用不产生任何副作用。
func (s *PaymentService) CompleteOrder(order *models.Order, gatewayPaymentID string) error {
	paidAt := time.Now()
	var swapped bool

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		invoiceRepo := s.invoiceRepo.WithTx(tx)

		var err error
		swapped, err = orderRepo.MarkCompletedIfPending(order.ID, gatewayPaymentID, paidAt)
		if err != nil {
			return err
		}
		if !swapped {
			return nil
		}

		invoice, err := invoiceRepo.GetByOrderID(order.ID)
		if err != nil {
			return err
		}
		if invoice != nil {
			if _, err := invoiceRepo.MarkPaidIfUnpaid(invoice.ID, paidAt); err != nil {
				return err
			}
		}

		return s.referralService.FanOutForOrder(tx, order, paidAt)
	})
	if err != nil {
		logger.SW().Errorw("完成订单失败", "order_id", order.ID, "error", err)
		return ErrOrderUpdateFailed
	}
	if !swapped {
		// 已取消的订单不会被回调翻转;捕获到的款项需要人工原路退回。
		if current, ferr := s.orderRepo.GetByID(order.ID); ferr == nil && current != nil &&
			current.Status == constants.OrderStatusCancelled && gatewayPaymentID != "" {
			logger.SW().Warnw("已取消订单收到支付捕获,需退款处理",
				"order_id", order.ID, "order_no", order.OrderNo, "gateway_payment_id", gatewayPaymentID)
		}
		return nil
	}

	s.markPaymentSuccess(order.ID, gatewayPaymentID, paidAt)

	delay := time.Duration(s.confirmDays) * 24 * time.Hour
	if err := s.queueClient.EnqueueReferralConfirmDue(queue.ReferralConfirmDuePayload{OrderID: order.ID}, delay); err != nil {
		logger.SW().Warnw("推送佣金确认任务失败", "order_id", order.ID, "error", err)
	}
	if err := s.queueClient.EnqueueOrderReceiptNotify(queue.OrderReceiptNotifyPayload{OrderID: order.ID}); err != nil {
		logger.SW().Warnw("推送订单回执任务失败", "order_id", order.ID, "error", err)
	}

	logger.SW().Infow("订单完成", "order_id", order.ID, "order_no", order.OrderNo, "gateway_payment_id", gatewayPaymentID)
	return nil
}

// ListOrderPayments 获取订单支付流水
func (s *PaymentService) ListOrderPayments(orderID uint) ([]models.Payment, error) {
	return s.paymentRepo.ListByOrder(orderID)
}

func (s *PaymentService) markPaymentSuccess(orderID uint, gatewayPaymentID string, paidAt time.Time) {
	payments, err := s.paymentRepo.ListByOrder(orderID)
	if err != nil {
		logger.SW().Warnw("查询支付流水失败", "order_id", orderID, "error", err)
		return
	}
	for i := range payments {
		payment := &payments[i]
		if payment.Status != constants.PaymentStatusInitiated {
			continue
		}
		payment.Status = constants.PaymentStatusSuccess
		payment.GatewayPaymentID = gatewayPaymentID
		payment.PaidAt = &paidAt
		now := time.Now()
		payment.CallbackAt = &now
		if err := s.paymentRepo.Update(payment); err != nil {
			logger.SW().Warnw("更新支付流水失败", "payment_id", payment.ID, "error", err)
		}
		return
	}
}

func (s *PaymentService) markPaymentFailed(entity razorpay.GatewayPayment) {
	payment, err := s.paymentRepo.GetByGatewayOrderID(entity.OrderID)
	if err != nil || payment == nil {
		return
	}
	if payment.Status != constants.PaymentStatusInitiated {
		return
	}
	payment.Status = constants.PaymentStatusFailed
	payment.GatewayPaymentID = entity.ID
	now := time.Now()
	payment.CallbackAt = &now
	if payment.ProviderPayload == nil {
		payment.ProviderPayload = models.JSON{}
	}
	payment.ProviderPayload["error_code"] = entity.ErrorCode
	payment.ProviderPayload["error_description"] = entity.ErrorDescription
	if err := s.paymentRepo.Update(payment); err != nil {
		logger.SW().Warnw("更新支付流水失败", "payment_id", payment.ID, "error", err)
	}
}

// amountMatchesOrder 校验网关金额与订单应付一致
func amountMatchesOrder(order *models.Order, amountSubunits int64) bool {
	return razorpay.ToSubunits(order.GrandTotal.Decimal) == amountSubunits
}
