package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/hostara-next/internal/constants"
	"github.com/hostara-next/internal/logger"
	"github.com/hostara-next/internal/models"
	"github.com/hostara-next/internal/queue"
	"github.com/hostara-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo      repository.OrderRepository
	invoiceRepo    repository.InvoiceRepository
	planRepo       repository.PlanRepository
	queueClient    *queue.Client
	expireMinutes  int
	invoiceDueDays int
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, invoiceRepo repository.InvoiceRepository, planRepo repository.PlanRepository, queueClient *queue.Client, expireMinutes, invoiceDueDays int) *OrderService {
	if expireMinutes <= 0 {
		expireMinutes = 30
	}
	if invoiceDueDays <= 0 {
		invoiceDueDays = 7
	}
	return &OrderService{
		orderRepo:      orderRepo,
		invoiceRepo:    invoiceRepo,
		planRepo:       planRepo,
		queueClient:    queueClient,
		expireMinutes:  expireMinutes,
		invoiceDueDays: invoiceDueDays,
	}
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	UserID       uint
	PlanID       uint
	BillingCycle string
}

// CreateOrder 创建订单与镜像发票;同一事务落库
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	cycle := strings.TrimSpace(input.BillingCycle)
	if !constants.IsValidBillingCycle(cycle) {
		return nil, ErrBillingCycleInvalid
	}

	plan, err := s.planRepo.GetByID(input.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	if !plan.IsActive {
		return nil, ErrPlanUnavailable
	}

	price, ok := plan.PriceForCycle(cycle)
	if !ok {
		return nil, ErrBillingCycleInvalid
	}

	quote := ComputeQuote(price.Decimal, cycle)

	orderNo, err := s.nextOrderNo()
	if err != nil {
		return nil, err
	}
	invoiceNo, err := s.nextInvoiceNo()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expiresAt := now.Add(time.Duration(s.expireMinutes) * time.Minute)
	dueAt := now.Add(time.Duration(s.invoiceDueDays) * 24 * time.Hour)

	order := &models.Order{
		OrderNo:        orderNo,
		UserID:         input.UserID,
		PlanID:         plan.ID,
		BillingCycle:   cycle,
		Subtotal:       models.NewMoneyFromDecimal(quote.Subtotal),
		DiscountAmount: models.NewMoneyFromDecimal(quote.DiscountAmount),
		GSTAmount:      models.NewMoneyFromDecimal(quote.GSTAmount),
		TDSAmount:      models.NewMoneyFromDecimal(quote.TDSAmount),
		GrandTotal:     models.NewMoneyFromDecimal(quote.GrandTotal),
		Currency:       constants.SiteCurrencyDefault,
		Status:         constants.OrderStatusPending,
		PaymentStatus:  constants.OrderPaymentStatusPending,
		ExpiresAt:      &expiresAt,
	}

	invoice := &models.Invoice{
		InvoiceNo:  invoiceNo,
		UserID:     input.UserID,
		Subtotal:   models.NewMoneyFromDecimal(quote.Discounted),
		TaxAmount:  models.NewMoneyFromDecimal(quote.GSTAmount.Sub(quote.TDSAmount)),
		Total:      models.NewMoneyFromDecimal(quote.GrandTotal),
		AmountPaid: models.NewMoneyFromDecimal(decimal.Zero),
		BalanceDue: models.NewMoneyFromDecimal(quote.GrandTotal),
		Currency:   constants.SiteCurrencyDefault,
		Status:     constants.InvoiceStatusUnpaid,
		LineItems: models.InvoiceLineItems{
			{
				Description: fmt.Sprintf("%s (%s)", plan.Name, cycle),
				Quantity:    1,
				UnitPrice:   models.NewMoneyFromDecimal(quote.GrandTotal),
				Amount:      models.NewMoneyFromDecimal(quote.GrandTotal),
			},
		},
		DueAt: &dueAt,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		invoiceRepo := s.invoiceRepo.WithTx(tx)
		if err := orderRepo.Create(order); err != nil {
			return err
		}
		invoice.OrderID = order.ID
		return invoiceRepo.Create(invoice)
	})
	if err != nil {
		logger.SW().Errorw("创建订单失败", "user_id", input.UserID, "plan_id", input.PlanID, "error", err)
		return nil, ErrOrderCreateFailed
	}

	order.Invoice = invoice
	order.Plan = plan

	if err := s.queueClient.EnqueueOrderTimeoutCancel(queue.OrderTimeoutCancelPayload{OrderID: order.ID}, time.Until(expiresAt)); err != nil {
		logger.SW().Warnw("推送订单超时取消任务失败", "order_id", order.ID, "error", err)
	}

	return order, nil
}

// GetUserOrder 获取用户订单详情
func (s *OrderService) GetUserOrder(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrder 获取订单详情（后台）
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListUserOrders 用户订单列表
func (s *OrderService) ListUserOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(filter)
}

// ListAdminOrders 后台订单列表
func (s *OrderService) ListAdminOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// ListUserInvoices 用户发票列表
func (s *OrderService) ListUserInvoices(filter repository.InvoiceListFilter) ([]models.Invoice, int64, error) {
	return s.invoiceRepo.ListByUser(filter)
}

// GetUserInvoice 获取用户发票详情
func (s *OrderService) GetUserInvoice(invoiceID, userID uint) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if invoice == nil || invoice.UserID != userID {
		return nil, ErrInvoiceNotFound
	}
	return invoice, nil
}

// CancelUserOrder 用户取消待支付订单
func (s *OrderService) CancelUserOrder(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.cancelPending(order)
}

// CancelExpiredOrder 取消已过支付时限的订单;worker 调用
func (s *OrderService) CancelExpiredOrder(orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return nil
	}
	if order.Status != constants.OrderStatusPending {
		return nil
	}
	if order.ExpiresAt == nil || order.ExpiresAt.After(time.Now()) {
		return nil
	}
	_, err = s.cancelPending(order)
	if err != nil && err != ErrOrderCancelNotAllowed {
		return err
	}
	return nil
}

func (s *OrderService) cancelPending(order *models.Order) (*models.Order, error) {
	if order.Status != constants.OrderStatusPending {
		return nil, ErrOrderCancelNotAllowed
	}
	cancelled, err := s.orderRepo.MarkCancelledIfPending(order.ID)
	if err != nil {
		logger.SW().Errorw("取消订单失败", "order_id", order.ID, "error", err)
		return nil, ErrOrderUpdateFailed
	}
	if !cancelled {
		return nil, ErrOrderCancelNotAllowed
	}
	fresh, err := s.orderRepo.GetByID(order.ID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	return fresh, nil
}

// nextOrderNo 生成订单号;与已有记录碰撞时重取
func (s *OrderService) nextOrderNo() (string, error) {
	for {
		candidate := fmt.Sprintf("HA%s%s", time.Now().Format("20060102150405"), randAlphanumeric(6))
		exists, err := s.orderRepo.ExistsByOrderNo(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

// nextInvoiceNo 生成发票号;与已有记录碰撞时重取
func (s *OrderService) nextInvoiceNo() (string, error) {
	for {
		candidate := fmt.Sprintf("INV%s%s", time.Now().Format("20060102150405"), randAlphanumeric(6))
		exists, err := s.invoiceRepo.ExistsByInvoiceNo(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

const alphanumeric = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func randAlphanumeric(length int) string {
	var b strings.Builder
	max := big.NewInt(int64(len(alphanumeric)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			b.WriteByte('0')
			continue
		}
		b.WriteByte(alphanumeric[n.Int64()])
	}
	return b.String()
}
