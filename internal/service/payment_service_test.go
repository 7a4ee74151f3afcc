package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hostara-next/internal/config"
	"github.com/hostara-next/internal/constants"
	"github.com/hostara-next/internal/models"
	"github.com/hostara-next/internal/payment/razorpay"
	"github.com/hostara-next/internal/queue"
	"github.com/hostara-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupPaymentServiceTest(t *testing.T, referralCfg config.ReferralConfig) (*PaymentService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:payment_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Plan{}, &models.Order{}, &models.Invoice{}, &models.Payment{}, &models.ReferralEarning{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("create queue client failed: %v", err)
	}

	referralService := NewReferralService(
		repository.NewUserRepository(db),
		repository.NewReferralRepository(db),
		referralCfg,
	)

	svc := NewPaymentService(
		repository.NewOrderRepository(db),
		repository.NewInvoiceRepository(db),
		repository.NewPaymentRepository(db),
		referralService,
		queueClient,
		config.RazorpayConfig{
			KeyID:         "rzp_test_key",
			KeySecret:     "secret_abc",
			WebhookSecret: "whsec_abc",
		},
		referralCfg,
	)
	return svc, db
}

func defaultReferralCfg() config.ReferralConfig {
	return config.ReferralConfig{
		Enabled:         true,
		LevelRates:      []float64{10, 5, 2},
		MaxTotalPercent: 20,
		ConfirmDays:     0,
	}
}

func createChainUser(t *testing.T, db *gorm.DB, email, code string, referredBy *uint) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "hash",
		DisplayName:  "tester",
		Status:       constants.UserStatusActive,
		ReferralCode: code,
		ReferredByID: referredBy,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createPaidableOrder(t *testing.T, db *gorm.DB, userID uint, orderNo, gatewayOrderID string) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:        orderNo,
		UserID:         userID,
		PlanID:         1,
		BillingCycle:   constants.BillingCycleAnnually,
		Subtotal:       models.NewMoneyFromDecimal(decimal.NewFromInt(1000)),
		GrandTotal:     models.NewMoneyFromDecimal(decimal.NewFromInt(864)),
		Currency:       constants.SiteCurrencyDefault,
		Status:         constants.OrderStatusPending,
		PaymentStatus:  constants.OrderPaymentStatusPending,
		GatewayOrderID: gatewayOrderID,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	invoice := &models.Invoice{
		InvoiceNo:  "INV" + orderNo,
		OrderID:    order.ID,
		UserID:     userID,
		Total:      order.GrandTotal,
		BalanceDue: order.GrandTotal,
		Currency:   constants.SiteCurrencyDefault,
		Status:     constants.InvoiceStatusUnpaid,
	}
	if err := db.Create(invoice).Error; err != nil {
		t.Fatalf("create invoice failed: %v", err)
	}
	return order
}

func TestCompleteOrderFansOutThreeLevels(t *testing.T) {
	svc, db := setupPaymentServiceTest(t, defaultReferralCfg())

	grandpa := createChainUser(t, db, "c@example.com", "CODEC", nil)
	parent := createChainUser(t, db, "b@example.com", "CODEB", &grandpa.ID)
	buyer := createChainUser(t, db, "a@example.com", "CODEA", &parent.ID)
	order := createPaidableOrder(t, db, buyer.ID, "HA-PAY-1", "order_gw_1")

	if err := svc.CompleteOrder(order, "pay_gw_1"); err != nil {
		t.Fatalf("complete order failed: %v", err)
	}

	var got models.Order
	if err := db.First(&got, order.ID).Error; err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	if got.Status != constants.OrderStatusCompleted || got.PaymentStatus != constants.OrderPaymentStatusPaid {
		t.Fatalf("order not completed: %s/%s", got.Status, got.PaymentStatus)
	}

	var invoice models.Invoice
	if err := db.Where("order_id = ?", order.ID).First(&invoice).Error; err != nil {
		t.Fatalf("load invoice failed: %v", err)
	}
	if invoice.Status != constants.InvoiceStatusPaid {
		t.Fatalf("invoice not mirrored: %s", invoice.Status)
	}
	if !invoice.AmountPaid.Equal(decimal.NewFromInt(864)) || !invoice.BalanceDue.Equal(decimal.Zero) {
		t.Fatalf("invoice amounts wrong: paid=%s due=%s", invoice.AmountPaid.String(), invoice.BalanceDue.String())
	}
	if invoice.PaidAt == nil {
		t.Fatal("expected invoice paid_at")
	}

	var earnings []models.ReferralEarning
	if err := db.Where("order_id = ?", order.ID).Order("level ASC").Find(&earnings).Error; err != nil {
		t.Fatalf("load earnings failed: %v", err)
	}
	if len(earnings) != 2 {
		t.Fatalf("unexpected earning count: %d", len(earnings))
	}
	// 一级 10%:864 * 10% = 86.40;二级 5%:43.20
	if earnings[0].UserID != parent.ID || !earnings[0].CommissionAmount.Equal(decimal.RequireFromString("86.40")) {
		t.Fatalf("unexpected level 1 earning: %+v", earnings[0])
	}
	if earnings[1].UserID != grandpa.ID || !earnings[1].CommissionAmount.Equal(decimal.RequireFromString("43.20")) {
		t.Fatalf("unexpected level 2 earning: %+v", earnings[1])
	}
	// 默认配置(confirm_days=0)下佣金同样先落 pending,立即到期待确认
	for _, earning := range earnings {
		if earning.Status != constants.ReferralEarningStatusPending {
			t.Fatalf("earning not pending under default config: %s", earning.Status)
		}
		if earning.AvailableAt == nil {
			t.Fatal("expected available_at on pending earning")
		}
	}
}

func TestCompleteOrderRefusesCancelledOrder(t *testing.T) {
	svc, db := setupPaymentServiceTest(t, defaultReferralCfg())

	parent := createChainUser(t, db, "b@example.com", "CODEB", nil)
	buyer := createChainUser(t, db, "a@example.com", "CODEA", &parent.ID)
	order := createPaidableOrder(t, db, buyer.ID, "HA-PAY-8", "order_gw_8")

	cancelled, err := repository.NewOrderRepository(db).MarkCancelledIfPending(order.ID)
	if err != nil || !cancelled {
		t.Fatalf("cancel order failed: cancelled=%v err=%v", cancelled, err)
	}

	// 迟到的网关回调不得复活已取消的订单
	if err := svc.CompleteOrder(order, "pay_gw_8_late"); err != nil {
		t.Fatalf("late completion errored: %v", err)
	}

	var got models.Order
	if err := db.First(&got, order.ID).Error; err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	if got.Status != constants.OrderStatusCancelled {
		t.Fatalf("cancelled order resurrected: %s", got.Status)
	}
	if got.PaymentStatus != constants.OrderPaymentStatusPending {
		t.Fatalf("cancelled order marked paid: %s", got.PaymentStatus)
	}
	if got.GatewayPaymentID != "" {
		t.Fatalf("cancelled order recorded gateway payment id: %s", got.GatewayPaymentID)
	}

	var earningCount int64
	if err := db.Model(&models.ReferralEarning{}).Where("order_id = ?", order.ID).Count(&earningCount).Error; err != nil {
		t.Fatalf("count earnings failed: %v", err)
	}
	if earningCount != 0 {
		t.Fatalf("cancelled order paid commissions: %d", earningCount)
	}

	var invoice models.Invoice
	if err := db.Where("order_id = ?", order.ID).First(&invoice).Error; err != nil {
		t.Fatalf("load invoice failed: %v", err)
	}
	if invoice.Status != constants.InvoiceStatusUnpaid {
		t.Fatalf("cancelled order mirrored invoice: %s", invoice.Status)
	}
}

func TestCompleteOrderIsIdempotent(t *testing.T) {
	svc, db := setupPaymentServiceTest(t, defaultReferralCfg())

	parent := createChainUser(t, db, "b@example.com", "CODEB", nil)
	buyer := createChainUser(t, db, "a@example.com", "CODEA", &parent.ID)
	order := createPaidableOrder(t, db, buyer.ID, "HA-PAY-2", "order_gw_2")

	if err := svc.CompleteOrder(order, "pay_gw_2"); err != nil {
		t.Fatalf("first complete failed: %v", err)
	}
	if err := svc.CompleteOrder(order, "pay_gw_2_dup"); err != nil {
		t.Fatalf("second complete failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.ReferralEarning{}).Where("order_id = ?", order.ID).Count(&count).Error; err != nil {
		t.Fatalf("count earnings failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("duplicate completion created extra earnings: %d", count)
	}

	var got models.Order
	if err := db.First(&got, order.ID).Error; err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	if got.GatewayPaymentID != "pay_gw_2" {
		t.Fatalf("second completion overwrote payment id: %s", got.GatewayPaymentID)
	}
}

func TestCompleteOrderStopsOnReferralCycle(t *testing.T) {
	svc, db := setupPaymentServiceTest(t, defaultReferralCfg())

	// a 与 b 互为推荐人
	a := createChainUser(t, db, "a@example.com", "CODEA", nil)
	b := createChainUser(t, db, "b@example.com", "CODEB", &a.ID)
	if err := db.Model(&models.User{}).Where("id = ?", a.ID).Update("referred_by_id", b.ID).Error; err != nil {
		t.Fatalf("build cycle failed: %v", err)
	}
	order := createPaidableOrder(t, db, a.ID, "HA-PAY-3", "order_gw_3")

	if err := svc.CompleteOrder(order, "pay_gw_3"); err != nil {
		t.Fatalf("complete order failed: %v", err)
	}

	var earnings []models.ReferralEarning
	if err := db.Where("order_id = ?", order.ID).Order("level ASC").Find(&earnings).Error; err != nil {
		t.Fatalf("load earnings failed: %v", err)
	}
	// b 拿一级佣金;b 的推荐人是 a(买家本人),环保护终止
	if len(earnings) != 1 {
		t.Fatalf("cycle guard failed, earnings: %d", len(earnings))
	}
	if earnings[0].UserID != b.ID {
		t.Fatalf("unexpected earner: %d", earnings[0].UserID)
	}
}

func TestCompleteOrderSkipsRatesBeyondCap(t *testing.T) {
	cfg := config.ReferralConfig{
		Enabled:         true,
		LevelRates:      []float64{15, 10},
		MaxTotalPercent: 20,
	}
	svc, db := setupPaymentServiceTest(t, cfg)

	grandpa := createChainUser(t, db, "c@example.com", "CODEC", nil)
	parent := createChainUser(t, db, "b@example.com", "CODEB", &grandpa.ID)
	buyer := createChainUser(t, db, "a@example.com", "CODEA", &parent.ID)
	order := createPaidableOrder(t, db, buyer.ID, "HA-PAY-4", "order_gw_4")

	if err := svc.CompleteOrder(order, "pay_gw_4"); err != nil {
		t.Fatalf("complete order failed: %v", err)
	}

	var earnings []models.ReferralEarning
	if err := db.Where("order_id = ?", order.ID).Find(&earnings).Error; err != nil {
		t.Fatalf("load earnings failed: %v", err)
	}
	// 15 + 10 超出 20 上限,第二级被跳过
	if len(earnings) != 1 {
		t.Fatalf("cap not enforced, earnings: %d", len(earnings))
	}
	if !earnings[0].RatePercent.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("unexpected rate: %s", earnings[0].RatePercent.String())
	}
}

func TestCompleteOrderConfirmDaysMakesEarningsPending(t *testing.T) {
	cfg := defaultReferralCfg()
	cfg.ConfirmDays = 7
	svc, db := setupPaymentServiceTest(t, cfg)

	parent := createChainUser(t, db, "b@example.com", "CODEB", nil)
	buyer := createChainUser(t, db, "a@example.com", "CODEA", &parent.ID)
	order := createPaidableOrder(t, db, buyer.ID, "HA-PAY-5", "order_gw_5")

	if err := svc.CompleteOrder(order, "pay_gw_5"); err != nil {
		t.Fatalf("complete order failed: %v", err)
	}

	var earning models.ReferralEarning
	if err := db.Where("order_id = ?", order.ID).First(&earning).Error; err != nil {
		t.Fatalf("load earning failed: %v", err)
	}
	if earning.Status != constants.ReferralEarningStatusPending {
		t.Fatalf("unexpected status: %s", earning.Status)
	}
	if earning.AvailableAt == nil {
		t.Fatal("expected available_at for pending earning")
	}
}

func TestVerifyAndCompleteRejectsBadSignature(t *testing.T) {
	svc, _ := setupPaymentServiceTest(t, defaultReferralCfg())

	_, err := svc.VerifyAndComplete(context.Background(), VerifyInput{
		GatewayOrderID:   "order_gw_x",
		GatewayPaymentID: "pay_gw_x",
		Signature:        "bogus",
	})
	if err != ErrPaymentSignatureInvalid {
		t.Fatalf("expected ErrPaymentSignatureInvalid, got %v", err)
	}
}

func TestHandleWebhookCapturedCompletesOrder(t *testing.T) {
	svc, db := setupPaymentServiceTest(t, defaultReferralCfg())

	buyer := createChainUser(t, db, "a@example.com", "CODEA", nil)
	order := createPaidableOrder(t, db, buyer.ID, "HA-PAY-6", "order_gw_6")

	body := []byte(`{
		"event": "payment.captured",
		"payload": {
			"payment": {
				"entity": {
					"id": "pay_gw_6",
					"order_id": "order_gw_6",
					"amount": 86400,
					"currency": "INR",
					"status": "captured"
				}
			}
		}
	}`)
	sig := razorpay.Sign(string(body), "whsec_abc")

	if err := svc.HandleWebhook(body, sig); err != nil {
		t.Fatalf("handle webhook failed: %v", err)
	}

	var got models.Order
	if err := db.First(&got, order.ID).Error; err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	if got.PaymentStatus != constants.OrderPaymentStatusPaid {
		t.Fatalf("webhook did not complete order: %s", got.PaymentStatus)
	}
	if got.GatewayPaymentID != "pay_gw_6" {
		t.Fatalf("unexpected gateway payment id: %s", got.GatewayPaymentID)
	}

	// 重复投递退化为空操作
	if err := svc.HandleWebhook(body, sig); err != nil {
		t.Fatalf("duplicate webhook failed: %v", err)
	}
}

func TestHandleWebhookIgnoresUnknownEvent(t *testing.T) {
	svc, _ := setupPaymentServiceTest(t, defaultReferralCfg())

	body := []byte(`{"event":"refund.processed","payload":{"payment":{"entity":{}}}}`)
	sig := razorpay.Sign(string(body), "whsec_abc")
	if err := svc.HandleWebhook(body, sig); err != nil {
		t.Fatalf("unknown event should be acknowledged: %v", err)
	}
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	svc, _ := setupPaymentServiceTest(t, defaultReferralCfg())

	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{}}}}`)
	if err := svc.HandleWebhook(body, "bogus"); err != ErrPaymentSignatureInvalid {
		t.Fatalf("expected ErrPaymentSignatureInvalid, got %v", err)
	}
}

func TestHandleWebhookRejectsAmountMismatch(t *testing.T) {
	svc, db := setupPaymentServiceTest(t, defaultReferralCfg())

	buyer := createChainUser(t, db, "a@example.com", "CODEA", nil)
	order := createPaidableOrder(t, db, buyer.ID, "HA-PAY-7", "order_gw_7")

	body := []byte(`{
		"event": "payment.captured",
		"payload": {
			"payment": {
				"entity": {
					"id": "pay_gw_7",
					"order_id": "order_gw_7",
					"amount": 100,
					"currency": "INR",
					"status": "captured"
				}
			}
		}
	}`)
	sig := razorpay.Sign(string(body), "whsec_abc")

	if err := svc.HandleWebhook(body, sig); err != ErrPaymentNotCaptured {
		t.Fatalf("expected ErrPaymentNotCaptured, got %v", err)
	}

	var got models.Order
	if err := db.First(&got, order.ID).Error; err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	if got.PaymentStatus != constants.OrderPaymentStatusPending {
		t.Fatalf("mismatched amount completed order: %s", got.PaymentStatus)
	}
}
