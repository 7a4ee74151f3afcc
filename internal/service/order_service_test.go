package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/hostara-next/internal/constants"
	"github.com/hostara-next/internal/models"
	"github.com/hostara-next/internal/queue"
	"github.com/hostara-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:order_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Plan{}, &models.Order{}, &models.Invoice{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("create queue client failed: %v", err)
	}

	svc := NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewInvoiceRepository(db),
		repository.NewPlanRepository(db),
		queueClient,
		30,
		7,
	)
	return svc, db
}

func createTestPlan(t *testing.T, db *gorm.DB, slug string, annually int64) *models.Plan {
	t.Helper()
	plan := &models.Plan{
		Name:          "标准云主机",
		Slug:          slug,
		Currency:      constants.SiteCurrencyDefault,
		MonthlyPrice:  models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		AnnuallyPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(annually)),
		IsActive:      true,
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("create plan failed: %v", err)
	}
	return plan
}

func TestCreateOrderAnnuallyComputesTaxedTotal(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	plan := createTestPlan(t, db, "standard", 1000)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID:       1,
		PlanID:       plan.ID,
		BillingCycle: constants.BillingCycleAnnually,
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if !order.Subtotal.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected subtotal: %s", order.Subtotal.String())
	}
	if !order.DiscountAmount.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("unexpected discount: %s", order.DiscountAmount.String())
	}
	if !order.GSTAmount.Equal(decimal.NewFromInt(144)) {
		t.Fatalf("unexpected gst: %s", order.GSTAmount.String())
	}
	if !order.TDSAmount.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("unexpected tds: %s", order.TDSAmount.String())
	}
	if !order.GrandTotal.Equal(decimal.NewFromInt(864)) {
		t.Fatalf("unexpected grand total: %s", order.GrandTotal.String())
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("unexpected status: %s", order.Status)
	}
	if order.ExpiresAt == nil {
		t.Fatal("expected expires_at to be set")
	}
}

func TestCreateOrderWritesMirrorInvoice(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	plan := createTestPlan(t, db, "standard", 1000)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID:       7,
		PlanID:       plan.ID,
		BillingCycle: constants.BillingCycleAnnually,
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	invoiceRepo := repository.NewInvoiceRepository(db)
	invoice, err := invoiceRepo.GetByOrderID(order.ID)
	if err != nil {
		t.Fatalf("get invoice failed: %v", err)
	}
	if invoice == nil {
		t.Fatal("expected invoice created with order")
	}
	if invoice.Status != constants.InvoiceStatusUnpaid {
		t.Fatalf("unexpected invoice status: %s", invoice.Status)
	}
	if !invoice.Total.Equal(decimal.NewFromInt(864)) {
		t.Fatalf("unexpected invoice total: %s", invoice.Total.String())
	}
	if !invoice.BalanceDue.Equal(decimal.NewFromInt(864)) {
		t.Fatalf("unexpected balance due: %s", invoice.BalanceDue.String())
	}
	if invoice.UserID != 7 {
		t.Fatalf("unexpected invoice user: %d", invoice.UserID)
	}
	if len(invoice.LineItems) != 1 {
		t.Fatalf("unexpected line item count: %d", len(invoice.LineItems))
	}
}

func TestCreateOrderRejectsUnknownCycle(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	plan := createTestPlan(t, db, "standard", 1000)

	_, err := svc.CreateOrder(CreateOrderInput{
		UserID:       1,
		PlanID:       plan.ID,
		BillingCycle: "weekly",
	})
	if err != ErrBillingCycleInvalid {
		t.Fatalf("expected ErrBillingCycleInvalid, got %v", err)
	}
}

func TestCreateOrderRejectsInactivePlan(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	plan := createTestPlan(t, db, "retired", 1000)
	if err := db.Model(&models.Plan{}).Where("id = ?", plan.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate plan failed: %v", err)
	}

	_, err := svc.CreateOrder(CreateOrderInput{
		UserID:       1,
		PlanID:       plan.ID,
		BillingCycle: constants.BillingCycleAnnually,
	})
	if err != ErrPlanUnavailable {
		t.Fatalf("expected ErrPlanUnavailable, got %v", err)
	}
}

func TestCancelUserOrderOnlyWhenPending(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	plan := createTestPlan(t, db, "standard", 1000)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID:       3,
		PlanID:       plan.ID,
		BillingCycle: constants.BillingCycleMonthly,
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	cancelled, err := svc.CancelUserOrder(order.ID, 3)
	if err != nil {
		t.Fatalf("cancel order failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("unexpected status after cancel: %s", cancelled.Status)
	}
	if cancelled.CancelledAt == nil {
		t.Fatal("expected cancelled_at to be set")
	}

	if _, err := svc.CancelUserOrder(order.ID, 3); err != ErrOrderCancelNotAllowed {
		t.Fatalf("expected ErrOrderCancelNotAllowed on second cancel, got %v", err)
	}

	invoiceRepo := repository.NewInvoiceRepository(db)
	invoice, err := invoiceRepo.GetByOrderID(order.ID)
	if err != nil {
		t.Fatalf("get invoice failed: %v", err)
	}
	if invoice.Status != constants.InvoiceStatusUnpaid {
		t.Fatalf("cancel touched the invoice: %s", invoice.Status)
	}
}

func TestCancelUserOrderScopedToOwner(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	plan := createTestPlan(t, db, "standard", 1000)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID:       3,
		PlanID:       plan.ID,
		BillingCycle: constants.BillingCycleMonthly,
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := svc.CancelUserOrder(order.ID, 99); err != ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound for foreign user, got %v", err)
	}
}

func TestOrderNoFormat(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	plan := createTestPlan(t, db, "standard", 1000)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID:       1,
		PlanID:       plan.ID,
		BillingCycle: constants.BillingCycleAnnually,
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if len(order.OrderNo) != len("HA")+14+6 {
		t.Fatalf("unexpected order no length: %s", order.OrderNo)
	}
	if order.OrderNo[:2] != "HA" {
		t.Fatalf("unexpected order no prefix: %s", order.OrderNo)
	}
	if order.Invoice == nil || order.Invoice.InvoiceNo[:3] != "INV" {
		t.Fatalf("unexpected invoice no: %+v", order.Invoice)
	}
}
