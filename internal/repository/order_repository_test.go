package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hostara-next/internal/constants"
	"github.com/hostara-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderRepositoryTest(t *testing.T) (*GormOrderRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Plan{}, &models.Order{}, &models.Invoice{}); err != nil {
		t.Fatalf("migrate order models failed: %v", err)
	}
	return NewOrderRepository(db), db
}

func createTestOrder(t *testing.T, db *gorm.DB, orderNo string) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:       orderNo,
		UserID:        1,
		PlanID:        1,
		BillingCycle:  constants.BillingCycleAnnually,
		Subtotal:      models.NewMoneyFromDecimal(decimal.NewFromInt(1000)),
		GrandTotal:    models.NewMoneyFromDecimal(decimal.NewFromInt(864)),
		Currency:      "INR",
		Status:        constants.OrderStatusPending,
		PaymentStatus: constants.OrderPaymentStatusPending,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestMarkCompletedIfPendingFlipsOnlyOnce(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)
	order := createTestOrder(t, db, "HA-20260831-0001")

	paidAt := time.Now()
	swapped, err := repo.MarkCompletedIfPending(order.ID, "pay_test_1", paidAt)
	if err != nil {
		t.Fatalf("mark completed failed: %v", err)
	}
	if !swapped {
		t.Fatal("expected first flip to succeed")
	}

	again, err := repo.MarkCompletedIfPending(order.ID, "pay_test_2", paidAt)
	if err != nil {
		t.Fatalf("second mark completed failed: %v", err)
	}
	if again {
		t.Fatal("expected second flip to be a no-op")
	}

	got, err := repo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if got.Status != constants.OrderStatusCompleted {
		t.Fatalf("unexpected status: %s", got.Status)
	}
	if got.PaymentStatus != constants.OrderPaymentStatusPaid {
		t.Fatalf("unexpected payment status: %s", got.PaymentStatus)
	}
	if got.GatewayPaymentID != "pay_test_1" {
		t.Fatalf("second flip overwrote gateway payment id: %s", got.GatewayPaymentID)
	}
	if got.PaidAt == nil || got.CompletedAt == nil {
		t.Fatal("expected paid_at and completed_at to be set")
	}
}

func TestMarkCompletedIfPendingSkipsCancelledOrder(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)
	order := createTestOrder(t, db, "HA-20260831-0003")

	cancelled, err := repo.MarkCancelledIfPending(order.ID)
	if err != nil || !cancelled {
		t.Fatalf("mark cancelled failed: cancelled=%v err=%v", cancelled, err)
	}

	swapped, err := repo.MarkCompletedIfPending(order.ID, "pay_test_late", time.Now())
	if err != nil {
		t.Fatalf("mark completed failed: %v", err)
	}
	if swapped {
		t.Fatal("expected completion of a cancelled order to be a no-op")
	}

	got, err := repo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if got.Status != constants.OrderStatusCancelled {
		t.Fatalf("cancelled order status changed: %s", got.Status)
	}
	if got.PaymentStatus != constants.OrderPaymentStatusPending {
		t.Fatalf("cancelled order payment status changed: %s", got.PaymentStatus)
	}
	if got.GatewayPaymentID != "" {
		t.Fatalf("cancelled order recorded gateway payment id: %s", got.GatewayPaymentID)
	}
}

func TestMarkCancelledIfPendingSkipsPaidOrder(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)
	order := createTestOrder(t, db, "HA-20260831-0002")

	if _, err := repo.MarkCompletedIfPending(order.ID, "pay_test_3", time.Now()); err != nil {
		t.Fatalf("mark completed failed: %v", err)
	}

	cancelled, err := repo.MarkCancelledIfPending(order.ID)
	if err != nil {
		t.Fatalf("mark cancelled failed: %v", err)
	}
	if cancelled {
		t.Fatal("expected cancel of a paid order to be a no-op")
	}

	got, err := repo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if got.Status != constants.OrderStatusCompleted {
		t.Fatalf("paid order status changed: %s", got.Status)
	}
}

func TestListExpiredPendingHonorsDeadline(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)

	expired := createTestOrder(t, db, "HA-20260831-0003")
	past := time.Now().Add(-time.Hour)
	if err := db.Model(&models.Order{}).Where("id = ?", expired.ID).
		Update("expires_at", past).Error; err != nil {
		t.Fatalf("set expires_at failed: %v", err)
	}

	alive := createTestOrder(t, db, "HA-20260831-0004")
	future := time.Now().Add(time.Hour)
	if err := db.Model(&models.Order{}).Where("id = ?", alive.ID).
		Update("expires_at", future).Error; err != nil {
		t.Fatalf("set expires_at failed: %v", err)
	}

	orders, err := repo.ListExpiredPending(time.Now(), 10)
	if err != nil {
		t.Fatalf("list expired pending failed: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("unexpected expired order count: %d", len(orders))
	}
	if orders[0].ID != expired.ID {
		t.Fatalf("unexpected expired order id: %d", orders[0].ID)
	}
}

func TestGetByGatewayOrderIDReturnsNilForEmpty(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)

	got, err := repo.GetByGatewayOrderID("")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil order for empty gateway order id")
	}
}
