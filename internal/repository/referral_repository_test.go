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

func setupReferralRepositoryTest(t *testing.T) (*GormReferralRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.ReferralEarning{}); err != nil {
		t.Fatalf("migrate referral models failed: %v", err)
	}
	return NewReferralRepository(db), db
}

func createTestEarning(t *testing.T, repo *GormReferralRepository, userID, orderID uint, level int, amount int64, status string, availableAt *time.Time) *models.ReferralEarning {
	t.Helper()
	earning := &models.ReferralEarning{
		UserID:           userID,
		ReferredUserID:   userID + 100,
		OrderID:          orderID,
		Level:            level,
		RatePercent:      models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		OrderAmount:      models.NewMoneyFromDecimal(decimal.NewFromInt(amount * 10)),
		CommissionAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(amount)),
		Status:           status,
		AvailableAt:      availableAt,
	}
	if err := repo.CreateEarning(earning); err != nil {
		t.Fatalf("create earning failed: %v", err)
	}
	return earning
}

func TestSumByUserFiltersByStatus(t *testing.T) {
	repo, _ := setupReferralRepositoryTest(t)

	createTestEarning(t, repo, 1, 10, 1, 100, constants.ReferralEarningStatusAvailable, nil)
	createTestEarning(t, repo, 1, 11, 1, 50, constants.ReferralEarningStatusPending, nil)
	createTestEarning(t, repo, 2, 12, 1, 999, constants.ReferralEarningStatusAvailable, nil)

	total, err := repo.SumByUser(1, []string{constants.ReferralEarningStatusAvailable})
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if !total.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected available sum: %s", total.String())
	}

	all, err := repo.SumByUser(1, nil)
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if !all.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("unexpected total sum: %s", all.String())
	}
}

func TestMarkPendingAvailableOnlyFlipsDue(t *testing.T) {
	repo, _ := setupReferralRepositoryTest(t)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	due := createTestEarning(t, repo, 1, 20, 1, 10, constants.ReferralEarningStatusPending, &past)
	notDue := createTestEarning(t, repo, 1, 21, 1, 10, constants.ReferralEarningStatusPending, &future)

	flipped, err := repo.MarkPendingAvailable(time.Now())
	if err != nil {
		t.Fatalf("mark available failed: %v", err)
	}
	if flipped != 1 {
		t.Fatalf("unexpected flipped count: %d", flipped)
	}

	gotDue, err := repo.GetEarningByID(due.ID)
	if err != nil {
		t.Fatalf("get earning failed: %v", err)
	}
	if gotDue.Status != constants.ReferralEarningStatusAvailable {
		t.Fatalf("due earning not flipped: %s", gotDue.Status)
	}

	gotNotDue, err := repo.GetEarningByID(notDue.ID)
	if err != nil {
		t.Fatalf("get earning failed: %v", err)
	}
	if gotNotDue.Status != constants.ReferralEarningStatusPending {
		t.Fatalf("undue earning flipped early: %s", gotNotDue.Status)
	}
}

func TestCancelByOrderKeepsPaidEarnings(t *testing.T) {
	repo, _ := setupReferralRepositoryTest(t)

	pending := createTestEarning(t, repo, 1, 30, 1, 10, constants.ReferralEarningStatusPending, nil)
	paid := createTestEarning(t, repo, 2, 30, 2, 5, constants.ReferralEarningStatusPaid, nil)

	cancelled, err := repo.CancelByOrder(30)
	if err != nil {
		t.Fatalf("cancel by order failed: %v", err)
	}
	if cancelled != 1 {
		t.Fatalf("unexpected cancelled count: %d", cancelled)
	}

	gotPending, err := repo.GetEarningByID(pending.ID)
	if err != nil {
		t.Fatalf("get earning failed: %v", err)
	}
	if gotPending.Status != constants.ReferralEarningStatusCancelled {
		t.Fatalf("pending earning not cancelled: %s", gotPending.Status)
	}

	gotPaid, err := repo.GetEarningByID(paid.ID)
	if err != nil {
		t.Fatalf("get earning failed: %v", err)
	}
	if gotPaid.Status != constants.ReferralEarningStatusPaid {
		t.Fatalf("paid earning was touched: %s", gotPaid.Status)
	}
}

func TestExistsByOrder(t *testing.T) {
	repo, _ := setupReferralRepositoryTest(t)

	createTestEarning(t, repo, 1, 40, 1, 10, constants.ReferralEarningStatusPending, nil)

	exists, err := repo.ExistsByOrder(40)
	if err != nil {
		t.Fatalf("exists check failed: %v", err)
	}
	if !exists {
		t.Fatal("expected earnings for order 40")
	}

	exists, err = repo.ExistsByOrder(41)
	if err != nil {
		t.Fatalf("exists check failed: %v", err)
	}
	if exists {
		t.Fatal("expected no earnings for order 41")
	}
}
