package worker

import (
	"testing"

	"github.com/hostara-next/internal/models"

	"github.com/shopspring/decimal"
)

func TestBuildOrderReceiptSummaryNilOrder(t *testing.T) {
	if got := buildOrderReceiptSummary(nil); got != "" {
		t.Fatalf("expected empty summary for nil order, got %q", got)
	}
}

func TestBuildOrderReceiptSummary(t *testing.T) {
	order := &models.Order{
		OrderNo:      "HST20260831001",
		BillingCycle: "annually",
		GrandTotal:   models.NewMoneyFromDecimal(decimal.NewFromFloat(4799)),
		Currency:     "INR",
	}

	got := buildOrderReceiptSummary(order)
	want := "HST20260831001 4799.00 INR/annually"
	if got != want {
		t.Fatalf("unexpected summary, want %q, got %q", want, got)
	}
}

func TestBuildOrderReceiptSummaryUnknownCycle(t *testing.T) {
	order := &models.Order{
		OrderNo:    "HST20260831002",
		GrandTotal: models.NewMoneyFromDecimal(decimal.NewFromFloat(199.5)),
		Currency:   "INR",
	}

	got := buildOrderReceiptSummary(order)
	want := "HST20260831002 199.50 INR/unknown"
	if got != want {
		t.Fatalf("unexpected summary, want %q, got %q", want, got)
	}
}
