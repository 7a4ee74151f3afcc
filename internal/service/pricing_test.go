package service

import (
	"testing"

	"github.com/hostara-next/internal/constants"

	"github.com/shopspring/decimal"
)

func TestComputeQuoteAnnually(t *testing.T) {
	quote := ComputeQuote(decimal.NewFromInt(1000), constants.BillingCycleAnnually)

	if !quote.DiscountAmount.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("unexpected discount: %s", quote.DiscountAmount.String())
	}
	if !quote.Discounted.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("unexpected discounted: %s", quote.Discounted.String())
	}
	if !quote.GSTAmount.Equal(decimal.NewFromInt(144)) {
		t.Fatalf("unexpected gst: %s", quote.GSTAmount.String())
	}
	if !quote.TDSAmount.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("unexpected tds: %s", quote.TDSAmount.String())
	}
	if !quote.GrandTotal.Equal(decimal.NewFromInt(864)) {
		t.Fatalf("unexpected grand total: %s", quote.GrandTotal.String())
	}
}

func TestComputeQuoteDiscountTable(t *testing.T) {
	cases := []struct {
		cycle string
		pct   int64
	}{
		{constants.BillingCycleMonthly, 5},
		{constants.BillingCycleQuarterly, 10},
		{constants.BillingCycleSemiAnnually, 15},
		{constants.BillingCycleAnnually, 20},
		{constants.BillingCycleBiennially, 25},
		{constants.BillingCycleTriennially, 35},
	}
	for _, tc := range cases {
		quote := ComputeQuote(decimal.NewFromInt(100), tc.cycle)
		if !quote.DiscountPercent.Equal(decimal.NewFromInt(tc.pct)) {
			t.Fatalf("cycle %s: unexpected discount percent %s", tc.cycle, quote.DiscountPercent.String())
		}
	}
}

func TestComputeQuoteUnknownCycleNoDiscount(t *testing.T) {
	quote := ComputeQuote(decimal.NewFromInt(500), "weekly")

	if !quote.DiscountAmount.Equal(decimal.Zero) {
		t.Fatalf("unexpected discount for unknown cycle: %s", quote.DiscountAmount.String())
	}
	// 500 + 90 - 50 = 540
	if !quote.GrandTotal.Equal(decimal.NewFromInt(540)) {
		t.Fatalf("unexpected grand total: %s", quote.GrandTotal.String())
	}
}

func TestComputeQuoteKeepsFractionalPrecision(t *testing.T) {
	subtotal := decimal.RequireFromString("999.99")
	quote := ComputeQuote(subtotal, constants.BillingCycleMonthly)

	// 999.99 * 5% = 49.9995,折扣保留完整精度
	if !quote.DiscountAmount.Equal(decimal.RequireFromString("49.9995")) {
		t.Fatalf("unexpected discount: %s", quote.DiscountAmount.String())
	}
	expected := quote.Discounted.
		Add(quote.GSTAmount).
		Sub(quote.TDSAmount)
	if !quote.GrandTotal.Equal(expected) {
		t.Fatalf("grand total mismatch: %s vs %s", quote.GrandTotal.String(), expected.String())
	}
}
