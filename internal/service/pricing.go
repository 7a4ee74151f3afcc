package service

import (
	"github.com/hostara-next/internal/constants"

	"github.com/shopspring/decimal"
)

// 税率常量（百分比）
var (
	gstRatePercent = decimal.NewFromInt(18)
	tdsRatePercent = decimal.NewFromInt(10)
	percentBase    = decimal.NewFromInt(100)
)

// cycleDiscountPercents 计费周期折扣表（百分比）
var cycleDiscountPercents = map[string]decimal.Decimal{
	constants.BillingCycleMonthly:      decimal.NewFromInt(5),
	constants.BillingCycleQuarterly:    decimal.NewFromInt(10),
	constants.BillingCycleSemiAnnually: decimal.NewFromInt(15),
	constants.BillingCycleAnnually:     decimal.NewFromInt(20),
	constants.BillingCycleBiennially:   decimal.NewFromInt(25),
	constants.BillingCycleTriennially:  decimal.NewFromInt(35),
}

// Quote 订单报价;全部金额保留完整精度,落库时由 Money 截断到两位
type Quote struct {
	BillingCycle    string
	DiscountPercent decimal.Decimal
	Subtotal        decimal.Decimal
	DiscountAmount  decimal.Decimal
	Discounted      decimal.Decimal
	GSTAmount       decimal.Decimal
	TDSAmount       decimal.Decimal
	GrandTotal      decimal.Decimal
}

// CycleDiscountPercent 返回计费周期折扣比例;未知周期折扣为 0
func CycleDiscountPercent(cycle string) decimal.Decimal {
	if pct, ok := cycleDiscountPercents[cycle]; ok {
		return pct
	}
	return decimal.Zero
}

// ComputeQuote 按计费周期计算订单各项金额。
// discounted = subtotal - subtotal*pct/100;GST 加收 18%,TDS 抵扣 10%,
// 两者均以折后金额为基数。
func ComputeQuote(subtotal decimal.Decimal, cycle string) Quote {
	pct := CycleDiscountPercent(cycle)
	discount := subtotal.Mul(pct).Div(percentBase)
	discounted := subtotal.Sub(discount)
	gst := discounted.Mul(gstRatePercent).Div(percentBase)
	tds := discounted.Mul(tdsRatePercent).Div(percentBase)
	grand := discounted.Add(gst).Sub(tds)

	return Quote{
		BillingCycle:    cycle,
		DiscountPercent: pct,
		Subtotal:        subtotal,
		DiscountAmount:  discount,
		Discounted:      discounted,
		GSTAmount:       gst,
		TDSAmount:       tds,
		GrandTotal:      grand,
	}
}
