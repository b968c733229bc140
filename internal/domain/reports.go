package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DailyTotals struct {
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CashTotal   decimal.Decimal `json:"cashTotal"`
	DebitTotal  decimal.Decimal `json:"debitTotal"`
}

type PerItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type ShiftTotals struct {
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CashTotal   decimal.Decimal `json:"cashTotal"`
	DebitTotal  decimal.Decimal `json:"debitTotal"`
}

type ShiftSummary struct {
	ID           string           `json:"id"`
	Cashier      *Person          `json:"cashier"`
	StartTime    time.Time        `json:"startTime"`
	EndTime      *time.Time       `json:"endTime,omitempty"`
	StartMoney   decimal.Decimal  `json:"startMoney"`
	EndMoney     *decimal.Decimal `json:"endMoney,omitempty"`
	ExpectedCash decimal.Decimal  `json:"expectedCash"`
	Mismatch     bool             `json:"mismatch"`
	Totals       ShiftTotals      `json:"totals"`
}

type DailyReport struct {
	Date    string         `json:"date"`
	Totals  DailyTotals    `json:"totals"`
	PerItem []PerItem      `json:"perItem"`
	Shifts  []ShiftSummary `json:"shifts"`
}

type MismatchShift struct {
	ID           string           `json:"id"`
	Cashier      *Person          `json:"cashier"`
	StartTime    time.Time        `json:"startTime"`
	EndTime      *time.Time       `json:"endTime,omitempty"`
	StartMoney   decimal.Decimal  `json:"startMoney"`
	EndMoney     *decimal.Decimal `json:"endMoney,omitempty"`
	ExpectedCash decimal.Decimal  `json:"expectedCash"`
	Mismatch     bool             `json:"mismatch"`
}

type MismatchReport struct {
	Start  string          `json:"start"`
	End    string          `json:"end"`
	Shifts []MismatchShift `json:"shifts"`
}

type SummaryReport struct {
	Start   string      `json:"start"`
	End     string      `json:"end"`
	Totals  DailyTotals `json:"totals"`
	PerItem []PerItem   `json:"perItem"`
}
