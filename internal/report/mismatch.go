package report

import (
	"github.com/shopspring/decimal"

	"kasirinaja/frontend/internal/domain"
)

type Balance string

const (
	BalanceMatched  Balance = "matched"
	BalanceOverage  Balance = "overage"
	BalanceShortage Balance = "shortage"
	BalanceOpen     Balance = "open"
)

// Discrepancy is closing minus expected cash. It is not defined for a shift
// without a closing figure.
func Discrepancy(endMoney *decimal.Decimal, expected decimal.Decimal) (decimal.Decimal, bool) {
	if endMoney == nil {
		return decimal.Zero, false
	}
	return endMoney.Sub(expected), true
}

func balanceOf(diff decimal.Decimal, ok bool) Balance {
	switch {
	case !ok:
		return BalanceOpen
	case diff.IsPositive():
		return BalanceOverage
	case diff.IsNegative():
		return BalanceShortage
	}
	return BalanceMatched
}

// ShiftRow is a shift as shown in the daily and mismatch views.
type ShiftRow struct {
	ID           string
	CashierName  string
	StartTime    string
	EndTime      string
	StartMoney   decimal.Decimal
	EndMoney     *decimal.Decimal
	ExpectedCash decimal.Decimal
	Discrepancy  decimal.Decimal
	Balance      Balance
	Mismatch     bool
	Totals       *domain.ShiftTotals
}

func newShiftRow(id string, cashier *domain.Person, start timeLike, end timeLike, startMoney decimal.Decimal, endMoney *decimal.Decimal, expected decimal.Decimal, serverFlag bool) ShiftRow {
	diff, ok := Discrepancy(endMoney, expected)
	row := ShiftRow{
		ID:           id,
		StartTime:    start.display(),
		EndTime:      end.display(),
		StartMoney:   startMoney,
		EndMoney:     endMoney,
		ExpectedCash: expected,
		Discrepancy:  diff,
		Balance:      balanceOf(diff, ok),
		Mismatch:     serverFlag || (ok && !diff.IsZero()),
	}
	if cashier != nil {
		row.CashierName = cashier.Name
	}
	return row
}

// MismatchRows builds the mismatch view's rows.
func MismatchRows(rep domain.MismatchReport) []ShiftRow {
	rows := make([]ShiftRow, 0, len(rep.Shifts))
	for _, s := range rep.Shifts {
		rows = append(rows, newShiftRow(s.ID, s.Cashier, at(s.StartTime), atPtr(s.EndTime), s.StartMoney, s.EndMoney, s.ExpectedCash, s.Mismatch))
	}
	return rows
}

// DailyShiftRows builds the per-shift breakdown of the daily view.
func DailyShiftRows(rep domain.DailyReport) []ShiftRow {
	rows := make([]ShiftRow, 0, len(rep.Shifts))
	for _, s := range rep.Shifts {
		row := newShiftRow(s.ID, s.Cashier, at(s.StartTime), atPtr(s.EndTime), s.StartMoney, s.EndMoney, s.ExpectedCash, s.Mismatch)
		totals := s.Totals
		row.Totals = &totals
		rows = append(rows, row)
	}
	return rows
}
