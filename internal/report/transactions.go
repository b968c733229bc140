package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"kasirinaja/frontend/internal/domain"
)

// Aggregate is the client-side roll-up of a transaction list.
type Aggregate struct {
	Totals  domain.DailyTotals
	PerItem []domain.PerItem
}

// SummarizeTransactions totals a transaction list by payment method and by
// product. Products are ordered by revenue, highest first.
func SummarizeTransactions(txs []domain.Transaction) Aggregate {
	agg := Aggregate{Totals: domain.DailyTotals{
		TotalAmount: decimal.Zero,
		CashTotal:   decimal.Zero,
		DebitTotal:  decimal.Zero,
	}}
	byProduct := map[string]*domain.PerItem{}
	order := make([]string, 0, 16)

	for _, tx := range txs {
		agg.Totals.Count++
		agg.Totals.TotalAmount = agg.Totals.TotalAmount.Add(tx.TotalAmount)
		switch tx.PaymentMethod {
		case domain.PaymentCash:
			agg.Totals.CashTotal = agg.Totals.CashTotal.Add(tx.TotalAmount)
		case domain.PaymentDebit:
			agg.Totals.DebitTotal = agg.Totals.DebitTotal.Add(tx.TotalAmount)
		}

		for _, item := range tx.Items {
			entry, ok := byProduct[item.ProductID]
			if !ok {
				entry = &domain.PerItem{ProductID: item.ProductID, Name: item.Name(), Revenue: decimal.Zero}
				byProduct[item.ProductID] = entry
				order = append(order, item.ProductID)
			}
			entry.Quantity += item.Quantity
			entry.Revenue = entry.Revenue.Add(item.LineTotal())
		}
	}

	agg.PerItem = make([]domain.PerItem, 0, len(order))
	for _, id := range order {
		agg.PerItem = append(agg.PerItem, *byProduct[id])
	}
	sort.SliceStable(agg.PerItem, func(i, j int) bool {
		return agg.PerItem[i].Revenue.GreaterThan(agg.PerItem[j].Revenue)
	})
	return agg
}

// TransactionRow is one line of the transaction view with its drill-down.
type TransactionRow struct {
	ID          string
	CreatedAt   string
	CashierName string
	Method      domain.PaymentMethod
	Total       decimal.Decimal
	Tendered    *decimal.Decimal
	Change      *decimal.Decimal
	CardNumber  string
	Items       []domain.TransactionItem
}

func TransactionRows(txs []domain.Transaction) []TransactionRow {
	rows := make([]TransactionRow, 0, len(txs))
	for _, tx := range txs {
		row := TransactionRow{
			ID:          tx.ID,
			CreatedAt:   FormatTime(tx.CreatedAt),
			CashierName: tx.CashierName(),
			Method:      tx.PaymentMethod,
			Total:       tx.TotalAmount,
			Items:       tx.Items,
		}
		if tx.PaymentMethod == domain.PaymentCash {
			row.Tendered = tx.CashAmount
			row.Change = tx.ChangeAmount
		}
		if tx.PaymentMethod == domain.PaymentDebit && tx.DebitCardNumber != nil {
			row.CardNumber = MaskCard(*tx.DebitCardNumber)
		}
		rows = append(rows, row)
	}
	return rows
}

// MaskCard keeps the last four digits of a card number.
func MaskCard(number string) string {
	digits := make([]rune, 0, len(number))
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) <= 4 {
		return string(digits)
	}
	return "•••• " + string(digits[len(digits)-4:])
}
