package report

import (
	"encoding/csv"
	"io"
	"strconv"

	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"kasirinaja/frontend/internal/domain"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv; charset=utf-8"
)

type sheet struct {
	name   string
	header []string
	rows   [][]any
}

func summarySheets(rep domain.SummaryReport) []sheet {
	totals := sheet{
		name:   "Summary",
		header: []string{"Start", "End", "Transactions", "Total", "Cash", "Debit"},
		rows: [][]any{{
			rep.Start, rep.End, rep.Totals.Count,
			rep.Totals.TotalAmount.InexactFloat64(),
			rep.Totals.CashTotal.InexactFloat64(),
			rep.Totals.DebitTotal.InexactFloat64(),
		}},
	}
	items := sheet{name: "Products", header: []string{"Product ID", "Product", "Quantity", "Revenue"}}
	for _, it := range rep.PerItem {
		items.rows = append(items.rows, []any{it.ProductID, it.Name, it.Quantity, it.Revenue.InexactFloat64()})
	}
	return []sheet{totals, items}
}

func transactionSheets(txs []domain.Transaction) []sheet {
	list := sheet{
		name:   "Transactions",
		header: []string{"ID", "Created", "Cashier", "Method", "Total", "Cash", "Change", "Card"},
	}
	lines := sheet{
		name:   "Items",
		header: []string{"Transaction ID", "Product ID", "Product", "Quantity", "Price", "Line total"},
	}
	for _, row := range TransactionRows(txs) {
		list.rows = append(list.rows, []any{
			row.ID, row.CreatedAt, row.CashierName, string(row.Method),
			row.Total.InexactFloat64(), optionalFloat(row.Tendered), optionalFloat(row.Change), row.CardNumber,
		})
		for _, item := range row.Items {
			lines.rows = append(lines.rows, []any{
				row.ID, item.ProductID, item.Name(), item.Quantity,
				item.Price.InexactFloat64(), item.LineTotal().InexactFloat64(),
			})
		}
	}
	return []sheet{list, lines}
}

func WriteSummaryXLSX(w io.Writer, rep domain.SummaryReport) error {
	return writeXLSX(w, summarySheets(rep))
}

func WriteTransactionsXLSX(w io.Writer, txs []domain.Transaction) error {
	return writeXLSX(w, transactionSheets(txs))
}

// WriteSummaryCSV writes the per-product table followed by a totals row.
func WriteSummaryCSV(w io.Writer, rep domain.SummaryReport) error {
	sheets := summarySheets(rep)
	items := sheets[1]
	items.rows = append(items.rows, []any{"", "TOTAL", totalQuantity(rep.PerItem), rep.Totals.TotalAmount.InexactFloat64()})
	return writeCSV(w, items)
}

func WriteTransactionsCSV(w io.Writer, txs []domain.Transaction) error {
	return writeCSV(w, transactionSheets(txs)[0])
}

func writeXLSX(w io.Writer, sheets []sheet) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = pkgerrors.Wrap(cerr, "close workbook")
		}
	}()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return pkgerrors.Wrap(err, "create header style")
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				return pkgerrors.Wrapf(err, "rename sheet %s", sh.name)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return pkgerrors.Wrapf(err, "add sheet %s", sh.name)
		}

		header := make([]any, len(sh.header))
		for j, h := range sh.header {
			header[j] = h
		}
		if err := f.SetSheetRow(sh.name, "A1", &header); err != nil {
			return pkgerrors.Wrapf(err, "write %s header", sh.name)
		}
		last, _ := excelize.CoordinatesToCellName(len(sh.header), 1)
		if err := f.SetCellStyle(sh.name, "A1", last, bold); err != nil {
			return pkgerrors.Wrapf(err, "style %s header", sh.name)
		}

		for r, row := range sh.rows {
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			values := row
			if err := f.SetSheetRow(sh.name, cell, &values); err != nil {
				return pkgerrors.Wrapf(err, "write %s row %d", sh.name, r+1)
			}
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return pkgerrors.Wrap(err, "write workbook")
	}
	return nil
}

func writeCSV(w io.Writer, sh sheet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sh.header); err != nil {
		return pkgerrors.Wrap(err, "write csv header")
	}
	for _, row := range sh.rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = csvValue(v)
		}
		if err := cw.Write(record); err != nil {
			return pkgerrors.Wrap(err, "write csv row")
		}
	}
	cw.Flush()
	return pkgerrors.Wrap(cw.Error(), "flush csv")
}

func csvValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	}
	return ""
}

func optionalFloat(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.InexactFloat64()
}

func totalQuantity(items []domain.PerItem) int {
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return total
}
