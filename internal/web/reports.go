package web

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"kasirinaja/frontend/internal/domain"
	"kasirinaja/frontend/internal/report"
)

// rangeFilter echoes the report filter back into the page.
type rangeFilter struct {
	Action  string
	Presets []report.Preset
	Preset  string
	Start   string
	End     string
	Query   string
}

// ExportURL links the export of the current range in format.
func (f rangeFilter) ExportURL(format string) string {
	return f.Action + "/export?" + f.Query + "&format=" + url.QueryEscape(format)
}

type dailyView struct {
	Date   string
	Report domain.DailyReport
	Shifts []report.ShiftRow
}

type periodView struct {
	Filter rangeFilter
	Report *domain.SummaryReport
}

type transactionReportView struct {
	Filter    rangeFilter
	Rows      []report.TransactionRow
	Aggregate *report.Aggregate
}

type mismatchView struct {
	Filter rangeFilter
	Rows   []report.ShiftRow
}

// resolveFilter reads preset/start/end from the query. On error the filter
// still carries what the user typed.
func (s *Server) resolveFilter(r *http.Request, action string, fallback report.Preset) (rangeFilter, report.Range, error) {
	q := r.URL.Query()
	filter := rangeFilter{
		Action:  action,
		Presets: report.Presets,
		Preset:  strings.TrimSpace(q.Get("preset")),
		Start:   strings.TrimSpace(q.Get("start")),
		End:     strings.TrimSpace(q.Get("end")),
	}
	rng, err := report.ResolveRange(filter.Preset, filter.Start, filter.End, fallback, s.now())
	if err != nil {
		return filter, report.Range{}, err
	}
	filter.Start, filter.End = rng.StartParam(), rng.EndParam()
	filter.Query = url.Values{"start": {filter.Start}, "end": {filter.End}}.Encode()
	return filter, rng, nil
}

func (s *Server) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		date = s.now().Format(report.DateLayout)
	}
	view := dailyView{Date: date}
	if _, err := report.ParseDate(date); err != nil {
		s.render(w, r, http.StatusBadRequest, "report_daily", "Daily report", view, withNotice(flashError, userMessage(err, "")))
		return
	}

	rep, err := s.scope(r).DailyReport(r.Context(), date)
	if err != nil {
		s.fail(w, r, err, "Could not load the daily report.", "")
		return
	}
	view.Report = rep
	view.Shifts = report.DailyShiftRows(rep)
	s.render(w, r, http.StatusOK, "report_daily", "Daily report", view)
}

func (s *Server) handlePeriodReport(w http.ResponseWriter, r *http.Request) {
	filter, rng, err := s.resolveFilter(r, "/admin/reports/period", report.PresetLast7)
	if err != nil {
		s.render(w, r, http.StatusBadRequest, "report_period", "Sales summary", periodView{Filter: filter}, withNotice(flashError, userMessage(err, "")))
		return
	}
	rep, err := s.scope(r).SummaryReport(r.Context(), rng.StartParam(), rng.EndParam())
	if err != nil {
		s.fail(w, r, err, "Could not load the summary.", "")
		return
	}
	s.render(w, r, http.StatusOK, "report_period", "Sales summary", periodView{Filter: filter, Report: &rep})
}

func (s *Server) handleTransactionReport(w http.ResponseWriter, r *http.Request) {
	filter, rng, err := s.resolveFilter(r, "/admin/reports/transactions", report.PresetToday)
	if err != nil {
		s.render(w, r, http.StatusBadRequest, "report_transactions", "Transactions", transactionReportView{Filter: filter}, withNotice(flashError, userMessage(err, "")))
		return
	}
	txs, err := s.scope(r).Transactions(r.Context(), domain.TransactionFilter{From: rng.StartParam(), To: rng.EndParam()})
	if err != nil {
		s.fail(w, r, err, "Could not load transactions.", "")
		return
	}
	agg := report.SummarizeTransactions(txs)
	s.render(w, r, http.StatusOK, "report_transactions", "Transactions", transactionReportView{
		Filter:    filter,
		Rows:      report.TransactionRows(txs),
		Aggregate: &agg,
	})
}

func (s *Server) handleMismatchReport(w http.ResponseWriter, r *http.Request) {
	filter, rng, err := s.resolveFilter(r, "/admin/reports/mismatches", report.PresetLast30)
	if err != nil {
		s.render(w, r, http.StatusBadRequest, "report_mismatches", "Cash mismatches", mismatchView{Filter: filter}, withNotice(flashError, userMessage(err, "")))
		return
	}
	rep, err := s.scope(r).Mismatches(r.Context(), rng.StartParam(), rng.EndParam())
	if err != nil {
		s.fail(w, r, err, "Could not load mismatches.", "")
		return
	}
	s.render(w, r, http.StatusOK, "report_mismatches", "Cash mismatches", mismatchView{Filter: filter, Rows: report.MismatchRows(rep)})
}

func (s *Server) handlePeriodExport(w http.ResponseWriter, r *http.Request) {
	_, rng, err := s.resolveFilter(r, "", report.PresetLast7)
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, userMessage(err, ""))
		return
	}
	rep, err := s.scope(r).SummaryReport(r.Context(), rng.StartParam(), rng.EndParam())
	if err != nil {
		s.fail(w, r, err, "Could not load the summary.", "")
		return
	}
	name := fmt.Sprintf("summary_%s_%s", rng.StartParam(), rng.EndParam())
	s.export(w, r, name,
		func(out io.Writer) error { return report.WriteSummaryXLSX(out, rep) },
		func(out io.Writer) error { return report.WriteSummaryCSV(out, rep) })
}

func (s *Server) handleTransactionExport(w http.ResponseWriter, r *http.Request) {
	_, rng, err := s.resolveFilter(r, "", report.PresetToday)
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, userMessage(err, ""))
		return
	}
	txs, err := s.scope(r).Transactions(r.Context(), domain.TransactionFilter{From: rng.StartParam(), To: rng.EndParam()})
	if err != nil {
		s.fail(w, r, err, "Could not load transactions.", "")
		return
	}
	name := fmt.Sprintf("transactions_%s_%s", rng.StartParam(), rng.EndParam())
	s.export(w, r, name,
		func(out io.Writer) error { return report.WriteTransactionsXLSX(out, txs) },
		func(out io.Writer) error { return report.WriteTransactionsCSV(out, txs) })
}

// export writes an attachment in the format named by ?format=, xlsx unless
// csv was asked for.
func (s *Server) export(w http.ResponseWriter, r *http.Request, name string, xlsx func(io.Writer) error, csv func(io.Writer) error) {
	write, contentType, ext := xlsx, report.ContentTypeXLSX, "xlsx"
	if strings.EqualFold(r.URL.Query().Get("format"), "csv") {
		write, contentType, ext = csv, report.ContentTypeCSV, "csv"
	}

	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		logFor(r).WithError(err).Error("build export")
		s.renderError(w, r, http.StatusInternalServerError, "The export could not be built.")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+"."+ext))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
