package data

import (
	"context"

	"kasirinaja/frontend/internal/domain"
)

// Transactions and reports are read straight through; they change with every
// sale and are only fetched on explicit apply.
func (sc *Scope) Transactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	return sc.svc.api.ListTransactions(ctx, sc.token(), filter)
}

// Checkout submits a sale. Stock changed server-side, so every cached product
// copy is dropped.
func (sc *Scope) Checkout(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResponse, error) {
	resp, err := sc.svc.api.Checkout(ctx, sc.token(), req)
	if err != nil {
		return resp, err
	}
	sc.svc.invalidate(ctx, prefix(resProducts), prefix(resProduct))
	return resp, nil
}

func (sc *Scope) DailyReport(ctx context.Context, date string) (domain.DailyReport, error) {
	return sc.svc.api.DailyReport(ctx, sc.token(), date)
}

func (sc *Scope) SummaryReport(ctx context.Context, start string, end string) (domain.SummaryReport, error) {
	return sc.svc.api.SummaryReport(ctx, sc.token(), start, end)
}

func (sc *Scope) Mismatches(ctx context.Context, start string, end string) (domain.MismatchReport, error) {
	return sc.svc.api.Mismatches(ctx, sc.token(), start, end)
}
