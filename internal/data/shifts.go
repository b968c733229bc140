package data

import (
	"context"

	"github.com/shopspring/decimal"

	"kasirinaja/frontend/internal/cache"
	"kasirinaja/frontend/internal/domain"
)

// ActiveShift returns the caller's open shift, or nil.
func (sc *Scope) ActiveShift(ctx context.Context) (*domain.Shift, error) {
	resp, err := cached(ctx, sc.svc, sc.activeShiftKey(), func() (domain.ActiveShiftResponse, error) {
		shift, err := sc.svc.api.ActiveShift(ctx, sc.token())
		return domain.ActiveShiftResponse{Shift: shift}, err
	})
	if err != nil {
		return nil, err
	}
	return resp.Shift, nil
}

func (sc *Scope) StartShift(ctx context.Context, startMoney decimal.Decimal) (domain.ShiftResponse, error) {
	resp, err := sc.svc.api.StartShift(ctx, sc.token(), startMoney)
	if err != nil {
		return resp, err
	}
	sc.svc.invalidate(ctx, sc.activeShiftKey())
	return resp, nil
}

func (sc *Scope) EndShift(ctx context.Context, endMoney decimal.Decimal) (domain.ShiftResponse, error) {
	resp, err := sc.svc.api.EndShift(ctx, sc.token(), endMoney)
	if err != nil {
		return resp, err
	}
	sc.svc.invalidate(ctx, sc.activeShiftKey())
	return resp, nil
}

func (sc *Scope) activeShiftKey() string {
	return cache.Key(resActiveShift, sc.userKey())
}
