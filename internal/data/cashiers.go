package data

import (
	"context"
	"strings"

	"kasirinaja/frontend/internal/cache"
	"kasirinaja/frontend/internal/domain"
)

func (sc *Scope) Cashiers(ctx context.Context, search string) ([]domain.Cashier, error) {
	search = strings.TrimSpace(search)
	return cached(ctx, sc.svc, cache.Key(resCashiers, sc.userKey(), strings.ToLower(search)), func() ([]domain.Cashier, error) {
		return sc.svc.api.ListCashiers(ctx, sc.token(), search)
	})
}

func (sc *Scope) Cashier(ctx context.Context, id string) (domain.Cashier, error) {
	return cached(ctx, sc.svc, cache.Key(resCashier, sc.userKey(), id), func() (domain.Cashier, error) {
		return sc.svc.api.GetCashier(ctx, sc.token(), id)
	})
}

func (sc *Scope) CreateCashier(ctx context.Context, req domain.CashierCreateRequest) (domain.Cashier, error) {
	cashier, err := sc.svc.api.CreateCashier(ctx, sc.token(), req)
	if err != nil {
		return cashier, err
	}
	sc.svc.invalidate(ctx, prefix(resCashiers))
	return cashier, nil
}

func (sc *Scope) UpdateCashier(ctx context.Context, id string, req domain.CashierUpdateRequest) (domain.Cashier, error) {
	cashier, err := sc.svc.api.UpdateCashier(ctx, sc.token(), id, req)
	if err != nil {
		return cashier, err
	}
	sc.svc.invalidate(ctx, prefix(resCashiers), prefix(resCashier))
	return cashier, nil
}

func (sc *Scope) DeleteCashier(ctx context.Context, id string) error {
	if err := sc.svc.api.DeleteCashier(ctx, sc.token(), id); err != nil {
		return err
	}
	sc.svc.invalidate(ctx, prefix(resCashiers), prefix(resCashier))
	return nil
}
