package data

import (
	"context"

	"kasirinaja/frontend/internal/cache"
	"kasirinaja/frontend/internal/domain"
)

func (sc *Scope) Products(ctx context.Context) ([]domain.Product, error) {
	return cached(ctx, sc.svc, cache.Key(resProducts, sc.userKey()), func() ([]domain.Product, error) {
		return sc.svc.api.ListProducts(ctx, sc.token())
	})
}

func (sc *Scope) Product(ctx context.Context, id string) (domain.Product, error) {
	return cached(ctx, sc.svc, cache.Key(resProduct, sc.userKey(), id), func() (domain.Product, error) {
		return sc.svc.api.GetProduct(ctx, sc.token(), id)
	})
}

func (sc *Scope) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	product, err := sc.svc.api.CreateProduct(ctx, sc.token(), req)
	if err != nil {
		return product, err
	}
	sc.svc.invalidate(ctx, prefix(resProducts))
	return product, nil
}

func (sc *Scope) UpdateProduct(ctx context.Context, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	product, err := sc.svc.api.UpdateProduct(ctx, sc.token(), id, req)
	if err != nil {
		return product, err
	}
	sc.svc.invalidate(ctx, prefix(resProducts), prefix(resProduct))
	return product, nil
}

func (sc *Scope) DeleteProduct(ctx context.Context, id string) error {
	if err := sc.svc.api.DeleteProduct(ctx, sc.token(), id); err != nil {
		return err
	}
	sc.svc.invalidate(ctx, prefix(resProducts), prefix(resProduct))
	return nil
}

func (sc *Scope) AdjustStock(ctx context.Context, id string, quantity int) error {
	if err := sc.svc.api.AdjustStock(ctx, sc.token(), id, quantity); err != nil {
		return err
	}
	sc.svc.invalidate(ctx, prefix(resProducts), prefix(resProduct))
	return nil
}
