package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"kasirinaja/frontend/internal/domain"
)

func (c *Client) ListCashiers(ctx context.Context, token string, search string) ([]domain.Cashier, error) {
	var query url.Values
	if term := strings.TrimSpace(search); term != "" {
		query = url.Values{"search": {term}}
	}
	var resp struct {
		Cashiers []domain.Cashier `json:"cashiers"`
	}
	if err := c.doJSON(ctx, token, http.MethodGet, "/cashiers", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Cashiers, nil
}

func (c *Client) GetCashier(ctx context.Context, token string, id string) (domain.Cashier, error) {
	var resp struct {
		Cashier domain.Cashier `json:"cashier"`
	}
	err := c.doJSON(ctx, token, http.MethodGet, "/cashiers/"+url.PathEscape(id), nil, nil, &resp)
	return resp.Cashier, err
}

func (c *Client) CreateCashier(ctx context.Context, token string, req domain.CashierCreateRequest) (domain.Cashier, error) {
	var resp struct {
		Cashier domain.Cashier `json:"cashier"`
	}
	err := c.doJSON(ctx, token, http.MethodPost, "/cashiers", nil, req, &resp)
	return resp.Cashier, err
}

func (c *Client) UpdateCashier(ctx context.Context, token string, id string, req domain.CashierUpdateRequest) (domain.Cashier, error) {
	var resp struct {
		Cashier domain.Cashier `json:"cashier"`
	}
	err := c.doJSON(ctx, token, http.MethodPut, "/cashiers/"+url.PathEscape(id), nil, req, &resp)
	return resp.Cashier, err
}

// DeleteCashier is a soft delete; the API refuses it while the cashier has
// an open shift.
func (c *Client) DeleteCashier(ctx context.Context, token string, id string) error {
	return c.doJSON(ctx, token, http.MethodDelete, "/cashiers/"+url.PathEscape(id), nil, nil, nil)
}
