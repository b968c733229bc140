package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"kasirinaja/frontend/internal/domain"
)

func (c *Client) ListTransactions(ctx context.Context, token string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	query := url.Values{}
	if filter.ShiftID != "" {
		query.Set("shiftId", filter.ShiftID)
	}
	if filter.From != "" {
		query.Set("from", filter.From)
	}
	if filter.To != "" {
		query.Set("to", filter.To)
	}
	var resp struct {
		Transactions []domain.Transaction `json:"transactions"`
	}
	if err := c.doJSON(ctx, token, http.MethodGet, "/transactions", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

func (c *Client) Checkout(ctx context.Context, token string, req domain.CheckoutRequest) (domain.CheckoutResponse, error) {
	var resp domain.CheckoutResponse
	err := c.doJSON(ctx, token, http.MethodPost, "/transactions/pos", nil, req, &resp)
	return resp, err
}
