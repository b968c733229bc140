package apiclient

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"kasirinaja/frontend/internal/domain"
)

// ActiveShift returns nil when the caller has no open shift.
func (c *Client) ActiveShift(ctx context.Context, token string) (*domain.Shift, error) {
	var resp domain.ActiveShiftResponse
	if err := c.doJSON(ctx, token, http.MethodGet, "/shifts/active", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Shift, nil
}

func (c *Client) StartShift(ctx context.Context, token string, startMoney decimal.Decimal) (domain.ShiftResponse, error) {
	var resp domain.ShiftResponse
	err := c.doJSON(ctx, token, http.MethodPost, "/shifts", nil, domain.ShiftStartRequest{StartMoney: startMoney}, &resp)
	return resp, err
}

func (c *Client) EndShift(ctx context.Context, token string, endMoney decimal.Decimal) (domain.ShiftResponse, error) {
	var resp domain.ShiftResponse
	err := c.doJSON(ctx, token, http.MethodPatch, "/shifts/end", nil, domain.ShiftEndRequest{EndMoney: endMoney}, &resp)
	return resp, err
}
