package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"kasirinaja/frontend/internal/domain"
)

func (c *Client) DailyReport(ctx context.Context, token string, date string) (domain.DailyReport, error) {
	var resp domain.DailyReport
	err := c.doJSON(ctx, token, http.MethodGet, "/reports/daily", url.Values{"date": {date}}, nil, &resp)
	return resp, err
}

func (c *Client) SummaryReport(ctx context.Context, token string, start string, end string) (domain.SummaryReport, error) {
	var resp domain.SummaryReport
	err := c.doJSON(ctx, token, http.MethodGet, "/reports/summary", url.Values{"start": {start}, "end": {end}}, nil, &resp)
	return resp, err
}

func (c *Client) Mismatches(ctx context.Context, token string, start string, end string) (domain.MismatchReport, error) {
	var resp domain.MismatchReport
	err := c.doJSON(ctx, token, http.MethodGet, "/reports/mismatches", url.Values{"start": {start}, "end": {end}}, nil, &resp)
	return resp, err
}
