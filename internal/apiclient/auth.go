package apiclient

import (
	"context"
	"net/http"

	"kasirinaja/frontend/internal/domain"
)

func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	var resp domain.LoginResponse
	err := c.doJSON(ctx, "", http.MethodPost, "/auth/login", nil, req, &resp)
	return resp, err
}

func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) error {
	return c.doJSON(ctx, "", http.MethodPost, "/auth/register", nil, req, nil)
}

func (c *Client) ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) (domain.MessageResponse, error) {
	var resp domain.MessageResponse
	err := c.doJSON(ctx, "", http.MethodPost, "/auth/forgot-password", nil, req, &resp)
	return resp, err
}

// ResetPassword authenticates with the reset token from the emailed link, not
// with a session credential.
func (c *Client) ResetPassword(ctx context.Context, resetToken string, req domain.ResetPasswordRequest) (domain.MessageResponse, error) {
	var resp domain.MessageResponse
	err := c.doJSON(ctx, resetToken, http.MethodPatch, "/auth/reset-password", nil, req, &resp)
	return resp, err
}
