package data

import (
	"context"

	"kasirinaja/frontend/internal/domain"
)

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	return s.api.Login(ctx, req)
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) error {
	return s.api.Register(ctx, req)
}

func (s *Service) ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) (domain.MessageResponse, error) {
	return s.api.ForgotPassword(ctx, req)
}

func (s *Service) ResetPassword(ctx context.Context, resetToken string, req domain.ResetPasswordRequest) (domain.MessageResponse, error) {
	return s.api.ResetPassword(ctx, resetToken, req)
}
