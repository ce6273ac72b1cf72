package service

import (
	"context"

	"churchportal/internal/apiclient"
	"churchportal/internal/models"
)

// PasswordService drives the password-reset endpoints
type PasswordService struct {
	api *apiclient.Client
}

func NewPasswordService(api *apiclient.Client) *PasswordService {
	return &PasswordService{api: api}
}

// ForgotPassword asks the backend to mail a reset link to a signed-out member
func (s *PasswordService) ForgotPassword(ctx context.Context, input models.ForgotPasswordInput) (*models.MessageResponse, error) {
	return apiclient.Post[*models.MessageResponse](ctx, s.api, "/auth/forgot-password", input)
}

// RequestPasswordReset is the signed-in variant, used from the profile page
func (s *PasswordService) RequestPasswordReset(ctx context.Context, input models.ForgotPasswordInput) (*models.MessageResponse, error) {
	return apiclient.Post[*models.MessageResponse](ctx, s.api, "/auth/request-password-reset", input)
}

// ResetPassword sets a new password using the mailed token
func (s *PasswordService) ResetPassword(ctx context.Context, input models.ResetPasswordInput) (*models.MessageResponse, error) {
	return apiclient.Post[*models.MessageResponse](ctx, s.api, "/auth/reset-password", input)
}
