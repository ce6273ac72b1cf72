package hooks

import (
	"churchportal/internal/models"
	"churchportal/internal/query"
)

// Passwords wraps the password reset flow; these calls need no session and
// touch no cached data
type Passwords struct {
	c *Client
}

func (h *Passwords) Forgot() *query.Mutation[models.ForgotPasswordInput, *models.MessageResponse] {
	return write(h.c, "", "", h.c.services.Passwords.ForgotPassword, nil)
}

func (h *Passwords) RequestReset() *query.Mutation[models.ForgotPasswordInput, *models.MessageResponse] {
	return write(h.c, "", "", h.c.services.Passwords.RequestPasswordReset, nil)
}

func (h *Passwords) Reset() *query.Mutation[models.ResetPasswordInput, *models.MessageResponse] {
	return write(h.c, "", "", h.c.services.Passwords.ResetPassword, nil)
}
