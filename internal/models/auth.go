package models

// ForgotPasswordInput asks the backend to mail a reset link
type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordInput completes a reset with the mailed token
type ResetPasswordInput struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// MessageResponse is the body returned by the password endpoints
type MessageResponse struct {
	Message string `json:"message"`
}
