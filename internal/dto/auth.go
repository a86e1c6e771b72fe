package dto

// RegisterRequest defines the data needed to create an account.
// Email and phone are alternatives; exactly one must be provided.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone" binding:"omitempty,e164"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the credentials for a login attempt.
type LoginRequest struct {
	EmailOrPhone string `json:"emailOrPhone" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

// LoginResponse represents the response for a successful login or refresh.
type LoginResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken,omitempty"`
	User         UserResponse `json:"user"`
}

// RefreshRequest carries the raw refresh token being redeemed. The token is
// opaque, so the owning user must be named explicitly.
type RefreshRequest struct {
	UserID       string `json:"userID" binding:"required"`
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// ForgotPasswordRequest starts the password reset flow.
type ForgotPasswordRequest struct {
	EmailOrPhone string `json:"emailOrPhone" binding:"required"`
}

// VerifyResetCodeRequest checks a delivered reset code without consuming it.
type VerifyResetCodeRequest struct {
	EmailOrPhone string `json:"emailOrPhone" binding:"required"`
	Code         string `json:"code" binding:"required,len=6,numeric"`
}

// ResetPasswordRequest consumes a verified code and sets a new password.
type ResetPasswordRequest struct {
	EmailOrPhone string `json:"emailOrPhone" binding:"required"`
	Code         string `json:"code" binding:"required,len=6,numeric"`
	NewPassword  string `json:"newPassword" binding:"required,min=8"`
}

// ExchangeCodeRequest carries the Google authorization code from the frontend.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// ExchangeCodeResponse returns the application token after a Google sign-in.
type ExchangeCodeResponse struct {
	Token string `json:"token"`
}

// MessageResponse is a generic acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}
