package services

import (
	"context"
	"time"

	"github.com/quickbill/quickbill_backend/internal/core/domain"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// TokenSvcFacade defines the interface for token management services.
type TokenSvcFacade interface {
	// GenerateAccessToken issues a signed JWT access token for the user.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// GenerateRefreshToken issues a refresh token and persists its hash.
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// ValidateAndParseRefreshToken validates a refresh token string against a
	// user's stored token details and returns the user when valid.
	ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshTokenString string) (*domain.User, error)
}

// GoogleOAuthSvcFacade defines the interface for Google OAuth operations.
type GoogleOAuthSvcFacade interface {
	// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)

	// ValidateGoogleIDToken validates an ID token string from Google and returns its payload.
	ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error)
}

// PasswordResetSvcFacade drives the forgot-password flow: a short numeric
// code is stored with a TTL and delivered out of band, then verified and
// consumed to set a new password.
type PasswordResetSvcFacade interface {
	// RequestReset issues and delivers a reset code for the contact.
	// It reports success even for unknown contacts to avoid account probing.
	RequestReset(ctx context.Context, emailOrPhone string) error

	// VerifyCode checks the delivered code without consuming it.
	VerifyCode(ctx context.Context, emailOrPhone string, code string) error

	// ResetPassword consumes a valid code and sets the new password.
	ResetPassword(ctx context.Context, emailOrPhone string, code string, newPassword string) error
}

// Notifier delivers short messages to a user over email or SMS depending on
// their contact handle.
type Notifier interface {
	// SendResetCode delivers a password reset code to the user.
	SendResetCode(ctx context.Context, user *domain.User, code string) error
}
