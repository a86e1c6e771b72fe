package repositories

import (
	"context"
	"time"
)

// ResetCodeRepositoryFacade stores short-lived password reset codes keyed by
// the contact handle they were delivered to. Codes expire via TTL.
type ResetCodeRepositoryFacade interface {
	// StoreCode saves a reset code for the contact, replacing any previous one.
	StoreCode(ctx context.Context, emailOrPhone string, code string, ttl time.Duration) error

	// GetCode returns the currently stored code for the contact.
	// Returns apperrors.ErrNotFound when no live code exists.
	GetCode(ctx context.Context, emailOrPhone string) (string, error)

	// DeleteCode removes the stored code once consumed.
	DeleteCode(ctx context.Context, emailOrPhone string) error
}
