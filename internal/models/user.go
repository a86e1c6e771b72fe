package models

import (
	"database/sql"
	"time"
)

// User represents an account row in the users table.
// Email and Phone are both nullable; at least one is set for local accounts.
type User struct {
	UserID       string         `db:"user_id"`
	Name         string         `db:"name"`
	Email        sql.NullString `db:"email"`
	Phone        sql.NullString `db:"phone"`
	PasswordHash sql.NullString `db:"password_hash"`

	AuthProvider   string         `db:"auth_provider"`
	ProviderUserID sql.NullString `db:"provider_user_id"`
	EmailVerified  bool           `db:"email_verified"`

	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`

	// Refresh token fields: only the SHA256 hash is stored.
	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"`
}
