package domain

import "time"

// AuthProvider identifies how an account authenticates.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
)

// User represents an account holder in the domain.
// Either Email or Phone is set at registration; both may be present later.
type User struct {
	UserID string `json:"userID"` // Primary Key (UUID)
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`

	PasswordHash string `json:"-"`

	AuthProvider   AuthProvider `json:"authProvider"`
	ProviderUserID string       `json:"-"` // Google's 'sub' claim for OAuth accounts
	EmailVerified  bool         `json:"emailVerified"`

	// Refresh token state; only the SHA256 hash of the token is kept.
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`

	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"` // Used for soft delete
}

// Contact returns the user's primary contact handle (email preferred).
func (u *User) Contact() string {
	if u.Email != "" {
		return u.Email
	}
	return u.Phone
}
