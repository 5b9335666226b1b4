package entity

import "time"

// PasswordResetToken stores the SHA-256 digest of a reset token; the raw
// token leaves the system only inside the reset email.
type PasswordResetToken struct {
	ID        int64
	Email     string
	TokenHash string

	// IPAddress and UserAgent record where the request came from, for the
	// audit trail.
	IPAddress string
	UserAgent string

	IsUsed bool
	UsedAt *time.Time

	CreatedAt time.Time
	ExpiresAt time.Time
}
