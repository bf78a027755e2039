package domain

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetToken is a single-use credential proving the right to set a new
// password for one user. Only the SHA-256 hash of the raw token is stored; the
// raw value exists in the mail that carries it and nowhere else.
type PasswordResetToken struct {
	ID         int64      `db:"id" json:"id"`
	UserID     uuid.UUID  `db:"user_id" json:"user_id"`
	TokenHash  []byte     `db:"token_hash" json:"-"`
	ExpiresAt  time.Time  `db:"expires_at" json:"expires_at"`
	ConsumedAt *time.Time `db:"consumed_at" json:"-"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// ResetTokenInfo is the non-consuming verification result. ClientID lets a
// reset form render the right tenant branding before asking for a password.
type ResetTokenInfo struct {
	UserID    uuid.UUID `db:"user_id"`
	ClientID  uuid.UUID `db:"client_id"`
	ExpiresAt time.Time `db:"expires_at"`
}
