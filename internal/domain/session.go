package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is an opaque bearer credential for the portal realm. A session is
// valid strictly before ExpiresAt; at the expiry instant it is already invalid.
type Session struct {
	ID        int64     `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Token     string    `db:"token" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	IsActive  bool      `db:"is_active" json:"is_active"`
}

// SessionInfo is the result of validating a session token: everything the
// HTTP layer needs to populate an authenticated context from a single lookup.
type SessionInfo struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	ClientID  uuid.UUID `db:"client_id" json:"client_id"`
	Email     string    `db:"email" json:"email"`
	Name      *string   `db:"name" json:"name,omitempty"`
	Role      UserRole  `db:"role" json:"role"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
}
