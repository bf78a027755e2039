package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleOwner  UserRole = "owner"
	UserRoleMember UserRole = "member"
)

// User is a portal account scoped to a client. The same email under two
// different clients is two independent accounts.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	ClientID     uuid.UUID `db:"client_id" json:"client_id"`
	Email        string    `db:"email" json:"email"`
	Name         *string   `db:"name" json:"name,omitempty"`
	Role         UserRole  `db:"role" json:"role"`
	PasswordHash []byte    `db:"password_hash" json:"-"`
	PasswordSalt []byte    `db:"password_salt" json:"-"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
