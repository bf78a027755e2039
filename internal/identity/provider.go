// Package identity adapts the hosted authentication service that backs the
// admin realm. The platform never verifies admin credentials itself; it only
// translates the provider's answers into local error vocabulary.
package identity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	ErrNotAuthenticated   = errors.New("identity: not authenticated")
)

// Identity describes the authenticated admin behind a provider token.
type Identity struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// Session is what the provider hands back on a successful sign-in.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Identity     Identity
}

type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
	GetSession(ctx context.Context, accessToken string) (*Identity, error)
}
