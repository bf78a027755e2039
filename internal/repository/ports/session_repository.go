package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MinkyAI/reviews-platform-sub001/internal/domain"
)

type SessionRepository interface {
	CreateSession(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*domain.Session, error)
	// FindActiveSession joins the owning user so a single round trip yields
	// everything an authenticated context needs.
	FindActiveSession(ctx context.Context, token string) (*domain.SessionInfo, error)
	// DeactivateSession is idempotent: a missing or already inactive token is
	// not an error.
	DeactivateSession(ctx context.Context, token string) error
}
