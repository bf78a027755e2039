package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MinkyAI/reviews-platform-sub001/internal/domain"
)

type PasswordResetRepository interface {
	Create(ctx context.Context, userID uuid.UUID, tokenHash []byte, expiresAt time.Time) (*domain.PasswordResetToken, error)
	// FindActive is the non-consuming verification read.
	FindActive(ctx context.Context, tokenHash []byte, now time.Time) (*domain.ResetTokenInfo, error)
	// ConsumeAndSetPassword marks the token consumed iff it is still unconsumed
	// and unexpired, updates the owning user's credential, and deactivates the
	// user's sessions, all in one transaction. Returns sql.ErrNoRows when no
	// valid token matched.
	ConsumeAndSetPassword(ctx context.Context, tokenHash []byte, now time.Time, passwordHash, passwordSalt []byte) (*domain.PasswordResetToken, error)
	MarkConsumed(ctx context.Context, id int64) error
	// SupersedeByUser burns any outstanding tokens before a new one is issued.
	SupersedeByUser(ctx context.Context, userID uuid.UUID) error
}
