package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/MinkyAI/reviews-platform-sub001/internal/domain"
)

type PasswordResetRepository struct {
	db *sqlx.DB
}

func NewPasswordResetRepo(db *sqlx.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

func (r *PasswordResetRepository) Create(ctx context.Context, userID uuid.UUID, tokenHash []byte, expiresAt time.Time) (*domain.PasswordResetToken, error) {
	const query = `
        INSERT INTO password_reset_tokens (user_id, token_hash, expires_at)
        VALUES ($1, $2, $3)
        RETURNING id, user_id, token_hash, expires_at, consumed_at, created_at
    `
	row := r.db.QueryRowxContext(ctx, query, userID, tokenHash, expiresAt)
	var token domain.PasswordResetToken
	if err := row.StructScan(&token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *PasswordResetRepository) FindActive(ctx context.Context, tokenHash []byte, now time.Time) (*domain.ResetTokenInfo, error) {
	const query = `
        SELECT t.user_id, u.client_id, t.expires_at
        FROM password_reset_tokens t
        JOIN portal_users u ON u.id = t.user_id
        WHERE t.token_hash = $1
          AND t.consumed_at IS NULL
          AND t.expires_at > $2
          AND u.is_active = true
    `
	var info domain.ResetTokenInfo
	if err := r.db.GetContext(ctx, &info, query, tokenHash, now); err != nil {
		return nil, err
	}
	return &info, nil
}

// ConsumeAndSetPassword closes the verify/apply race with a single conditional
// update: two concurrent completions cannot both observe a consumable token.
func (r *PasswordResetRepository) ConsumeAndSetPassword(ctx context.Context, tokenHash []byte, now time.Time, passwordHash, passwordSalt []byte) (*domain.PasswordResetToken, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	const consume = `
        UPDATE password_reset_tokens
        SET consumed_at = $2
        WHERE token_hash = $1
          AND consumed_at IS NULL
          AND expires_at > $2
        RETURNING id, user_id, token_hash, expires_at, consumed_at, created_at
    `
	var token domain.PasswordResetToken
	if err := tx.QueryRowxContext(ctx, consume, tokenHash, now).StructScan(&token); err != nil {
		return nil, err
	}

	const setPassword = `
        UPDATE portal_users
        SET password_hash = $2,
            password_salt = $3,
            updated_at = NOW()
        WHERE id = $1 AND is_active = true
    `
	if _, err := tx.ExecContext(ctx, setPassword, token.UserID, passwordHash, passwordSalt); err != nil {
		return nil, err
	}

	const dropSessions = `
        UPDATE sessions SET is_active = false
        WHERE user_id = $1 AND is_active = true
    `
	if _, err := tx.ExecContext(ctx, dropSessions, token.UserID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *PasswordResetRepository) MarkConsumed(ctx context.Context, id int64) error {
	const query = `
        UPDATE password_reset_tokens
        SET consumed_at = NOW()
        WHERE id = $1 AND consumed_at IS NULL
    `
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *PasswordResetRepository) SupersedeByUser(ctx context.Context, userID uuid.UUID) error {
	const query = `
        UPDATE password_reset_tokens
        SET consumed_at = NOW()
        WHERE user_id = $1 AND consumed_at IS NULL
    `
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
