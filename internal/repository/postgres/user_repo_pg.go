package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/MinkyAI/reviews-platform-sub001/internal/domain"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, clientID uuid.UUID, email string, name *string, role domain.UserRole, passwordHash, passwordSalt []byte) (*domain.User, error) {
	const query = `
        INSERT INTO portal_users (client_id, email, name, role, password_hash, password_salt)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, client_id, email, name, role, password_hash, password_salt, is_active, created_at, updated_at
    `
	row := r.db.QueryRowxContext(ctx, query, clientID, email, name, role, passwordHash, passwordSalt)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByClientAndEmail(ctx context.Context, clientID uuid.UUID, email string) (*domain.User, error) {
	const query = `
        SELECT id, client_id, email, name, role, password_hash, password_salt, is_active, created_at, updated_at
        FROM portal_users
        WHERE client_id = $1 AND email = $2
    `
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, clientID, email); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `
        SELECT id, client_id, email, name, role, password_hash, password_salt, is_active, created_at, updated_at
        FROM portal_users
        WHERE id = $1
    `
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash, passwordSalt []byte) error {
	const query = `
        UPDATE portal_users
        SET password_hash = $2,
            password_salt = $3,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.ExecContext(ctx, query, id, passwordHash, passwordSalt)
	return err
}

func (r *UserRepository) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]domain.User, error) {
	const query = `
        SELECT id, client_id, email, name, role, password_hash, password_salt, is_active, created_at, updated_at
        FROM portal_users
        WHERE client_id = $1
        ORDER BY created_at
        LIMIT $2 OFFSET $3
    `
	users := []domain.User{}
	if err := r.db.SelectContext(ctx, &users, query, clientID, limit, offset); err != nil {
		return nil, err
	}
	return users, nil
}
