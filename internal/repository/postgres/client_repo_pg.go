package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/MinkyAI/reviews-platform-sub001/internal/domain"
)

type ClientRepository struct {
	db *sqlx.DB
}

func NewClientRepo(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, name, slug string) (*domain.Client, error) {
	const query = `
        INSERT INTO clients (name, slug)
        VALUES ($1, $2)
        RETURNING id, name, slug, logo_url, is_active, created_at, updated_at
    `
	row := r.db.QueryRowxContext(ctx, query, name, slug)
	var client domain.Client
	if err := row.StructScan(&client); err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	const query = `
        SELECT id, name, slug, logo_url, is_active, created_at, updated_at
        FROM clients
        WHERE id = $1
    `
	var client domain.Client
	if err := r.db.GetContext(ctx, &client, query, id); err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) FindBySlug(ctx context.Context, slug string) (*domain.Client, error) {
	const query = `
        SELECT id, name, slug, logo_url, is_active, created_at, updated_at
        FROM clients
        WHERE slug = $1
    `
	var client domain.Client
	if err := r.db.GetContext(ctx, &client, query, slug); err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) List(ctx context.Context, limit, offset int) ([]domain.Client, error) {
	const query = `
        SELECT id, name, slug, logo_url, is_active, created_at, updated_at
        FROM clients
        ORDER BY created_at
        LIMIT $1 OFFSET $2
    `
	clients := []domain.Client{}
	if err := r.db.SelectContext(ctx, &clients, query, limit, offset); err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *ClientRepository) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM clients`
	var count int64
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ClientRepository) UpdateLogoURL(ctx context.Context, id uuid.UUID, logoURL string) (*domain.Client, error) {
	const query = `
        UPDATE clients
        SET logo_url = $2,
            updated_at = NOW()
        WHERE id = $1
        RETURNING id, name, slug, logo_url, is_active, created_at, updated_at
    `
	row := r.db.QueryRowxContext(ctx, query, id, logoURL)
	var client domain.Client
	if err := row.StructScan(&client); err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	const query = `
        UPDATE clients
        SET is_active = $2,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.ExecContext(ctx, query, id, active)
	return err
}
