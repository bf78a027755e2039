package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/MinkyAI/reviews-platform-sub001/internal/domain"
)

type QRCodeRepository struct {
	db *sqlx.DB
}

func NewQRCodeRepo(db *sqlx.DB) *QRCodeRepository {
	return &QRCodeRepository{db: db}
}

func (r *QRCodeRepository) Create(ctx context.Context, clientID uuid.UUID, label, shortCode string) (*domain.QRCode, error) {
	const query = `
        INSERT INTO qr_codes (client_id, label, short_code)
        VALUES ($1, $2, $3)
        RETURNING id, client_id, label, short_code, is_active, scan_count, created_at, updated_at
    `
	row := r.db.QueryRowxContext(ctx, query, clientID, label, shortCode)
	var code domain.QRCode
	if err := row.StructScan(&code); err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *QRCodeRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.QRCode, error) {
	const query = `
        SELECT id, client_id, label, short_code, is_active, scan_count, created_at, updated_at
        FROM qr_codes
        WHERE id = $1
    `
	var code domain.QRCode
	if err := r.db.GetContext(ctx, &code, query, id); err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *QRCodeRepository) FindActiveByShortCode(ctx context.Context, shortCode string) (*domain.QRCode, error) {
	const query = `
        SELECT q.id, q.client_id, q.label, q.short_code, q.is_active, q.scan_count, q.created_at, q.updated_at
        FROM qr_codes q
        JOIN clients c ON c.id = q.client_id
        WHERE q.short_code = $1 AND q.is_active = true AND c.is_active = true
    `
	var code domain.QRCode
	if err := r.db.GetContext(ctx, &code, query, shortCode); err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *QRCodeRepository) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]domain.QRCode, error) {
	const query = `
        SELECT id, client_id, label, short_code, is_active, scan_count, created_at, updated_at
        FROM qr_codes
        WHERE client_id = $1
        ORDER BY created_at
        LIMIT $2 OFFSET $3
    `
	codes := []domain.QRCode{}
	if err := r.db.SelectContext(ctx, &codes, query, clientID, limit, offset); err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *QRCodeRepository) Update(ctx context.Context, id uuid.UUID, label *string, active *bool) (*domain.QRCode, error) {
	const query = `
        UPDATE qr_codes
        SET label = COALESCE($2, label),
            is_active = COALESCE($3, is_active),
            updated_at = NOW()
        WHERE id = $1
        RETURNING id, client_id, label, short_code, is_active, scan_count, created_at, updated_at
    `
	row := r.db.QueryRowxContext(ctx, query, id, label, active)
	var code domain.QRCode
	if err := row.StructScan(&code); err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *QRCodeRepository) IncrementScanCount(ctx context.Context, id uuid.UUID) error {
	const query = `
        UPDATE qr_codes
        SET scan_count = scan_count + 1
        WHERE id = $1
    `
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *QRCodeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM qr_codes WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
