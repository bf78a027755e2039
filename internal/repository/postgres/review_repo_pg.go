package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/MinkyAI/reviews-platform-sub001/internal/domain"
)

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepo(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	const query = `
        INSERT INTO reviews (client_id, qr_code_id, rating, comment, contact_email)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, client_id, qr_code_id, rating, comment, contact_email, created_at
    `
	row := r.db.QueryRowxContext(ctx, query, review.ClientID, review.QRCodeID, review.Rating, review.Comment, review.ContactEmail)
	var stored domain.Review
	if err := row.StructScan(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *ReviewRepository) ListByClient(ctx context.Context, clientID uuid.UUID, filter domain.ReviewListFilter) ([]domain.Review, error) {
	conditions, args := reviewFilterConditions(clientID, filter)

	order := "DESC"
	if filter.SortOrder == domain.SortOrderAsc {
		order = "ASC"
	}

	query := fmt.Sprintf(`
        SELECT r.id, r.client_id, r.qr_code_id, r.rating, r.comment, r.contact_email, r.created_at,
               q.label AS qr_label
        FROM reviews r
        JOIN qr_codes q ON q.id = r.qr_code_id
        WHERE %s
        ORDER BY r.created_at %s
        LIMIT $%d OFFSET $%d
    `, strings.Join(conditions, " AND "), order, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	reviews := []domain.Review{}
	if err := r.db.SelectContext(ctx, &reviews, query, args...); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewRepository) AggregateByClient(ctx context.Context, clientID uuid.UUID, filter domain.ReviewListFilter) (*domain.ReviewAggregate, error) {
	conditions, args := reviewFilterConditions(clientID, filter)

	query := fmt.Sprintf(`
        SELECT r.rating, COUNT(*) AS total
        FROM reviews r
        WHERE %s
        GROUP BY r.rating
    `, strings.Join(conditions, " AND "))

	rows := []struct {
		Rating int `db:"rating"`
		Total  int `db:"total"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	aggregate := &domain.ReviewAggregate{
		ClientID:     clientID,
		RatingCounts: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	sum := 0
	for _, row := range rows {
		aggregate.RatingCounts[row.Rating] = row.Total
		aggregate.TotalReviews += row.Total
		sum += row.Rating * row.Total
	}
	if aggregate.TotalReviews > 0 {
		aggregate.AverageRating = float64(sum) / float64(aggregate.TotalReviews)
	}
	return aggregate, nil
}

func (r *ReviewRepository) ListAll(ctx context.Context, clientID *uuid.UUID, limit, offset int) ([]domain.Review, error) {
	const query = `
        SELECT r.id, r.client_id, r.qr_code_id, r.rating, r.comment, r.contact_email, r.created_at,
               q.label AS qr_label
        FROM reviews r
        JOIN qr_codes q ON q.id = r.qr_code_id
        WHERE ($1::uuid IS NULL OR r.client_id = $1)
        ORDER BY r.created_at DESC
        LIMIT $2 OFFSET $3
    `
	reviews := []domain.Review{}
	if err := r.db.SelectContext(ctx, &reviews, query, clientID, limit, offset); err != nil {
		return nil, err
	}
	return reviews, nil
}

func reviewFilterConditions(clientID uuid.UUID, filter domain.ReviewListFilter) ([]string, []interface{}) {
	conditions := []string{"r.client_id = $1"}
	args := []interface{}{clientID}

	next := func() int { return len(args) + 1 }

	if filter.QRCodeID != nil {
		conditions = append(conditions, fmt.Sprintf("r.qr_code_id = $%d", next()))
		args = append(args, *filter.QRCodeID)
	}
	if filter.Rating != nil {
		conditions = append(conditions, fmt.Sprintf("r.rating = $%d", next()))
		args = append(args, *filter.Rating)
	}
	if filter.MinRating != nil {
		conditions = append(conditions, fmt.Sprintf("r.rating >= $%d", next()))
		args = append(args, *filter.MinRating)
	}
	if filter.MaxRating != nil {
		conditions = append(conditions, fmt.Sprintf("r.rating <= $%d", next()))
		args = append(args, *filter.MaxRating)
	}
	if filter.PostedAfter != nil {
		conditions = append(conditions, fmt.Sprintf("r.created_at >= $%d", next()))
		args = append(args, *filter.PostedAfter)
	}
	if filter.PostedBefore != nil {
		conditions = append(conditions, fmt.Sprintf("r.created_at <= $%d", next()))
		args = append(args, *filter.PostedBefore)
	}
	return conditions, args
}
