package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/MinkyAI/reviews-platform-sub001/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, filter domain.ReviewListFilter) ([]domain.Review, error)
	AggregateByClient(ctx context.Context, clientID uuid.UUID, filter domain.ReviewListFilter) (*domain.ReviewAggregate, error)
	ListAll(ctx context.Context, clientID *uuid.UUID, limit, offset int) ([]domain.Review, error)
}
