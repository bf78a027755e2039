package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/MinkyAI/reviews-platform-sub001/internal/domain"
)

type ClientRepository interface {
	Create(ctx context.Context, name, slug string) (*domain.Client, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Client, error)
	List(ctx context.Context, limit, offset int) ([]domain.Client, error)
	Count(ctx context.Context) (int64, error)
	UpdateLogoURL(ctx context.Context, id uuid.UUID, logoURL string) (*domain.Client, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}
