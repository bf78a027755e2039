package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/MinkyAI/reviews-platform-sub001/internal/domain"
)

type QRCodeRepository interface {
	Create(ctx context.Context, clientID uuid.UUID, label, shortCode string) (*domain.QRCode, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.QRCode, error)
	FindActiveByShortCode(ctx context.Context, shortCode string) (*domain.QRCode, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]domain.QRCode, error)
	Update(ctx context.Context, id uuid.UUID, label *string, active *bool) (*domain.QRCode, error)
	IncrementScanCount(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
