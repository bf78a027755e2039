package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/MinkyAI/reviews-platform-sub001/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, clientID uuid.UUID, email string, name *string, role domain.UserRole, passwordHash, passwordSalt []byte) (*domain.User, error)
	FindByClientAndEmail(ctx context.Context, clientID uuid.UUID, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash, passwordSalt []byte) error
	ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]domain.User, error)
}
