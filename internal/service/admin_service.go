package service

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/MinkyAI/reviews-platform-sub001/internal/domain"
	"github.com/MinkyAI/reviews-platform-sub001/internal/identity"
	"github.com/MinkyAI/reviews-platform-sub001/internal/repository/ports"
	"github.com/MinkyAI/reviews-platform-sub001/internal/util"
)

var (
	ErrClientValidation = errors.New("client validation failed")
	ErrClientSlugTaken  = errors.New("client slug already in use")
	ErrClientNotFound   = errors.New("client not found")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// AdminService backs the admin panel. Authentication is fully delegated to
// the hosted identity provider; this service only translates provider
// outcomes and runs cross-tenant queries over the shared pool.
type AdminService struct {
	provider identity.Provider
	clients  ports.ClientRepository
	users    ports.UserRepository
	reviews  ports.ReviewRepository
}

func NewAdminService(provider identity.Provider, clients ports.ClientRepository, users ports.UserRepository, reviews ports.ReviewRepository) *AdminService {
	return &AdminService{provider: provider, clients: clients, users: users, reviews: reviews}
}

func (s *AdminService) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, identity.ErrInvalidCredentials
	}
	return s.provider.SignIn(ctx, email, password)
}

// SignOut tolerates provider-side failure: the caller clears the admin cookie
// no matter what, so a dead token on the provider is not worth an error page.
func (s *AdminService) SignOut(ctx context.Context, accessToken string) error {
	return s.provider.SignOut(ctx, accessToken)
}

func (s *AdminService) Session(ctx context.Context, accessToken string) (*identity.Identity, error) {
	return s.provider.GetSession(ctx, accessToken)
}

// OwnerAccount is the initial portal account provisioned with a new client.
type OwnerAccount struct {
	Email    string
	Name     *string
	Password string
}

type ClientProvisionResult struct {
	Client *domain.Client `json:"client"`
	Owner  *domain.User   `json:"owner"`
}

// CreateClient provisions a tenant together with its owner account. A client
// with no owner would be unreachable from the portal, so the owner is not
// optional.
func (s *AdminService) CreateClient(ctx context.Context, name, slug string, owner OwnerAccount) (*ClientProvisionResult, error) {
	name = strings.TrimSpace(name)
	slug = strings.ToLower(strings.TrimSpace(slug))
	if name == "" {
		return nil, ErrClientValidation
	}
	if !slugPattern.MatchString(slug) {
		return nil, ErrClientValidation
	}

	ownerEmail := normalizeEmail(owner.Email)
	if _, err := mail.ParseAddress(ownerEmail); err != nil {
		return nil, ErrClientValidation
	}
	if err := util.ValidatePassword(owner.Password); err != nil {
		return nil, ErrPasswordTooWeak
	}
	hash, salt, err := util.DerivePassword(owner.Password)
	if err != nil {
		return nil, err
	}

	client, err := s.clients.Create(ctx, name, slug)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrClientSlugTaken
		}
		return nil, err
	}

	user, err := s.users.Create(ctx, client.ID, ownerEmail, owner.Name, domain.UserRoleOwner, hash, salt)
	if err != nil {
		return nil, err
	}
	return &ClientProvisionResult{Client: client, Owner: user}, nil
}

type ClientListResult struct {
	Clients []domain.Client
	Total   int64
	Limit   int
	Offset  int
}

func (s *AdminService) ListClients(ctx context.Context, limit, offset int) (*ClientListResult, error) {
	limit, offset = normalizePagination(limit, offset)

	clients, err := s.clients.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.clients.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &ClientListResult{Clients: clients, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *AdminService) SetClientActive(ctx context.Context, id uuid.UUID, active bool) error {
	if _, err := s.clients.FindByID(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrClientNotFound
		}
		return err
	}
	return s.clients.SetActive(ctx, id, active)
}

func (s *AdminService) ListReviews(ctx context.Context, clientID *uuid.UUID, limit, offset int) ([]domain.Review, error) {
	limit, offset = normalizePagination(limit, offset)
	return s.reviews.ListAll(ctx, clientID, limit, offset)
}

func normalizePagination(limit, offset int) (int, int) {
	const (
		defaultLimit = 20
		maxLimit     = 100
	)

	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
