package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/MinkyAI/reviews-platform-sub001/internal/domain"
	"github.com/MinkyAI/reviews-platform-sub001/internal/repository/ports"
	"github.com/MinkyAI/reviews-platform-sub001/internal/util"
)

var (
	ErrQRCodeValidation = errors.New("qr code validation failed")
	ErrQRCodeNotFound   = errors.New("qr code not found")
)

const shortCodeRetries = 3

type QRService struct {
	codes   ports.QRCodeRepository
	clients ports.ClientRepository
}

func NewQRService(codes ports.QRCodeRepository, clients ports.ClientRepository) *QRService {
	return &QRService{codes: codes, clients: clients}
}

func (s *QRService) Create(ctx context.Context, clientID uuid.UUID, label string) (*domain.QRCode, error) {
	label = strings.TrimSpace(label)
	if label == "" || len(label) > 120 {
		return nil, ErrQRCodeValidation
	}

	// Short codes collide rarely; retry with a fresh one instead of failing
	// the request.
	var lastErr error
	for i := 0; i < shortCodeRetries; i++ {
		shortCode, err := util.NewShortCode()
		if err != nil {
			return nil, err
		}
		code, err := s.codes.Create(ctx, clientID, label, shortCode)
		if err == nil {
			return code, nil
		}
		if !isUniqueViolation(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *QRService) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]domain.QRCode, error) {
	limit, offset = normalizePagination(limit, offset)
	return s.codes.ListByClient(ctx, clientID, limit, offset)
}

func (s *QRService) Update(ctx context.Context, clientID, id uuid.UUID, label *string, active *bool) (*domain.QRCode, error) {
	if label != nil {
		trimmed := strings.TrimSpace(*label)
		if trimmed == "" || len(trimmed) > 120 {
			return nil, ErrQRCodeValidation
		}
		label = &trimmed
	}

	if err := s.ensureOwnership(ctx, clientID, id); err != nil {
		return nil, err
	}

	code, err := s.codes.Update(ctx, id, label, active)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrQRCodeNotFound
		}
		return nil, err
	}
	return code, nil
}

func (s *QRService) Delete(ctx context.Context, clientID, id uuid.UUID) error {
	if err := s.ensureOwnership(ctx, clientID, id); err != nil {
		return err
	}
	if err := s.codes.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrQRCodeNotFound
		}
		return err
	}
	return nil
}

// Resolve maps a scanned short code to its review flow descriptor and counts
// the scan. The count is best effort; a failed increment must not break the
// customer-facing flow.
func (s *QRService) Resolve(ctx context.Context, shortCode string) (*domain.QRCode, *domain.Client, error) {
	shortCode = strings.ToLower(strings.TrimSpace(shortCode))
	if shortCode == "" {
		return nil, nil, ErrQRCodeNotFound
	}

	code, err := s.codes.FindActiveByShortCode(ctx, shortCode)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, ErrQRCodeNotFound
		}
		return nil, nil, err
	}

	client, err := s.clients.FindByID(ctx, code.ClientID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, ErrQRCodeNotFound
		}
		return nil, nil, err
	}

	if err := s.codes.IncrementScanCount(ctx, code.ID); err != nil {
		log.Printf("qr resolve: increment scan count for %s: %v", code.ID, err)
	}
	return code, client, nil
}

// ensureOwnership hides other tenants' codes behind not-found.
func (s *QRService) ensureOwnership(ctx context.Context, clientID, id uuid.UUID) error {
	code, err := s.codes.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return ErrQRCodeNotFound
		}
		return err
	}
	if code.ClientID != clientID {
		return ErrQRCodeNotFound
	}
	return nil
}
