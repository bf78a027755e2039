package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/MinkyAI/reviews-platform-sub001/internal/domain"
	"github.com/MinkyAI/reviews-platform-sub001/internal/repository/ports"
)

var ErrReviewValidation = errors.New("review validation failed")

const maxCommentLength = 4000

type ReviewService struct {
	reviews ports.ReviewRepository
	codes   ports.QRCodeRepository
}

type ReviewSubmitInput struct {
	Rating       int
	Comment      *string
	ContactEmail *string
}

func NewReviewService(reviews ports.ReviewRepository, codes ports.QRCodeRepository) *ReviewService {
	return &ReviewService{reviews: reviews, codes: codes}
}

// Submit records an end customer's review against the client behind a scanned
// code. No authentication: possession of an active short code is the whole
// entry ticket.
func (s *ReviewService) Submit(ctx context.Context, shortCode string, input ReviewSubmitInput) (*domain.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrReviewValidation)
	}

	comment := normalizeString(input.Comment)
	if comment != nil && len(*comment) > maxCommentLength {
		return nil, fmt.Errorf("%w: comment too long", ErrReviewValidation)
	}

	contact := normalizeString(input.ContactEmail)
	if contact != nil {
		if _, err := mail.ParseAddress(*contact); err != nil {
			return nil, fmt.Errorf("%w: invalid contact email", ErrReviewValidation)
		}
		lowered := strings.ToLower(*contact)
		contact = &lowered
	}

	code, err := s.codes.FindActiveByShortCode(ctx, strings.ToLower(strings.TrimSpace(shortCode)))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrQRCodeNotFound
		}
		return nil, err
	}

	return s.reviews.Create(ctx, &domain.Review{
		ClientID:     code.ClientID,
		QRCodeID:     code.ID,
		Rating:       input.Rating,
		Comment:      comment,
		ContactEmail: contact,
	})
}

// ListForClient returns one page of reviews plus the aggregate over the same
// filter, the shape the portal dashboard renders from.
func (s *ReviewService) ListForClient(ctx context.Context, clientID uuid.UUID, filter domain.ReviewListFilter) (*domain.ReviewListResult, error) {
	if err := validateReviewFilter(filter); err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = normalizePagination(filter.Limit, filter.Offset)

	reviews, err := s.reviews.ListByClient(ctx, clientID, filter)
	if err != nil {
		return nil, err
	}
	aggregate, err := s.reviews.AggregateByClient(ctx, clientID, filter)
	if err != nil {
		return nil, err
	}

	return &domain.ReviewListResult{
		ClientID:  clientID,
		Reviews:   reviews,
		Aggregate: *aggregate,
		Limit:     filter.Limit,
		Offset:    filter.Offset,
	}, nil
}

func validateReviewFilter(filter domain.ReviewListFilter) error {
	check := func(rating *int) error {
		if rating != nil && (*rating < 1 || *rating > 5) {
			return fmt.Errorf("%w: rating filter out of range", ErrReviewValidation)
		}
		return nil
	}
	if err := check(filter.Rating); err != nil {
		return err
	}
	if err := check(filter.MinRating); err != nil {
		return err
	}
	if err := check(filter.MaxRating); err != nil {
		return err
	}
	if filter.MinRating != nil && filter.MaxRating != nil && *filter.MinRating > *filter.MaxRating {
		return fmt.Errorf("%w: min rating above max rating", ErrReviewValidation)
	}
	return nil
}

func normalizeString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
