package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/MinkyAI/reviews-platform-sub001/internal/domain"
)

type memReviewRepo struct {
	reviews []domain.Review

	listFilter      domain.ReviewListFilter
	aggregateFilter domain.ReviewListFilter
}

func (f *memReviewRepo) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	stored := *review
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	f.reviews = append(f.reviews, stored)
	return &stored, nil
}

func (f *memReviewRepo) ListByClient(ctx context.Context, clientID uuid.UUID, filter domain.ReviewListFilter) ([]domain.Review, error) {
	f.listFilter = filter
	var out []domain.Review
	for _, review := range f.reviews {
		if review.ClientID == clientID {
			out = append(out, review)
		}
	}
	return out, nil
}

func (f *memReviewRepo) AggregateByClient(ctx context.Context, clientID uuid.UUID, filter domain.ReviewListFilter) (*domain.ReviewAggregate, error) {
	f.aggregateFilter = filter
	aggregate := &domain.ReviewAggregate{ClientID: clientID, RatingCounts: make(map[int]int)}
	sum := 0
	for _, review := range f.reviews {
		if review.ClientID != clientID {
			continue
		}
		aggregate.TotalReviews++
		aggregate.RatingCounts[review.Rating]++
		sum += review.Rating
	}
	if aggregate.TotalReviews > 0 {
		aggregate.AverageRating = float64(sum) / float64(aggregate.TotalReviews)
	}
	return aggregate, nil
}

func (f *memReviewRepo) ListAll(ctx context.Context, clientID *uuid.UUID, limit, offset int) ([]domain.Review, error) {
	var out []domain.Review
	for _, review := range f.reviews {
		if clientID == nil || review.ClientID == *clientID {
			out = append(out, review)
		}
	}
	return out, nil
}

func strptr(value string) *string { return &value }
func intptr(value int) *int       { return &value }

func TestReviewSubmit(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*ReviewService, *memReviewRepo, *domain.QRCode) {
		t.Helper()
		codes := newMemQRCodeRepo()
		reviews := &memReviewRepo{}
		code := &domain.QRCode{ID: uuid.New(), ClientID: uuid.New(), Label: "Front desk", ShortCode: "k3x9p", IsActive: true}
		codes.add(code)
		return NewReviewService(reviews, codes), reviews, code
	}

	t.Run("stores a review against the code's client", func(t *testing.T) {
		svc, reviews, code := setup(t)

		review, err := svc.Submit(ctx, " K3X9P ", ReviewSubmitInput{
			Rating:       5,
			Comment:      strptr("  Great service.  "),
			ContactEmail: strptr("Happy@Customer.com"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if review.ClientID != code.ClientID {
			t.Fatalf("expected client %s, got %s", code.ClientID, review.ClientID)
		}
		if review.QRCodeID != code.ID {
			t.Fatalf("expected qr code %s, got %s", code.ID, review.QRCodeID)
		}
		if *review.Comment != "Great service." {
			t.Fatalf("expected trimmed comment, got %q", *review.Comment)
		}
		if *review.ContactEmail != "happy@customer.com" {
			t.Fatalf("expected lowercased contact email, got %q", *review.ContactEmail)
		}
		if len(reviews.reviews) != 1 {
			t.Fatalf("expected 1 stored review, got %d", len(reviews.reviews))
		}
	})

	t.Run("rejects out-of-range ratings", func(t *testing.T) {
		svc, _, _ := setup(t)
		for _, rating := range []int{0, 6, -1} {
			if _, err := svc.Submit(ctx, "k3x9p", ReviewSubmitInput{Rating: rating}); !errors.Is(err, ErrReviewValidation) {
				t.Fatalf("rating %d: expected ErrReviewValidation, got %v", rating, err)
			}
		}
	})

	t.Run("rejects an overlong comment", func(t *testing.T) {
		svc, _, _ := setup(t)
		long := strings.Repeat("x", maxCommentLength+1)
		if _, err := svc.Submit(ctx, "k3x9p", ReviewSubmitInput{Rating: 4, Comment: &long}); !errors.Is(err, ErrReviewValidation) {
			t.Fatalf("expected ErrReviewValidation, got %v", err)
		}
	})

	t.Run("rejects a malformed contact email", func(t *testing.T) {
		svc, _, _ := setup(t)
		if _, err := svc.Submit(ctx, "k3x9p", ReviewSubmitInput{Rating: 4, ContactEmail: strptr("not-an-email")}); !errors.Is(err, ErrReviewValidation) {
			t.Fatalf("expected ErrReviewValidation, got %v", err)
		}
	})

	t.Run("treats a blank comment as absent", func(t *testing.T) {
		svc, _, _ := setup(t)
		review, err := svc.Submit(ctx, "k3x9p", ReviewSubmitInput{Rating: 4, Comment: strptr("   ")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if review.Comment != nil {
			t.Fatalf("expected nil comment, got %q", *review.Comment)
		}
	})

	t.Run("rejects an unknown short code", func(t *testing.T) {
		svc, _, _ := setup(t)
		if _, err := svc.Submit(ctx, "nope", ReviewSubmitInput{Rating: 4}); !errors.Is(err, ErrQRCodeNotFound) {
			t.Fatalf("expected ErrQRCodeNotFound, got %v", err)
		}
	})
}

func TestReviewListForClient(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.New()
	otherClient := uuid.New()

	setup := func(t *testing.T) (*ReviewService, *memReviewRepo) {
		t.Helper()
		reviews := &memReviewRepo{}
		for _, rating := range []int{5, 4, 5} {
			reviews.reviews = append(reviews.reviews, domain.Review{ID: uuid.New(), ClientID: clientID, Rating: rating})
		}
		reviews.reviews = append(reviews.reviews, domain.Review{ID: uuid.New(), ClientID: otherClient, Rating: 1})
		return NewReviewService(reviews, newMemQRCodeRepo()), reviews
	}

	t.Run("returns the page plus the aggregate", func(t *testing.T) {
		svc, _ := setup(t)

		result, err := svc.ListForClient(ctx, clientID, domain.ReviewListFilter{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Reviews) != 3 {
			t.Fatalf("expected 3 reviews, got %d", len(result.Reviews))
		}
		if result.Aggregate.TotalReviews != 3 {
			t.Fatalf("expected aggregate over 3 reviews, got %d", result.Aggregate.TotalReviews)
		}
		if result.Limit != 20 || result.Offset != 0 {
			t.Fatalf("expected default pagination 20/0, got %d/%d", result.Limit, result.Offset)
		}
	})

	t.Run("applies the same filter to page and aggregate", func(t *testing.T) {
		svc, reviews := setup(t)

		filter := domain.ReviewListFilter{MinRating: intptr(4), Limit: 10}
		if _, err := svc.ListForClient(ctx, clientID, filter); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reviews.listFilter.MinRating == nil || *reviews.listFilter.MinRating != 4 {
			t.Fatal("list filter should carry min rating")
		}
		if reviews.aggregateFilter.MinRating == nil || *reviews.aggregateFilter.MinRating != 4 {
			t.Fatal("aggregate filter should carry min rating")
		}
	})

	t.Run("rejects an out-of-range rating filter", func(t *testing.T) {
		svc, _ := setup(t)
		if _, err := svc.ListForClient(ctx, clientID, domain.ReviewListFilter{Rating: intptr(9)}); !errors.Is(err, ErrReviewValidation) {
			t.Fatalf("expected ErrReviewValidation, got %v", err)
		}
	})

	t.Run("rejects an inverted rating range", func(t *testing.T) {
		svc, _ := setup(t)
		filter := domain.ReviewListFilter{MinRating: intptr(4), MaxRating: intptr(2)}
		if _, err := svc.ListForClient(ctx, clientID, filter); !errors.Is(err, ErrReviewValidation) {
			t.Fatalf("expected ErrReviewValidation, got %v", err)
		}
	})

	t.Run("caps the page size", func(t *testing.T) {
		svc, _ := setup(t)
		result, err := svc.ListForClient(ctx, clientID, domain.ReviewListFilter{Limit: 5000})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Limit != 100 {
			t.Fatalf("expected limit capped at 100, got %d", result.Limit)
		}
	})
}
