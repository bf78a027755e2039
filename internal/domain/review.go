package domain

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID           uuid.UUID `db:"id" json:"id"`
	ClientID     uuid.UUID `db:"client_id" json:"client_id"`
	QRCodeID     uuid.UUID `db:"qr_code_id" json:"qr_code_id"`
	Rating       int       `db:"rating" json:"rating"`
	Comment      *string   `db:"comment" json:"comment,omitempty"`
	ContactEmail *string   `db:"contact_email" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`

	QRLabel *string `db:"qr_label" json:"qr_label,omitempty"`
}

type ReviewAggregate struct {
	ClientID      uuid.UUID   `json:"client_id"`
	AverageRating float64     `json:"average_rating"`
	TotalReviews  int         `json:"total_reviews"`
	RatingCounts  map[int]int `json:"rating_counts"`
}

type ReviewListResult struct {
	ClientID  uuid.UUID       `json:"client_id"`
	Reviews   []Review        `json:"reviews"`
	Aggregate ReviewAggregate `json:"aggregate"`
	Limit     int             `json:"limit"`
	Offset    int             `json:"offset"`
}

type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

type ReviewListFilter struct {
	Limit        int
	Offset       int
	QRCodeID     *uuid.UUID
	Rating       *int
	MinRating    *int
	MaxRating    *int
	PostedAfter  *time.Time
	PostedBefore *time.Time
	SortOrder    SortOrder
}
