package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client is a business tenant. All portal users, QR codes and reviews
// belong to exactly one client.
type Client struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	LogoURL   *string   `db:"logo_url" json:"logo_url,omitempty"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
