package domain

import (
	"time"

	"github.com/google/uuid"
)

// QRCode routes end customers into a client's review submission flow. The
// short code is the public handle printed inside the QR image; rendering the
// image itself is not this service's concern.
type QRCode struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ClientID  uuid.UUID `db:"client_id" json:"client_id"`
	Label     string    `db:"label" json:"label"`
	ShortCode string    `db:"short_code" json:"short_code"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	ScanCount int64     `db:"scan_count" json:"scan_count"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
