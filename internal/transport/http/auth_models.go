package http

import "time"

// ErrorResponse represents a generic error payload.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid credentials"`
}

// SuccessResponse denotes a simple success flag.
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// PortalUser is the sanitized account representation returned to the portal.
type PortalUser struct {
	ID       string  `json:"id" example:"9fd13fd2-63c5-4f29-a210-4a1a8e285f74"`
	ClientID string  `json:"client_id" example:"f4bb0e02-5f91-4ce0-a6c0-7f63f3a8d5e2"`
	Email    string  `json:"email" example:"owner@acme-dental.com"`
	Name     *string `json:"name,omitempty" example:"Dana Smith"`
	Role     string  `json:"role" example:"owner"`
}

// PortalClient is the tenant summary attached to authenticated responses.
type PortalClient struct {
	ID      string  `json:"id" example:"f4bb0e02-5f91-4ce0-a6c0-7f63f3a8d5e2"`
	Name    string  `json:"name" example:"Acme Dental"`
	Slug    string  `json:"slug" example:"acme-dental"`
	LogoURL *string `json:"logo_url,omitempty" example:"https://cdn.example.com/logos/acme.png"`
}

// LoginRequest carries portal login fields. Exactly one of client_id and
// client_slug identifies the tenant.
type LoginRequest struct {
	ClientID   string `json:"client_id,omitempty" example:"f4bb0e02-5f91-4ce0-a6c0-7f63f3a8d5e2"`
	ClientSlug string `json:"client_slug,omitempty" example:"acme-dental"`
	Email      string `json:"email" example:"owner@acme-dental.com"`
	Password   string `json:"password" example:"StrongPass!23"`
}

// LoginResponse is returned on a successful portal login. The session token
// itself travels only in the HttpOnly cookie.
type LoginResponse struct {
	User      PortalUser   `json:"user"`
	Client    PortalClient `json:"client"`
	ExpiresAt time.Time    `json:"expires_at" example:"2024-01-02T09:30:00Z"`
}

// SessionStatusResponse reports whether the caller holds a live session.
type SessionStatusResponse struct {
	Authenticated bool          `json:"authenticated" example:"true"`
	User          *PortalUser   `json:"user,omitempty"`
	Client        *PortalClient `json:"client,omitempty"`
	ExpiresAt     *time.Time    `json:"expires_at,omitempty" example:"2024-01-02T09:30:00Z"`
}

// ChangePasswordRequest rotates the signed-in account's credential.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" example:"StrongPass!23"`
	NewPassword     string `json:"new_password" example:"EvenStronger!45"`
}

// ResetRequest asks for a password-reset email.
type ResetRequest struct {
	ClientID   string `json:"client_id,omitempty" example:"f4bb0e02-5f91-4ce0-a6c0-7f63f3a8d5e2"`
	ClientSlug string `json:"client_slug,omitempty" example:"acme-dental"`
	Email      string `json:"email" example:"owner@acme-dental.com"`
}

// ResetVerifyResponse reports whether a reset token is currently usable.
type ResetVerifyResponse struct {
	Valid    bool   `json:"valid" example:"true"`
	ClientID string `json:"client_id,omitempty" example:"f4bb0e02-5f91-4ce0-a6c0-7f63f3a8d5e2"`
}

// ResetCompleteRequest consumes a reset token and sets the new password.
type ResetCompleteRequest struct {
	Token    string `json:"token" example:"ZHVtbXktcmVzZXQtdG9rZW4"`
	Password string `json:"password" example:"StrongPass!23"`
}
