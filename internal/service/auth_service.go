package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MinkyAI/reviews-platform-sub001/internal/domain"
	"github.com/MinkyAI/reviews-platform-sub001/internal/repository/ports"
	"github.com/MinkyAI/reviews-platform-sub001/internal/util"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionInvalid     = errors.New("session invalid or expired")
	ErrResetTokenInvalid  = errors.New("reset token invalid, expired, or already used")
	ErrPasswordTooWeak    = errors.New("password does not meet minimum requirements")
)

// PasswordResetSender delivers the raw reset token to the account owner. The
// token never reaches any log or store in raw form.
type PasswordResetSender interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// AuthService owns the portal realm: self-managed sessions and the
// password-reset token flow, both scoped per client tenant. The admin realm
// lives elsewhere and shares no state with this.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionRepository
	resets   ports.PasswordResetRepository
	mailer   PasswordResetSender

	sessionTTL time.Duration
	resetTTL   time.Duration
	now        func() time.Time
	dispatch   func(func())
}

func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionRepository,
	resets ports.PasswordResetRepository,
	mailer PasswordResetSender,
	sessionTTL time.Duration,
	resetTTL time.Duration,
) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		resets:     resets,
		mailer:     mailer,
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
		now:        time.Now,
		dispatch:   func(fn func()) { go fn() },
	}
}

type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) LoginWithEmail(ctx context.Context, clientID uuid.UUID, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)

	user, err := s.users.FindByClientAndEmail(ctx, clientID, email)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !util.VerifyPassword(password, user.PasswordSalt, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := util.NewSessionToken()
	if err != nil {
		return nil, err
	}
	expiresAt := s.now().Add(s.sessionTTL)
	if _, err := s.sessions.CreateSession(ctx, user.ID, token, expiresAt); err != nil {
		return nil, err
	}

	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// ValidateSession resolves a bearer token to an authenticated context in one
// store round trip. A session is invalid at exactly its expiry instant, and
// validity is never cached: a concurrent logout must be visible immediately.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*domain.SessionInfo, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrSessionInvalid
	}

	info, err := s.sessions.FindActiveSession(ctx, token)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}
	if !s.now().Before(info.ExpiresAt) {
		return nil, ErrSessionInvalid
	}
	return info, nil
}

// Logout is idempotent; invalidating an unknown or already-dead token
// succeeds. Infrastructure errors propagate so the handler can report them,
// but the handler clears the cookie regardless.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.sessions.DeactivateSession(ctx, token)
}

// RequestPasswordReset always reports success to the caller. Whether the
// (client, email) pair names an account must not be observable: token
// generation happens on both paths, the SMTP round trip happens off the
// request path, and a delivery failure burns the token instead of surfacing
// an error.
func (s *AuthService) RequestPasswordReset(ctx context.Context, clientID uuid.UUID, email string) error {
	email = normalizeEmail(email)

	raw, err := util.NewResetToken()
	if err != nil {
		return err
	}
	tokenHash := util.HashToken(raw)

	user, err := s.users.FindByClientAndEmail(ctx, clientID, email)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	if !user.IsActive {
		return nil
	}

	if err := s.resets.SupersedeByUser(ctx, user.ID); err != nil {
		return err
	}
	token, err := s.resets.Create(ctx, user.ID, tokenHash, s.now().Add(s.resetTTL))
	if err != nil {
		return err
	}

	// Delivery stays out of the response: a synchronous SMTP round trip only
	// on the account-exists branch would be a timing oracle.
	mailCtx := context.WithoutCancel(ctx)
	s.dispatch(func() {
		if err := s.mailer.SendPasswordReset(mailCtx, user.Email, raw); err != nil {
			if markErr := s.resets.MarkConsumed(mailCtx, token.ID); markErr != nil {
				log.Printf("password reset: burn token after mail failure: %v", markErr)
			}
			log.Printf("password reset: mail delivery failed for user %s: %v", user.ID, err)
		}
	})
	return nil
}

// ChangePassword is the authenticated credential change: the current password
// re-proves possession before the new one is set. Unlike a reset it does not
// revoke sessions; the caller demonstrably still holds the credential.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	if err := util.ValidatePassword(newPassword); err != nil {
		return ErrPasswordTooWeak
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return ErrInvalidCredentials
		}
		return err
	}
	if !user.IsActive {
		return ErrInvalidCredentials
	}
	if !util.VerifyPassword(currentPassword, user.PasswordSalt, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, salt, err := util.DerivePassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, hash, salt)
}

// VerifyResetToken is the read-only pre-check a reset form performs before
// showing the new-password field. It does not consume the token and must not
// be trusted by completion.
func (s *AuthService) VerifyResetToken(ctx context.Context, raw string) (*domain.ResetTokenInfo, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrResetTokenInvalid
	}

	info, err := s.resets.FindActive(ctx, util.HashToken(raw), s.now())
	if err != nil {
		if isNotFound(err) {
			return nil, ErrResetTokenInvalid
		}
		return nil, err
	}
	if !s.now().Before(info.ExpiresAt) {
		return nil, ErrResetTokenInvalid
	}
	return info, nil
}

// CompleteReset re-validates and consumes the token in one conditional store
// update, setting the new credential in the same transaction. A second
// completion with the same token fails even though the first password change
// stuck.
func (s *AuthService) CompleteReset(ctx context.Context, raw, newPassword string) error {
	if err := util.ValidatePassword(newPassword); err != nil {
		return ErrPasswordTooWeak
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrResetTokenInvalid
	}

	hash, salt, err := util.DerivePassword(newPassword)
	if err != nil {
		return err
	}

	if _, err := s.resets.ConsumeAndSetPassword(ctx, util.HashToken(raw), s.now(), hash, salt); err != nil {
		if isNotFound(err) {
			return ErrResetTokenInvalid
		}
		return err
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
