package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/MinkyAI/reviews-platform-sub001/internal/domain"
	"github.com/MinkyAI/reviews-platform-sub001/internal/service"
)

type stubUserRepo struct{}

func (stubUserRepo) Create(ctx context.Context, clientID uuid.UUID, email string, name *string, role domain.UserRole, passwordHash, passwordSalt []byte) (*domain.User, error) {
	return nil, sql.ErrNoRows
}

func (stubUserRepo) FindByClientAndEmail(ctx context.Context, clientID uuid.UUID, email string) (*domain.User, error) {
	return nil, sql.ErrNoRows
}

func (stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return nil, sql.ErrNoRows
}

func (stubUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash, passwordSalt []byte) error {
	return nil
}

func (stubUserRepo) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]domain.User, error) {
	return nil, nil
}

type stubSessionRepo struct {
	deactivateErr   error
	deactivateCalls int
}

func (s *stubSessionRepo) CreateSession(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*domain.Session, error) {
	return nil, errors.New("not used")
}

func (s *stubSessionRepo) FindActiveSession(ctx context.Context, token string) (*domain.SessionInfo, error) {
	return nil, sql.ErrNoRows
}

func (s *stubSessionRepo) DeactivateSession(ctx context.Context, token string) error {
	s.deactivateCalls++
	return s.deactivateErr
}

type stubResetRepo struct{}

func (stubResetRepo) Create(ctx context.Context, userID uuid.UUID, tokenHash []byte, expiresAt time.Time) (*domain.PasswordResetToken, error) {
	return nil, errors.New("not used")
}

func (stubResetRepo) FindActive(ctx context.Context, tokenHash []byte, now time.Time) (*domain.ResetTokenInfo, error) {
	return nil, sql.ErrNoRows
}

func (stubResetRepo) ConsumeAndSetPassword(ctx context.Context, tokenHash []byte, now time.Time, passwordHash, passwordSalt []byte) (*domain.PasswordResetToken, error) {
	return nil, sql.ErrNoRows
}

func (stubResetRepo) MarkConsumed(ctx context.Context, id int64) error { return nil }

func (stubResetRepo) SupersedeByUser(ctx context.Context, userID uuid.UUID) error { return nil }

type noopMailer struct{}

func (noopMailer) SendPasswordReset(ctx context.Context, email, token string) error { return nil }

func newTestAuthHandler(sessions *stubSessionRepo) *AuthHandler {
	auth := service.NewAuthService(stubUserRepo{}, sessions, stubResetRepo{}, noopMailer{}, time.Hour, time.Hour)
	return &AuthHandler{auth: auth}
}

func clearedCookie(rec *httptest.ResponseRecorder, name string) bool {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name && cookie.Value == "" && cookie.MaxAge < 0 {
			return true
		}
	}
	return false
}

func TestLogoutClearsCookie(t *testing.T) {
	e := echo.New()

	t.Run("clears the cookie on success", func(t *testing.T) {
		sessions := &stubSessionRepo{}
		handler := newTestAuthHandler(sessions)

		req := httptest.NewRequest(http.MethodPost, "/portal/auth/logout", nil)
		req.AddCookie(&http.Cookie{Name: portalCookieName, Value: "some-token"})
		rec := httptest.NewRecorder()

		if err := handler.logout(e.NewContext(req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !clearedCookie(rec, portalCookieName) {
			t.Fatal("expected the session cookie to be cleared")
		}
		if sessions.deactivateCalls != 1 {
			t.Fatalf("expected one store call, got %d", sessions.deactivateCalls)
		}
	})

	t.Run("clears the cookie even when the store fails", func(t *testing.T) {
		sessions := &stubSessionRepo{deactivateErr: errors.New("pool exhausted")}
		handler := newTestAuthHandler(sessions)

		req := httptest.NewRequest(http.MethodPost, "/portal/auth/logout", nil)
		req.AddCookie(&http.Cookie{Name: portalCookieName, Value: "some-token"})
		rec := httptest.NewRecorder()

		if err := handler.logout(e.NewContext(req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if !clearedCookie(rec, portalCookieName) {
			t.Fatal("cookie must be cleared before the failure is reported")
		}
	})

	t.Run("succeeds without a cookie", func(t *testing.T) {
		sessions := &stubSessionRepo{}
		handler := newTestAuthHandler(sessions)

		req := httptest.NewRequest(http.MethodPost, "/portal/auth/logout", nil)
		rec := httptest.NewRecorder()

		if err := handler.logout(e.NewContext(req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if sessions.deactivateCalls != 0 {
			t.Fatalf("expected no store call for an empty token, got %d", sessions.deactivateCalls)
		}
	})
}

func TestSessionStatusUnauthenticated(t *testing.T) {
	e := echo.New()
	handler := newTestAuthHandler(&stubSessionRepo{})

	req := httptest.NewRequest(http.MethodGet, "/portal/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: portalCookieName, Value: "stale-token"})
	rec := httptest.NewRecorder()

	if err := handler.sessionStatus(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("an invalid session is a normal answer, expected 200, got %d", rec.Code)
	}

	var resp SessionStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Authenticated {
		t.Fatal("expected authenticated=false")
	}
	if resp.User != nil {
		t.Fatal("expected no user payload")
	}
}

func TestCompleteResetDeadTokenIsInBand(t *testing.T) {
	e := echo.New()
	handler := newTestAuthHandler(&stubSessionRepo{})

	body := strings.NewReader(`{"token":"never-issued","password":"newpass123"}`)
	req := httptest.NewRequest(http.MethodPost, "/portal/auth/password-reset/complete", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := handler.completeReset(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with success=false, got %d", rec.Code)
	}

	var resp map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["success"] {
		t.Fatal("expected success=false for a dead token")
	}
}

func TestCompleteResetWeakPassword(t *testing.T) {
	e := echo.New()
	handler := newTestAuthHandler(&stubSessionRepo{})

	body := strings.NewReader(`{"token":"whatever","password":"short"}`)
	req := httptest.NewRequest(http.MethodPost, "/portal/auth/password-reset/complete", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := handler.completeReset(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a weak password, got %d", rec.Code)
	}
}

func TestChangePasswordWrongCurrentIsFormError(t *testing.T) {
	e := echo.New()
	handler := newTestAuthHandler(&stubSessionRepo{})

	body := strings.NewReader(`{"current_password":"wrong","new_password":"newpass123"}`)
	req := httptest.NewRequest(http.MethodPost, "/portal/auth/password", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	c := e.NewContext(req, rec)
	c.Set(contextSessionKey, &domain.SessionInfo{UserID: uuid.New(), ClientID: uuid.New()})

	if err := handler.changePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a wrong current password, got %d", rec.Code)
	}
	if clearedCookie(rec, portalCookieName) {
		t.Fatal("a rejected change must not end the session")
	}
}

func TestRequestResetRejectsBadEmail(t *testing.T) {
	e := echo.New()
	handler := newTestAuthHandler(&stubSessionRepo{})

	body := strings.NewReader(`{"client_slug":"acme-dental","email":"not-an-email"}`)
	req := httptest.NewRequest(http.MethodPost, "/portal/auth/password-reset/request", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := handler.requestReset(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a malformed email, got %d", rec.Code)
	}
}
