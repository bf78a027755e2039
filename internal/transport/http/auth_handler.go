package http

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/MinkyAI/reviews-platform-sub001/internal/domain"
	"github.com/MinkyAI/reviews-platform-sub001/internal/service"
	"github.com/MinkyAI/reviews-platform-sub001/internal/util"
)

type AuthHandler struct {
	auth    *service.AuthService
	clients *service.ClientService
}

// RegisterPortalAuth wires the portal realm: cookie-backed sessions and the
// password-reset flow. Credential endpoints take the rate limiters built in
// main; pass nil middleware to run unlimited.
func RegisterPortalAuth(e *echo.Echo, auth *service.AuthService, clients *service.ClientService, loginLimit, resetLimit echo.MiddlewareFunc) {
	handler := &AuthHandler{auth: auth, clients: clients}

	group := e.Group("/portal/auth")
	group.POST("/login", handler.login, optionalMiddleware(loginLimit)...)
	group.GET("/session", handler.sessionStatus)
	group.POST("/logout", handler.logout)
	group.POST("/password", handler.changePassword, RequireSession(auth))
	group.POST("/password-reset/request", handler.requestReset, optionalMiddleware(resetLimit)...)
	group.GET("/password-reset/verify", handler.verifyReset)
	group.POST("/password-reset/complete", handler.completeReset)
}

func optionalMiddleware(m echo.MiddlewareFunc) []echo.MiddlewareFunc {
	if m == nil {
		return nil
	}
	return []echo.MiddlewareFunc{m}
}

// login handles POST /portal/auth/login
func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, util.Error("email and password required"))
	}

	client, err := h.resolveClient(c, req.ClientID, req.ClientSlug)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			// An unknown tenant is indistinguishable from bad credentials.
			return c.JSON(http.StatusUnauthorized, util.Error(service.ErrInvalidCredentials.Error()))
		case errors.Is(err, errBadTenantRef):
			return c.JSON(http.StatusBadRequest, util.Error("client_id or client_slug required"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to sign in"))
		}
	}
	if !client.IsActive {
		return c.JSON(http.StatusUnauthorized, util.Error(service.ErrInvalidCredentials.Error()))
	}

	result, err := h.auth.LoginWithEmail(c.Request().Context(), client.ID, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to sign in"))
	}

	setSessionCookie(c, portalCookieName, result.Token, result.ExpiresAt)
	return c.JSON(http.StatusOK, LoginResponse{
		User: PortalUser{
			ID:       result.User.ID.String(),
			ClientID: result.User.ClientID.String(),
			Email:    result.User.Email,
			Name:     result.User.Name,
			Role:     string(result.User.Role),
		},
		Client:    toPortalClient(client),
		ExpiresAt: result.ExpiresAt,
	})
}

// sessionStatus handles GET /portal/auth/session. An invalid session is a
// normal answer here, not an error.
func (h *AuthHandler) sessionStatus(c echo.Context) error {
	info, err := h.auth.ValidateSession(c.Request().Context(), sessionTokenFromRequest(c))
	if err != nil {
		if errors.Is(err, service.ErrSessionInvalid) {
			return c.JSON(http.StatusOK, SessionStatusResponse{Authenticated: false})
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to validate session"))
	}

	resp := SessionStatusResponse{
		Authenticated: true,
		User: &PortalUser{
			ID:       info.UserID.String(),
			ClientID: info.ClientID.String(),
			Email:    info.Email,
			Name:     info.Name,
			Role:     string(info.Role),
		},
		ExpiresAt: &info.ExpiresAt,
	}
	if client, err := h.clients.Get(c.Request().Context(), info.ClientID); err == nil {
		portalClient := toPortalClient(client)
		resp.Client = &portalClient
	}
	return c.JSON(http.StatusOK, resp)
}

// logout handles POST /portal/auth/logout. The cookie is cleared before
// anything else: even a store failure must not leave the browser holding a
// credential it believes is live.
func (h *AuthHandler) logout(c echo.Context) error {
	token := sessionTokenFromRequest(c)
	clearSessionCookie(c, portalCookieName)

	if err := h.auth.Logout(c.Request().Context(), token); err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to sign out"))
	}
	return c.JSON(http.StatusOK, util.Success(true))
}

// changePassword handles POST /portal/auth/password. A wrong current password
// is a form error, not a dead session; the caller stays signed in.
func (h *AuthHandler) changePassword(c echo.Context) error {
	session, ok := CurrentSession(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	err := h.auth.ChangePassword(c.Request().Context(), session.UserID, req.CurrentPassword, req.NewPassword)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, util.Success(true))
	case errors.Is(err, service.ErrPasswordTooWeak):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusBadRequest, util.Error("current password is incorrect"))
	default:
		return c.JSON(http.StatusInternalServerError, util.Error("unable to change password"))
	}
}

// requestReset handles POST /portal/auth/password-reset/request. The response
// never says whether the account exists.
func (h *AuthHandler) requestReset(c echo.Context) error {
	var req ResetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid email address"))
	}

	client, err := h.resolveClient(c, req.ClientID, req.ClientSlug)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			return c.JSON(http.StatusOK, util.Success(true))
		case errors.Is(err, errBadTenantRef):
			return c.JSON(http.StatusBadRequest, util.Error("client_id or client_slug required"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to process request"))
		}
	}
	if !client.IsActive {
		return c.JSON(http.StatusOK, util.Success(true))
	}

	if err := h.auth.RequestPasswordReset(c.Request().Context(), client.ID, req.Email); err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to process request"))
	}
	return c.JSON(http.StatusOK, util.Success(true))
}

// verifyReset handles GET /portal/auth/password-reset/verify?token=
func (h *AuthHandler) verifyReset(c echo.Context) error {
	info, err := h.auth.VerifyResetToken(c.Request().Context(), c.QueryParam("token"))
	if err != nil {
		if errors.Is(err, service.ErrResetTokenInvalid) {
			return c.JSON(http.StatusOK, ResetVerifyResponse{Valid: false})
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to verify token"))
	}
	return c.JSON(http.StatusOK, ResetVerifyResponse{Valid: true, ClientID: info.ClientID.String()})
}

// completeReset handles POST /portal/auth/password-reset/complete. A dead
// token is reported in-band so the form can tell the user to request a new
// link instead of rendering a generic failure.
func (h *AuthHandler) completeReset(c echo.Context) error {
	var req ResetCompleteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	err := h.auth.CompleteReset(c.Request().Context(), req.Token, req.Password)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, util.Success(true))
	case errors.Is(err, service.ErrPasswordTooWeak):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrResetTokenInvalid):
		return c.JSON(http.StatusOK, util.Success(false))
	default:
		return c.JSON(http.StatusInternalServerError, util.Error("unable to reset password"))
	}
}

var errBadTenantRef = errors.New("client reference missing")

func (h *AuthHandler) resolveClient(c echo.Context, clientID, clientSlug string) (*domain.Client, error) {
	if id := strings.TrimSpace(clientID); id != "" {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, errBadTenantRef
		}
		return h.clients.Get(c.Request().Context(), parsed)
	}
	if slug := strings.TrimSpace(clientSlug); slug != "" {
		return h.clients.GetBySlug(c.Request().Context(), slug)
	}
	return nil, errBadTenantRef
}

func toPortalClient(client *domain.Client) PortalClient {
	return PortalClient{
		ID:      client.ID.String(),
		Name:    client.Name,
		Slug:    client.Slug,
		LogoURL: client.LogoURL,
	}
}
