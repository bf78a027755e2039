package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MinkyAI/reviews-platform-sub001/internal/domain"
	"github.com/MinkyAI/reviews-platform-sub001/internal/identity"
	"github.com/MinkyAI/reviews-platform-sub001/internal/service"
	"github.com/MinkyAI/reviews-platform-sub001/internal/util"
)

const (
	contextSessionKey = "portal.session"
	contextAdminKey   = "admin.identity"

	portalCookieName = "portal_session"
	adminCookieName  = "admin_session"
)

// RequireSession guards portal routes with the self-managed session realm.
// Every request is a fresh store read; nothing about token validity is cached
// in-process.
func RequireSession(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			info, err := auth.ValidateSession(c.Request().Context(), sessionTokenFromRequest(c))
			if err != nil {
				if errors.Is(err, service.ErrSessionInvalid) {
					return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
				}
				return c.JSON(http.StatusInternalServerError, util.Error("unable to validate session"))
			}
			c.Set(contextSessionKey, info)
			return next(c)
		}
	}
}

// RequireAdmin guards admin routes with the provider-delegated realm. The two
// realms use distinct cookies and share no state.
func RequireAdmin(admin *service.AdminService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, err := admin.Session(c.Request().Context(), adminTokenFromRequest(c))
			if err != nil {
				if errors.Is(err, identity.ErrNotAuthenticated) {
					return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
				}
				return c.JSON(http.StatusInternalServerError, util.Error("unable to validate session"))
			}
			c.Set(contextAdminKey, ident)
			return next(c)
		}
	}
}

func CurrentSession(c echo.Context) (*domain.SessionInfo, bool) {
	info, ok := c.Get(contextSessionKey).(*domain.SessionInfo)
	return info, ok
}

func CurrentAdmin(c echo.Context) (*identity.Identity, bool) {
	ident, ok := c.Get(contextAdminKey).(*identity.Identity)
	return ident, ok
}

func sessionTokenFromRequest(c echo.Context) string {
	cookie, err := c.Cookie(portalCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func adminTokenFromRequest(c echo.Context) string {
	cookie, err := c.Cookie(adminCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func setSessionCookie(c echo.Context, name, token string, expiresAt time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})
}
