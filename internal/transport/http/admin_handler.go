package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/MinkyAI/reviews-platform-sub001/internal/identity"
	"github.com/MinkyAI/reviews-platform-sub001/internal/service"
	"github.com/MinkyAI/reviews-platform-sub001/internal/util"
)

type AdminHandler struct {
	admin *service.AdminService
}

type AdminLoginRequest struct {
	Email    string `json:"email" example:"ops@reviews.example.com"`
	Password string `json:"password" example:"StrongPass!23"`
}

type AdminSessionResponse struct {
	Authenticated bool   `json:"authenticated" example:"true"`
	Email         string `json:"email,omitempty" example:"ops@reviews.example.com"`
}

type ClientCreateRequest struct {
	Name          string  `json:"name" example:"Acme Dental"`
	Slug          string  `json:"slug" example:"acme-dental"`
	OwnerEmail    string  `json:"owner_email" example:"owner@acme-dental.com"`
	OwnerName     *string `json:"owner_name,omitempty" example:"Dana Smith"`
	OwnerPassword string  `json:"owner_password" example:"StrongPass!23"`
}

type ClientUpdateRequest struct {
	IsActive *bool `json:"is_active" example:"false"`
}

// RegisterAdmin wires the admin realm. Its cookie, middleware and error
// vocabulary are fully separate from the portal realm.
func RegisterAdmin(e *echo.Echo, admin *service.AdminService, loginLimit echo.MiddlewareFunc) {
	handler := &AdminHandler{admin: admin}

	e.POST("/admin/auth/login", handler.login, optionalMiddleware(loginLimit)...)
	e.POST("/admin/auth/logout", handler.logout)
	e.GET("/admin/auth/session", handler.sessionStatus)

	group := e.Group("/admin", RequireAdmin(admin))
	group.POST("/clients", handler.createClient)
	group.GET("/clients", handler.listClients)
	group.PATCH("/clients/:id", handler.updateClient)
	group.GET("/reviews", handler.listReviews)
}

// login handles POST /admin/auth/login
func (h *AdminHandler) login(c echo.Context) error {
	var req AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	session, err := h.admin.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, util.Error("invalid email or password"))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to sign in"))
	}

	setSessionCookie(c, adminCookieName, session.AccessToken, session.ExpiresAt)
	return c.JSON(http.StatusOK, AdminSessionResponse{
		Authenticated: true,
		Email:         session.Identity.Email,
	})
}

// logout handles POST /admin/auth/logout. The cookie goes away even when the
// provider rejects the revocation.
func (h *AdminHandler) logout(c echo.Context) error {
	token := adminTokenFromRequest(c)
	clearSessionCookie(c, adminCookieName)

	if token != "" {
		if err := h.admin.SignOut(c.Request().Context(), token); err != nil {
			return c.JSON(http.StatusInternalServerError, util.Error("unable to sign out"))
		}
	}
	return c.JSON(http.StatusOK, util.Success(true))
}

// sessionStatus handles GET /admin/auth/session
func (h *AdminHandler) sessionStatus(c echo.Context) error {
	ident, err := h.admin.Session(c.Request().Context(), adminTokenFromRequest(c))
	if err != nil {
		if errors.Is(err, identity.ErrNotAuthenticated) {
			return c.JSON(http.StatusOK, AdminSessionResponse{Authenticated: false})
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to validate session"))
	}
	return c.JSON(http.StatusOK, AdminSessionResponse{Authenticated: true, Email: ident.Email})
}

// createClient handles POST /admin/clients
func (h *AdminHandler) createClient(c echo.Context) error {
	var req ClientCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	result, err := h.admin.CreateClient(c.Request().Context(), req.Name, req.Slug, service.OwnerAccount{
		Email:    req.OwnerEmail,
		Name:     req.OwnerName,
		Password: req.OwnerPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientValidation):
			return c.JSON(http.StatusBadRequest, util.Error("name, a lowercase hyphenated slug, and a valid owner email are required"))
		case errors.Is(err, service.ErrPasswordTooWeak):
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		case errors.Is(err, service.ErrClientSlugTaken):
			return c.JSON(http.StatusConflict, util.Error(err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to create client"))
		}
	}
	return c.JSON(http.StatusCreated, result)
}

// listClients handles GET /admin/clients
func (h *AdminHandler) listClients(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	result, err := h.admin.ListClients(c.Request().Context(), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to list clients"))
	}
	return c.JSON(http.StatusOK, result)
}

// updateClient handles PATCH /admin/clients/{id}
func (h *AdminHandler) updateClient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid client id"))
	}

	var req ClientUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if req.IsActive == nil {
		return c.JSON(http.StatusBadRequest, util.Error("is_active required"))
	}

	if err := h.admin.SetClientActive(c.Request().Context(), id, *req.IsActive); err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to update client"))
	}
	return c.JSON(http.StatusOK, util.Success(true))
}

// listReviews handles GET /admin/reviews
func (h *AdminHandler) listReviews(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	var clientID *uuid.UUID
	if raw := strings.TrimSpace(c.QueryParam("client_id")); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, util.Error("client_id must be a uuid"))
		}
		clientID = &parsed
	}

	reviews, err := h.admin.ListReviews(c.Request().Context(), clientID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to list reviews"))
	}
	return c.JSON(http.StatusOK, util.Data("reviews", reviews))
}
