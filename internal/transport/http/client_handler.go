package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/MinkyAI/reviews-platform-sub001/internal/domain"
	"github.com/MinkyAI/reviews-platform-sub001/internal/service"
	"github.com/MinkyAI/reviews-platform-sub001/internal/util"
)

type ClientHandler struct {
	clients *service.ClientService
}

func RegisterClients(e *echo.Echo, auth *service.AuthService, clients *service.ClientService) {
	handler := &ClientHandler{clients: clients}

	group := e.Group("/portal/client", RequireSession(auth))
	group.GET("", handler.profile)
	group.GET("/users", handler.listUsers)
	group.POST("/logo", handler.uploadLogo)
}

// profile handles GET /portal/client
func (h *ClientHandler) profile(c echo.Context) error {
	session, ok := CurrentSession(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	client, err := h.clients.Get(c.Request().Context(), session.ClientID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load client"))
	}
	return c.JSON(http.StatusOK, util.Data("client", client))
}

// listUsers handles GET /portal/client/users. The roster only carries the
// sanitized account fields; hashes never serialize.
func (h *ClientHandler) listUsers(c echo.Context) error {
	session, ok := CurrentSession(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	users, err := h.clients.ListUsers(c.Request().Context(), session.ClientID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to list users"))
	}
	return c.JSON(http.StatusOK, util.Data("users", users))
}

// uploadLogo handles POST /portal/client/logo. Owner-only: members can read
// the dashboard but not rebrand the tenant.
func (h *ClientHandler) uploadLogo(c echo.Context) error {
	session, ok := CurrentSession(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	if session.Role != domain.UserRoleOwner {
		return c.JSON(http.StatusForbidden, util.Error("owner role required"))
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("logo file required"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("unable to read logo file"))
	}
	defer file.Close()

	client, err := h.clients.UploadLogo(c.Request().Context(), session.ClientID, service.LogoUpload{
		Reader:      file,
		Size:        fileHeader.Size,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLogoValidation):
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		case errors.Is(err, service.ErrClientNotFound):
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to upload logo"))
		}
	}
	return c.JSON(http.StatusOK, util.Data("client", client))
}
