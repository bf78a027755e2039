package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/MinkyAI/reviews-platform-sub001/internal/service"
	"github.com/MinkyAI/reviews-platform-sub001/internal/util"
)

type QRHandler struct {
	codes *service.QRService
}

type QRCreateRequest struct {
	Label string `json:"label" example:"Front desk"`
}

type QRUpdateRequest struct {
	Label    *string `json:"label,omitempty" example:"Front desk"`
	IsActive *bool   `json:"is_active,omitempty" example:"true"`
}

func RegisterQRCodes(e *echo.Echo, auth *service.AuthService, codes *service.QRService) {
	handler := &QRHandler{codes: codes}

	group := e.Group("/portal/qr-codes", RequireSession(auth))
	group.POST("", handler.create)
	group.GET("", handler.list)
	group.PATCH("/:id", handler.update)
	group.DELETE("/:id", handler.remove)
}

// create handles POST /portal/qr-codes
func (h *QRHandler) create(c echo.Context) error {
	session, ok := CurrentSession(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	var req QRCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	code, err := h.codes.Create(c.Request().Context(), session.ClientID, req.Label)
	if err != nil {
		if errors.Is(err, service.ErrQRCodeValidation) {
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to create qr code"))
	}
	return c.JSON(http.StatusCreated, util.Data("qr_code", code))
}

// list handles GET /portal/qr-codes
func (h *QRHandler) list(c echo.Context) error {
	session, ok := CurrentSession(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	codes, err := h.codes.ListByClient(c.Request().Context(), session.ClientID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to list qr codes"))
	}
	return c.JSON(http.StatusOK, util.Data("qr_codes", codes))
}

// update handles PATCH /portal/qr-codes/{id}
func (h *QRHandler) update(c echo.Context) error {
	session, ok := CurrentSession(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid qr code id"))
	}

	var req QRUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if req.Label == nil && req.IsActive == nil {
		return c.JSON(http.StatusBadRequest, util.Error("nothing to update"))
	}

	code, err := h.codes.Update(c.Request().Context(), session.ClientID, id, req.Label, req.IsActive)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQRCodeValidation):
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		case errors.Is(err, service.ErrQRCodeNotFound):
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to update qr code"))
		}
	}
	return c.JSON(http.StatusOK, util.Data("qr_code", code))
}

// remove handles DELETE /portal/qr-codes/{id}
func (h *QRHandler) remove(c echo.Context) error {
	session, ok := CurrentSession(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid qr code id"))
	}

	if err := h.codes.Delete(c.Request().Context(), session.ClientID, id); err != nil {
		if errors.Is(err, service.ErrQRCodeNotFound) {
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to delete qr code"))
	}
	return c.JSON(http.StatusOK, util.Success(true))
}
