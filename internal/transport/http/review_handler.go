package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/MinkyAI/reviews-platform-sub001/internal/domain"
	"github.com/MinkyAI/reviews-platform-sub001/internal/service"
	"github.com/MinkyAI/reviews-platform-sub001/internal/util"
)

type ReviewHandler struct {
	reviews *service.ReviewService
	codes   *service.QRService
}

type ReviewSubmitRequest struct {
	Rating       int     `json:"rating" example:"5"`
	Comment      *string `json:"comment,omitempty" example:"Great service, friendly staff."`
	ContactEmail *string `json:"contact_email,omitempty" example:"happy@customer.com"`
}

// ReviewFlowResponse describes what the public review form renders after a
// QR scan: the tenant's branding plus the code it came through.
type ReviewFlowResponse struct {
	Client    PortalClient `json:"client"`
	ShortCode string       `json:"short_code" example:"k3x9p"`
	Label     string       `json:"label" example:"Front desk"`
}

func RegisterReviews(e *echo.Echo, auth *service.AuthService, reviews *service.ReviewService, codes *service.QRService) {
	handler := &ReviewHandler{reviews: reviews, codes: codes}

	// The public flow needs no account; possession of an active short code is
	// the entry ticket.
	public := e.Group("/api/v1/r/:code")
	public.GET("", handler.resolveCode)
	public.POST("/reviews", handler.submitReview)

	portal := e.Group("/portal/reviews", RequireSession(auth))
	portal.GET("", handler.listReviews)
}

// resolveCode handles GET /api/v1/r/{code}
func (h *ReviewHandler) resolveCode(c echo.Context) error {
	code, client, err := h.codes.Resolve(c.Request().Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrQRCodeNotFound) {
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to resolve code"))
	}
	return c.JSON(http.StatusOK, ReviewFlowResponse{
		Client:    toPortalClient(client),
		ShortCode: code.ShortCode,
		Label:     code.Label,
	})
}

// submitReview handles POST /api/v1/r/{code}/reviews
func (h *ReviewHandler) submitReview(c echo.Context) error {
	var req ReviewSubmitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	review, err := h.reviews.Submit(c.Request().Context(), c.Param("code"), service.ReviewSubmitInput{
		Rating:       req.Rating,
		Comment:      req.Comment,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewValidation):
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		case errors.Is(err, service.ErrQRCodeNotFound):
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to submit review"))
		}
	}
	return c.JSON(http.StatusCreated, util.Data("review", review))
}

// listReviews handles GET /portal/reviews
func (h *ReviewHandler) listReviews(c echo.Context) error {
	session, ok := CurrentSession(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	filter, err := parseReviewFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	result, err := h.reviews.ListForClient(c.Request().Context(), session.ClientID, filter)
	if err != nil {
		if errors.Is(err, service.ErrReviewValidation) {
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to list reviews"))
	}
	return c.JSON(http.StatusOK, result)
}

func parseReviewFilter(c echo.Context) (domain.ReviewListFilter, error) {
	var filter domain.ReviewListFilter

	filter.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	filter.Offset, _ = strconv.Atoi(c.QueryParam("offset"))

	var err error
	if filter.QRCodeID, err = optionalUUIDParam(c, "qr_code_id"); err != nil {
		return filter, err
	}
	if filter.Rating, err = optionalIntParam(c, "rating"); err != nil {
		return filter, err
	}
	if filter.MinRating, err = optionalIntParam(c, "min_rating"); err != nil {
		return filter, err
	}
	if filter.MaxRating, err = optionalIntParam(c, "max_rating"); err != nil {
		return filter, err
	}
	if filter.PostedAfter, err = optionalTimeParam(c, "posted_after"); err != nil {
		return filter, err
	}
	if filter.PostedBefore, err = optionalTimeParam(c, "posted_before"); err != nil {
		return filter, err
	}

	switch strings.ToLower(c.QueryParam("sort")) {
	case "", "desc":
		filter.SortOrder = domain.SortOrderDesc
	case "asc":
		filter.SortOrder = domain.SortOrderAsc
	default:
		return filter, errors.New("sort must be asc or desc")
	}
	return filter, nil
}

func optionalIntParam(c echo.Context, name string) (*int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.New(name + " must be an integer")
	}
	return &value, nil
}

func optionalUUIDParam(c echo.Context, name string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	value, err := uuid.Parse(raw)
	if err != nil {
		return nil, errors.New(name + " must be a uuid")
	}
	return &value, nil
}

func optionalTimeParam(c echo.Context, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, errors.New(name + " must be RFC3339")
	}
	return &value, nil
}
