package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Notes591/complaints/internal/domain/complaint"
	"github.com/Notes591/complaints/internal/domain/record"
	"github.com/Notes591/complaints/internal/enrich"
	"github.com/Notes591/complaints/internal/usecase/aramex"
)

// writeDomainError maps domain sentinels onto HTTP statuses. Every
// failure stays a localized JSON message; a partial move gets its own
// explicit shape because the caller must learn that a duplicate now
// exists.
func writeDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, record.ErrPartialMove):
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error":  "record was moved but the source copy could not be deleted",
			"detail": err.Error(),
			"status": "duplicate_remains",
		})
	case errors.Is(err, complaint.ErrDuplicateID):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, complaint.ErrNotFound), errors.Is(err, record.ErrRowNotFound), errors.Is(err, enrich.ErrNoRecord):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, complaint.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	case errors.Is(err, complaint.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, complaint.ErrSignatureRequired),
		errors.Is(err, complaint.ErrUnknownType),
		errors.Is(err, aramex.ErrMissingFields):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case record.IsTransient(err):
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "storage unavailable, please retry"})
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func adminSecret(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get(AdminSecretHeader))
}

func stateFromString(raw string) complaint.State { return complaint.State(raw) }

// stateParam parses the ?state= query, defaulting to active.
func stateParam(c echo.Context) (complaint.State, bool) {
	raw := c.QueryParam("state")
	if raw == "" {
		return complaint.StateActive, true
	}
	s := complaint.State(raw)
	if _, ok := complaint.CollectionFor(s); !ok {
		return "", false
	}
	return s, true
}
