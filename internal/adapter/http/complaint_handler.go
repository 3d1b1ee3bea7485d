package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Notes591/complaints/internal/usecase/lifecycle"
)

type createComplaintReq struct {
	ID          string `json:"id"           validate:"required,max=64"`
	Type        string `json:"type"         validate:"required,max=128"`
	Notes       string `json:"notes"`
	Action      string `json:"action"`
	OutboundAWB string `json:"outbound_awb"`
	InboundAWB  string `json:"inbound_awb"`
}

// CreateComplaint registers a record, or restores it when the id is found
// in the archive. 201 for a fresh create, 200 for a restore.
func (h *Handler) CreateComplaint(c echo.Context) error {
	var req createComplaintReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	res, err := h.lifecycle.Create(c.Request().Context(), lifecycle.CreateInput{
		ID:          req.ID,
		Type:        req.Type,
		Notes:       req.Notes,
		Action:      req.Action,
		OutboundAWB: req.OutboundAWB,
		InboundAWB:  req.InboundAWB,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	if res.Restored {
		return c.JSON(http.StatusOK, res)
	}
	return c.JSON(http.StatusCreated, res)
}

// SearchComplaint looks an id up across all collections in precedence
// order; the response carries any duplicate sightings.
func (h *Handler) SearchComplaint(c echo.Context) error {
	res, err := h.lifecycle.Search(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// ListComplaints returns every record in the requested state
// (?state=..., default active).
func (h *Handler) ListComplaints(c echo.Context) error {
	state, ok := stateParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown state"})
	}
	out, err := h.lifecycle.List(c.Request().Context(), state)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type editComplaintReq struct {
	State   string                 `json:"state" validate:"required,state"`
	Updates lifecycle.FieldUpdates `json:"updates"`
}

func (h *Handler) EditComplaint(c echo.Context) error {
	var req editComplaintReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	res, err := h.lifecycle.Edit(c.Request().Context(), c.Param("id"), stateFromString(req.State), req.Updates)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) RespondComplaint(c echo.Context) error {
	res, err := h.lifecycle.Respond(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) ReactivateComplaint(c echo.Context) error {
	res, err := h.lifecycle.Reactivate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) ArchiveComplaint(c echo.Context) error {
	state, ok := stateParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown state"})
	}
	res, err := h.lifecycle.Archive(c.Request().Context(), c.Param("id"), state)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// DeleteComplaint removes the record permanently; there is no undo.
func (h *Handler) DeleteComplaint(c echo.Context) error {
	state, ok := stateParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown state"})
	}
	if err := h.lifecycle.Delete(c.Request().Context(), c.Param("id"), state); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListTypes(c echo.Context) error {
	types, err := h.lifecycle.Types(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string][]string{"types": types})
}
