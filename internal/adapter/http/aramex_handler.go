package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Notes591/complaints/internal/usecase/aramex"
)

func (h *Handler) CreateAramexOrder(c echo.Context) error {
	var req aramex.CreateInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	o, err := h.aramex.Create(c.Request().Context(), req)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *Handler) EditAramexOrder(c echo.Context) error {
	var req aramex.FieldUpdates
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	o, err := h.aramex.Edit(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) ArchiveAramexOrder(c echo.Context) error {
	o, err := h.aramex.Archive(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) ListAramexPending(c echo.Context) error {
	out, err := h.aramex.Pending(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) ListAramexArchived(c echo.Context) error {
	out, err := h.aramex.Archived(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
