package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ShipmentStatus is the advisory AWB lookup. It always answers 200; a
// broken or disabled tracker shows up as a sentinel status, never as a
// failure.
func (h *Handler) ShipmentStatus(c echo.Context) error {
	awb := c.Param("awb")
	return c.JSON(http.StatusOK, map[string]string{
		"awb":    awb,
		"status": h.tracker.Status(c.Request().Context(), awb),
	})
}

func (h *Handler) OrderStatus(c echo.Context) error {
	status, err := h.enrich.OrderStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"order_id": c.Param("id"),
		"status":   status,
	})
}

func (h *Handler) WarehouseReturn(c echo.Context) error {
	rec, err := h.enrich.ReturnWarehouse(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}
