package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Notes591/complaints/internal/enrich"
	"github.com/Notes591/complaints/internal/shipment"
	"github.com/Notes591/complaints/internal/usecase/approval"
	"github.com/Notes591/complaints/internal/usecase/aramex"
	"github.com/Notes591/complaints/internal/usecase/lifecycle"
)

// AdminSecretHeader carries the shared manager secret on approval routes.
const AdminSecretHeader = "X-Admin-Secret"

type Handler struct {
	lifecycle *lifecycle.Usecase
	approval  *approval.Usecase
	aramex    *aramex.Usecase
	enrich    *enrich.Service
	tracker   shipment.Tracker
}

func NewHandler(lc *lifecycle.Usecase, ap *approval.Usecase, ar *aramex.Usecase, en *enrich.Service, tr shipment.Tracker) *Handler {
	return &Handler{lifecycle: lc, approval: ap, aramex: ar, enrich: en, tracker: tr}
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}
