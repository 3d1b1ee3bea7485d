package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Notes591/complaints/internal/usecase/approval"
)

type submitApprovalReq struct {
	Notes string `json:"notes"`
}

// SubmitForApproval parks a record in PendingApproval. Manager secret
// required: submitting opens a signature request on the manager's desk.
func (h *Handler) SubmitForApproval(c echo.Context) error {
	var req submitApprovalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	res, err := h.approval.SubmitForApproval(c.Request().Context(), adminSecret(c), c.Param("id"), req.Notes)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type approveReq struct {
	Manager   string `json:"manager"`
	Signature string `json:"signature" validate:"required"`
}

func (h *Handler) ApproveComplaint(c echo.Context) error {
	var req approveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	res, err := h.approval.Approve(c.Request().Context(), adminSecret(c), approval.ApproveInput{
		ComplaintID: c.Param("id"),
		Manager:     req.Manager,
		Signature:   req.Signature,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type rejectReq struct {
	Manager string `json:"manager"`
	Notes   string `json:"notes"`
}

func (h *Handler) RejectComplaint(c echo.Context) error {
	var req rejectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	res, err := h.approval.Reject(c.Request().Context(), adminSecret(c), approval.RejectInput{
		ComplaintID: c.Param("id"),
		Manager:     req.Manager,
		Notes:       req.Notes,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) PendingSignatureRequests(c echo.Context) error {
	out, err := h.approval.PendingRequests(c.Request().Context(), adminSecret(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
