package approval

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Notes591/complaints/internal/domain/complaint"
	"github.com/Notes591/complaints/internal/domain/record"
	"github.com/Notes591/complaints/internal/domain/signature"
	"github.com/Notes591/complaints/internal/usecase/lifecycle"
)

// Usecase is the manager-only view over the lifecycle: approve, reject
// and signature requests, all gated on a process-wide shared secret. Each
// decision is mirrored into the ManagerSignatures log, one row per
// complaint, updated in place on repeat decisions.
type Usecase struct {
	lifecycle *lifecycle.Usecase
	store     record.Store
	secret    string
	log       zerolog.Logger
	now       func() time.Time
}

func NewUsecase(lc *lifecycle.Usecase, store record.Store, secret string, log zerolog.Logger) *Usecase {
	return &Usecase{lifecycle: lc, store: store, secret: secret, log: log, now: time.Now}
}

// Authorize checks the shared secret. Constant-time compare; no lockout
// or backoff on failure.
func (u *Usecase) Authorize(secret string) error {
	if u.secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(u.secret)) != 1 {
		return complaint.ErrUnauthorized
	}
	return nil
}

type ApproveInput struct {
	ComplaintID string
	Manager     string
	Signature   string // opaque: base64 image or typed name
}

// Approve moves the pending record back to its recorded source and logs
// the sign-off. A non-empty signature is mandatory; any attestation
// counts.
func (u *Usecase) Approve(ctx context.Context, secret string, in ApproveInput) (*lifecycle.Result, error) {
	if err := u.Authorize(secret); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Signature) == "" {
		return nil, complaint.ErrSignatureRequired
	}

	res, err := u.lifecycle.Approve(ctx, in.ComplaintID, in.Signature)
	if err != nil {
		return nil, err
	}
	u.writeLog(ctx, signature.Entry{
		ComplaintID: in.ComplaintID,
		Manager:     u.managerName(in.Manager),
		SignedAt:    complaint.FormatCreatedAt(u.now().UTC()),
		Status:      signature.StatusApproved,
		Signature:   in.Signature,
	})
	return res, nil
}

type RejectInput struct {
	ComplaintID string
	Manager     string
	Notes       string
}

// Reject archives the pending record. No signature is required for a
// rejection; the log row keeps an empty signature cell.
func (u *Usecase) Reject(ctx context.Context, secret string, in RejectInput) (*lifecycle.Result, error) {
	if err := u.Authorize(secret); err != nil {
		return nil, err
	}
	res, err := u.lifecycle.Reject(ctx, in.ComplaintID)
	if err != nil {
		return nil, err
	}
	u.writeLog(ctx, signature.Entry{
		ComplaintID: in.ComplaintID,
		Manager:     u.managerName(in.Manager),
		SignedAt:    complaint.FormatCreatedAt(u.now().UTC()),
		Notes:       in.Notes,
		Status:      signature.StatusRejected,
	})
	return res, nil
}

// SubmitForApproval is the gated counterpart action that parks a record
// in PendingApproval and opens a signature request in the log.
func (u *Usecase) SubmitForApproval(ctx context.Context, secret, complaintID, notes string) (*lifecycle.Result, error) {
	if err := u.Authorize(secret); err != nil {
		return nil, err
	}
	res, err := u.lifecycle.SubmitForApproval(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	u.writeLog(ctx, signature.Entry{
		ComplaintID: complaintID,
		SignedAt:    complaint.FormatCreatedAt(u.now().UTC()),
		Notes:       notes,
		Status:      signature.StatusRequested,
	})
	return res, nil
}

// PendingRequests lists open signature requests from the log.
func (u *Usecase) PendingRequests(ctx context.Context, secret string) ([]signature.Entry, error) {
	if err := u.Authorize(secret); err != nil {
		return nil, err
	}
	rows, err := u.store.ListRows(ctx, signature.Collection)
	if err != nil {
		return nil, err
	}
	var out []signature.Entry
	for _, row := range rows {
		e := signature.DecodeRow(row)
		if e.Status == signature.StatusRequested {
			out = append(out, e)
		}
	}
	return out, nil
}

func (u *Usecase) managerName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "manager"
	}
	return name
}

// writeLog upserts the ManagerSignatures row for the complaint. The log
// is advisory next to the lifecycle move, so a write failure is logged
// and swallowed rather than failing an already-completed decision.
func (u *Usecase) writeLog(ctx context.Context, e signature.Entry) {
	rows, err := u.store.ListRows(ctx, signature.Collection)
	if err == nil {
		for i, row := range rows {
			if len(row) > 0 && row[0] == e.ComplaintID {
				pos := record.FirstDataRow + record.Position(i)
				cells := map[int]string{
					signature.CellManager:   e.Manager,
					signature.CellSignedAt:  e.SignedAt,
					signature.CellStatus:    e.Status,
					signature.CellSignature: e.Signature,
				}
				if e.Notes != "" {
					cells[signature.CellNotes] = e.Notes
				}
				if uerr := u.store.UpdateCells(ctx, signature.Collection, pos, cells); uerr != nil {
					u.log.Warn().Err(uerr).Str("complaint_id", e.ComplaintID).Msg("signature log update failed")
				}
				return
			}
		}
		_, err = u.store.AppendRow(ctx, signature.Collection, signature.EncodeRow(e))
	}
	if err != nil {
		u.log.Warn().Err(err).Str("complaint_id", e.ComplaintID).Msg("signature log write failed")
	}
}
