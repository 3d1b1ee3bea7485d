package signature

import "github.com/Notes591/complaints/internal/domain/record"

// Collection holding the manager sign-off log. One row per complaint;
// approve/reject update the existing row in place instead of appending a
// second one.
const Collection record.Collection = "ManagerSignatures"

// Status values stored in the log.
const (
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusRequested = "signature requested"
)

// Entry is one manager sign-off record. Signature is an opaque string: a
// base64 PNG from a drawing pad, an uploaded image, or a typed name, all
// treated identically as "some attestation is present".
type Entry struct {
	ComplaintID string `json:"complaint_id"`
	Manager     string `json:"manager"`
	SignedAt    string `json:"signed_at"`
	Notes       string `json:"notes,omitempty"`
	Status      string `json:"status"`
	Signature   string `json:"signature,omitempty"`
}

const (
	CellComplaintID = iota
	CellManager
	CellSignedAt
	CellNotes
	CellStatus
	CellSignature
	cellWidth
)

func DecodeRow(row record.Row) Entry {
	for len(row) < cellWidth {
		row = append(row, "")
	}
	return Entry{
		ComplaintID: row[CellComplaintID],
		Manager:     row[CellManager],
		SignedAt:    row[CellSignedAt],
		Notes:       row[CellNotes],
		Status:      row[CellStatus],
		Signature:   row[CellSignature],
	}
}

func EncodeRow(e Entry) record.Row {
	return record.Row{e.ComplaintID, e.Manager, e.SignedAt, e.Notes, e.Status, e.Signature}
}
