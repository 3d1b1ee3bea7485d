package complaint

import (
	"time"

	"github.com/Notes591/complaints/internal/domain/record"
)

// Collections backing the lifecycle. Names match the worksheet titles the
// store was provisioned with.
const (
	CollectionComplaints      record.Collection = "Complaints"
	CollectionResponded       record.Collection = "Responded"
	CollectionArchive         record.Collection = "Archive"
	CollectionPendingApproval record.Collection = "PendingApproval"
	CollectionTypes           record.Collection = "Types"
)

// State of a complaint. A state maps 1:1 onto the collection holding the
// row; there is no Deleted state, deletion removes the record entirely.
type State string

const (
	StateActive          State = "active"
	StateResponded       State = "responded"
	StatePendingApproval State = "pending_approval"
	StateArchived        State = "archived"
)

// ActiveStates in lookup-precedence order; Archive comes after these when
// searching across everything.
var ActiveStates = []State{StateActive, StateResponded, StatePendingApproval}

// CollectionFor maps a state onto its backing collection.
func CollectionFor(s State) (record.Collection, bool) {
	switch s {
	case StateActive:
		return CollectionComplaints, true
	case StateResponded:
		return CollectionResponded, true
	case StatePendingApproval:
		return CollectionPendingApproval, true
	case StateArchived:
		return CollectionArchive, true
	}
	return "", false
}

// StateFor is the inverse of CollectionFor.
func StateFor(col record.Collection) (State, bool) {
	switch col {
	case CollectionComplaints:
		return StateActive, true
	case CollectionResponded:
		return StateResponded, true
	case CollectionPendingApproval:
		return StatePendingApproval, true
	case CollectionArchive:
		return StateArchived, true
	}
	return "", false
}

// RestoredMarker is written into the marker cell when an archived
// complaint is pulled back into the active collection.
const RestoredMarker = "restored from archive"

// CreatedAtLayout is the timestamp format stored in the sheet.
const CreatedAtLayout = "2006-01-02 15:04:05"

// FormatCreatedAt renders t the way the sheet stores timestamps.
func FormatCreatedAt(t time.Time) string { return t.Format(CreatedAtLayout) }

// Complaint is the central entity. CreatedAt is set once and carried
// verbatim across every move; everything else is mutable before a
// transition and copied forward unchanged unless the transition itself
// rewrites it.
type Complaint struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	Notes          string `json:"notes"`
	Action         string `json:"action"`
	CreatedAt      string `json:"created_at"`
	RestoredMarker string `json:"restored_marker,omitempty"`
	OutboundAWB    string `json:"outbound_awb,omitempty"`
	InboundAWB     string `json:"inbound_awb,omitempty"`

	// Set only by the approval workflow; stored as an optional trailing
	// cell so pre-approval rows stay 8 cells wide.
	ApprovalSignature string `json:"approval_signature,omitempty"`

	// PendingApproval rows only: where the record came from and when it
	// was submitted, so the approval decision knows where to return it.
	SourceCollection record.Collection `json:"source_collection,omitempty"`
	SubmittedAt      string            `json:"submitted_at,omitempty"`
}
