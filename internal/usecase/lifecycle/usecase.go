package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Notes591/complaints/internal/domain/complaint"
	"github.com/Notes591/complaints/internal/domain/record"
)

// Usecase owns the complaint state machine: which collection a record
// lives in, what each transition copies or rewrites, and the
// append-then-delete move protocol between collections.
type Usecase struct {
	store record.Store
	log   zerolog.Logger
	now   func() time.Time
}

func NewUsecase(store record.Store, log zerolog.Logger) *Usecase {
	return &Usecase{store: store, log: log, now: time.Now}
}

type CreateInput struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Notes       string `json:"notes"`
	Action      string `json:"action"`
	OutboundAWB string `json:"outbound_awb"`
	InboundAWB  string `json:"inbound_awb"`
}

// Result is a complaint plus the state it currently sits in.
type Result struct {
	complaint.Complaint
	State    complaint.State `json:"state"`
	Restored bool            `json:"restored,omitempty"`
}

// Create registers a new complaint. Routing: a non-empty action lands the
// record in Responded, otherwise in Complaints. An id still present in the
// active set is rejected; an id found in Archive turns the call into a
// restore, where the archived field values win over the caller's input.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*Result, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return nil, errors.New("lifecycle: complaint id is required")
	}
	if err := u.typeAllowed(ctx, in.Type, ""); err != nil {
		return nil, err
	}

	for _, col := range []record.Collection{complaint.CollectionComplaints, complaint.CollectionResponded} {
		if _, _, err := u.findByID(ctx, col, id); err == nil {
			return nil, fmt.Errorf("%w: %s", complaint.ErrDuplicateID, id)
		} else if !errors.Is(err, complaint.ErrNotFound) {
			return nil, err
		}
	}

	if pos, archived, err := u.findByID(ctx, complaint.CollectionArchive, id); err == nil {
		return u.restore(ctx, pos, archived)
	} else if !errors.Is(err, complaint.ErrNotFound) {
		return nil, err
	}

	c := complaint.Complaint{
		ID:          id,
		Type:        in.Type,
		Notes:       in.Notes,
		Action:      in.Action,
		CreatedAt:   complaint.FormatCreatedAt(u.now().UTC()),
		OutboundAWB: in.OutboundAWB,
		InboundAWB:  in.InboundAWB,
	}
	dest := complaint.CollectionComplaints
	state := complaint.StateActive
	if strings.TrimSpace(in.Action) != "" {
		dest = complaint.CollectionResponded
		state = complaint.StateResponded
	}
	if _, err := u.store.AppendRow(ctx, dest, complaint.EncodeRow(dest, c)); err != nil {
		return nil, err
	}
	return &Result{Complaint: c, State: state}, nil
}

// restore pulls an archived record back into the active collection. The
// stored type/notes/action/AWBs are kept, created_at restarts, and the
// restored marker is set.
func (u *Usecase) restore(ctx context.Context, pos record.Position, archived complaint.Complaint) (*Result, error) {
	c := archived
	c.CreatedAt = complaint.FormatCreatedAt(u.now().UTC())
	c.RestoredMarker = complaint.RestoredMarker
	c.ApprovalSignature = ""

	row := complaint.EncodeRow(complaint.CollectionComplaints, c)
	if err := u.move(ctx, c.ID, complaint.CollectionArchive, pos, complaint.CollectionComplaints, row); err != nil {
		return nil, err
	}
	return &Result{Complaint: c, State: complaint.StateActive, Restored: true}, nil
}

// FieldUpdates names the editable fields; nil means unchanged. CreatedAt
// is deliberately absent, it is immutable once set.
type FieldUpdates struct {
	Type        *string `json:"type"`
	Notes       *string `json:"notes"`
	Action      *string `json:"action"`
	OutboundAWB *string `json:"outbound_awb"`
	InboundAWB  *string `json:"inbound_awb"`
}

// Edit updates fields of the record in place, without changing state.
func (u *Usecase) Edit(ctx context.Context, id string, state complaint.State, upd FieldUpdates) (*Result, error) {
	col, ok := complaint.CollectionFor(state)
	if !ok {
		return nil, fmt.Errorf("%w: unknown state %q", complaint.ErrInvalidTransition, state)
	}
	pos, cur, err := u.findByID(ctx, col, id)
	if err != nil {
		return nil, err
	}

	cells := map[int]string{}
	if upd.Type != nil {
		if err := u.typeAllowed(ctx, *upd.Type, cur.Type); err != nil {
			return nil, err
		}
		cells[complaint.CellType] = *upd.Type
		cur.Type = *upd.Type
	}
	if upd.Notes != nil {
		cells[complaint.CellNotes] = *upd.Notes
		cur.Notes = *upd.Notes
	}
	if upd.Action != nil {
		cells[complaint.CellAction] = *upd.Action
		cur.Action = *upd.Action
	}
	if upd.OutboundAWB != nil {
		cells[complaint.CellOutboundAWB] = *upd.OutboundAWB
		cur.OutboundAWB = *upd.OutboundAWB
	}
	if upd.InboundAWB != nil {
		cells[complaint.CellInboundAWB] = *upd.InboundAWB
		cur.InboundAWB = *upd.InboundAWB
	}
	if len(cells) == 0 {
		return &Result{Complaint: cur, State: state}, nil
	}
	if err := u.store.UpdateCells(ctx, col, pos, cells); err != nil {
		return nil, err
	}
	return &Result{Complaint: cur, State: state}, nil
}

// Respond moves a record from Complaints to Responded. Valid only from
// the active state.
func (u *Usecase) Respond(ctx context.Context, id string) (*Result, error) {
	return u.transition(ctx, id, complaint.StateActive, complaint.StateResponded, nil)
}

// Reactivate is the inverse of Respond.
func (u *Usecase) Reactivate(ctx context.Context, id string) (*Result, error) {
	return u.transition(ctx, id, complaint.StateResponded, complaint.StateActive, nil)
}

// Archive moves a record from any of the three active states into the
// Archive collection, all fields carried unchanged.
func (u *Usecase) Archive(ctx context.Context, id string, state complaint.State) (*Result, error) {
	switch state {
	case complaint.StateActive, complaint.StateResponded, complaint.StatePendingApproval:
	default:
		return nil, fmt.Errorf("%w: cannot archive from %q", complaint.ErrInvalidTransition, state)
	}
	return u.transition(ctx, id, state, complaint.StateArchived, func(c *complaint.Complaint) {
		c.SourceCollection = ""
		c.SubmittedAt = ""
	})
}

// SubmitForApproval parks a record from Complaints or Responded in
// PendingApproval, recording where it came from so the approval decision
// knows where to return it.
func (u *Usecase) SubmitForApproval(ctx context.Context, id string) (*Result, error) {
	src := complaint.StateActive
	pos, cur, err := u.findByID(ctx, complaint.CollectionComplaints, id)
	if errors.Is(err, complaint.ErrNotFound) {
		src = complaint.StateResponded
		pos, cur, err = u.findByID(ctx, complaint.CollectionResponded, id)
	}
	if err != nil {
		if errors.Is(err, complaint.ErrNotFound) {
			if _, _, perr := u.findByID(ctx, complaint.CollectionPendingApproval, id); perr == nil {
				return nil, fmt.Errorf("%w: %s already awaiting approval", complaint.ErrInvalidTransition, id)
			}
		}
		return nil, err
	}

	srcCol, _ := complaint.CollectionFor(src)
	cur.SourceCollection = srcCol
	cur.SubmittedAt = complaint.FormatCreatedAt(u.now().UTC())
	row := complaint.EncodeRow(complaint.CollectionPendingApproval, cur)
	if err := u.move(ctx, id, srcCol, pos, complaint.CollectionPendingApproval, row); err != nil {
		return nil, err
	}
	return &Result{Complaint: cur, State: complaint.StatePendingApproval}, nil
}

// Approve returns a pending record to its recorded source collection
// (defaulting to Responded), sets the signature and appends an approval
// note to the action text. The sign-off itself must already be
// authorized; the shared-secret check lives in the approval workflow.
func (u *Usecase) Approve(ctx context.Context, id, sig string) (*Result, error) {
	if strings.TrimSpace(sig) == "" {
		return nil, complaint.ErrSignatureRequired
	}
	pos, cur, err := u.findByID(ctx, complaint.CollectionPendingApproval, id)
	if err != nil {
		return nil, err
	}

	dest := complaint.CollectionResponded
	if s, ok := complaint.StateFor(cur.SourceCollection); ok && s != complaint.StateArchived && s != complaint.StatePendingApproval {
		dest = cur.SourceCollection
	}
	destState, _ := complaint.StateFor(dest)

	cur.ApprovalSignature = sig
	cur.Action = cur.Action + " | approved by manager on " + complaint.FormatCreatedAt(u.now().UTC())
	cur.SourceCollection = ""
	cur.SubmittedAt = ""

	row := complaint.EncodeRow(dest, cur)
	if err := u.move(ctx, id, complaint.CollectionPendingApproval, pos, dest, row); err != nil {
		return nil, err
	}
	return &Result{Complaint: cur, State: destState}, nil
}

// Reject sends a pending record to the Archive with a rejection note in
// the marker cell and no signature.
func (u *Usecase) Reject(ctx context.Context, id string) (*Result, error) {
	pos, cur, err := u.findByID(ctx, complaint.CollectionPendingApproval, id)
	if err != nil {
		return nil, err
	}
	cur.RestoredMarker = "rejected by manager on " + complaint.FormatCreatedAt(u.now().UTC())
	cur.ApprovalSignature = ""
	cur.SourceCollection = ""
	cur.SubmittedAt = ""

	row := complaint.EncodeRow(complaint.CollectionArchive, cur)
	if err := u.move(ctx, id, complaint.CollectionPendingApproval, pos, complaint.CollectionArchive, row); err != nil {
		return nil, err
	}
	return &Result{Complaint: cur, State: complaint.StateArchived}, nil
}

// Delete removes the record permanently. There is no destination
// collection and no way back.
func (u *Usecase) Delete(ctx context.Context, id string, state complaint.State) error {
	col, ok := complaint.CollectionFor(state)
	if !ok {
		return fmt.Errorf("%w: unknown state %q", complaint.ErrInvalidTransition, state)
	}
	pos, _, err := u.findByID(ctx, col, id)
	if err != nil {
		return err
	}
	return u.store.DeleteRow(ctx, col, pos)
}

// searchOrder is the fixed lookup precedence across collections.
var searchOrder = []record.Collection{
	complaint.CollectionComplaints,
	complaint.CollectionResponded,
	complaint.CollectionPendingApproval,
	complaint.CollectionArchive,
}

type SearchResult struct {
	Result
	// AlsoIn lists any further collections holding the same id, the
	// detectable leftover of a move whose delete half failed.
	AlsoIn []record.Collection `json:"also_in,omitempty"`
}

// Search looks the id up across all collections in precedence order. When
// the id shows up more than once the first match wins, but the duplicates
// are reported rather than silently dropped.
func (u *Usecase) Search(ctx context.Context, id string) (*SearchResult, error) {
	var found *SearchResult
	for _, col := range searchOrder {
		_, c, err := u.findByID(ctx, col, id)
		if errors.Is(err, complaint.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if found == nil {
			state, _ := complaint.StateFor(col)
			found = &SearchResult{Result: Result{Complaint: c, State: state}}
			continue
		}
		found.AlsoIn = append(found.AlsoIn, col)
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", complaint.ErrNotFound, id)
	}
	if len(found.AlsoIn) > 0 {
		u.log.Warn().
			Str("complaint_id", id).
			Interface("also_in", found.AlsoIn).
			Msg("complaint present in multiple collections, manual cleanup needed")
	}
	return found, nil
}

// List returns every record currently in the given state.
func (u *Usecase) List(ctx context.Context, state complaint.State) ([]Result, error) {
	col, ok := complaint.CollectionFor(state)
	if !ok {
		return nil, fmt.Errorf("%w: unknown state %q", complaint.ErrInvalidTransition, state)
	}
	rows, err := u.store.ListRows(ctx, col)
	if err != nil {
		return nil, err
	}
	out := make([]Result, 0, len(rows))
	for _, row := range rows {
		c := complaint.DecodeRow(col, row)
		if c.ID == "" {
			continue
		}
		out = append(out, Result{Complaint: c, State: state})
	}
	return out, nil
}

// Types returns the configured complaint-type enumeration.
func (u *Usecase) Types(ctx context.Context) ([]string, error) {
	rows, err := u.store.ListRows(ctx, complaint.CollectionTypes)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) > 0 && strings.TrimSpace(row[0]) != "" {
			out = append(out, row[0])
		}
	}
	return out, nil
}

// transition is the generic single-source move: look the id up in from,
// apply mutate, append to the destination, delete the source row.
func (u *Usecase) transition(ctx context.Context, id string, from, to complaint.State, mutate func(*complaint.Complaint)) (*Result, error) {
	srcCol, _ := complaint.CollectionFor(from)
	dstCol, _ := complaint.CollectionFor(to)

	pos, cur, err := u.findByID(ctx, srcCol, id)
	if err != nil {
		if errors.Is(err, complaint.ErrNotFound) {
			// Distinguish "wrong state" from "gone" for the caller.
			if res, serr := u.Search(ctx, id); serr == nil {
				return nil, fmt.Errorf("%w: %s is %s, not %s", complaint.ErrInvalidTransition, id, res.State, from)
			}
		}
		return nil, err
	}
	if mutate != nil {
		mutate(&cur)
	}
	row := complaint.EncodeRow(dstCol, cur)
	if err := u.move(ctx, id, srcCol, pos, dstCol, row); err != nil {
		return nil, err
	}
	return &Result{Complaint: cur, State: to}, nil
}

// move wraps record.Move with the partial-move diagnostic: a failed
// delete after a successful append is the one scenario that leaves a
// duplicate, and it must be reported as such, never as a generic error.
func (u *Usecase) move(ctx context.Context, id string, src record.Collection, pos record.Position, dst record.Collection, row record.Row) error {
	err := record.Move(ctx, u.store, src, pos, dst, row)
	if err == nil {
		return nil
	}
	if errors.Is(err, record.ErrPartialMove) {
		u.log.Warn().
			Str("complaint_id", id).
			Str("from", string(src)).
			Str("to", string(dst)).
			Err(err).
			Msg("complaint moved but duplicate remains in source collection")
		return fmt.Errorf("complaint %s: %w", id, err)
	}
	return fmt.Errorf("complaint %s: move to %s failed before any row was written: %w", id, dst, err)
}

// findByID scans col for the first row whose id cell matches. Positions
// are sheet rows: the first data row is 2.
func (u *Usecase) findByID(ctx context.Context, col record.Collection, id string) (record.Position, complaint.Complaint, error) {
	rows, err := u.store.ListRows(ctx, col)
	if err != nil {
		return 0, complaint.Complaint{}, err
	}
	for i, row := range rows {
		if len(row) > 0 && row[0] == id {
			return record.FirstDataRow + record.Position(i), complaint.DecodeRow(col, row), nil
		}
	}
	return 0, complaint.Complaint{}, fmt.Errorf("%w: %s in %s", complaint.ErrNotFound, id, col)
}

// typeAllowed accepts t when it is in the configured Types list, or when
// it equals the record's current value (the type may have been removed
// from the list since the record was created). An unreadable Types list
// degrades to no validation, matching the tool this replaces.
func (u *Usecase) typeAllowed(ctx context.Context, t, current string) error {
	if t == "" || t == current {
		return nil
	}
	types, err := u.Types(ctx)
	if err != nil {
		u.log.Warn().Err(err).Msg("types list unavailable, skipping type validation")
		return nil
	}
	if len(types) == 0 {
		return nil
	}
	for _, known := range types {
		if known == t {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", complaint.ErrUnknownType, t)
}
