package lifecycle

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Notes591/complaints/internal/domain/complaint"
	"github.com/Notes591/complaints/internal/domain/record"
	"github.com/Notes591/complaints/internal/testutil/memstore"
	"github.com/Notes591/complaints/internal/testutil/storemock"
)

func newTestUsecase(t *testing.T) (*Usecase, *memstore.Store) {
	t.Helper()
	mem := memstore.New()
	uc := NewUsecase(mem, zerolog.Nop())
	uc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return uc, mem
}

func mustCreate(t *testing.T, uc *Usecase, in CreateInput) *Result {
	t.Helper()
	res, err := uc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create(%s) err: %v", in.ID, err)
	}
	return res
}

func TestCreate_RoutesOnAction(t *testing.T) {
	uc, mem := newTestUsecase(t)

	res := mustCreate(t, uc, CreateInput{ID: "C1", Type: "Damaged", Notes: "box crushed"})
	if res.State != complaint.StateActive {
		t.Fatalf("empty action should land in active, got %s", res.State)
	}
	if res.CreatedAt != "2025-06-01 12:00:00" {
		t.Fatalf("created_at=%q", res.CreatedAt)
	}

	res = mustCreate(t, uc, CreateInput{ID: "C2", Type: "Late", Action: "refund issued"})
	if res.State != complaint.StateResponded {
		t.Fatalf("non-empty action should land in responded, got %s", res.State)
	}

	if mem.Len(complaint.CollectionComplaints) != 1 || mem.Len(complaint.CollectionResponded) != 1 {
		t.Fatalf("complaints=%d responded=%d", mem.Len(complaint.CollectionComplaints), mem.Len(complaint.CollectionResponded))
	}
}

func TestCreate_RejectsDuplicateAcrossActiveSet(t *testing.T) {
	uc, mem := newTestUsecase(t)
	mustCreate(t, uc, CreateInput{ID: "C1", Type: "Damaged"})

	_, err := uc.Create(context.Background(), CreateInput{ID: "C1", Type: "Late"})
	if !errors.Is(err, complaint.ErrDuplicateID) {
		t.Fatalf("want ErrDuplicateID, got %v", err)
	}
	if mem.Len(complaint.CollectionComplaints) != 1 {
		t.Fatalf("duplicate create must leave exactly one record, got %d", mem.Len(complaint.CollectionComplaints))
	}

	// Same check when the original sits in Responded.
	mustCreate(t, uc, CreateInput{ID: "C2", Type: "Damaged", Action: "done"})
	if _, err := uc.Create(context.Background(), CreateInput{ID: "C2", Type: "Damaged"}); !errors.Is(err, complaint.ErrDuplicateID) {
		t.Fatalf("want ErrDuplicateID for responded id, got %v", err)
	}
}

func TestCreate_ValidatesTypeAgainstConfiguredList(t *testing.T) {
	uc, mem := newTestUsecase(t)
	mem.Seed(complaint.CollectionTypes, record.Row{"Damaged"}, record.Row{"Late"})

	if _, err := uc.Create(context.Background(), CreateInput{ID: "C1", Type: "Bogus"}); !errors.Is(err, complaint.ErrUnknownType) {
		t.Fatalf("want ErrUnknownType, got %v", err)
	}
	mustCreate(t, uc, CreateInput{ID: "C1", Type: "Damaged"})
}

func TestRespondAndReactivate(t *testing.T) {
	uc, mem := newTestUsecase(t)
	mustCreate(t, uc, CreateInput{ID: "C1", Type: "Damaged", Notes: "n", OutboundAWB: "AWB1"})

	res, err := uc.Respond(context.Background(), "C1")
	if err != nil {
		t.Fatalf("Respond err: %v", err)
	}
	if res.State != complaint.StateResponded {
		t.Fatalf("state=%s", res.State)
	}
	if mem.Len(complaint.CollectionComplaints) != 0 || mem.Len(complaint.CollectionResponded) != 1 {
		t.Fatal("respond must move, not copy")
	}
	// Fields carried verbatim.
	if res.Notes != "n" || res.OutboundAWB != "AWB1" || res.CreatedAt != "2025-06-01 12:00:00" {
		t.Fatalf("fields lost in move: %+v", res.Complaint)
	}

	// Respond again: record is no longer active.
	if _, err := uc.Respond(context.Background(), "C1"); !errors.Is(err, complaint.ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}

	back, err := uc.Reactivate(context.Background(), "C1")
	if err != nil {
		t.Fatalf("Reactivate err: %v", err)
	}
	if back.State != complaint.StateActive || mem.Len(complaint.CollectionResponded) != 0 {
		t.Fatal("reactivate must move back to active")
	}
}

func TestTransition_UnknownIDIsNotFound(t *testing.T) {
	uc, _ := newTestUsecase(t)
	if _, err := uc.Respond(context.Background(), "ghost"); !errors.Is(err, complaint.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestArchive_FromAllActiveStates(t *testing.T) {
	uc, mem := newTestUsecase(t)

	mustCreate(t, uc, CreateInput{ID: "A", Type: "T"})
	mustCreate(t, uc, CreateInput{ID: "R", Type: "T", Action: "done"})
	mustCreate(t, uc, CreateInput{ID: "P", Type: "T"})
	if _, err := uc.SubmitForApproval(context.Background(), "P"); err != nil {
		t.Fatalf("submit err: %v", err)
	}

	for id, state := range map[string]complaint.State{
		"A": complaint.StateActive,
		"R": complaint.StateResponded,
		"P": complaint.StatePendingApproval,
	} {
		if _, err := uc.Archive(context.Background(), id, state); err != nil {
			t.Fatalf("Archive(%s from %s) err: %v", id, state, err)
		}
	}
	if mem.Len(complaint.CollectionArchive) != 3 {
		t.Fatalf("archive len=%d, want 3", mem.Len(complaint.CollectionArchive))
	}
	if _, err := uc.Archive(context.Background(), "A", complaint.StateArchived); !errors.Is(err, complaint.ErrInvalidTransition) {
		t.Fatalf("archiving from archive must fail, got %v", err)
	}
}

func TestMutualExclusion_AcrossTransitions(t *testing.T) {
	uc, mem := newTestUsecase(t)
	mustCreate(t, uc, CreateInput{ID: "C1", Type: "T"})

	steps := []func() error{
		func() error { _, err := uc.Respond(context.Background(), "C1"); return err },
		func() error { _, err := uc.Reactivate(context.Background(), "C1"); return err },
		func() error { _, err := uc.SubmitForApproval(context.Background(), "C1"); return err },
		func() error { _, err := uc.Approve(context.Background(), "C1", "sig"); return err },
		func() error { _, err := uc.Archive(context.Background(), "C1", complaint.StateActive); return err },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d err: %v", i, err)
		}
		active := mem.Len(complaint.CollectionComplaints) +
			mem.Len(complaint.CollectionResponded) +
			mem.Len(complaint.CollectionPendingApproval)
		if active > 1 {
			t.Fatalf("after step %d the id is in %d active collections", i, active)
		}
	}
}

func TestApprovalRoundTrip_ReturnsToRecordedSource(t *testing.T) {
	uc, mem := newTestUsecase(t)
	mustCreate(t, uc, CreateInput{ID: "C100", Type: "Damaged", Notes: "box crushed"})

	sub, err := uc.SubmitForApproval(context.Background(), "C100")
	if err != nil {
		t.Fatalf("submit err: %v", err)
	}
	if sub.SourceCollection != complaint.CollectionComplaints {
		t.Fatalf("source=%s, want Complaints", sub.SourceCollection)
	}
	if sub.SubmittedAt == "" {
		t.Fatal("submitted_at must be set")
	}
	if mem.Len(complaint.CollectionComplaints) != 0 || mem.Len(complaint.CollectionPendingApproval) != 1 {
		t.Fatal("submit must move the row into pending")
	}

	// Re-submitting while pending is a state error, not a not-found.
	if _, err := uc.SubmitForApproval(context.Background(), "C100"); !errors.Is(err, complaint.ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}

	res, err := uc.Approve(context.Background(), "C100", "sig123")
	if err != nil {
		t.Fatalf("approve err: %v", err)
	}
	if res.State != complaint.StateActive {
		t.Fatalf("approved record must return to its source state, got %s", res.State)
	}
	if res.ApprovalSignature != "sig123" {
		t.Fatalf("signature=%q", res.ApprovalSignature)
	}
	if !strings.Contains(res.Action, "approved by manager") {
		t.Fatalf("approval note not appended: %q", res.Action)
	}
	if mem.Len(complaint.CollectionPendingApproval) != 0 {
		t.Fatal("pending must be empty after approve")
	}

	// The persisted row carries the signature too.
	got, err := uc.Search(context.Background(), "C100")
	if err != nil {
		t.Fatalf("search err: %v", err)
	}
	if got.State != complaint.StateActive || got.ApprovalSignature != "sig123" {
		t.Fatalf("persisted record: %+v", got.Result)
	}
}

func TestApprove_RequiresSignature(t *testing.T) {
	uc, _ := newTestUsecase(t)
	mustCreate(t, uc, CreateInput{ID: "C1", Type: "T"})
	if _, err := uc.SubmitForApproval(context.Background(), "C1"); err != nil {
		t.Fatalf("submit err: %v", err)
	}
	if _, err := uc.Approve(context.Background(), "C1", ""); !errors.Is(err, complaint.ErrSignatureRequired) {
		t.Fatalf("want ErrSignatureRequired, got %v", err)
	}
	if _, err := uc.Approve(context.Background(), "C1", "x"); err != nil {
		t.Fatalf("approve with signature err: %v", err)
	}
}

func TestApprove_DefaultsToRespondedWithoutSource(t *testing.T) {
	uc, mem := newTestUsecase(t)
	// A pending row written without the source cell (older variant).
	mem.Seed(complaint.CollectionPendingApproval, record.Row{"C1", "T", "", "", "2025-01-01 00:00:00", "", "", ""})

	res, err := uc.Approve(context.Background(), "C1", "sig")
	if err != nil {
		t.Fatalf("approve err: %v", err)
	}
	if res.State != complaint.StateResponded {
		t.Fatalf("missing source must default to responded, got %s", res.State)
	}
}

func TestReject_ArchivesWithNoteAndNoSignature(t *testing.T) {
	uc, mem := newTestUsecase(t)
	mustCreate(t, uc, CreateInput{ID: "C1", Type: "T", Action: "done"})
	if _, err := uc.SubmitForApproval(context.Background(), "C1"); err != nil {
		t.Fatalf("submit err: %v", err)
	}

	res, err := uc.Reject(context.Background(), "C1")
	if err != nil {
		t.Fatalf("reject err: %v", err)
	}
	if res.State != complaint.StateArchived {
		t.Fatalf("state=%s", res.State)
	}
	if !strings.Contains(res.RestoredMarker, "rejected by manager") {
		t.Fatalf("marker=%q", res.RestoredMarker)
	}
	if res.ApprovalSignature != "" {
		t.Fatal("rejection must not carry a signature")
	}
	if mem.Len(complaint.CollectionPendingApproval) != 0 || mem.Len(complaint.CollectionArchive) != 1 {
		t.Fatal("reject must move pending row into archive")
	}
}

func TestArchiveRestore_RoundTrip(t *testing.T) {
	uc, mem := newTestUsecase(t)
	mustCreate(t, uc, CreateInput{ID: "C200", Type: "Late", Notes: "original notes"})
	if _, err := uc.Archive(context.Background(), "C200", complaint.StateActive); err != nil {
		t.Fatalf("archive err: %v", err)
	}

	uc.now = func() time.Time { return time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC) }
	res, err := uc.Create(context.Background(), CreateInput{ID: "C200", Type: "Late", Notes: "new notes"})
	if err != nil {
		t.Fatalf("restoring create err: %v", err)
	}
	if !res.Restored {
		t.Fatal("expected a restore")
	}
	// Archived values win over the caller's input.
	if res.Notes != "original notes" {
		t.Fatalf("notes=%q, want archived value", res.Notes)
	}
	if res.RestoredMarker != complaint.RestoredMarker {
		t.Fatalf("marker=%q", res.RestoredMarker)
	}
	// created_at restarts on restore.
	if res.CreatedAt != "2025-07-01 08:00:00" {
		t.Fatalf("created_at=%q", res.CreatedAt)
	}
	if mem.Len(complaint.CollectionArchive) != 0 || mem.Len(complaint.CollectionComplaints) != 1 {
		t.Fatal("restore must move the row out of archive")
	}
}

func TestRestore_OverridesCallerType(t *testing.T) {
	uc, _ := newTestUsecase(t)
	mustCreate(t, uc, CreateInput{ID: "X", Type: "T2", Action: "a", OutboundAWB: "AWB9"})
	if _, err := uc.Archive(context.Background(), "X", complaint.StateResponded); err != nil {
		t.Fatalf("archive err: %v", err)
	}
	res, err := uc.Create(context.Background(), CreateInput{ID: "X", Type: "T1"})
	if err != nil {
		t.Fatalf("create err: %v", err)
	}
	if res.Type != "T2" || res.Action != "a" || res.OutboundAWB != "AWB9" {
		t.Fatalf("archived values must win: %+v", res.Complaint)
	}
	if res.State != complaint.StateActive {
		t.Fatalf("restores always land in active, got %s", res.State)
	}
}

func TestEdit_UpdatesInPlaceAndKeepsCreatedAt(t *testing.T) {
	uc, _ := newTestUsecase(t)
	mustCreate(t, uc, CreateInput{ID: "C1", Type: "T", Notes: "old"})

	notes := "new"
	awb := "AWB7"
	res, err := uc.Edit(context.Background(), "C1", complaint.StateActive, FieldUpdates{Notes: &notes, InboundAWB: &awb})
	if err != nil {
		t.Fatalf("edit err: %v", err)
	}
	if res.Notes != "new" || res.InboundAWB != "AWB7" {
		t.Fatalf("edit lost updates: %+v", res.Complaint)
	}

	got, err := uc.Search(context.Background(), "C1")
	if err != nil {
		t.Fatalf("search err: %v", err)
	}
	if got.Notes != "new" || got.CreatedAt != "2025-06-01 12:00:00" {
		t.Fatalf("persisted: %+v", got.Result)
	}
	if got.State != complaint.StateActive {
		t.Fatal("edit must not change state")
	}
}

func TestEdit_TypeMustBeConfiguredOrCurrent(t *testing.T) {
	uc, mem := newTestUsecase(t)
	mem.Seed(complaint.CollectionTypes, record.Row{"Damaged"})
	// Record created before "Legacy" was removed from the list.
	mem.Seed(complaint.CollectionComplaints, record.Row{"C1", "Legacy", "", "", "2025-01-01 00:00:00", "", "", ""})

	bad := "Bogus"
	if _, err := uc.Edit(context.Background(), "C1", complaint.StateActive, FieldUpdates{Type: &bad}); !errors.Is(err, complaint.ErrUnknownType) {
		t.Fatalf("want ErrUnknownType, got %v", err)
	}
	keep := "Legacy"
	if _, err := uc.Edit(context.Background(), "C1", complaint.StateActive, FieldUpdates{Type: &keep}); err != nil {
		t.Fatalf("keeping the current value must pass: %v", err)
	}
	ok := "Damaged"
	if _, err := uc.Edit(context.Background(), "C1", complaint.StateActive, FieldUpdates{Type: &ok}); err != nil {
		t.Fatalf("configured value must pass: %v", err)
	}
}

func TestDelete_IsPermanent(t *testing.T) {
	uc, mem := newTestUsecase(t)
	mustCreate(t, uc, CreateInput{ID: "C1", Type: "T"})
	if err := uc.Delete(context.Background(), "C1", complaint.StateActive); err != nil {
		t.Fatalf("delete err: %v", err)
	}
	if mem.Len(complaint.CollectionComplaints) != 0 {
		t.Fatal("row must be gone")
	}
	if _, err := uc.Search(context.Background(), "C1"); !errors.Is(err, complaint.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSearch_PrecedenceAndDuplicateDiagnostic(t *testing.T) {
	uc, mem := newTestUsecase(t)
	// The same id stranded in two collections, the aftermath of a
	// failed delete half.
	mem.Seed(complaint.CollectionResponded, record.Row{"C1", "T", "responded copy", "", "2025-01-01 00:00:00", "", "", ""})
	mem.Seed(complaint.CollectionArchive, record.Row{"C1", "T", "archived copy", "", "2025-01-01 00:00:00", "", "", ""})

	res, err := uc.Search(context.Background(), "C1")
	if err != nil {
		t.Fatalf("search err: %v", err)
	}
	if res.State != complaint.StateResponded || res.Notes != "responded copy" {
		t.Fatalf("precedence broken: %+v", res.Result)
	}
	if len(res.AlsoIn) != 1 || res.AlsoIn[0] != complaint.CollectionArchive {
		t.Fatalf("duplicate diagnostic missing: %v", res.AlsoIn)
	}
}

func TestPartialMove_DetectedAndLeavesBothCopies(t *testing.T) {
	mem := memstore.New()
	failing := &storemock.Store{
		ListRowsFn:  mem.ListRows,
		AppendRowFn: mem.AppendRow,
		DeleteRowFn: func(ctx context.Context, col record.Collection, pos record.Position) error {
			return &record.TransientError{Op: "delete", Err: errors.New("quota exceeded")}
		},
	}
	uc := NewUsecase(failing, zerolog.Nop())
	uc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	mem.Seed(complaint.CollectionComplaints, record.Row{"C1", "T", "", "", "2025-01-01 00:00:00", "", "", ""})

	_, err := uc.Archive(context.Background(), "C1", complaint.StateActive)
	if !errors.Is(err, record.ErrPartialMove) {
		t.Fatalf("want ErrPartialMove, got %v", err)
	}
	// The anomaly is detectable, not silently healed: both copies exist.
	if mem.Len(complaint.CollectionComplaints) != 1 || mem.Len(complaint.CollectionArchive) != 1 {
		t.Fatalf("complaints=%d archive=%d, want 1/1", mem.Len(complaint.CollectionComplaints), mem.Len(complaint.CollectionArchive))
	}
}

func TestTypes_ListsConfiguredValues(t *testing.T) {
	uc, mem := newTestUsecase(t)
	mem.Seed(complaint.CollectionTypes, record.Row{"Damaged"}, record.Row{""}, record.Row{"Late"})
	types, err := uc.Types(context.Background())
	if err != nil {
		t.Fatalf("types err: %v", err)
	}
	if len(types) != 2 || types[0] != "Damaged" || types[1] != "Late" {
		t.Fatalf("types=%v", types)
	}
}
