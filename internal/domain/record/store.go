package record

import (
	"context"
	"errors"
	"fmt"
)

// Collection names a worksheet-style table in the backing store.
type Collection string

// Row is one ordered line of cells. Trailing cells may be absent on short
// rows; decoders pad with empty strings instead of failing.
type Row []string

// Position is a 1-based sheet row number. Row 1 is the header; data rows
// start at 2. Deleting a row shifts every later row up by one.
type Position int

// FirstDataRow is the position of the first non-header row.
const FirstDataRow Position = 2

var ErrRowNotFound = errors.New("record: row not found")

// TransientError marks a storage failure (network, quota) that is safe to
// retry. Anything not wrapped in TransientError is treated as permanent.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string { return "record: " + e.Op + ": " + e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err came from a retryable storage failure.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// Store is the row-level contract the lifecycle logic needs from the
// backing table. Implementations own durability and ordering; retries are
// layered on top (see adapter/storeretry), never done here.
type Store interface {
	// ListRows returns all data rows of the collection in insertion
	// order, header excluded.
	ListRows(ctx context.Context, col Collection) ([]Row, error)

	// AppendRow adds row at the end and returns its position. A success
	// return guarantees the row is visible to subsequent ListRows.
	AppendRow(ctx context.Context, col Collection, row Row) (Position, error)

	// UpdateCells partially updates the row at pos; keys are 0-based cell
	// indexes. Missing rows fail with ErrRowNotFound, transient I/O with
	// TransientError.
	UpdateCells(ctx context.Context, col Collection, pos Position, cells map[int]string) error

	// DeleteRow removes exactly one row; later rows shift up by one.
	DeleteRow(ctx context.Context, col Collection, pos Position) error
}

var ErrPartialMove = errors.New("record: partial move")

// MoveError reports the one failure mode of the move protocol that leaves
// the table in a detectable anomalous state: the destination append
// succeeded but the source delete failed, so the row now exists in both
// collections and needs manual reconciliation.
type MoveError struct {
	Src Collection
	Dst Collection
	Pos Position
	Err error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("record: moved row to %s but delete from %s (row %d) failed: %v", e.Dst, e.Src, e.Pos, e.Err)
}

func (e *MoveError) Unwrap() error { return e.Err }

func (e *MoveError) Is(target error) bool { return target == ErrPartialMove }

// Move runs the copy-then-delete protocol: append row to dst, and only
// after the append is confirmed delete pos from src. An append failure
// aborts the move with the source untouched. A delete failure after a
// successful append returns a MoveError so callers can surface the
// duplicate instead of retrying the whole move (which would create a
// second one).
func Move(ctx context.Context, s Store, src Collection, pos Position, dst Collection, row Row) error {
	if _, err := s.AppendRow(ctx, dst, row); err != nil {
		return err
	}
	// The append is durable at this point; run the delete even if the
	// caller's request was abandoned so the duplicate is not stranded.
	if err := s.DeleteRow(context.WithoutCancel(ctx), src, pos); err != nil {
		return &MoveError{Src: src, Dst: dst, Pos: pos, Err: err}
	}
	return nil
}
