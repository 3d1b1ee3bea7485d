package storemock

import (
	"context"
	"errors"

	"github.com/Notes591/complaints/internal/domain/record"
)

// Store is a function-backed mock that satisfies record.Store. Set only
// the hooks a test needs; unset hooks fail loudly.
type Store struct {
	ListRowsFn    func(ctx context.Context, col record.Collection) ([]record.Row, error)
	AppendRowFn   func(ctx context.Context, col record.Collection, row record.Row) (record.Position, error)
	UpdateCellsFn func(ctx context.Context, col record.Collection, pos record.Position, cells map[int]string) error
	DeleteRowFn   func(ctx context.Context, col record.Collection, pos record.Position) error
}

var errNotImplemented = errors.New("storemock: not implemented")

func (m *Store) ListRows(ctx context.Context, col record.Collection) ([]record.Row, error) {
	if m.ListRowsFn != nil {
		return m.ListRowsFn(ctx, col)
	}
	return nil, errNotImplemented
}

func (m *Store) AppendRow(ctx context.Context, col record.Collection, row record.Row) (record.Position, error) {
	if m.AppendRowFn != nil {
		return m.AppendRowFn(ctx, col, row)
	}
	return 0, errNotImplemented
}

func (m *Store) UpdateCells(ctx context.Context, col record.Collection, pos record.Position, cells map[int]string) error {
	if m.UpdateCellsFn != nil {
		return m.UpdateCellsFn(ctx, col, pos, cells)
	}
	return errNotImplemented
}

func (m *Store) DeleteRow(ctx context.Context, col record.Collection, pos record.Position) error {
	if m.DeleteRowFn != nil {
		return m.DeleteRowFn(ctx, col, pos)
	}
	return errNotImplemented
}
