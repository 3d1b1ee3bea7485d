// Package memstore is an in-memory record.Store with worksheet
// semantics, used by usecase tests in place of the real backing table.
package memstore

import (
	"context"
	"sync"

	"github.com/Notes591/complaints/internal/domain/record"
)

type Store struct {
	mu   sync.Mutex
	data map[record.Collection][]record.Row
}

func New() *Store {
	return &Store{data: map[record.Collection][]record.Row{}}
}

// Seed replaces the collection's data rows.
func (s *Store) Seed(col record.Collection, rows ...record.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[col] = append([]record.Row(nil), rows...)
}

// Len reports the number of data rows in the collection.
func (s *Store) Len(col record.Collection) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data[col])
}

func (s *Store) ListRows(ctx context.Context, col record.Collection) ([]record.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]record.Row, len(s.data[col]))
	for i, row := range s.data[col] {
		out[i] = append(record.Row(nil), row...)
	}
	return out, nil
}

func (s *Store) AppendRow(ctx context.Context, col record.Collection, row record.Row) (record.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[col] = append(s.data[col], append(record.Row(nil), row...))
	return record.FirstDataRow + record.Position(len(s.data[col])-1), nil
}

func (s *Store) UpdateCells(ctx context.Context, col record.Collection, pos record.Position, cells map[int]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := int(pos - record.FirstDataRow)
	rows := s.data[col]
	if i < 0 || i >= len(rows) {
		return record.ErrRowNotFound
	}
	row := rows[i]
	for idx, val := range cells {
		for len(row) <= idx {
			row = append(row, "")
		}
		row[idx] = val
	}
	rows[i] = row
	return nil
}

func (s *Store) DeleteRow(ctx context.Context, col record.Collection, pos record.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := int(pos - record.FirstDataRow)
	rows := s.data[col]
	if i < 0 || i >= len(rows) {
		return record.ErrRowNotFound
	}
	s.data[col] = append(rows[:i], rows[i+1:]...)
	return nil
}
