// Package storeretry wraps a record.Store with a single uniform retry
// policy, replacing the per-call-site retry loops the original tool
// copy-pasted around every sheet operation.
package storeretry

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Notes591/complaints/internal/domain/record"
)

// Defaults match the observed policy: up to five attempts, one second
// apart, no backoff growth.
const (
	DefaultAttempts = 5
	DefaultDelay    = time.Second
)

type Store struct {
	inner    record.Store
	attempts int
	delay    time.Duration
	log      zerolog.Logger
}

func New(inner record.Store, attempts int, delay time.Duration, log zerolog.Logger) *Store {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Store{inner: inner, attempts: attempts, delay: delay, log: log}
}

// do retries fn while it keeps failing transiently. Permanent errors
// (row not found, bad data) pass through on the first attempt.
func (s *Store) do(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		err = fn()
		if err == nil || !record.IsTransient(err) {
			return err
		}
		if attempt == s.attempts {
			break
		}
		s.log.Warn().Str("op", op).Int("attempt", attempt).Err(err).Msg("storage call failed, retrying")
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (s *Store) ListRows(ctx context.Context, col record.Collection) ([]record.Row, error) {
	var rows []record.Row
	err := s.do(ctx, "list "+string(col), func() error {
		var e error
		rows, e = s.inner.ListRows(ctx, col)
		return e
	})
	return rows, err
}

func (s *Store) AppendRow(ctx context.Context, col record.Collection, row record.Row) (record.Position, error) {
	var pos record.Position
	err := s.do(ctx, "append "+string(col), func() error {
		var e error
		pos, e = s.inner.AppendRow(ctx, col, row)
		return e
	})
	return pos, err
}

func (s *Store) UpdateCells(ctx context.Context, col record.Collection, pos record.Position, cells map[int]string) error {
	return s.do(ctx, "update "+string(col), func() error {
		return s.inner.UpdateCells(ctx, col, pos, cells)
	})
}

func (s *Store) DeleteRow(ctx context.Context, col record.Collection, pos record.Position) error {
	return s.do(ctx, "delete "+string(col), func() error {
		return s.inner.DeleteRow(ctx, col, pos)
	})
}
