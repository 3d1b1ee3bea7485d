// Package storecache is a read-through snapshot cache over a
// record.Store. Snapshots are a performance optimization only: every
// local write invalidates the touched collection, and the short TTL
// bounds how stale a snapshot can get relative to other processes
// writing the same backing table. Cached data is never authoritative.
package storecache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Notes591/complaints/internal/domain/record"
)

const DefaultTTL = 60 * time.Second

type Store struct {
	inner record.Store
	rdb   *redis.Client
	ttl   time.Duration
	log   zerolog.Logger
}

func New(inner record.Store, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{inner: inner, rdb: rdb, ttl: ttl, log: log}
}

func snapshotKey(col record.Collection) string { return "sheet:snapshot:" + string(col) }

func (s *Store) ListRows(ctx context.Context, col record.Collection) ([]record.Row, error) {
	if raw, err := s.rdb.Get(ctx, snapshotKey(col)).Bytes(); err == nil {
		var rows [][]string
		if json.Unmarshal(raw, &rows) == nil {
			out := make([]record.Row, len(rows))
			for i, r := range rows {
				out[i] = record.Row(r)
			}
			return out, nil
		}
		// Unreadable snapshot: drop it and fall through.
		_ = s.rdb.Del(ctx, snapshotKey(col)).Err()
	}

	rows, err := s.inner.ListRows(ctx, col)
	if err != nil {
		return nil, err
	}
	if raw, merr := json.Marshal(rows); merr == nil {
		if cerr := s.rdb.Set(ctx, snapshotKey(col), raw, s.ttl).Err(); cerr != nil {
			s.log.Debug().Err(cerr).Str("collection", string(col)).Msg("snapshot cache write failed")
		}
	}
	return rows, nil
}

func (s *Store) AppendRow(ctx context.Context, col record.Collection, row record.Row) (record.Position, error) {
	pos, err := s.inner.AppendRow(ctx, col, row)
	if err == nil {
		s.invalidate(ctx, col)
	}
	return pos, err
}

func (s *Store) UpdateCells(ctx context.Context, col record.Collection, pos record.Position, cells map[int]string) error {
	err := s.inner.UpdateCells(ctx, col, pos, cells)
	if err == nil {
		s.invalidate(ctx, col)
	}
	return err
}

func (s *Store) DeleteRow(ctx context.Context, col record.Collection, pos record.Position) error {
	err := s.inner.DeleteRow(ctx, col, pos)
	if err == nil {
		s.invalidate(ctx, col)
	}
	return err
}

// invalidate must never mask a successful write; a failed DEL only costs
// staleness until the TTL runs out.
func (s *Store) invalidate(ctx context.Context, col record.Collection) {
	if err := s.rdb.Del(context.WithoutCancel(ctx), snapshotKey(col)).Err(); err != nil {
		s.log.Warn().Err(err).Str("collection", string(col)).Msg("snapshot invalidation failed")
	}
}
