package storecache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Notes591/complaints/internal/domain/record"
	"github.com/Notes591/complaints/internal/testutil/memstore"
	"github.com/Notes591/complaints/internal/testutil/storemock"
)

func newTestCache(t *testing.T, inner record.Store) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(inner, rdb, time.Minute, zerolog.Nop()), mr
}

func TestListRows_ReadThroughCachesSnapshot(t *testing.T) {
	calls := 0
	mem := memstore.New()
	mem.Seed("Complaints", record.Row{"C1", "T"})
	counting := &storemock.Store{
		ListRowsFn: func(ctx context.Context, col record.Collection) ([]record.Row, error) {
			calls++
			return mem.ListRows(ctx, col)
		},
	}
	s, mr := newTestCache(t, counting)

	for i := 0; i < 3; i++ {
		rows, err := s.ListRows(context.Background(), "Complaints")
		if err != nil {
			t.Fatalf("ListRows err: %v", err)
		}
		if len(rows) != 1 || rows[0][0] != "C1" {
			t.Fatalf("rows=%v", rows)
		}
	}
	if calls != 1 {
		t.Fatalf("backing store hit %d times, want 1", calls)
	}
	if !mr.Exists("sheet:snapshot:Complaints") {
		t.Fatal("snapshot key missing")
	}
}

func TestWrites_InvalidateSnapshot(t *testing.T) {
	mem := memstore.New()
	s, mr := newTestCache(t, mem)

	if _, err := s.AppendRow(context.Background(), "Complaints", record.Row{"C1"}); err != nil {
		t.Fatalf("append err: %v", err)
	}
	if _, err := s.ListRows(context.Background(), "Complaints"); err != nil {
		t.Fatalf("list err: %v", err)
	}
	if !mr.Exists("sheet:snapshot:Complaints") {
		t.Fatal("snapshot not populated")
	}

	if err := s.UpdateCells(context.Background(), "Complaints", record.FirstDataRow, map[int]string{1: "edited"}); err != nil {
		t.Fatalf("update err: %v", err)
	}
	if mr.Exists("sheet:snapshot:Complaints") {
		t.Fatal("write must drop the snapshot")
	}

	// The next read sees the write, not a stale snapshot.
	rows, err := s.ListRows(context.Background(), "Complaints")
	if err != nil {
		t.Fatalf("list err: %v", err)
	}
	if len(rows) != 1 || len(rows[0]) < 2 || rows[0][1] != "edited" {
		t.Fatalf("rows=%v", rows)
	}
}

func TestDeleteRow_InvalidatesOnlyOnSuccess(t *testing.T) {
	mem := memstore.New()
	mem.Seed("Complaints", record.Row{"C1"})
	s, mr := newTestCache(t, mem)

	if _, err := s.ListRows(context.Background(), "Complaints"); err != nil {
		t.Fatalf("list err: %v", err)
	}

	if err := s.DeleteRow(context.Background(), "Complaints", 99); !errors.Is(err, record.ErrRowNotFound) {
		t.Fatalf("want ErrRowNotFound, got %v", err)
	}
	if !mr.Exists("sheet:snapshot:Complaints") {
		t.Fatal("failed delete must not invalidate")
	}

	if err := s.DeleteRow(context.Background(), "Complaints", record.FirstDataRow); err != nil {
		t.Fatalf("delete err: %v", err)
	}
	if mr.Exists("sheet:snapshot:Complaints") {
		t.Fatal("successful delete must invalidate")
	}
}

func TestListRows_UnreadableSnapshotFallsThrough(t *testing.T) {
	mem := memstore.New()
	mem.Seed("Complaints", record.Row{"C1"})
	s, mr := newTestCache(t, mem)

	mr.Set("sheet:snapshot:Complaints", "not json")

	rows, err := s.ListRows(context.Background(), "Complaints")
	if err != nil {
		t.Fatalf("list err: %v", err)
	}
	if len(rows) != 1 || rows[0][0] != "C1" {
		t.Fatalf("rows=%v", rows)
	}
}

func TestSnapshot_ExpiresWithTTL(t *testing.T) {
	calls := 0
	counting := &storemock.Store{
		ListRowsFn: func(ctx context.Context, col record.Collection) ([]record.Row, error) {
			calls++
			return []record.Row{{"C1"}}, nil
		},
	}
	s, mr := newTestCache(t, counting)

	if _, err := s.ListRows(context.Background(), "Complaints"); err != nil {
		t.Fatalf("list err: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := s.ListRows(context.Background(), "Complaints"); err != nil {
		t.Fatalf("list err: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls=%d, want 2 after expiry", calls)
	}
}
