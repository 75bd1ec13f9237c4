package archive_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cacack/go-eventstore/internal/archive"
	"github.com/cacack/go-eventstore/internal/domain"
	"github.com/cacack/go-eventstore/internal/store/memory"
)

func appendN(t *testing.T, s *memory.Store, domainName, streamID string, n int, mode *domain.RetentionMode) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		if err := s.Append(ctx, domainName, streamID, int32(i), []domain.AppendEvent{
			{EventType: "Tick", Data: []byte("{}")},
		}, mode); err != nil {
			t.Fatalf("append event %d: %v", i, err)
		}
	}
}

func TestCoordinator_ColdArchivablePrune(t *testing.T) {
	dir := t.TempDir()
	s := memory.New(nil)
	ctx := context.Background()

	mode := domain.ColdArchivable
	appendN(t, s, "Orders", "order-1", 10, &mode)

	if err := s.Save(ctx, domain.Snapshot{StreamID: "order-1", StreamVersion: 5, Data: []byte("{}"), CreatedUTC: time.Now().UTC()}); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	if _, err := s.TryAdvance(ctx, "Orders", "order-1", 5); err != nil {
		t.Fatalf("advance cutoff: %v", err)
	}

	fs := archive.NewFileStore(dir)
	coord := archive.NewCoordinator(s, fs, nil)
	if err := coord.Archive(ctx); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	events, err := s.ReadStream(ctx, "Orders", "order-1", nil, 0, 100)
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if len(events) != 5 {
		t.Fatalf("len(events) = %d, want 5 remaining after prune", len(events))
	}
	if events[0].Version != 6 {
		t.Errorf("first remaining version = %d, want 6", events[0].Version)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read archive dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 archive file, got %d", len(entries))
	}
}

func TestCoordinator_FullHistoryPreserve(t *testing.T) {
	dir := t.TempDir()
	s := memory.New(nil)
	ctx := context.Background()

	mode := domain.FullHistory
	appendN(t, s, "Orders", "order-2", 10, &mode)
	if _, err := s.TryAdvance(ctx, "Orders", "order-2", 10); err != nil {
		t.Fatalf("advance cutoff: %v", err)
	}

	fs := archive.NewFileStore(dir)
	coord := archive.NewCoordinator(s, fs, nil)
	if err := coord.Archive(ctx); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	events, err := s.ReadStream(ctx, "Orders", "order-2", nil, 0, 100)
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if len(events) != 10 {
		t.Fatalf("len(events) = %d, want 10 (preserved)", len(events))
	}

	cur, err := fs.ReadAllForwards(0)
	if err != nil {
		t.Fatalf("read cold forwards: %v", err)
	}
	cold, err := domain.Drain(ctx, cur)
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(cold) != 10 {
		t.Fatalf("len(cold) = %d, want 10", len(cold))
	}
}

func TestCoordinator_HardDeletable(t *testing.T) {
	dir := t.TempDir()
	s := memory.New(nil)
	ctx := context.Background()

	mode := domain.HardDeletable
	appendN(t, s, "Orders", "order-3", 10, &mode)
	if ok, err := s.MarkDeleted(ctx, "Orders", "order-3"); err != nil || !ok {
		t.Fatalf("mark deleted precondition: ok=%v err=%v", ok, err)
	}

	fs := archive.NewFileStore(dir)
	coord := archive.NewCoordinator(s, fs, nil)
	if err := coord.Archive(ctx); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	header, err := s.GetStreamHeader(ctx, "Orders", "order-3")
	if err != nil {
		t.Fatalf("get header: %v", err)
	}
	if header != nil {
		t.Fatalf("expected header to be gone, got %+v", header)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read archive dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no archive file for hard delete, got %d", len(entries))
	}
}

func TestCoordinator_Archive_IsIdempotent(t *testing.T) {
	dir := t.TempDir()
	s := memory.New(nil)
	ctx := context.Background()

	mode := domain.ColdArchivable
	appendN(t, s, "Orders", "order-4", 10, &mode)
	if _, err := s.TryAdvance(ctx, "Orders", "order-4", 5); err != nil {
		t.Fatalf("advance cutoff: %v", err)
	}

	fs := archive.NewFileStore(dir)
	coord := archive.NewCoordinator(s, fs, nil)
	if err := coord.Archive(ctx); err != nil {
		t.Fatalf("first Archive() error = %v", err)
	}
	firstEntries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read archive dir: %v", err)
	}

	if err := coord.Archive(ctx); err != nil {
		t.Fatalf("second Archive() error = %v", err)
	}
	secondEntries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read archive dir: %v", err)
	}

	if len(firstEntries) != len(secondEntries) {
		t.Fatalf("file count changed across idempotent calls: %d vs %d", len(firstEntries), len(secondEntries))
	}
}
