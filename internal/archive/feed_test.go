package archive_test

import (
	"context"
	"testing"

	"github.com/cacack/go-eventstore/internal/archive"
	"github.com/cacack/go-eventstore/internal/domain"
	"github.com/cacack/go-eventstore/internal/store/memory"
)

func TestFeed_MergesColdAndHot(t *testing.T) {
	dir := t.TempDir()
	s := memory.New(nil)
	ctx := context.Background()

	mode := domain.ColdArchivable
	appendN(t, s, "Orders", "order-1", 10, &mode)

	if _, err := s.TryAdvance(ctx, "Orders", "order-1", 5); err != nil {
		t.Fatalf("advance cutoff: %v", err)
	}

	fs := archive.NewFileStore(dir)
	coord := archive.NewCoordinator(s, fs, nil)
	if err := coord.Archive(ctx); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	feed := archive.NewFeed(s, s, fs)
	cur, err := feed.ReadAllForwards(ctx, 0, 100)
	if err != nil {
		t.Fatalf("ReadAllForwards() error = %v", err)
	}
	events, err := domain.Drain(ctx, cur)
	if err != nil {
		t.Fatalf("drain: %v", err)
	}

	if len(events) != 10 {
		t.Fatalf("len(events) = %d, want 10", len(events))
	}
	var prevPos int64
	for i, e := range events {
		if e.GlobalPosition <= prevPos {
			t.Fatalf("events not strictly increasing at index %d: %d <= %d", i, e.GlobalPosition, prevPos)
		}
		prevPos = e.GlobalPosition
		if e.Version != int32(i+1) {
			t.Errorf("events[%d].Version = %d, want %d", i, e.Version, i+1)
		}
	}
}

func TestFeed_FiltersUnsegmentedColdEvents(t *testing.T) {
	dir := t.TempDir()
	s := memory.New(nil)
	ctx := context.Background()

	fs := archive.NewFileStore(dir)

	// Write a stray segment file with no corresponding catalog row: the
	// feed must discard these events entirely.
	stray := []domain.Envelope{
		{GlobalPosition: 100, Domain: "Orders", StreamID: "stray", Version: 1, EventType: "Stray", Data: []byte("x")},
	}
	if _, err := fs.WriteSegment(stray, 100, 100); err != nil {
		t.Fatalf("write stray segment: %v", err)
	}

	if err := s.Append(ctx, "Orders", "order-5", 0, []domain.AppendEvent{
		{EventType: "Real", Data: []byte("{}")},
	}, nil); err != nil {
		t.Fatalf("append: %v", err)
	}

	feed := archive.NewFeed(s, s, fs)
	cur, err := feed.ReadAllForwards(ctx, 0, 100)
	if err != nil {
		t.Fatalf("ReadAllForwards() error = %v", err)
	}
	events, err := domain.Drain(ctx, cur)
	if err != nil {
		t.Fatalf("drain: %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1 (stray cold event filtered out)", len(events))
	}
	if events[0].StreamID != "order-5" {
		t.Errorf("events[0].StreamID = %q, want order-5", events[0].StreamID)
	}
}
