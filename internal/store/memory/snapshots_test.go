package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/cacack/go-eventstore/internal/domain"
	"github.com/cacack/go-eventstore/internal/store/memory"
)

func TestStore_SaveAndGetLatestSnapshot(t *testing.T) {
	s := memory.New(nil)
	ctx := context.Background()

	snap := domain.Snapshot{
		StreamID:      "order-1",
		StreamVersion: 5,
		Data:          []byte(`{"total":42}`),
		CreatedUTC:    time.Now().UTC(),
	}
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.GetLatest(ctx, "order-1")
	if err != nil {
		t.Fatalf("GetLatest() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetLatest() returned nil, want a snapshot")
	}
	if got.StreamVersion != 5 {
		t.Errorf("StreamVersion = %d, want 5", got.StreamVersion)
	}
}

func TestStore_GetLatestSnapshot_NotFound(t *testing.T) {
	s := memory.New(nil)
	ctx := context.Background()

	got, err := s.GetLatest(ctx, "missing")
	if err != nil {
		t.Fatalf("GetLatest() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetLatest() = %v, want nil", got)
	}
}

func TestStore_SaveSnapshot_OverwritesPrior(t *testing.T) {
	s := memory.New(nil)
	ctx := context.Background()

	if err := s.Save(ctx, domain.Snapshot{StreamID: "order-1", StreamVersion: 3, Data: []byte(`{}`), CreatedUTC: time.Now().UTC()}); err != nil {
		t.Fatalf("Save() first snapshot error = %v", err)
	}
	if err := s.Save(ctx, domain.Snapshot{StreamID: "order-1", StreamVersion: 9, Data: []byte(`{}`), CreatedUTC: time.Now().UTC()}); err != nil {
		t.Fatalf("Save() second snapshot error = %v", err)
	}

	got, err := s.GetLatest(ctx, "order-1")
	if err != nil {
		t.Fatalf("GetLatest() error = %v", err)
	}
	if got.StreamVersion != 9 {
		t.Errorf("StreamVersion = %d, want 9 (latest overwrite)", got.StreamVersion)
	}
}

func TestStore_TryAdvance(t *testing.T) {
	s := memory.New(nil)
	ctx := context.Background()

	if err := s.Append(ctx, "Orders", "order-1", 0, []domain.AppendEvent{
		{EventType: "OrderPlaced", Data: []byte(`{}`)},
	}, nil); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	ok, err := s.TryAdvance(ctx, "Orders", "order-1", 1)
	if err != nil {
		t.Fatalf("TryAdvance() error = %v", err)
	}
	if !ok {
		t.Error("TryAdvance() first call = false, want true")
	}

	ok, err = s.TryAdvance(ctx, "Orders", "order-1", 1)
	if err != nil {
		t.Fatalf("TryAdvance() error = %v", err)
	}
	if ok {
		t.Error("TryAdvance() with same cutoff = true, want false (no-op)")
	}

	ok, err = s.TryAdvance(ctx, "Orders", "order-1", 0)
	if err != nil {
		t.Fatalf("TryAdvance() error = %v", err)
	}
	if ok {
		t.Error("TryAdvance() with lower cutoff = true, want false (forward-only)")
	}
}

func TestStore_TryAdvance_UnknownStream(t *testing.T) {
	s := memory.New(nil)
	ctx := context.Background()

	ok, err := s.TryAdvance(ctx, "Orders", "missing", 1)
	if err != nil {
		t.Fatalf("TryAdvance() error = %v", err)
	}
	if ok {
		t.Error("TryAdvance() on unknown stream = true, want false")
	}
}
