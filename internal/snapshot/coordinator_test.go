package snapshot_test

import (
	"context"
	"testing"

	"github.com/cacack/go-eventstore/internal/domain"
	"github.com/cacack/go-eventstore/internal/snapshot"
	"github.com/cacack/go-eventstore/internal/store/memory"
)

func TestCoordinator_SaveSnapshotAndAdvanceCutoff(t *testing.T) {
	s := memory.New(nil)
	ctx := context.Background()

	if err := s.Append(ctx, "Orders", "order-1", 0, []domain.AppendEvent{
		{EventType: "A", Data: []byte("{}")},
		{EventType: "B", Data: []byte("{}")},
		{EventType: "C", Data: []byte("{}")},
	}, nil); err != nil {
		t.Fatalf("append: %v", err)
	}

	coord := snapshot.NewCoordinator(s, s)
	if err := coord.SaveSnapshotAndAdvanceCutoff(ctx, "Orders", "order-1", 2, []byte(`{"count":2}`)); err != nil {
		t.Fatalf("SaveSnapshotAndAdvanceCutoff() error = %v", err)
	}

	snap, err := s.GetLatest(ctx, "order-1")
	if err != nil {
		t.Fatalf("GetLatest() error = %v", err)
	}
	if snap == nil || snap.StreamVersion != 2 {
		t.Fatalf("snapshot = %+v, want StreamVersion 2", snap)
	}

	header, err := s.GetStreamHeader(ctx, "Orders", "order-1")
	if err != nil {
		t.Fatalf("GetStreamHeader() error = %v", err)
	}
	if header.ArchiveCutoffVersion == nil || *header.ArchiveCutoffVersion != 2 {
		t.Fatalf("ArchiveCutoffVersion = %v, want 2", header.ArchiveCutoffVersion)
	}
}

func TestCoordinator_CutoffAdvanceFailureLeavesSnapshotIntact(t *testing.T) {
	s := memory.New(nil)
	ctx := context.Background()

	if err := s.Append(ctx, "Orders", "order-2", 0, []domain.AppendEvent{
		{EventType: "A", Data: []byte("{}")},
	}, nil); err != nil {
		t.Fatalf("append: %v", err)
	}

	coord := snapshot.NewCoordinator(s, s)
	if err := coord.SaveSnapshotAndAdvanceCutoff(ctx, "Orders", "order-2", 1, []byte(`{}`)); err != nil {
		t.Fatalf("first call error = %v", err)
	}

	// Calling again with a version that is not above the current cutoff
	// is a safe no-op on the cutoff side: TryAdvance simply declines, the
	// snapshot is still overwritten (Save always upserts), and no error is
	// returned.
	if err := coord.SaveSnapshotAndAdvanceCutoff(ctx, "Orders", "order-2", 1, []byte(`{"updated":true}`)); err != nil {
		t.Fatalf("second call error = %v", err)
	}

	header, err := s.GetStreamHeader(ctx, "Orders", "order-2")
	if err != nil {
		t.Fatalf("GetStreamHeader() error = %v", err)
	}
	if header.ArchiveCutoffVersion == nil || *header.ArchiveCutoffVersion != 1 {
		t.Fatalf("ArchiveCutoffVersion = %v, want 1 (unchanged)", header.ArchiveCutoffVersion)
	}

	snap, err := s.GetLatest(ctx, "order-2")
	if err != nil {
		t.Fatalf("GetLatest() error = %v", err)
	}
	if snap == nil || string(snap.Data) != `{"updated":true}` {
		t.Fatalf("snapshot = %+v, want the second call's data", snap)
	}
}
