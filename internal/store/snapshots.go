package store

import (
	"context"

	"github.com/cacack/go-eventstore/internal/domain"
)

// SnapshotStore provides latest-per-StreamID snapshot storage.
type SnapshotStore interface {
	// Save upserts a snapshot by StreamID: at most one snapshot is kept
	// per stream.
	Save(ctx context.Context, snapshot domain.Snapshot) error

	// GetLatest returns the snapshot for streamID, or (nil, nil) if none
	// has been saved.
	GetLatest(ctx context.Context, streamID string) (*domain.Snapshot, error)
}

// CutoffAdvancer monotonically advances the ArchiveCutoffVersion of a
// stream header — the sole gate on what the archive coordinator may
// evict.
type CutoffAdvancer interface {
	// TryAdvance sets ArchiveCutoffVersion = newCutoff only if it is
	// currently NULL or strictly less than newCutoff, in a single
	// conditional UPDATE. Returns true iff a row was updated.
	TryAdvance(ctx context.Context, domainName, streamID string, newCutoff int32) (bool, error)

	// MarkDeleted sets IsDeleted = true on the stream header, the
	// precondition the archive coordinator checks before running
	// HardDelete against a HardDeletable stream. A no-op, returning
	// (false, nil), if the stream doesn't exist.
	MarkDeleted(ctx context.Context, domainName, streamID string) (bool, error)
}
