// Package snapshot implements the snapshot coordinator: the thin
// "save a snapshot and advance the archive cutoff" operation.
package snapshot

import (
	"context"
	"fmt"

	"github.com/cacack/go-eventstore/internal/domain"
	"github.com/cacack/go-eventstore/internal/store"
)

// Coordinator composes a store.SnapshotStore and a store.CutoffAdvancer
// into a single snapshot-then-advance-cutoff operation.
type Coordinator struct {
	snapshots store.SnapshotStore
	cutoffs   store.CutoffAdvancer
}

// NewCoordinator builds a Coordinator over the given snapshot store and
// cutoff advancer, which are typically the same dialect Store value.
func NewCoordinator(snapshots store.SnapshotStore, cutoffs store.CutoffAdvancer) *Coordinator {
	return &Coordinator{snapshots: snapshots, cutoffs: cutoffs}
}

// SaveSnapshotAndAdvanceCutoff saves a snapshot at (streamID, version,
// data) and then advances the stream's archive cutoff to version.
// The two steps are not jointly transactional: if the
// cutoff advance fails after a successful save, the stream simply keeps
// its old cutoff and the archiver evicts nothing new — safe, and
// retryable by calling this again. Callers must never pass a version
// greater than the stream's current LastVersion.
func (c *Coordinator) SaveSnapshotAndAdvanceCutoff(ctx context.Context, domainName, streamID string, version int32, data []byte) error {
	snap := domain.Snapshot{
		StreamID:      streamID,
		StreamVersion: version,
		Data:          data,
		CreatedUTC:    nowUTC(),
	}
	if err := c.snapshots.Save(ctx, snap); err != nil {
		return fmt.Errorf("snapshot: save: %w", err)
	}
	if _, err := c.cutoffs.TryAdvance(ctx, domainName, streamID, version); err != nil {
		return fmt.Errorf("snapshot: advance cutoff: %w", err)
	}
	return nil
}
