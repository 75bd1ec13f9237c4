package memory

import (
	"context"

	"github.com/cacack/go-eventstore/internal/domain"
)

// Save implements store.SnapshotStore.Save.
func (s *Store) Save(ctx context.Context, snapshot domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshot.StreamID] = snapshot
	return nil
}

// GetLatest implements store.SnapshotStore.GetLatest.
func (s *Store) GetLatest(ctx context.Context, streamID string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[streamID]
	if !ok {
		return nil, nil
	}
	copied := snap
	return &copied, nil
}

// TryAdvance implements store.CutoffAdvancer.TryAdvance.
func (s *Store) TryAdvance(ctx context.Context, domainName, streamID string, newCutoff int32) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.headers[streamKey{domainName, streamID}]
	if !ok {
		return false, nil
	}
	if h.ArchiveCutoffVersion != nil && *h.ArchiveCutoffVersion >= newCutoff {
		return false, nil
	}
	cutoff := newCutoff
	h.ArchiveCutoffVersion = &cutoff
	return true, nil
}

// MarkDeleted implements store.CutoffAdvancer.MarkDeleted.
func (s *Store) MarkDeleted(ctx context.Context, domainName, streamID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.headers[streamKey{domainName, streamID}]
	if !ok {
		return false, nil
	}
	h.IsDeleted = true
	return true, nil
}
