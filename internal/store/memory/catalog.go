package memory

import (
	"context"

	"github.com/cacack/go-eventstore/internal/domain"
	"github.com/cacack/go-eventstore/internal/store"
)

// GetActiveSegments implements store.SegmentCatalog.GetActiveSegments.
func (s *Store) GetActiveSegments(ctx context.Context) ([]domain.Segment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Segment
	for _, seg := range s.segments {
		if seg.Status == domain.SegmentActive {
			out = append(out, seg)
		}
	}
	return out, nil
}

// ListCandidateStreams implements store.ArchiveTransactor.ListCandidateStreams.
func (s *Store) ListCandidateStreams(ctx context.Context) ([]domain.StreamHeader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.StreamHeader
	for _, h := range s.headers {
		cold := (h.RetentionMode == domain.ColdArchivable || h.RetentionMode == domain.FullHistory) &&
			h.ArchiveCutoffVersion != nil && !h.IsDeleted
		hard := h.RetentionMode == domain.HardDeletable && h.IsDeleted
		if cold || hard {
			out = append(out, *h)
		}
	}
	return out, nil
}

// ReadUpToVersion implements store.ArchiveTransactor.ReadUpToVersion.
func (s *Store) ReadUpToVersion(ctx context.Context, domainName, streamID string, maxVersion int32) ([]domain.Envelope, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Envelope
	for _, e := range s.events {
		if e.Domain == domainName && e.StreamID == streamID && e.Version <= maxVersion {
			out = append(out, e)
		}
	}
	return out, nil
}

// CommitArchive implements store.ArchiveTransactor.CommitArchive.
func (s *Store) CommitArchive(ctx context.Context, req store.ArchiveRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, seg := range s.segments {
		if seg.Status == domain.SegmentActive && seg.MinPosition <= req.MaxPosition && seg.MaxPosition >= req.MinPosition {
			return true, nil
		}
	}

	fileName, err := req.WriteFile()
	if err != nil {
		return false, domain.WrapStorageError("commit archive: write file", req.Domain, req.StreamID, err)
	}

	s.nextSegID++
	ns := req.Namespace
	s.segments = append(s.segments, domain.Segment{
		SegmentID:       s.nextSegID,
		MinPosition:     req.MinPosition,
		MaxPosition:     req.MaxPosition,
		FileName:        fileName,
		Status:          domain.SegmentActive,
		StreamNamespace: ns,
	})

	if req.Prune {
		kept := s.events[:0]
		for _, e := range s.events {
			if e.Domain == req.Domain && e.StreamID == req.StreamID && e.GlobalPosition <= req.MaxPosition {
				continue
			}
			kept = append(kept, e)
		}
		s.events = kept
	}
	return false, nil
}

// HardDelete implements store.ArchiveTransactor.HardDelete.
func (s *Store) HardDelete(ctx context.Context, domainName, streamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[:0]
	for _, e := range s.events {
		if e.Domain == domainName && e.StreamID == streamID {
			continue
		}
		kept = append(kept, e)
	}
	s.events = kept
	delete(s.headers, streamKey{domainName, streamID})
	return nil
}

var (
	_ store.SnapshotStore     = (*Store)(nil)
	_ store.CutoffAdvancer    = (*Store)(nil)
	_ store.SegmentCatalog    = (*Store)(nil)
	_ store.ArchiveTransactor = (*Store)(nil)
	_ store.SchemaInitializer = (*Store)(nil)
)
