// Package memory provides a single in-memory implementation of every
// store interface, for unit tests that want a fast, dependency-free
// double instead of a real database.
package memory

import (
	"context"
	"sync"

	"github.com/cacack/go-eventstore/internal/domain"
	"github.com/cacack/go-eventstore/internal/store"
)

type streamKey struct {
	domain   string
	streamID string
}

// Store is an in-memory implementation of store.EventStore,
// store.SnapshotStore, store.CutoffAdvancer, store.SegmentCatalog, and
// store.ArchiveTransactor, backed by a single mutex-guarded event log.
type Store struct {
	mu        sync.RWMutex
	events    []domain.Envelope
	headers   map[streamKey]*domain.StreamHeader
	snapshots map[string]domain.Snapshot
	segments  []domain.Segment
	policy    *domain.RetentionPolicyProvider
	nextPos   int64
	nextSegID int64
}

// New creates an empty in-memory store. policy may be nil.
func New(policy *domain.RetentionPolicyProvider) *Store {
	return &Store{
		headers:   make(map[streamKey]*domain.StreamHeader),
		snapshots: make(map[string]domain.Snapshot),
		policy:    policy,
	}
}

// EnsureSchema is a no-op: the in-memory store has no schema to create.
func (s *Store) EnsureSchema(ctx context.Context) error { return nil }

// Append implements store.EventStore.Append.
func (s *Store) Append(ctx context.Context, domainName, streamID string, expectedVersion int32, events []domain.AppendEvent, retentionMode *domain.RetentionMode) error {
	if len(events) == 0 {
		return nil
	}
	if err := domain.ValidateStreamRef(domainName, streamID); err != nil {
		return err
	}
	for _, e := range events {
		if err := e.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := streamKey{domainName, streamID}
	header, exists := s.headers[key]
	if !exists {
		mode := s.resolveRetentionMode(domainName, retentionMode)
		header = &domain.StreamHeader{Domain: domainName, StreamID: streamID, RetentionMode: mode}
		s.headers[key] = header
	}
	if header.IsDeleted {
		return domain.ErrStreamDeleted
	}
	if expectedVersion != header.LastVersion {
		return domain.NewConcurrencyConflict(domainName, streamID, expectedVersion, header.LastVersion)
	}

	version := header.LastVersion
	for _, e := range events {
		version++
		s.nextPos++
		s.events = append(s.events, domain.Envelope{
			GlobalPosition: s.nextPos,
			Domain:         domainName,
			StreamID:       streamID,
			Version:        version,
			Namespace:      e.Namespace,
			EventType:      e.EventType,
			Data:           e.Data,
			Metadata:       e.Metadata,
			CreatedUTC:     nowUTC(),
		})
	}
	header.LastVersion = version
	header.LastPosition = s.nextPos
	return nil
}

func (s *Store) resolveRetentionMode(domainName string, explicit *domain.RetentionMode) domain.RetentionMode {
	if explicit != nil {
		return *explicit
	}
	if s.policy != nil {
		return s.policy.Resolve(domainName)
	}
	return domain.Default
}

// ReadStream implements store.EventStore.ReadStream.
func (s *Store) ReadStream(ctx context.Context, domainName, streamID string, namespace *string, fromVersionInclusive int32, maxCount int) ([]domain.Envelope, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Envelope
	for _, e := range s.events {
		if e.Domain != domainName || e.StreamID != streamID || e.Version < fromVersionInclusive {
			continue
		}
		if namespace != nil && e.Namespace != *namespace {
			continue
		}
		out = append(out, e)
		if len(out) >= maxCount {
			break
		}
	}
	return out, nil
}

// ReadAllForwards implements store.EventStore.ReadAllForwards.
func (s *Store) ReadAllForwards(ctx context.Context, domainFilter, namespaceFilter *string, fromPositionExclusive int64, batchSize int) domain.Cursor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Envelope
	for _, e := range s.events {
		if e.GlobalPosition <= fromPositionExclusive {
			continue
		}
		if domainFilter != nil && e.Domain != *domainFilter {
			continue
		}
		if namespaceFilter != nil && e.Namespace != *namespaceFilter {
			continue
		}
		out = append(out, e)
	}
	return domain.NewSliceCursor(out)
}

// GetStreamHeader implements store.EventStore.GetStreamHeader.
func (s *Store) GetStreamHeader(ctx context.Context, domainName, streamID string) (*domain.StreamHeader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.headers[streamKey{domainName, streamID}]
	if !ok {
		return nil, nil
	}
	copied := *h
	return &copied, nil
}

var _ store.EventStore = (*Store)(nil)
