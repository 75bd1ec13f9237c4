// Package store defines the dialect-neutral contracts for the hot event
// store, snapshot store, cutoff advancer, and archive-facing segment
// catalog. Concrete implementations live in the postgres and
// sqlite subpackages; both satisfy the same interfaces so callers never
// branch on dialect outside of wiring.
package store

import (
	"context"

	"github.com/cacack/go-eventstore/internal/domain"
)

// EventStore provides append-only storage for events, grouped into
// streams, with optimistic concurrency and a store-wide monotonic
// GlobalPosition.
type EventStore interface {
	// Append adds events to a stream under optimistic concurrency
	// control. expectedVersion = 0 means "create new". retentionMode is
	// consulted only when the stream header does not yet exist; nil
	// defers to the caller's configured RetentionPolicyProvider.
	//
	// Returns a *domain.ConcurrencyConflictError (wrapping
	// domain.ErrConcurrencyConflict) when expectedVersion doesn't match
	// the stream's current LastVersion, domain.ErrStreamDeleted when the
	// stream's header has IsDeleted = true, or a *domain.StorageError
	// for any other fault.
	Append(ctx context.Context, domainName, streamID string, expectedVersion int32, events []domain.AppendEvent, retentionMode *domain.RetentionMode) error

	// ReadStream returns up to maxCount envelopes in ascending Version
	// starting at fromVersionInclusive, optionally filtered by
	// namespace. Does not consult cold storage.
	ReadStream(ctx context.Context, domainName, streamID string, namespace *string, fromVersionInclusive int32, maxCount int) ([]domain.Envelope, error)

	// ReadAllForwards returns a lazy cursor over envelopes with
	// GlobalPosition > fromPositionExclusive, optionally filtered by
	// domain and/or namespace, paging internally in batchSize chunks.
	ReadAllForwards(ctx context.Context, domainFilter, namespaceFilter *string, fromPositionExclusive int64, batchSize int) domain.Cursor

	// GetStreamHeader returns the header for (domainName, streamID), or
	// (nil, nil) if no such stream exists.
	GetStreamHeader(ctx context.Context, domainName, streamID string) (*domain.StreamHeader, error)
}
