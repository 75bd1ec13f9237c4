package store

import (
	"context"

	"github.com/cacack/go-eventstore/internal/domain"
)

// SegmentCatalog exposes the small, frequently-read set of active archive
// segments. Callers may cache per operation but must not
// cache across operations — a background archiver can add segments at
// any time.
type SegmentCatalog interface {
	GetActiveSegments(ctx context.Context) ([]domain.Segment, error)
}

// ArchiveRequest describes one stream's archival step to ArchiveTransactor.
// WriteFile is invoked by the transactor, after the overlap check passes
// and before the catalog row is inserted, to produce the durable NDJSON
// file and return its relative name; this preserves the invariant that
// the file is always at least as recent as its catalog record, without
// making file I/O part of the SQL transaction itself.
type ArchiveRequest struct {
	Domain      string
	StreamID    string
	MinPosition int64
	MaxPosition int64
	Namespace   *string
	Prune       bool
	WriteFile   func() (fileName string, err error)
}

// ArchiveTransactor is the dialect-specific surface the archive
// coordinator drives: candidate enumeration, bounded stream reads,
// and the transactional commit of one segment.
type ArchiveTransactor interface {
	// ListCandidateStreams returns stream headers matching either
	// ((ColdArchivable|FullHistory) AND ArchiveCutoffVersion IS NOT NULL
	// AND NOT IsDeleted) or (HardDeletable AND IsDeleted).
	ListCandidateStreams(ctx context.Context) ([]domain.StreamHeader, error)

	// ReadUpToVersion returns events for (domainName, streamID) with
	// Version <= maxVersion, ordered by GlobalPosition ascending.
	ReadUpToVersion(ctx context.Context, domainName, streamID string, maxVersion int32) ([]domain.Envelope, error)

	// CommitArchive runs the transactional core of ArchiveAndPrune /
	// ArchivePreserving: overlap check, WriteFile callback, catalog
	// insert, and (if req.Prune) hot-row deletion, as a single
	// transaction. skipped=true means a prior run already archived this
	// range and no write occurred.
	CommitArchive(ctx context.Context, req ArchiveRequest) (skipped bool, err error)

	// HardDelete deletes all events for (domainName, streamID) and then
	// the stream header itself, in one transaction. No file is written,
	// no segment is recorded.
	HardDelete(ctx context.Context, domainName, streamID string) error
}

// SchemaInitializer creates the four persisted tables and their indexes
// if absent. Idempotent.
type SchemaInitializer interface {
	EnsureSchema(ctx context.Context) error
}
