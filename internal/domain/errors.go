// Package domain contains the core types of the event store: events,
// stream headers, snapshots, and archive segments, plus the error kinds
// every storage backend surfaces.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Backends wrap these with context via fmt.Errorf's
// %w verb so callers can still errors.Is against the sentinel.
var (
	// ErrConcurrencyConflict is returned by Append when the caller's
	// expectedVersion does not match the stream's current LastVersion.
	ErrConcurrencyConflict = errors.New("eventstore: concurrency conflict")

	// ErrStreamDeleted is returned when an operation targets a stream
	// whose header has IsDeleted = true.
	ErrStreamDeleted = errors.New("eventstore: stream is deleted")

	// ErrStreamNotFound is the sentinel for a missing stream header. The
	// stores do not return it: GetStreamHeader reports a missing stream
	// as (nil, nil), and TryAdvance/MarkDeleted as (false, nil).
	ErrStreamNotFound = errors.New("eventstore: stream not found")

	// ErrSnapshotNotFound is the sentinel for a missing snapshot.
	// SnapshotStore.GetLatest does not return it: it reports a missing
	// snapshot as (nil, nil).
	ErrSnapshotNotFound = errors.New("eventstore: snapshot not found")

	// errSegmentOverlap is the internal segment-overlap signal. No store
	// or coordinator returns it: CommitArchive reports an
	// already-archived range through its skipped result, and the
	// coordinator turns that into a skipped stream.
	errSegmentOverlap = errors.New("eventstore: segment overlap")
)

// ErrSegmentOverlap returns the internal segment-overlap signal, the
// value IsSegmentOverlap recognizes.
func ErrSegmentOverlap() error { return errSegmentOverlap }

// IsSegmentOverlap reports whether err is (or wraps) the internal
// segment-overlap signal.
func IsSegmentOverlap(err error) bool { return errors.Is(err, errSegmentOverlap) }

// ConcurrencyConflictError carries the expected and actual stream version
// observed during Append, wrapping ErrConcurrencyConflict.
type ConcurrencyConflictError struct {
	Domain, StreamID string
	ExpectedVersion  int32
	ActualVersion    int32
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("eventstore: concurrency conflict on (%s, %s): expected version %d, actual %d",
		e.Domain, e.StreamID, e.ExpectedVersion, e.ActualVersion)
}

func (e *ConcurrencyConflictError) Unwrap() error { return ErrConcurrencyConflict }

// NewConcurrencyConflict builds a ConcurrencyConflictError.
func NewConcurrencyConflict(domainName, streamID string, expected, actual int32) error {
	return &ConcurrencyConflictError{
		Domain:          domainName,
		StreamID:        streamID,
		ExpectedVersion: expected,
		ActualVersion:   actual,
	}
}

// StorageError wraps a low-level database or filesystem fault with the
// operation, domain, and stream it occurred under.
type StorageError struct {
	Op       string
	Domain   string
	StreamID string
	Err      error
}

func (e *StorageError) Error() string {
	if e.Domain == "" && e.StreamID == "" {
		return fmt.Sprintf("eventstore: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("eventstore: %s (domain=%s stream=%s): %v", e.Op, e.Domain, e.StreamID, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// WrapStorageError wraps err, a database or filesystem fault, with
// structural context. Returns nil if err is nil, so callers can write
// `return WrapStorageError(...)` directly after a fallible call.
func WrapStorageError(op, domainName, streamID string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Domain: domainName, StreamID: streamID, Err: err}
}

// ValidationError reports that an identifier or store name failed a
// format rule (length or character-set). Raised at construction or at a
// call boundary, never deep inside a transaction.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("eventstore: validation: %s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
