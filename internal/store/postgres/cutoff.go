package postgres

import (
	"context"
	"fmt"

	"github.com/cacack/go-eventstore/internal/domain"
)

// TryAdvance implements store.CutoffAdvancer.TryAdvance: the
// cutoff only ever moves forward, in one conditional UPDATE.
func (s *Store) TryAdvance(ctx context.Context, domainName, streamID string, newCutoff int32) (bool, error) {
	streams := s.table("streams")
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE %s SET archive_cutoff_version = $1
		WHERE domain = $2 AND stream_id = $3
		  AND (archive_cutoff_version IS NULL OR archive_cutoff_version < $1)
	`, streams), newCutoff, domainName, streamID)
	if err != nil {
		return false, domain.WrapStorageError("advance cutoff", domainName, streamID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.WrapStorageError("advance cutoff", domainName, streamID, err)
	}
	return n > 0, nil
}

// MarkDeleted implements store.CutoffAdvancer.MarkDeleted.
func (s *Store) MarkDeleted(ctx context.Context, domainName, streamID string) (bool, error) {
	streams := s.table("streams")
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE %s SET is_deleted = TRUE WHERE domain = $1 AND stream_id = $2
	`, streams), domainName, streamID)
	if err != nil {
		return false, domain.WrapStorageError("mark deleted", domainName, streamID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.WrapStorageError("mark deleted", domainName, streamID, err)
	}
	return n > 0, nil
}
