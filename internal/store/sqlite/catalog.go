package sqlite

import (
	"context"
	"fmt"

	"github.com/cacack/go-eventstore/internal/domain"
	"github.com/cacack/go-eventstore/internal/store"
)

// GetActiveSegments implements store.SegmentCatalog.GetActiveSegments.
func (s *Store) GetActiveSegments(ctx context.Context) ([]domain.Segment, error) {
	segments := s.table("archive_segments")
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT segment_id, min_position, max_position, file_name, status, stream_namespace FROM %s WHERE status = ?`, segments),
		int16(domain.SegmentActive))
	if err != nil {
		return nil, domain.WrapStorageError("list active segments", "", "", err)
	}
	defer rows.Close()

	var out []domain.Segment
	for rows.Next() {
		var seg domain.Segment
		var status int16
		if err := rows.Scan(&seg.SegmentID, &seg.MinPosition, &seg.MaxPosition, &seg.FileName, &status, &seg.StreamNamespace); err != nil {
			return nil, domain.WrapStorageError("list active segments", "", "", err)
		}
		seg.Status = domain.SegmentStatus(status)
		out = append(out, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapStorageError("list active segments", "", "", err)
	}
	return out, nil
}

// ListCandidateStreams implements store.ArchiveTransactor.ListCandidateStreams.
func (s *Store) ListCandidateStreams(ctx context.Context) ([]domain.StreamHeader, error) {
	streams := s.table("streams")
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT domain, stream_id, last_version, last_position, retention_mode, archive_cutoff_version, is_deleted, archived_at
		FROM %s
		WHERE (retention_mode IN (?, ?) AND archive_cutoff_version IS NOT NULL AND is_deleted = 0)
		   OR (retention_mode = ? AND is_deleted = 1)
	`, streams), int16(domain.ColdArchivable), int16(domain.FullHistory), int16(domain.HardDeletable))
	if err != nil {
		return nil, domain.WrapStorageError("list candidate streams", "", "", err)
	}
	defer rows.Close()

	var out []domain.StreamHeader
	for rows.Next() {
		h, err := scanStreamHeader(rows)
		if err != nil {
			return nil, domain.WrapStorageError("list candidate streams", "", "", err)
		}
		out = append(out, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapStorageError("list candidate streams", "", "", err)
	}
	return out, nil
}

// ReadUpToVersion implements store.ArchiveTransactor.ReadUpToVersion.
func (s *Store) ReadUpToVersion(ctx context.Context, domainName, streamID string, maxVersion int32) ([]domain.Envelope, error) {
	events := s.table("events")
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT global_position, stream_domain, stream_id, stream_version, stream_namespace, event_type, data, metadata, created_utc
		FROM %s
		WHERE stream_domain = ? AND stream_id = ? AND stream_version <= ?
		ORDER BY global_position ASC
	`, events), domainName, streamID, maxVersion)
	if err != nil {
		return nil, domain.WrapStorageError("read up to version", domainName, streamID, err)
	}
	defer rows.Close()

	envs, err := scanEnvelopes(rows)
	if err != nil {
		return nil, domain.WrapStorageError("read up to version", domainName, streamID, err)
	}
	return envs, nil
}

// CommitArchive implements store.ArchiveTransactor.CommitArchive: overlap
// check, file write, catalog insert, and optional hot-row pruning as one
// transaction.
func (s *Store) CommitArchive(ctx context.Context, req store.ArchiveRequest) (bool, error) {
	segments := s.table("archive_segments")
	events := s.table("events")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, domain.WrapStorageError("commit archive: begin tx", req.Domain, req.StreamID, err)
	}
	defer tx.Rollback()

	var existing int
	err = tx.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT COUNT(*) FROM %s WHERE status = ? AND min_position <= ? AND max_position >= ?`, segments),
		int16(domain.SegmentActive), req.MaxPosition, req.MinPosition,
	).Scan(&existing)
	if err != nil {
		return false, domain.WrapStorageError("commit archive: overlap check", req.Domain, req.StreamID, err)
	}
	if existing > 0 {
		return true, nil
	}

	fileName, err := req.WriteFile()
	if err != nil {
		return false, domain.WrapStorageError("commit archive: write file", req.Domain, req.StreamID, err)
	}

	_, err = tx.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (min_position, max_position, file_name, status, stream_namespace) VALUES (?, ?, ?, ?, ?)`, segments),
		req.MinPosition, req.MaxPosition, fileName, int16(domain.SegmentActive), req.Namespace)
	if err != nil {
		return false, domain.WrapStorageError("commit archive: insert segment", req.Domain, req.StreamID, err)
	}

	if req.Prune {
		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			`DELETE FROM %s WHERE stream_domain = ? AND stream_id = ? AND global_position <= ?`, events),
			req.Domain, req.StreamID, req.MaxPosition)
		if err != nil {
			return false, domain.WrapStorageError("commit archive: prune events", req.Domain, req.StreamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, domain.WrapStorageError("commit archive: commit", req.Domain, req.StreamID, err)
	}
	return false, nil
}

// HardDelete implements store.ArchiveTransactor.HardDelete.
func (s *Store) HardDelete(ctx context.Context, domainName, streamID string) error {
	events := s.table("events")
	streams := s.table("streams")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.WrapStorageError("hard delete: begin tx", domainName, streamID, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE stream_domain = ? AND stream_id = ?`, events), domainName, streamID); err != nil {
		return domain.WrapStorageError("hard delete: delete events", domainName, streamID, err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE domain = ? AND stream_id = ?`, streams), domainName, streamID); err != nil {
		return domain.WrapStorageError("hard delete: delete header", domainName, streamID, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapStorageError("hard delete: commit", domainName, streamID, err)
	}
	return nil
}
