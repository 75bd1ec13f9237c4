package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cacack/go-eventstore/internal/domain"
)

// Append implements store.EventStore.Append. The stream
// header row is locked with SELECT ... FOR UPDATE when it exists; a
// brand-new header is protected by the primary key on (domain, stream_id)
// instead.
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

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.WrapStorageError("append: begin tx", domainName, streamID, err)
	}
	defer tx.Rollback()

	streams := s.table("streams")
	events_ := s.table("events")

	var currentVersion int32
	var isDeleted bool
	row := tx.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT last_version, is_deleted FROM %s WHERE domain = $1 AND stream_id = $2 FOR UPDATE`, streams),
		domainName, streamID)
	switch err := row.Scan(&currentVersion, &isDeleted); {
	case errors.Is(err, sql.ErrNoRows):
		mode := s.resolveRetentionMode(domainName, retentionMode)
		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			`INSERT INTO %s (domain, stream_id, last_version, last_position, retention_mode, is_deleted) VALUES ($1, $2, 0, 0, $3, FALSE)`, streams),
			domainName, streamID, int16(mode))
		if err != nil {
			return domain.WrapStorageError("append: create stream header", domainName, streamID, err)
		}
		currentVersion = 0
	case err != nil:
		return domain.WrapStorageError("append: lock stream header", domainName, streamID, err)
	}

	if isDeleted {
		return domain.ErrStreamDeleted
	}
	if expectedVersion != currentVersion {
		return domain.NewConcurrencyConflict(domainName, streamID, expectedVersion, currentVersion)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (stream_domain, stream_id, stream_version, stream_namespace, event_type, data, metadata, created_utc)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING global_position
	`, events_))
	if err != nil {
		return domain.WrapStorageError("append: prepare insert", domainName, streamID, err)
	}
	defer stmt.Close()

	var maxPosition int64
	version := currentVersion
	for _, e := range events {
		version++
		var position int64
		if err := stmt.QueryRowContext(ctx,
			domainName, streamID, version, e.Namespace, e.EventType, e.Data, nullableBytes(e.Metadata), nowUTC(),
		).Scan(&position); err != nil {
			return domain.WrapStorageError("append: insert event", domainName, streamID, err)
		}
		maxPosition = position
	}

	_, err = tx.ExecContext(ctx, fmt.Sprintf(
		`UPDATE %s SET last_version = $1, last_position = $2 WHERE domain = $3 AND stream_id = $4`, streams),
		version, maxPosition, domainName, streamID)
	if err != nil {
		return domain.WrapStorageError("append: update stream header", domainName, streamID, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapStorageError("append: commit", domainName, streamID, err)
	}
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
	events := s.table("events")
	query := fmt.Sprintf(`
		SELECT global_position, stream_domain, stream_id, stream_version, stream_namespace, event_type, data, metadata, created_utc
		FROM %s
		WHERE stream_domain = $1 AND stream_id = $2 AND stream_version >= $3
	`, events)
	args := []any{domainName, streamID, fromVersionInclusive}
	if namespace != nil {
		query += " AND stream_namespace = $4 ORDER BY stream_version ASC LIMIT $5"
		args = append(args, *namespace, maxCount)
	} else {
		query += " ORDER BY stream_version ASC LIMIT $4"
		args = append(args, maxCount)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.WrapStorageError("read stream", domainName, streamID, err)
	}
	defer rows.Close()

	envs, err := scanEnvelopes(rows)
	if err != nil {
		return nil, domain.WrapStorageError("read stream", domainName, streamID, err)
	}
	return envs, nil
}

// GetStreamHeader implements store.EventStore.GetStreamHeader.
func (s *Store) GetStreamHeader(ctx context.Context, domainName, streamID string) (*domain.StreamHeader, error) {
	streams := s.table("streams")
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT domain, stream_id, last_version, last_position, retention_mode, archive_cutoff_version, is_deleted, archived_at FROM %s WHERE domain = $1 AND stream_id = $2`, streams),
		domainName, streamID)

	h, err := scanStreamHeader(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.WrapStorageError("get stream header", domainName, streamID, err)
	}
	return h, nil
}
