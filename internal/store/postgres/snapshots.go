package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cacack/go-eventstore/internal/domain"
)

// Save implements store.SnapshotStore.Save: one snapshot per StreamID,
// upserted. Snapshots are keyed by StreamID alone rather than
// (Domain, StreamID); callers using the same StreamID across domains
// share a snapshot row.
func (s *Store) Save(ctx context.Context, snapshot domain.Snapshot) error {
	snapshots := s.table("snapshots")
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %[1]s (stream_id, stream_version, data, created_utc)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (stream_id) DO UPDATE SET
			stream_version = EXCLUDED.stream_version,
			data = EXCLUDED.data,
			created_utc = EXCLUDED.created_utc
	`, snapshots), snapshot.StreamID, snapshot.StreamVersion, snapshot.Data, snapshot.CreatedUTC.UTC())
	if err != nil {
		return domain.WrapStorageError("save snapshot", "", snapshot.StreamID, err)
	}
	return nil
}

// GetLatest implements store.SnapshotStore.GetLatest.
func (s *Store) GetLatest(ctx context.Context, streamID string) (*domain.Snapshot, error) {
	snapshots := s.table("snapshots")
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT stream_id, stream_version, data, created_utc FROM %s WHERE stream_id = $1`, snapshots),
		streamID)

	var snap domain.Snapshot
	switch err := row.Scan(&snap.StreamID, &snap.StreamVersion, &snap.Data, &snap.CreatedUTC); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, domain.WrapStorageError("get latest snapshot", "", streamID, err)
	}
	snap.CreatedUTC = snap.CreatedUTC.UTC()
	return &snap, nil
}
