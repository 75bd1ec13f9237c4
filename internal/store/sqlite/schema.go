package sqlite

import (
	"context"
	"fmt"

	"github.com/cacack/go-eventstore/internal/domain"
)

// EnsureSchema creates the four tables and their indexes if absent.
// Idempotent. Table names are prefixed by s.storeName so
// multiple logical stores can share one database file.
//
// global_position is declared INTEGER PRIMARY KEY AUTOINCREMENT so SQLite
// treats it as an alias for the rowid and never hands out a value again,
// even after the highest rows are pruned or hard-deleted; Append reads it
// back via sql.Result.LastInsertId instead of a RETURNING clause, matching
// the driver's native idiom.
func (s *Store) EnsureSchema(ctx context.Context) error {
	events := s.table("events")
	streams := s.table("streams")
	snapshots := s.table("snapshots")
	segments := s.table("archive_segments")

	stmt := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			global_position  INTEGER PRIMARY KEY AUTOINCREMENT,
			stream_domain    TEXT NOT NULL,
			stream_id        TEXT NOT NULL,
			stream_version   INTEGER NOT NULL,
			stream_namespace TEXT NOT NULL,
			event_type       TEXT NOT NULL,
			data             BLOB NOT NULL,
			metadata         BLOB,
			created_utc      TEXT NOT NULL,
			UNIQUE (stream_domain, stream_id, stream_version)
		);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_stream_id ON %[1]s (stream_id);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_namespace ON %[1]s (stream_namespace);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_domain ON %[1]s (stream_domain);

		CREATE TABLE IF NOT EXISTS %[2]s (
			domain                 TEXT NOT NULL,
			stream_id              TEXT NOT NULL,
			last_version           INTEGER NOT NULL,
			last_position          INTEGER NOT NULL,
			archived_at            TEXT,
			archive_cutoff_version INTEGER,
			retention_mode         INTEGER NOT NULL,
			is_deleted             INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (domain, stream_id)
		);
		CREATE INDEX IF NOT EXISTS idx_%[2]s_retention ON %[2]s (retention_mode, is_deleted, archive_cutoff_version);

		CREATE TABLE IF NOT EXISTS %[3]s (
			stream_id      TEXT PRIMARY KEY,
			stream_version INTEGER NOT NULL,
			data           BLOB NOT NULL,
			created_utc    TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS %[4]s (
			segment_id       INTEGER PRIMARY KEY,
			min_position     INTEGER NOT NULL,
			max_position     INTEGER NOT NULL,
			file_name        TEXT NOT NULL,
			status           INTEGER NOT NULL,
			stream_namespace TEXT,
			UNIQUE (min_position, max_position)
		);
	`, events, streams, snapshots, segments)

	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return domain.WrapStorageError("ensure schema", "", "", err)
	}
	return nil
}
