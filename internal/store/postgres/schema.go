package postgres

import (
	"context"
	"fmt"

	"github.com/cacack/go-eventstore/internal/domain"
)

// EnsureSchema creates the four tables and their indexes if absent.
// Idempotent. Table names are prefixed by s.storeName so
// multiple logical stores can share one database.
func (s *Store) EnsureSchema(ctx context.Context) error {
	events := s.table("events")
	streams := s.table("streams")
	snapshots := s.table("snapshots")
	segments := s.table("archive_segments")

	stmt := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			global_position  BIGSERIAL PRIMARY KEY,
			stream_domain    VARCHAR(64) NOT NULL,
			stream_id        VARCHAR(200) NOT NULL,
			stream_version   INTEGER NOT NULL,
			stream_namespace VARCHAR(200) NOT NULL,
			event_type       VARCHAR(200) NOT NULL,
			data             BYTEA NOT NULL,
			metadata         BYTEA,
			created_utc      TIMESTAMPTZ NOT NULL,
			UNIQUE (stream_domain, stream_id, stream_version)
		);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_stream_id ON %[1]s (stream_id);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_namespace ON %[1]s (stream_namespace);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_domain ON %[1]s (stream_domain);

		CREATE TABLE IF NOT EXISTS %[2]s (
			domain                 VARCHAR(64) NOT NULL,
			stream_id              VARCHAR(200) NOT NULL,
			last_version           INTEGER NOT NULL,
			last_position          BIGINT NOT NULL,
			archived_at            TIMESTAMPTZ,
			archive_cutoff_version INTEGER,
			retention_mode         SMALLINT NOT NULL,
			is_deleted             BOOLEAN NOT NULL DEFAULT FALSE,
			PRIMARY KEY (domain, stream_id)
		);
		CREATE INDEX IF NOT EXISTS idx_%[2]s_retention ON %[2]s (retention_mode, is_deleted, archive_cutoff_version);

		CREATE TABLE IF NOT EXISTS %[3]s (
			stream_id      VARCHAR(200) PRIMARY KEY,
			stream_version INTEGER NOT NULL,
			data           BYTEA NOT NULL,
			created_utc    TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS %[4]s (
			segment_id       BIGSERIAL PRIMARY KEY,
			min_position      BIGINT NOT NULL,
			max_position      BIGINT NOT NULL,
			file_name         TEXT NOT NULL,
			status            SMALLINT NOT NULL,
			stream_namespace  VARCHAR(200),
			UNIQUE (min_position, max_position)
		);
	`, events, streams, snapshots, segments)

	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return domain.WrapStorageError("ensure schema", "", "", err)
	}
	return nil
}
