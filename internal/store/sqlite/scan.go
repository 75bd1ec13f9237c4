package sqlite

import (
	"database/sql"
	"time"

	"github.com/cacack/go-eventstore/internal/domain"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEnvelope(r rowScanner) (domain.Envelope, error) {
	var e domain.Envelope
	var metadata []byte
	var createdUTC string
	if err := r.Scan(
		&e.GlobalPosition, &e.Domain, &e.StreamID, &e.Version, &e.Namespace,
		&e.EventType, &e.Data, &metadata, &createdUTC,
	); err != nil {
		return domain.Envelope{}, err
	}
	e.Metadata = metadata
	ts, err := time.Parse(time.RFC3339Nano, createdUTC)
	if err != nil {
		return domain.Envelope{}, err
	}
	e.CreatedUTC = ts.UTC()
	return e, nil
}

func scanEnvelopes(rows *sql.Rows) ([]domain.Envelope, error) {
	var out []domain.Envelope
	for rows.Next() {
		e, err := scanEnvelope(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanStreamHeader(r rowScanner) (*domain.StreamHeader, error) {
	var h domain.StreamHeader
	var retentionMode int16
	var isDeleted int
	var archivedAt sql.NullString
	if err := r.Scan(
		&h.Domain, &h.StreamID, &h.LastVersion, &h.LastPosition,
		&retentionMode, &h.ArchiveCutoffVersion, &isDeleted, &archivedAt,
	); err != nil {
		return nil, err
	}
	h.RetentionMode = domain.RetentionMode(retentionMode)
	h.IsDeleted = isDeleted != 0
	if archivedAt.Valid {
		ts, err := time.Parse(time.RFC3339Nano, archivedAt.String)
		if err == nil {
			utc := ts.UTC()
			h.ArchivedAt = &utc
		}
	}
	return &h, nil
}
