package postgres

import (
	"database/sql"
	"time"

	"github.com/cacack/go-eventstore/internal/domain"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

func nullableBytes(b []byte) any {
	if b == nil {
		return nil
	}
	return b
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEnvelope(r rowScanner) (domain.Envelope, error) {
	var e domain.Envelope
	var metadata []byte
	if err := r.Scan(
		&e.GlobalPosition, &e.Domain, &e.StreamID, &e.Version, &e.Namespace,
		&e.EventType, &e.Data, &metadata, &e.CreatedUTC,
	); err != nil {
		return domain.Envelope{}, err
	}
	e.Metadata = metadata
	e.CreatedUTC = e.CreatedUTC.UTC()
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
	if err := r.Scan(
		&h.Domain, &h.StreamID, &h.LastVersion, &h.LastPosition,
		&retentionMode, &h.ArchiveCutoffVersion, &h.IsDeleted, &h.ArchivedAt,
	); err != nil {
		return nil, err
	}
	h.RetentionMode = domain.RetentionMode(retentionMode)
	return &h, nil
}
