package postgres

import (
	"context"
	"fmt"

	"github.com/cacack/go-eventstore/internal/domain"
)

// ReadAllForwards implements store.EventStore.ReadAllForwards as a paging
// cursor over the hot events table. It refills its
// internal buffer with batchSize rows at a time, advancing fromPosition
// past the last row it has returned.
func (s *Store) ReadAllForwards(ctx context.Context, domainFilter, namespaceFilter *string, fromPositionExclusive int64, batchSize int) domain.Cursor {
	if batchSize <= 0 {
		batchSize = 256
	}
	return &forwardCursor{
		store:        s,
		domainFilter: domainFilter,
		nsFilter:     namespaceFilter,
		nextFrom:     fromPositionExclusive,
		batchSize:    batchSize,
	}
}

type forwardCursor struct {
	store        *Store
	domainFilter *string
	nsFilter     *string
	nextFrom     int64
	batchSize    int

	buf     []domain.Envelope
	idx     int
	current domain.Envelope
	err     error
	done    bool
}

func (c *forwardCursor) Next(ctx context.Context) bool {
	if c.err != nil || c.done {
		return false
	}
	if err := ctx.Err(); err != nil {
		c.err = err
		return false
	}
	if c.idx >= len(c.buf) {
		if err := c.fill(ctx); err != nil {
			c.err = err
			return false
		}
		if len(c.buf) == 0 {
			c.done = true
			return false
		}
		c.idx = 0
	}
	c.current = c.buf[c.idx]
	c.idx++
	c.nextFrom = c.current.GlobalPosition
	return true
}

func (c *forwardCursor) fill(ctx context.Context) error {
	events := c.store.table("events")
	query := fmt.Sprintf(`
		SELECT global_position, stream_domain, stream_id, stream_version, stream_namespace, event_type, data, metadata, created_utc
		FROM %s WHERE global_position > $1
	`, events)
	args := []any{c.nextFrom}
	n := 2
	if c.domainFilter != nil {
		query += fmt.Sprintf(" AND stream_domain = $%d", n)
		args = append(args, *c.domainFilter)
		n++
	}
	if c.nsFilter != nil {
		query += fmt.Sprintf(" AND stream_namespace = $%d", n)
		args = append(args, *c.nsFilter)
		n++
	}
	query += fmt.Sprintf(" ORDER BY global_position ASC LIMIT $%d", n)
	args = append(args, c.batchSize)

	rows, err := c.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.WrapStorageError("read all forwards", "", "", err)
	}
	defer rows.Close()

	envs, err := scanEnvelopes(rows)
	if err != nil {
		return domain.WrapStorageError("read all forwards", "", "", err)
	}
	c.buf = envs
	return nil
}

func (c *forwardCursor) Envelope() domain.Envelope { return c.current }
func (c *forwardCursor) Err() error                { return c.err }
func (c *forwardCursor) Close() error              { return nil }

var _ domain.Cursor = (*forwardCursor)(nil)
