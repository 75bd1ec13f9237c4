package domain

import "context"

// Cursor is a pull iterator over a lazy, finite sequence of envelopes.
// Every ReadAll* operation (hot forward reads, cold forward
// reads, the combined feed) returns one. Cancellation is checked at each
// Next call.
//
// Usage mirrors database/sql.Rows:
//
//	for cur.Next(ctx) {
//	    env := cur.Envelope()
//	}
//	if err := cur.Err(); err != nil { ... }
type Cursor interface {
	// Next advances the cursor. It returns false when the sequence is
	// exhausted or ctx is done; callers must check Err afterward.
	Next(ctx context.Context) bool
	// Envelope returns the envelope at the current position. Valid only
	// after a Next call that returned true.
	Envelope() Envelope
	// Err returns the first error encountered, including ctx.Err() if
	// cancellation stopped iteration early.
	Err() error
	// Close releases any resources (rows, file handles) held by the
	// cursor. Safe to call multiple times.
	Close() error
}

// SliceCursor adapts a pre-materialized slice of envelopes to the Cursor
// interface. Used by the in-memory store's ReadAllForwards and by tests.
type SliceCursor struct {
	envelopes []Envelope
	pos       int
	err       error
}

// NewSliceCursor wraps envelopes as a Cursor.
func NewSliceCursor(envelopes []Envelope) *SliceCursor {
	return &SliceCursor{envelopes: envelopes, pos: -1}
}

func (c *SliceCursor) Next(ctx context.Context) bool {
	if c.err != nil {
		return false
	}
	if err := ctx.Err(); err != nil {
		c.err = err
		return false
	}
	if c.pos+1 >= len(c.envelopes) {
		return false
	}
	c.pos++
	return true
}

func (c *SliceCursor) Envelope() Envelope {
	return c.envelopes[c.pos]
}

func (c *SliceCursor) Err() error { return c.err }

func (c *SliceCursor) Close() error { return nil }

// Drain exhausts a cursor into a slice. Intended for tests and for small,
// bounded reads where the caller wants a plain slice.
func Drain(ctx context.Context, cur Cursor) ([]Envelope, error) {
	defer cur.Close()
	var out []Envelope
	for cur.Next(ctx) {
		out = append(out, cur.Envelope())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
