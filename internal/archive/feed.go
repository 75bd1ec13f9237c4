package archive

import (
	"context"
	"fmt"

	"github.com/cacack/go-eventstore/internal/domain"
	"github.com/cacack/go-eventstore/internal/store"
)

// Feed is the combined event feed: it merges the cold archive with
// the hot event store into one globally-ordered, duplicate-free
// sequence.
type Feed struct {
	eventStore store.EventStore
	catalog    store.SegmentCatalog
	fileStore  *FileStore
}

// NewFeed builds a Feed over eventStore (hot) and fileStore (cold),
// using catalog to determine which cold positions are authoritative.
func NewFeed(eventStore store.EventStore, catalog store.SegmentCatalog, fileStore *FileStore) *Feed {
	return &Feed{eventStore: eventStore, catalog: catalog, fileStore: fileStore}
}

// ReadAllForwards produces the merged sequence: a snapshot of active
// segments filters the cold stream to only
// positions the catalog still considers authoritative, the hot stream
// starts at fromExclusive, and the two are merged by GlobalPosition with
// cold winning ties.
func (f *Feed) ReadAllForwards(ctx context.Context, fromExclusive int64, batchSize int) (domain.Cursor, error) {
	segments, err := f.catalog.GetActiveSegments(ctx)
	if err != nil {
		return nil, fmt.Errorf("archive: feed: get active segments: %w", err)
	}

	coldCur, err := f.fileStore.ReadAllForwards(fromExclusive)
	if err != nil {
		return nil, fmt.Errorf("archive: feed: read cold forwards: %w", err)
	}
	filteredCold := &segmentFilterCursor{inner: coldCur, segments: segments}

	hotCur := f.eventStore.ReadAllForwards(ctx, nil, nil, fromExclusive, batchSize)

	return newMergeCursor(filteredCold, hotCur), nil
}

// segmentFilterCursor wraps a cold FileCursor and discards any envelope
// whose GlobalPosition isn't covered by an active segment — events read
// from a file whose catalog record has since been retired or was never
// recorded.
type segmentFilterCursor struct {
	inner    *FileCursor
	segments []domain.Segment
	current  domain.Envelope
	err      error
}

func (c *segmentFilterCursor) covered(pos int64) bool {
	for _, seg := range c.segments {
		if seg.Status == domain.SegmentActive && seg.MinPosition <= pos && seg.MaxPosition >= pos {
			return true
		}
	}
	return false
}

func (c *segmentFilterCursor) Next(ctx context.Context) bool {
	if c.err != nil {
		return false
	}
	for c.inner.Next(ctx) {
		env := c.inner.Envelope()
		if c.covered(env.GlobalPosition) {
			c.current = env
			return true
		}
	}
	c.err = c.inner.Err()
	return false
}

func (c *segmentFilterCursor) Envelope() domain.Envelope { return c.current }
func (c *segmentFilterCursor) Err() error                { return c.err }
func (c *segmentFilterCursor) Close() error              { return c.inner.Close() }

// mergeCursor merges a cold and a hot domain.Cursor by GlobalPosition
// ascending, emitting cold first on a tie.
type mergeCursor struct {
	cold, hot domain.Cursor

	coldOK, hotOK   bool
	coldEnv, hotEnv domain.Envelope
	started         bool
	current         domain.Envelope
	err             error
}

func newMergeCursor(cold, hot domain.Cursor) *mergeCursor {
	return &mergeCursor{cold: cold, hot: hot}
}

func (m *mergeCursor) Next(ctx context.Context) bool {
	if m.err != nil {
		return false
	}
	if !m.started {
		m.coldOK = m.cold.Next(ctx)
		if !m.coldOK {
			if err := m.cold.Err(); err != nil {
				m.err = err
				return false
			}
		} else {
			m.coldEnv = m.cold.Envelope()
		}
		m.hotOK = m.hot.Next(ctx)
		if !m.hotOK {
			if err := m.hot.Err(); err != nil {
				m.err = err
				return false
			}
		} else {
			m.hotEnv = m.hot.Envelope()
		}
		m.started = true
	}

	if err := ctx.Err(); err != nil {
		m.err = err
		return false
	}

	switch {
	case m.coldOK && m.hotOK:
		switch {
		case m.coldEnv.GlobalPosition == m.hotEnv.GlobalPosition:
			m.current = m.coldEnv
			m.advanceCold(ctx)
			m.advanceHot(ctx)
		case m.coldEnv.GlobalPosition < m.hotEnv.GlobalPosition:
			m.current = m.coldEnv
			m.advanceCold(ctx)
		default:
			m.current = m.hotEnv
			m.advanceHot(ctx)
		}
		return m.err == nil
	case m.coldOK:
		m.current = m.coldEnv
		m.advanceCold(ctx)
		return m.err == nil
	case m.hotOK:
		m.current = m.hotEnv
		m.advanceHot(ctx)
		return m.err == nil
	default:
		return false
	}
}

func (m *mergeCursor) advanceCold(ctx context.Context) {
	m.coldOK = m.cold.Next(ctx)
	if m.coldOK {
		m.coldEnv = m.cold.Envelope()
	} else if err := m.cold.Err(); err != nil {
		m.err = err
	}
}

func (m *mergeCursor) advanceHot(ctx context.Context) {
	m.hotOK = m.hot.Next(ctx)
	if m.hotOK {
		m.hotEnv = m.hot.Envelope()
	} else if err := m.hot.Err(); err != nil {
		m.err = err
	}
}

func (m *mergeCursor) Envelope() domain.Envelope { return m.current }
func (m *mergeCursor) Err() error                { return m.err }

func (m *mergeCursor) Close() error {
	err1 := m.cold.Close()
	err2 := m.hot.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

var (
	_ domain.Cursor = (*segmentFilterCursor)(nil)
	_ domain.Cursor = (*mergeCursor)(nil)
)
