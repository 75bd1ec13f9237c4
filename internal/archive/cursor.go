package archive

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cacack/go-eventstore/internal/domain"
)

// FileCursor implements domain.Cursor over a pre-sorted list of segment
// file names, opening each one lazily and yielding its decoded envelopes
// in order, skipping any with GlobalPosition <= fromExclusive.
type FileCursor struct {
	dir           string
	fileNames     []string
	fromExclusive int64

	fileIdx int
	file    *os.File
	scanner *bufio.Scanner
	current domain.Envelope
	err     error
}

func (c *FileCursor) Next(ctx context.Context) bool {
	if c.err != nil {
		return false
	}
	for {
		if err := ctx.Err(); err != nil {
			c.err = err
			return false
		}
		if c.scanner == nil {
			if !c.openNext() {
				return false
			}
		}
		if !c.scanner.Scan() {
			if err := c.scanner.Err(); err != nil {
				c.err = fmt.Errorf("archive: scan segment file: %w", err)
				return false
			}
			c.file.Close()
			c.file = nil
			c.scanner = nil
			continue
		}
		var line segmentLine
		if err := json.Unmarshal(c.scanner.Bytes(), &line); err != nil {
			c.err = fmt.Errorf("archive: decode segment line: %w", err)
			return false
		}
		env, err := fromLine(line)
		if err != nil {
			c.err = err
			return false
		}
		if env.GlobalPosition <= c.fromExclusive {
			continue
		}
		c.current = env
		return true
	}
}

func (c *FileCursor) openNext() bool {
	if c.fileIdx >= len(c.fileNames) {
		return false
	}
	path := filepath.Join(c.dir, c.fileNames[c.fileIdx])
	c.fileIdx++
	f, err := os.Open(path)
	if err != nil {
		c.err = fmt.Errorf("archive: open segment file %s: %w", c.fileNames[c.fileIdx-1], err)
		return false
	}
	c.file = f
	c.scanner = bufio.NewScanner(f)
	c.scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return true
}

func (c *FileCursor) Envelope() domain.Envelope { return c.current }

func (c *FileCursor) Err() error { return c.err }

func (c *FileCursor) Close() error {
	if c.file != nil {
		err := c.file.Close()
		c.file = nil
		return err
	}
	return nil
}

var _ domain.Cursor = (*FileCursor)(nil)
