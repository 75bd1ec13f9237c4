// Package archive implements the cold archive store, the archive
// coordinator, and the combined cold+hot feed.
package archive

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/cacack/go-eventstore/internal/domain"
)

// segmentLine is the on-disk NDJSON schema: camelCase fields,
// base64 payloads, RFC 3339 timestamps.
type segmentLine struct {
	GlobalPosition int64   `json:"globalPosition"`
	Domain         string  `json:"domain"`
	StreamID       string  `json:"streamId"`
	Version        int32   `json:"version"`
	Namespace      string  `json:"namespace"`
	EventType      string  `json:"eventType"`
	Data           string  `json:"data"`
	Metadata       *string `json:"metadata,omitempty"`
	CreatedUTC     string  `json:"createdUtc"`
}

func toLine(e domain.Envelope) segmentLine {
	var meta *string
	if e.Metadata != nil {
		encoded := base64.StdEncoding.EncodeToString(e.Metadata)
		meta = &encoded
	}
	return segmentLine{
		GlobalPosition: e.GlobalPosition,
		Domain:         e.Domain,
		StreamID:       e.StreamID,
		Version:        e.Version,
		Namespace:      e.Namespace,
		EventType:      e.EventType,
		Data:           base64.StdEncoding.EncodeToString(e.Data),
		Metadata:       meta,
		CreatedUTC:     e.CreatedUTC.UTC().Format(time.RFC3339Nano),
	}
}

func fromLine(l segmentLine) (domain.Envelope, error) {
	data, err := base64.StdEncoding.DecodeString(l.Data)
	if err != nil {
		return domain.Envelope{}, fmt.Errorf("archive: decode data: %w", err)
	}
	var metadata []byte
	if l.Metadata != nil {
		metadata, err = base64.StdEncoding.DecodeString(*l.Metadata)
		if err != nil {
			return domain.Envelope{}, fmt.Errorf("archive: decode metadata: %w", err)
		}
	}
	created, err := time.Parse(time.RFC3339Nano, l.CreatedUTC)
	if err != nil {
		return domain.Envelope{}, fmt.Errorf("archive: parse createdUtc: %w", err)
	}
	return domain.Envelope{
		GlobalPosition: l.GlobalPosition,
		Domain:         l.Domain,
		StreamID:       l.StreamID,
		Version:        l.Version,
		Namespace:      l.Namespace,
		EventType:      l.EventType,
		Data:           data,
		Metadata:       metadata,
		CreatedUTC:     created,
	}, nil
}

// segmentFilePattern matches the canonical segment file name and captures
// its zero-padded min/max positions.
var segmentFilePattern = regexp.MustCompile(`^events-(\d{16})-(\d{16})\.ndjson$`)

// SegmentFileName formats the canonical name for a segment spanning
// [minPos, maxPos]: zero-padded 16-digit decimals.
func SegmentFileName(minPos, maxPos int64) string {
	return fmt.Sprintf("events-%016d-%016d.ndjson", minPos, maxPos)
}

// ParseSegmentFileName extracts (minPos, maxPos) from a segment file name,
// or ok=false if name doesn't match the canonical pattern.
func ParseSegmentFileName(name string) (minPos, maxPos int64, ok bool) {
	m := segmentFilePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, false
	}
	minPos, errMin := strconv.ParseInt(m[1], 10, 64)
	maxPos, errMax := strconv.ParseInt(m[2], 10, 64)
	if errMin != nil || errMax != nil {
		return 0, 0, false
	}
	return minPos, maxPos, true
}

// FileStore is the cold archive store: reads and writes NDJSON
// segment files under a single directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir. The directory must
// already exist.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the archive directory this store is rooted at.
func (f *FileStore) Dir() string { return f.dir }

// WriteSegment serializes events to NDJSON and atomically publishes the
// file under its canonical name. The rename is the commit
// point: readers never observe a partially-written file. Returns the
// final relative file name.
//
// events must be non-empty and already sorted by GlobalPosition
// ascending; WriteSegment does not re-sort or validate ordering.
func (f *FileStore) WriteSegment(events []domain.Envelope, minPos, maxPos int64) (fileName string, err error) {
	if len(events) == 0 {
		return "", fmt.Errorf("archive: WriteSegment called with no events")
	}

	finalName := SegmentFileName(minPos, maxPos)
	tmpName := filepath.Join(f.dir, fmt.Sprintf(".%s.%s.tmp", finalName, uuid.NewString()))

	tmp, err := os.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("archive: create temp segment file: %w", err)
	}
	defer os.Remove(tmpName)

	enc := json.NewEncoder(tmp)
	for _, e := range events {
		if err := enc.Encode(toLine(e)); err != nil {
			tmp.Close()
			return "", fmt.Errorf("archive: encode segment line: %w", err)
		}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("archive: sync temp segment file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("archive: close temp segment file: %w", err)
	}

	finalPath := filepath.Join(f.dir, finalName)
	if err := os.Rename(tmpName, finalPath); err != nil {
		return "", fmt.Errorf("archive: rename segment file into place: %w", err)
	}
	return finalName, nil
}

// ReadAllForwards lists every events-*.ndjson file in the archive
// directory, sorts ascending by minPos, and yields their events in
// order. Files whose maxPos <= fromExclusive are skipped entirely
// without opening.
func (f *FileStore) ReadAllForwards(fromExclusive int64) (*FileCursor, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("archive: list archive directory: %w", err)
	}

	type candidate struct {
		name           string
		minPos, maxPos int64
	}
	var candidates []candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		minPos, maxPos, ok := ParseSegmentFileName(entry.Name())
		if !ok {
			continue
		}
		if maxPos <= fromExclusive {
			continue
		}
		candidates = append(candidates, candidate{entry.Name(), minPos, maxPos})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].minPos < candidates[j].minPos })

	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.name
	}
	return &FileCursor{dir: f.dir, fileNames: names, fromExclusive: fromExclusive}, nil
}
