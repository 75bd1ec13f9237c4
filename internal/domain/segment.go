package domain

// Segment is an archive-catalog record: the DB-side pointer to one NDJSON
// file on disk. MinPosition and MaxPosition are both inclusive.
type Segment struct {
	SegmentID       int64
	MinPosition     int64
	MaxPosition     int64
	FileName        string
	Status          SegmentStatus
	StreamNamespace *string
}

// Overlaps reports whether this segment's [MinPosition, MaxPosition]
// range intersects [minPos, maxPos] (both inclusive): the same predicate
// each CommitArchive implementation applies before writing a new segment.
func (s Segment) Overlaps(minPos, maxPos int64) bool {
	return s.MinPosition <= maxPos && s.MaxPosition >= minPos
}
