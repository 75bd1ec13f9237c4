package domain

import "time"

// StreamHeader is the one-per-(Domain, StreamID) control row.
type StreamHeader struct {
	Domain               string
	StreamID             string
	LastVersion          int32
	LastPosition         int64
	RetentionMode        RetentionMode
	ArchiveCutoffVersion *int32
	IsDeleted            bool
	ArchivedAt           *time.Time
}

// IsNewStream reports whether this header represents a stream that has
// never been appended to (LastVersion == 0).
func (h StreamHeader) IsNewStream() bool {
	return h.LastVersion == 0
}
