package domain

import "time"

// Snapshot is a latest-per-StreamID snapshot of projected state.
//
// Keyed by StreamID alone, not (Domain, StreamID); see DESIGN.md for the
// decision to preserve this shape.
type Snapshot struct {
	StreamID      string
	StreamVersion int32
	Data          []byte
	CreatedUTC    time.Time
}
