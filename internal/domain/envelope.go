package domain

import "time"

// Envelope is an immutable, persisted event as read back from the store:
// the append-time payload plus the engine-assigned Version and
// GlobalPosition.
type Envelope struct {
	GlobalPosition int64
	Domain         string
	StreamID       string
	Version        int32
	Namespace      string
	EventType      string
	Data           []byte
	Metadata       []byte
	CreatedUTC     time.Time
}

// AppendEvent is the caller-supplied shape for a single event to append.
// Version and GlobalPosition are always engine-assigned; they have no
// place in the input type.
type AppendEvent struct {
	Namespace string
	EventType string
	Data      []byte
	Metadata  []byte
}

// Validate enforces the per-event field rules.
func (e AppendEvent) Validate() error {
	if err := ValidateNamespace(e.Namespace); err != nil {
		return err
	}
	if err := ValidateEventType(e.EventType); err != nil {
		return err
	}
	if e.Data == nil {
		return NewValidationError("data", "must not be nil")
	}
	return nil
}
