// Package events publishes note lifecycle events to Redis Streams so
// downstream consumers (search indexers, notifiers) can react to changes.
// Publishing is optional: a nil Publisher is a no-op.
package events

import (
	"time"

	"github.com/google/uuid"
)

// StreamName is the Redis stream note events are appended to.
const StreamName = "note-events"

// EventType identifies the kind of note lifecycle event.
type EventType string

const (
	// NoteCreated indicates a new note was created.
	NoteCreated EventType = "NOTE_CREATED"
	// NoteUpdated indicates an existing note was modified.
	NoteUpdated EventType = "NOTE_UPDATED"
	// NoteDeleted indicates a note was permanently deleted.
	NoteDeleted EventType = "NOTE_DELETED"
)

// NoteEvent is the envelope for all note lifecycle events.
type NoteEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	EventType EventType `json:"event_type"`
	NoteID    int64     `json:"note_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// NoteCreatedPayload carries the initial field values of a created note.
type NoteCreatedPayload struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

// NoteUpdatedPayload lists which fields an update supplied.
type NoteUpdatedPayload struct {
	ChangedFields []string `json:"changed_fields"`
}
