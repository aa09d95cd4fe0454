// Package models defines the note entity and its request/response shapes.
package models

import "time"

// DefaultCategory is assigned when a note is created without a category.
const DefaultCategory = "general"

// Note is the persisted note resource.
//
// Category and the timestamps are pointers because the underlying columns are
// nullable; the API serializes absent values as JSON null.
type Note struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Category  *string    `json:"category"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// CreateNoteRequest is the POST /api/notes body. Pointer fields distinguish
// a missing key from an empty value: title and content must be present,
// category falls back to DefaultCategory.
type CreateNoteRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
}

// Valid reports whether both required keys were supplied.
func (r *CreateNoteRequest) Valid() bool {
	return r.Title != nil && r.Content != nil
}

// CategoryOrDefault returns the supplied category or DefaultCategory.
func (r *CreateNoteRequest) CategoryOrDefault() string {
	if r.Category != nil {
		return *r.Category
	}
	return DefaultCategory
}

// NoteUpdate is a typed partial update: only non-nil fields are written.
// updated_at is always refreshed by the repository regardless of which
// fields are set.
type NoteUpdate struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
}

// HasFields reports whether at least one updatable field was supplied.
func (u *NoteUpdate) HasFields() bool {
	return u.Title != nil || u.Content != nil || u.Category != nil
}

// Stats aggregates note counts for GET /api/stats. Categories maps each
// distinct category present in the table to its row count.
type Stats struct {
	TotalNotes int64            `json:"total_notes"`
	Categories map[string]int64 `json:"categories"`
}
