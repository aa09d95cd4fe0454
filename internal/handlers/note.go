// Package handlers contains the gin handlers for the notes API. Validation
// happens here, before any database call; database errors are logged with
// full detail and surfaced to callers as fixed generic messages.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gonotes/internal/events"
	"github.com/jonesrussell/gonotes/internal/logger"
	"github.com/jonesrussell/gonotes/internal/models"
	"github.com/jonesrussell/gonotes/internal/repository"
)

// NoteStore is the persistence surface the handlers depend on.
type NoteStore interface {
	List(ctx context.Context, category string) ([]models.Note, error)
	GetByID(ctx context.Context, id int64) (*models.Note, error)
	Create(ctx context.Context, title, content, category string) (int64, error)
	Update(ctx context.Context, id int64, update models.NoteUpdate) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.Stats, error)
}

// NoteHandler handles the /api/notes and /api/stats routes.
type NoteHandler struct {
	store  NoteStore
	events *events.Publisher
	log    logger.Logger
}

// NewNoteHandler creates a NoteHandler. publisher may be nil, in which case
// no events are emitted.
func NewNoteHandler(store NoteStore, publisher *events.Publisher, log logger.Logger) *NoteHandler {
	return &NoteHandler{
		store:  store,
		events: publisher,
		log:    log,
	}
}

// List returns all notes, optionally filtered by ?category=, newest first.
func (h *NoteHandler) List(c *gin.Context) {
	category := c.Query("category")

	notes, err := h.store.List(c.Request.Context(), category)
	if err != nil {
		h.log.Error("Failed to list notes",
			logger.String("category", category),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notes"})
		return
	}

	c.JSON(http.StatusOK, notes)
}

// GetByID returns a single note.
func (h *NoteHandler) GetByID(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}

	note, err := h.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		return
	}
	if err != nil {
		h.log.Error("Failed to get note",
			logger.Int64("note_id", id),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve note"})
		return
	}

	c.JSON(http.StatusOK, note)
}

// Create inserts a new note. Title and content keys must both be present;
// category defaults when absent. The database assigns id and timestamps.
func (h *NoteHandler) Create(c *gin.Context) {
	var req models.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and content are required"})
		return
	}

	category := req.CategoryOrDefault()
	id, err := h.store.Create(c.Request.Context(), *req.Title, *req.Content, category)
	if err != nil {
		h.log.Error("Failed to create note", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create note"})
		return
	}

	h.log.Info("Note created",
		logger.Int64("note_id", id),
		logger.String("category", category),
	)
	h.events.PublishAsync(events.NoteEvent{
		EventType: events.NoteCreated,
		NoteID:    id,
		Payload: events.NoteCreatedPayload{
			Title:    *req.Title,
			Category: category,
		},
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Note created successfully",
		"id":      id,
	})
}

// Update applies a partial update: only supplied fields change, updated_at is
// always refreshed.
func (h *NoteHandler) Update(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}

	var update models.NoteUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	err := h.store.Update(c.Request.Context(), id, update)
	switch {
	case errors.Is(err, repository.ErrNoFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		return
	case err != nil:
		h.log.Error("Failed to update note",
			logger.Int64("note_id", id),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update note"})
		return
	}

	h.log.Info("Note updated", logger.Int64("note_id", id))
	h.events.PublishAsync(events.NoteEvent{
		EventType: events.NoteUpdated,
		NoteID:    id,
		Payload: events.NoteUpdatedPayload{
			ChangedFields: changedFields(update),
		},
	})

	c.JSON(http.StatusOK, gin.H{"message": "Note updated successfully"})
}

// Delete removes a note permanently. A second delete of the same id reports
// not-found, same as any other unknown id.
func (h *NoteHandler) Delete(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}

	err := h.store.Delete(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		return
	}
	if err != nil {
		h.log.Error("Failed to delete note",
			logger.Int64("note_id", id),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete note"})
		return
	}

	h.log.Info("Note deleted", logger.Int64("note_id", id))
	h.events.PublishAsync(events.NoteEvent{
		EventType: events.NoteDeleted,
		NoteID:    id,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Note deleted successfully"})
}

// Stats returns the total note count and per-category counts.
func (h *NoteHandler) Stats(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to compute stats", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// noteID parses the :id route parameter. Non-integer ids respond 404, the
// same as ids with no matching row: the route contract is integer ids.
func noteID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		return 0, false
	}
	return id, true
}

func changedFields(update models.NoteUpdate) []string {
	fields := make([]string, 0, 3)
	if update.Title != nil {
		fields = append(fields, "title")
	}
	if update.Content != nil {
		fields = append(fields, "content")
	}
	if update.Category != nil {
		fields = append(fields, "category")
	}
	return fields
}
