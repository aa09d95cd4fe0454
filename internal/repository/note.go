// Package repository implements note persistence over PostgreSQL. All
// statements are parameterized; the dynamic update builder only ever
// concatenates whitelisted column names and $N placeholders.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jonesrussell/gonotes/internal/logger"
	"github.com/jonesrussell/gonotes/internal/models"
)

// Sentinel errors translated to HTTP status codes by the handlers.
var (
	// ErrNotFound indicates no row matched the requested id.
	ErrNotFound = errors.New("note not found")
	// ErrNoFields indicates an update carried no recognized fields.
	ErrNoFields = errors.New("no fields to update")
)

const noteColumns = "id, title, content, category, created_at, updated_at"

// NoteRepository provides CRUD and aggregate access to the notes table.
type NoteRepository struct {
	db  *sql.DB
	log logger.Logger
}

// NewNoteRepository creates a NoteRepository over the shared pool.
func NewNoteRepository(db *sql.DB, log logger.Logger) *NoteRepository {
	return &NoteRepository{
		db:  db,
		log: log,
	}
}

// List returns all notes, newest first. A non-empty category restricts the
// result to exact matches. The full result set is returned; there is no
// pagination on this table.
func (r *NoteRepository) List(ctx context.Context, category string) ([]models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes ORDER BY created_at DESC`
	args := []any{}
	if category != "" {
		query = `SELECT ` + noteColumns + ` FROM notes WHERE category = $1 ORDER BY created_at DESC`
		args = append(args, category)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	return scanNoteRows(rows)
}

// GetByID returns the note with the given id, or ErrNotFound.
func (r *NoteRepository) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`

	note, err := scanNote(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query note: %w", err)
	}
	return note, nil
}

// Create inserts a new note and returns the database-assigned id. The
// database also assigns both timestamps via column defaults.
func (r *NoteRepository) Create(ctx context.Context, title, content, category string) (int64, error) {
	query := `INSERT INTO notes (title, content, category) VALUES ($1, $2, $3) RETURNING id`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, title, content, category).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert note: %w", err)
	}
	return id, nil
}

// Update applies a partial update: only the non-nil fields of update are
// written, and updated_at is always refreshed. Returns ErrNoFields when the
// update is empty and ErrNotFound when no row matches the id.
func (r *NoteRepository) Update(ctx context.Context, id int64, update models.NoteUpdate) error {
	if !update.HasFields() {
		return ErrNoFields
	}

	setClauses, args := buildUpdateSet(update)
	setClauses = append(setClauses, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	// Column names come from the fixed clauses above; values travel as $N args.
	query := fmt.Sprintf("UPDATE notes SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// buildUpdateSet translates the supplied fields of a NoteUpdate into SET
// clauses with positional placeholders.
func buildUpdateSet(update models.NoteUpdate) (clauses []string, args []any) {
	pos := 1
	if update.Title != nil {
		clauses = append(clauses, fmt.Sprintf("title = $%d", pos))
		args = append(args, *update.Title)
		pos++
	}
	if update.Content != nil {
		clauses = append(clauses, fmt.Sprintf("content = $%d", pos))
		args = append(args, *update.Content)
		pos++
	}
	if update.Category != nil {
		clauses = append(clauses, fmt.Sprintf("category = $%d", pos))
		args = append(args, *update.Category)
	}
	return clauses, args
}

// Delete removes the note permanently. Returns ErrNotFound when no row
// matches, which makes a repeated delete indistinguishable from deleting a
// note that never existed.
func (r *NoteRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats returns the total row count and per-category counts. Categories with
// no rows do not appear in the map.
func (r *NoteRepository) Stats(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{
		Categories: make(map[string]int64),
	}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes`).Scan(&stats.TotalNotes); err != nil {
		return nil, fmt.Errorf("count notes: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM notes GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("query category counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category sql.NullString
		var count int64
		if scanErr := rows.Scan(&category, &count); scanErr != nil {
			return nil, fmt.Errorf("scan category count: %w", scanErr)
		}
		// The service always writes a category, so NULL only appears in rows
		// inserted outside this API; those are not reported per-category.
		if category.Valid {
			stats.Categories[category.String] = count
		}
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate category counts: %w", rowsErr)
	}

	return stats, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	var note models.Note
	var category sql.NullString
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(
		&note.ID,
		&note.Title,
		&note.Content,
		&category,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	if category.Valid {
		note.Category = &category.String
	}
	if createdAt.Valid {
		note.CreatedAt = &createdAt.Time
	}
	if updatedAt.Valid {
		note.UpdatedAt = &updatedAt.Time
	}
	return &note, nil
}

func scanNoteRows(rows *sql.Rows) ([]models.Note, error) {
	notes := make([]models.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}
