package database

import (
	"context"
	"errors"

	"github.com/lib/pq"

	"github.com/jonesrussell/gonotes/internal/logger"
)

// Statements executed by EnsureSchema. They mirror
// migrations/000001_create_notes_table.up.sql; the startup path exists so a
// fresh replica can serve traffic without a separate migration step.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS notes (
		id SERIAL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		content TEXT NOT NULL,
		category VARCHAR(50),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_category ON notes(category)`,
}

// pq error codes that signal a concurrent replica already created the object.
// IF NOT EXISTS does not fully close this race under concurrent startup.
const (
	pqDuplicateTable  = "42P07"
	pqDuplicateObject = "42710"
	pqUniqueViolation = "23505"
)

// EnsureSchema creates the notes table and category index if absent. It never
// aborts startup: expected already-exists races are logged at debug, anything
// else at error so a real misconfiguration is still visible.
func (d *DB) EnsureSchema(ctx context.Context) {
	for _, stmt := range schemaStatements {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			if isDuplicateErr(err) {
				d.log.Debug("Schema object already exists", logger.Error(err))
				continue
			}
			d.log.Error("Schema initialization failed", logger.Error(err))
		}
	}
	d.log.Info("Schema initialization complete")
}

func isDuplicateErr(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch string(pqErr.Code) {
	case pqDuplicateTable, pqDuplicateObject, pqUniqueViolation:
		return true
	}
	return false
}
