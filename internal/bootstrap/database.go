package bootstrap

import (
	"context"
	"fmt"

	"github.com/jonesrussell/gonotes/internal/config"
	"github.com/jonesrussell/gonotes/internal/database"
	"github.com/jonesrussell/gonotes/internal/logger"
)

// SetupDatabase opens the connection pool and ensures the notes schema
// exists. Schema creation is best-effort: objects that already exist are
// skipped, and other failures surface on the first query rather than
// preventing startup.
func SetupDatabase(ctx context.Context, cfg *config.Config, log logger.Logger) (*database.DB, error) {
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("database connection: %w", err)
	}

	db.EnsureSchema(ctx)
	return db, nil
}
