// Package database manages the shared PostgreSQL connection pool and the
// best-effort schema initialization run at startup.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/jonesrussell/gonotes/internal/config"
	"github.com/jonesrussell/gonotes/internal/logger"
)

// pingTimeout bounds the startup connectivity check.
const pingTimeout = 5 * time.Second

// DB wraps the process-wide connection pool. One pool is opened at startup
// and shared by every request; handlers never open their own connections.
type DB struct {
	db  *sql.DB
	log logger.Logger
}

// New opens the connection pool and verifies it with a ping.
func New(cfg *config.DatabaseConfig, log logger.Logger) (*DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	log.Info("Database connection established",
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
		logger.String("dbname", cfg.Name),
	)

	return &DB{db: db, log: log}, nil
}

// DB returns the underlying pool.
func (d *DB) DB() *sql.DB {
	return d.db
}

// Ping verifies a connection can be acquired from the pool.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// VerifyQuery executes a trivial query to confirm the database can serve
// queries, not just accept connections. Backs the readiness probe.
func (d *DB) VerifyQuery(ctx context.Context) error {
	var one int
	return d.db.QueryRowContext(ctx, "SELECT 1").Scan(&one)
}

// Close closes the pool.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
