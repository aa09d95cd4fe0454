package bootstrap

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonesrussell/gonotes/internal/api"
	"github.com/jonesrussell/gonotes/internal/config"
	"github.com/jonesrussell/gonotes/internal/database"
	"github.com/jonesrussell/gonotes/internal/events"
	"github.com/jonesrussell/gonotes/internal/handlers"
	"github.com/jonesrussell/gonotes/internal/logger"
	"github.com/jonesrussell/gonotes/internal/metrics"
	"github.com/jonesrussell/gonotes/internal/repository"
)

// SetupHTTPServer assembles the repository, handlers, router, and HTTP server.
func SetupHTTPServer(
	cfg *config.Config,
	db *database.DB,
	publisher *events.Publisher,
	log logger.Logger,
) *api.Server {
	noteRepo := repository.NewNoteRepository(db.DB(), log)
	noteHandler := handlers.NewNoteHandler(noteRepo, publisher, log)
	healthHandler := handlers.NewHealthHandler(db)

	m := metrics.New(prometheus.DefaultRegisterer)

	router := api.NewRouter(
		noteHandler,
		healthHandler,
		m,
		cfg.Server.CORSOrigins,
		log,
		cfg.Debug,
	)

	return api.NewServer(router, &cfg.Server, log)
}
