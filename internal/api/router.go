// Package api wires the gin router: middleware, probes, and the notes API.
package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gonotes/internal/handlers"
	"github.com/jonesrussell/gonotes/internal/logger"
	"github.com/jonesrussell/gonotes/internal/metrics"
)

const corsMaxAge = 12 * time.Hour

// NewRouter builds the gin engine with the standard middleware stack and all
// routes registered.
func NewRouter(
	noteHandler *handlers.NoteHandler,
	healthHandler *handlers.HealthHandler,
	m *metrics.Metrics,
	corsOrigins []string,
	log logger.Logger,
	debug bool,
) *gin.Engine {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(recoveryMiddleware(log))
	router.Use(requestIDMiddleware())
	router.Use(requestLogger(log))
	router.Use(m.Middleware())
	router.Use(corsMiddleware(corsOrigins))

	// Probes for the hosting platform.
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	api.GET("/notes", noteHandler.List)
	api.POST("/notes", noteHandler.Create)
	api.GET("/notes/:id", noteHandler.GetByID)
	api.PUT("/notes/:id", noteHandler.Update)
	api.DELETE("/notes/:id", noteHandler.Delete)
	api.GET("/stats", noteHandler.Stats)

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept-Encoding",
			"Authorization", "Cache-Control", "X-Requested-With", "X-Request-ID",
		},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        corsMaxAge,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
