package routes

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/punyarb62/dsde-cctv/internal/config"
	"github.com/punyarb62/dsde-cctv/internal/database"
	"github.com/punyarb62/dsde-cctv/internal/handlers"
	"github.com/punyarb62/dsde-cctv/internal/logger"
	"github.com/punyarb62/dsde-cctv/internal/services"
	ws "github.com/punyarb62/dsde-cctv/internal/services/websocket"
)

// SetupRoutes registers the snapshot endpoints, the dashboard API, static
// file serving and the middleware chain.
func SetupRoutes(manager *services.Manager, db *database.Database, hub *ws.HubService, cfg *config.Config, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))
	if cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
	}

	r.Get("/health", handlers.Health(cfg))

	// Snapshot endpoints; the single-id form uses the play id as image id.
	r.Get("/snapshot/{playID}", handlers.Snapshot(manager, log))
	r.Get("/snapshot/{playID}/{imageID}", handlers.Snapshot(manager, log))

	// Dashboard API
	r.Get("/api/cameras", handlers.ListCameras(db, log))
	r.Get("/api/cameras/{id}", handlers.GetCamera(db, log))
	r.Get("/api/status", handlers.StatusWebsocket(hub, log))

	// Log endpoints
	r.Get("/logs/{level}", handlers.ShowLogs(cfg))
	r.Get("/logs/{level}/clear", handlers.ClearLogs(log))

	// Static dashboard
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, filepath.Join(cfg.StaticDir, "index.html"))
	})

	return r
}
