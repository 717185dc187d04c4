package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/livescores-dashboard/handlers"
	"github.com/Dosada05/livescores-dashboard/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
)

const requestTimeout = 30 * time.Second

// Observer is satisfied by *metrics.Metrics.
type Observer interface {
	middleware.RequestObserver
	Handler() http.Handler
}

func SetupRoutes(
	router chi.Router,
	dashboardHandler *handlers.DashboardHandler,
	healthHandler *handlers.HealthHandler,
	liveHandler *handlers.LiveHandler,
	observer Observer,
	logger *slog.Logger,
	corsOrigins []string,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Metrics(observer))
	router.Use(chiMiddleware.Recoverer)

	router.Handle("/metrics", observer.Handler())

	// Живой канал не ограничен таймаутом запроса
	router.Get("/ws", liveHandler.Serve)

	router.Group(func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(requestTimeout))

		r.Get("/", dashboardHandler.Page)
		r.Get("/health", healthHandler.Check)

		r.Route("/api/v1", func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: corsOrigins,
				AllowedMethods: []string{"GET", "OPTIONS"},
				AllowedHeaders: []string{"Accept", "Content-Type"},
				MaxAge:         300,
			}))

			r.Get("/scores", dashboardHandler.Scores)
			r.Get("/sports", dashboardHandler.Sports)
		})
	})
}
