// Package main provides the API router setup.
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Jeyavarman-2005/mechmate/cmd/mechmate-api/handlers"
	"github.com/Jeyavarman-2005/mechmate/internal/app"
	"github.com/Jeyavarman-2005/mechmate/internal/config"
	"github.com/Jeyavarman-2005/mechmate/internal/observability"
)

// NewRouter creates the API router with all routes configured.
func NewRouter(logger *observability.Logger, cfg *config.Config, application *app.App) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Server.ReadTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"mechmate"}`))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !application.Snapshot.Loaded() {
			if _, err := application.Snapshot.Records(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"not ready"}`))
				return
			}
		}
		w.Write([]byte(`{"status":"ready"}`))
	})

	answerHandler := handlers.NewAnswerHandler(logger, application.Answerer)
	recordsHandler := handlers.NewRecordsHandler(logger, application.Snapshot)
	snapshotHandler := handlers.NewSnapshotHandler(logger, application.Answerer, application.Snapshot)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/answer", answerHandler.Answer)
		r.Get("/records", recordsHandler.List)
		r.Post("/snapshot/invalidate", snapshotHandler.Invalidate)
	})

	return r
}
