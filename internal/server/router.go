package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"python-chat/internal/logging"
)

// RouteRegistrar is implemented by every package handler.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// NewRouter builds the shared middleware stack, a health check answering
// "<name> OK", and mounts the given handlers.
func NewRouter(logger zerolog.Logger, name string, handlers ...RouteRegistrar) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middlewares(logger)...)
	r.Use(middleware.Recoverer)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(name + " OK"))
	})

	for _, h := range handlers {
		h.RegisterRoutes(r)
	}
	return r
}
