package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/user/register", h.register)
		r.Post("/api/user/login", h.login)
		r.Get("/api/version", h.getServerVersion)
	})

	// routes requiring a valid bearer token
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.verifyBodyHash)

		r.Post("/api/sync", h.synchronize)
		r.Get("/api/sync/conflicts", h.getPendingConflicts)
		r.Post("/api/sync/conflicts/{conflictID}/resolve", h.resolveConflict)
		r.Get("/api/sync/stats", h.getSyncStats)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
