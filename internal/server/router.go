package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter registers the dashboard routes behind the middleware stack.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)

	r.Get("/", handler.home)
	r.Post("/analyze", handler.analyze)
	r.Get("/results/{owner}/{repo}", handler.results)
	r.Get("/api/analyze/{owner}/{repo}", handler.apiAnalyze)

	return r
}
