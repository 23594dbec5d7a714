package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"coderoom/internal/api"
	"coderoom/internal/metrics"
)

func New(h *api.Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.Get("/api/v1/healthz", h.Health)
	r.Get("/api/v1/languages", h.ListLanguages)
	r.Handle("/metrics", metrics.Handler())

	r.Get("/ws", h.RoomWS)

	return r
}
