package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/avholm/smartnotes/internal/agent"
	"github.com/avholm/smartnotes/internal/metrics"
	"github.com/avholm/smartnotes/internal/service"
)

// NewRouter creates a chi router with all API routes mounted. loop may be
// nil when no inference service is configured.
func NewRouter(notes *service.Notes, loop *agent.Loop, stats *metrics.Collector) chi.Router {
	h := NewHandler(notes, loop, stats)

	r := chi.NewRouter()
	r.Use(CORSMiddleware)

	// Notes CRUD.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/{id}", h.GetNote)
	r.Put("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)

	// Search.
	r.Get("/search", h.Search)

	// Relationship graph.
	r.Get("/graph", h.Graph)

	// Folders.
	r.Get("/folders", h.Folders)

	// Assistant chat.
	r.Post("/chat", h.Chat)

	// Runtime statistics.
	r.Get("/metrics", h.Metrics)

	return r
}
