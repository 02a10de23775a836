package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/avholm/smartnotes/internal/agent"
	"github.com/avholm/smartnotes/internal/metrics"
	"github.com/avholm/smartnotes/internal/models"
	"github.com/avholm/smartnotes/internal/service"
	"github.com/avholm/smartnotes/internal/store"
)

// Handler holds API route handlers.
type Handler struct {
	notes *service.Notes
	loop  *agent.Loop
	stats *metrics.Collector
}

// NewHandler creates a new Handler. loop may be nil when the inference
// service is not configured; POST /chat then returns 503. stats may be nil,
// GET /metrics then reports no operations.
func NewHandler(notes *service.Notes, loop *agent.Loop, stats *metrics.Collector) *Handler {
	return &Handler{notes: notes, loop: loop, stats: stats}
}

// ListNotes handles GET /notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.List(r.Context())
	if err != nil {
		slog.Error("list notes failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Total: len(notes)})
}

// GetNote handles GET /notes/{id}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	note, err := h.notes.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get note failed", "id", id, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// CreateNote handles POST /notes.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	note, err := h.notes.Create(r.Context(), service.CreateInput{
		Title:  req.Title,
		Body:   req.Body,
		Folder: req.Folder,
	})
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			writeJSON(w, http.StatusBadRequest, errorBody(verrs.Error()))
			return
		}
		slog.Error("create note failed", "title", req.Title, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote handles PUT /notes/{id}.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	id := chi.URLParam(r, "id")

	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	note, err := h.notes.Update(r.Context(), id, req.Body, service.UpdateMode(req.Mode))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case strings.Contains(err.Error(), "unknown update mode"):
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		default:
			slog.Error("update note failed", "id", id, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /notes/{id}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.notes.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("delete note failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	results, err := h.notes.SearchText(r.Context(), q)
	if err != nil {
		slog.Error("search failed", "query", q, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Graph handles GET /graph.
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.List(r.Context())
	if err != nil {
		slog.Error("graph failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	edges, err := h.notes.Edges(r.Context())
	if err != nil {
		slog.Error("graph failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	resp := GraphResponse{Nodes: []GraphNode{}, Links: []GraphLink{}}
	for _, n := range notes {
		resp.Nodes = append(resp.Nodes, GraphNode{ID: n.ID, Title: n.Title})
	}
	for _, e := range edges {
		resp.Links = append(resp.Links, GraphLink{Source: e.A, Target: e.B, Style: string(e.Style)})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Folders handles GET /folders.
func (h *Handler) Folders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.notes.Folders(r.Context())
	if err != nil {
		slog.Error("list folders failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if folders == nil {
		folders = []models.Folder{}
	}
	writeJSON(w, http.StatusOK, FoldersResponse{Folders: folders})
}

// Metrics handles GET /metrics. It reports the in-memory operation timings
// collected since the server started.
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.stats.Snapshot())
}

// Chat handles POST /chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	if h.loop == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("assistant is not configured"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("message is required"))
		return
	}

	reply, err := h.loop.RunTurn(r.Context(), req.History, req.Message, req.ActiveNoteID)
	if err != nil {
		slog.Error("chat turn failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}
