package api

import (
	"github.com/avholm/smartnotes/internal/models"
)

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Folder string `json:"folder"`
}

// UpdateNoteRequest is the request body for updating a note. Mode is
// "append" or "overwrite"; empty means overwrite.
type UpdateNoteRequest struct {
	Body string `json:"body"`
	Mode string `json:"mode"`
}

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []models.Note `json:"notes"`
	Total int           `json:"total"`
}

// SearchResponse wraps text search results.
type SearchResponse struct {
	Results []models.Note `json:"results"`
}

// GraphNode is a node in the relationship graph.
type GraphNode struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// GraphLink is an edge in the relationship graph. Style is one of
// "explicit", "inferred" or "tag-overlap".
type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Style  string `json:"style"`
}

// GraphResponse wraps the relationship graph.
type GraphResponse struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}

// ChatRequest is the request body for an assistant turn. History carries
// the persisted conversation so the server stays stateless; ActiveNoteID
// identifies the note open in the editor, if any.
type ChatRequest struct {
	Message      string               `json:"message"`
	History      []models.ChatMessage `json:"history"`
	ActiveNoteID string               `json:"active_note_id"`
}

// ChatResponse carries the assistant's answer.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// FoldersResponse wraps the folder listing.
type FoldersResponse struct {
	Folders []models.Folder `json:"folders"`
}
