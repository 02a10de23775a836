// Package models defines the domain types for the SmartNotes core.
package models

import (
	"time"
)

// MaxAILinks caps the number of AI-inferred related notes stored per note.
const MaxAILinks = 5

// Note is a single note in the notebook.
//
// ID is assigned once and never changes. LinkedTitles holds the targets of
// explicit [[wikilinks]] found in the body; AILinks holds note IDs discovered
// by similarity search and is owned by the graph resolver.
type Note struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	Tags         []string  `json:"tags,omitempty"`
	Folder       string    `json:"folder,omitempty"`
	LinkedTitles []string  `json:"linked_titles,omitempty"`
	AILinks      []string  `json:"ai_links,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasTag reports whether the note carries the given tag.
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SharedTags returns the tags present on both notes, in this note's order.
func (n *Note) SharedTags(other *Note) []string {
	var shared []string
	for _, t := range n.Tags {
		if other.HasTag(t) {
			shared = append(shared, t)
		}
	}
	return shared
}

// EmbeddingRecord is the stored embedding for one note.
type EmbeddingRecord struct {
	NoteID      string    `json:"note_id"`
	Vector      []float32 `json:"vector"`
	GeneratedAt time.Time `json:"generated_at"`
}

// FreshFor reports whether the record can be trusted for the given note,
// i.e. it was generated at or after the note's last modification.
func (r *EmbeddingRecord) FreshFor(n *Note) bool {
	return !r.GeneratedAt.Before(n.UpdatedAt)
}

// SimilarityResult is one ranked hit from a similarity search.
// Score is cosine similarity in [-1, 1]. Not persisted.
type SimilarityResult struct {
	NoteID string  `json:"note_id"`
	Score  float64 `json:"score"`
}

// Folder is a named container for notes.
type Folder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
