// Package service coordinates note lifecycle operations: validation,
// persistence, and the background embedding/auto-link work that follows a
// successful save.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/avholm/smartnotes/internal/graph"
	"github.com/avholm/smartnotes/internal/index"
	"github.com/avholm/smartnotes/internal/models"
	"github.com/avholm/smartnotes/internal/store"
)

// backgroundTimeout bounds the detached embed/auto-link work per save.
const backgroundTimeout = 60 * time.Second

// Notes is the note lifecycle service.
type Notes struct {
	store  store.Store
	index  *index.Index
	linker *graph.AutoLinker

	wg sync.WaitGroup
}

// NewNotes creates the note service.
func NewNotes(st store.Store, ix *index.Index, linker *graph.AutoLinker) *Notes {
	return &Notes{store: st, index: ix, linker: linker}
}

// CreateInput is the payload for creating a note.
type CreateInput struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Folder string `json:"folder"`
}

// Validate checks create input.
func (in CreateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Body, validation.Length(0, 1<<20)),
	)
}

// UpdateMode selects how Update applies new content.
type UpdateMode string

const (
	// UpdateAppend appends the new content to the existing body.
	UpdateAppend UpdateMode = "append"
	// UpdateOverwrite replaces the body with the new content.
	UpdateOverwrite UpdateMode = "overwrite"
)

// Create validates input, persists a new note and kicks off background
// indexing. Wikilinks and tags are parsed out of the body.
func (s *Notes) Create(ctx context.Context, in CreateInput) (*models.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("validate note: %w", err)
	}

	now := time.Now()
	note := &models.Note{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(in.Title),
		Body:         in.Body,
		Tags:         models.ExtractTags(in.Body),
		Folder:       in.Folder,
		LinkedTitles: models.ExtractLinks(in.Body),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.SaveNote(ctx, note); err != nil {
		return nil, err
	}

	s.afterSave(note)
	return note, nil
}

// Update applies new content to an existing note in the given mode and
// kicks off background indexing. An empty mode means overwrite.
func (s *Notes) Update(ctx context.Context, id, content string, mode UpdateMode) (*models.Note, error) {
	note, err := s.store.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}

	switch mode {
	case UpdateAppend:
		note.Body = strings.TrimRight(note.Body, "\n") + "\n" + content
	case UpdateOverwrite, "":
		note.Body = content
	default:
		return nil, fmt.Errorf("unknown update mode %q", mode)
	}

	note.Tags = models.ExtractTags(note.Body)
	note.LinkedTitles = models.ExtractLinks(note.Body)
	note.UpdatedAt = time.Now()

	if err := s.store.SaveNote(ctx, note); err != nil {
		return nil, err
	}

	s.afterSave(note)
	return note, nil
}

// Get returns a single note.
func (s *Notes) Get(ctx context.Context, id string) (*models.Note, error) {
	return s.store.GetNote(ctx, id)
}

// List returns all notes, newest first.
func (s *Notes) List(ctx context.Context) ([]models.Note, error) {
	return s.store.ListNotes(ctx)
}

// Delete removes a note and its embedding record.
func (s *Notes) Delete(ctx context.Context, id string) error {
	return s.store.DeleteNote(ctx, id)
}

// SearchText performs a plain text search over titles and bodies.
func (s *Notes) SearchText(ctx context.Context, query string) ([]models.Note, error) {
	return s.store.SearchNotesByText(ctx, query)
}

// Folders lists the folders in use.
func (s *Notes) Folders(ctx context.Context) ([]models.Folder, error) {
	return s.store.ListFolders(ctx)
}

// FindByTitle prefers an exact case-insensitive title match and falls back
// to substring matching. Returns store.ErrNotFound when nothing matches.
func (s *Notes) FindByTitle(ctx context.Context, title string) (*models.Note, error) {
	notes, err := s.store.ListNotes(ctx)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(title)
	for i := range notes {
		if strings.ToLower(notes[i].Title) == lower {
			return &notes[i], nil
		}
	}
	for i := range notes {
		if strings.Contains(strings.ToLower(notes[i].Title), lower) {
			return &notes[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// Edges computes the relationship graph over all notes.
func (s *Notes) Edges(ctx context.Context) ([]models.Edge, error) {
	notes, err := s.store.ListNotes(ctx)
	if err != nil {
		return nil, err
	}
	return graph.ComputeEdges(notes), nil
}

// afterSave launches the detached embedding and auto-link work for a saved
// note. The save has already succeeded; nothing here can fail it. The note
// value passed along is a snapshot of the state that was saved.
func (s *Notes) afterSave(note *models.Note) {
	snapshot := *note
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()

		s.index.IndexNote(ctx, &snapshot)
		if err := s.linker.AutoLink(ctx, &snapshot); err != nil {
			slog.Warn("auto-link failed", "note", snapshot.ID, "error", err)
		}
	}()
}

// Wait blocks until all background save work has drained. Used on shutdown
// and in tests.
func (s *Notes) Wait() {
	s.wg.Wait()
}
