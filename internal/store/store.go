// Package store defines the persistence boundary of the SmartNotes core.
// Implementations live in the sqlite and surreal subpackages.
package store

import (
	"context"
	"errors"

	"github.com/avholm/smartnotes/internal/models"
)

// Sentinel errors returned by Store implementations. Check with errors.Is.
var (
	// ErrNotFound indicates the requested note does not exist.
	ErrNotFound = errors.New("note not found")

	// ErrAlreadyExists indicates a note with the same ID already exists.
	ErrAlreadyExists = errors.New("note already exists")
)

// Store is the persistence collaborator the core treats as the sole source
// of truth. The embedding index and graph resolver re-read through it rather
// than caching across calls.
type Store interface {
	GetNote(ctx context.Context, id string) (*models.Note, error)
	SaveNote(ctx context.Context, note *models.Note) error
	DeleteNote(ctx context.Context, id string) error
	ListNotes(ctx context.Context) ([]models.Note, error)
	SearchNotesByText(ctx context.Context, query string) ([]models.Note, error)
	ListFolders(ctx context.Context) ([]models.Folder, error)

	// GetEmbedding returns nil (no error) when no record exists for the note.
	GetEmbedding(ctx context.Context, noteID string) (*models.EmbeddingRecord, error)
	PutEmbedding(ctx context.Context, rec *models.EmbeddingRecord) error
	ListEmbeddings(ctx context.Context) ([]models.EmbeddingRecord, error)

	Close() error
}
