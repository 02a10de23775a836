package surreal

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/avholm/smartnotes/internal/models"
	"github.com/avholm/smartnotes/internal/store"
)

// noteRow mirrors the note table. The record ID carries the note ID.
type noteRow struct {
	ID           surrealmodels.RecordID `json:"id"`
	Title        string                 `json:"title"`
	Body         string                 `json:"body"`
	Tags         []string               `json:"tags"`
	Folder       string                 `json:"folder"`
	LinkedTitles []string               `json:"linked_titles"`
	AILinks      []string               `json:"ai_links"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

type embeddingRow struct {
	ID          surrealmodels.RecordID `json:"id"`
	Vector      []float32              `json:"vector"`
	GeneratedAt time.Time              `json:"generated_at"`
}

func recordIDString(id surrealmodels.RecordID) (string, error) {
	s, ok := id.ID.(string)
	if !ok {
		return "", fmt.Errorf("unexpected record ID type: %T", id.ID)
	}
	return s, nil
}

func (r *noteRow) toModel() (*models.Note, error) {
	id, err := recordIDString(r.ID)
	if err != nil {
		return nil, err
	}
	return &models.Note{
		ID:           id,
		Title:        r.Title,
		Body:         r.Body,
		Tags:         r.Tags,
		Folder:       r.Folder,
		LinkedTitles: r.LinkedTitles,
		AILinks:      r.AILinks,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}, nil
}

func firstResult[T any](results *[]surrealdb.QueryResult[[]T]) []T {
	if results == nil || len(*results) == 0 {
		return nil
	}
	return (*results)[0].Result
}

func rowsToNotes(rows []noteRow) ([]models.Note, error) {
	notes := make([]models.Note, 0, len(rows))
	for i := range rows {
		n, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		notes = append(notes, *n)
	}
	return notes, nil
}

// GetNote returns the note with the given ID or store.ErrNotFound.
func (s *Store) GetNote(ctx context.Context, id string) (*models.Note, error) {
	results, err := surrealdb.Query[[]noteRow](ctx, s.db, `
		SELECT * FROM type::record("note", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}

	rows := firstResult(results)
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	return rows[0].toModel()
}

// SaveNote inserts or updates a note.
func (s *Store) SaveNote(ctx context.Context, note *models.Note) error {
	_, err := surrealdb.Query[any](ctx, s.db, `
		UPSERT type::record("note", $id) CONTENT {
			title: $title,
			body: $body,
			tags: $tags,
			folder: $folder,
			linked_titles: $linked_titles,
			ai_links: $ai_links,
			created_at: $created_at,
			updated_at: $updated_at
		}
	`, map[string]any{
		"id":            note.ID,
		"title":         note.Title,
		"body":          note.Body,
		"tags":          emptyIfNil(note.Tags),
		"folder":        note.Folder,
		"linked_titles": emptyIfNil(note.LinkedTitles),
		"ai_links":      emptyIfNil(note.AILinks),
		"created_at":    note.CreatedAt,
		"updated_at":    note.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("save note: %w", err)
	}
	return nil
}

func emptyIfNil(vals []string) []string {
	if vals == nil {
		return []string{}
	}
	return vals
}

// DeleteNote removes a note and its embedding record.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	if _, err := s.GetNote(ctx, id); err != nil {
		return err
	}
	_, err := surrealdb.Query[any](ctx, s.db, `
		DELETE type::record("note", $id);
		DELETE type::record("embedding", $id);
	`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// ListNotes returns all notes ordered by last modification, newest first.
func (s *Store) ListNotes(ctx context.Context) ([]models.Note, error) {
	results, err := surrealdb.Query[[]noteRow](ctx, s.db, `
		SELECT * FROM note ORDER BY updated_at DESC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return rowsToNotes(firstResult(results))
}

// SearchNotesByText performs full-text search over titles and bodies.
func (s *Store) SearchNotesByText(ctx context.Context, query string) ([]models.Note, error) {
	results, err := surrealdb.Query[[]noteRow](ctx, s.db, `
		SELECT * FROM note WHERE title @@ $q OR body @@ $q
	`, map[string]any{"q": query})
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	return rowsToNotes(firstResult(results))
}

// ListFolders returns the distinct non-empty folders in use.
func (s *Store) ListFolders(ctx context.Context) ([]models.Folder, error) {
	type folderRow struct {
		Folder string `json:"folder"`
	}
	results, err := surrealdb.Query[[]folderRow](ctx, s.db, `
		SELECT folder FROM note WHERE folder != '' GROUP BY folder ORDER BY folder
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	rows := firstResult(results)
	folders := make([]models.Folder, 0, len(rows))
	for _, r := range rows {
		folders = append(folders, models.Folder{ID: r.Folder, Name: r.Folder})
	}
	return folders, nil
}

// GetEmbedding returns the stored embedding for a note, or nil when absent.
func (s *Store) GetEmbedding(ctx context.Context, noteID string) (*models.EmbeddingRecord, error) {
	results, err := surrealdb.Query[[]embeddingRow](ctx, s.db, `
		SELECT * FROM type::record("embedding", $id)
	`, map[string]any{"id": noteID})
	if err != nil {
		return nil, fmt.Errorf("get embedding: %w", err)
	}

	rows := firstResult(results)
	if len(rows) == 0 {
		return nil, nil
	}
	id, err := recordIDString(rows[0].ID)
	if err != nil {
		return nil, err
	}
	return &models.EmbeddingRecord{
		NoteID:      id,
		Vector:      rows[0].Vector,
		GeneratedAt: rows[0].GeneratedAt,
	}, nil
}

// PutEmbedding inserts or overwrites a note's embedding record.
func (s *Store) PutEmbedding(ctx context.Context, rec *models.EmbeddingRecord) error {
	_, err := surrealdb.Query[any](ctx, s.db, `
		UPSERT type::record("embedding", $id) CONTENT {
			vector: $vector,
			generated_at: $generated_at
		}
	`, map[string]any{
		"id":           rec.NoteID,
		"vector":       rec.Vector,
		"generated_at": rec.GeneratedAt,
	})
	if err != nil {
		return fmt.Errorf("put embedding: %w", err)
	}
	return nil
}

// ListEmbeddings loads every stored embedding record.
func (s *Store) ListEmbeddings(ctx context.Context) ([]models.EmbeddingRecord, error) {
	results, err := surrealdb.Query[[]embeddingRow](ctx, s.db, `
		SELECT * FROM embedding
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list embeddings: %w", err)
	}

	rows := firstResult(results)
	recs := make([]models.EmbeddingRecord, 0, len(rows))
	for _, r := range rows {
		id, err := recordIDString(r.ID)
		if err != nil {
			return nil, err
		}
		recs = append(recs, models.EmbeddingRecord{
			NoteID:      id,
			Vector:      r.Vector,
			GeneratedAt: r.GeneratedAt,
		})
	}
	return recs, nil
}
