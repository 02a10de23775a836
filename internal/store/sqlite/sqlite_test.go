package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avholm/smartnotes/internal/models"
	"github.com/avholm/smartnotes/internal/store"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "smartnotes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testNote(id, title, body string) *models.Note {
	now := time.Now()
	return &models.Note{
		ID:        id,
		Title:     title,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSaveAndGetNote(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	note := testNote("n1", "Alpha", "see [[Beta]]")
	note.Tags = []string{"work"}
	note.LinkedTitles = []string{"Beta"}
	note.Folder = "projects"
	require.NoError(t, s.SaveNote(ctx, note))

	got, err := s.GetNote(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Title)
	assert.Equal(t, []string{"work"}, got.Tags)
	assert.Equal(t, []string{"Beta"}, got.LinkedTitles)
	assert.Equal(t, "projects", got.Folder)
	assert.Equal(t, note.UpdatedAt.UnixMilli(), got.UpdatedAt.UnixMilli())
}

func TestGetNoteNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.GetNote(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSaveNoteUpdatePreservesCreatedAt(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	note := testNote("n1", "Alpha", "v1")
	require.NoError(t, s.SaveNote(ctx, note))

	updated := *note
	updated.Body = "v2"
	updated.UpdatedAt = note.UpdatedAt.Add(time.Minute)
	require.NoError(t, s.SaveNote(ctx, &updated))

	got, err := s.GetNote(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Body)
	assert.Equal(t, note.CreatedAt.UnixMilli(), got.CreatedAt.UnixMilli())
	assert.Equal(t, updated.UpdatedAt.UnixMilli(), got.UpdatedAt.UnixMilli())
}

func TestDeleteNoteCascadesEmbedding(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveNote(ctx, testNote("n1", "Alpha", "body")))
	require.NoError(t, s.PutEmbedding(ctx, &models.EmbeddingRecord{
		NoteID:      "n1",
		Vector:      []float32{0.1, 0.2},
		GeneratedAt: time.Now(),
	}))

	require.NoError(t, s.DeleteNote(ctx, "n1"))

	rec, err := s.GetEmbedding(ctx, "n1")
	require.NoError(t, err)
	assert.Nil(t, rec, "embedding row should be deleted with its note")

	assert.ErrorIs(t, s.DeleteNote(ctx, "n1"), store.ErrNotFound)
}

func TestSearchNotesByText(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveNote(ctx, testNote("n1", "Groceries", "milk and eggs")))
	require.NoError(t, s.SaveNote(ctx, testNote("n2", "Meeting notes", "quarterly planning")))

	results, err := s.SearchNotesByText(ctx, "planning")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "n2", results[0].ID)

	// LIKE wildcards in the query are literal.
	results, err = s.SearchNotesByText(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestListFolders(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a := testNote("n1", "Alpha", "x")
	a.Folder = "work"
	b := testNote("n2", "Beta", "y")
	b.Folder = "work"
	c := testNote("n3", "Gamma", "z")
	require.NoError(t, s.SaveNote(ctx, a))
	require.NoError(t, s.SaveNote(ctx, b))
	require.NoError(t, s.SaveNote(ctx, c))

	folders, err := s.ListFolders(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "work", folders[0].Name)
}

func TestEmbeddingRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveNote(ctx, testNote("n1", "Alpha", "body")))

	rec := &models.EmbeddingRecord{
		NoteID:      "n1",
		Vector:      []float32{0.5, -0.25, 1},
		GeneratedAt: time.Now(),
	}
	require.NoError(t, s.PutEmbedding(ctx, rec))

	got, err := s.GetEmbedding(ctx, "n1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.Vector, got.Vector)

	// Overwrite on re-put.
	rec.Vector = []float32{1, 1, 1}
	require.NoError(t, s.PutEmbedding(ctx, rec))

	all, err := s.ListEmbeddings(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, []float32{1, 1, 1}, all[0].Vector)
}
