package agent

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avholm/smartnotes/internal/graph"
	"github.com/avholm/smartnotes/internal/index"
	"github.com/avholm/smartnotes/internal/service"
	"github.com/avholm/smartnotes/internal/store"
	"github.com/avholm/smartnotes/internal/store/sqlite"
)

type flatEmbedder struct{}

func (flatEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func testRegistry(t *testing.T) (*Registry, *service.Notes, store.Store) {
	t.Helper()
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "agent-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ix := index.New(st, flatEmbedder{}, nil)
	linker := graph.NewAutoLinker(st, ix, nil)
	notes := service.NewNotes(st, ix, linker)
	t.Cleanup(notes.Wait)
	return NewRegistry(notes), notes, st
}

func TestRegistryCreateAndReadNote(t *testing.T) {
	reg, _, st := testRegistry(t)
	ctx := context.Background()

	result := reg.Execute(ctx, "create_note", map[string]any{
		"title":   "Groceries",
		"content": "milk and eggs",
		"folder":  "home",
	}, "")
	assert.Contains(t, result, `Created note "Groceries"`)

	notes, err := st.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)

	read := reg.Execute(ctx, "read_note", map[string]any{"id": notes[0].ID}, "")
	assert.Contains(t, read, "Title: Groceries")
	assert.Contains(t, read, "milk and eggs")
	assert.Contains(t, read, "Folder: home")
}

func TestRegistryUpdateDefaultsToAppend(t *testing.T) {
	reg, svc, st := testRegistry(t)
	ctx := context.Background()

	note, err := svc.Create(ctx, service.CreateInput{Title: "Journal", Body: "day one"})
	require.NoError(t, err)

	result := reg.Execute(ctx, "update_note", map[string]any{
		"title":   "Journal",
		"content": "day two",
	}, "")
	assert.Contains(t, result, "append")

	got, err := st.GetNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "day one\nday two", got.Body)
}

func TestRegistryUpdateMissingNote(t *testing.T) {
	reg, _, _ := testRegistry(t)
	result := reg.Execute(context.Background(), "update_note", map[string]any{
		"title":   "Nothing",
		"content": "x",
	}, "")
	assert.Equal(t, NotFoundResult, result)
}

func TestRegistryFindNoteByTitle(t *testing.T) {
	reg, svc, _ := testRegistry(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, service.CreateInput{Title: "Meeting Notes", Body: "agenda items"})
	require.NoError(t, err)

	result := reg.Execute(ctx, "find_note_by_title", map[string]any{"title": "meeting"}, "")
	assert.Contains(t, result, "Title: Meeting Notes")

	result = reg.Execute(ctx, "find_note_by_title", map[string]any{"title": "absent"}, "")
	assert.Equal(t, NotFoundResult, result)
}

func TestRegistrySearchNotes(t *testing.T) {
	reg, svc, _ := testRegistry(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, service.CreateInput{Title: "Recipes", Body: "lasagna instructions"})
	require.NoError(t, err)

	result := reg.Execute(ctx, "search_notes", map[string]any{"query": "lasagna"}, "")
	assert.Contains(t, result, "Recipes")

	result = reg.Execute(ctx, "search_notes", map[string]any{"query": "zzz"}, "")
	assert.Equal(t, "No notes matched the search.", result)
}

func TestRegistryReadActiveNote(t *testing.T) {
	reg, svc, _ := testRegistry(t)
	ctx := context.Background()

	note, err := svc.Create(ctx, service.CreateInput{Title: "Draft", Body: "work in progress"})
	require.NoError(t, err)

	result := reg.Execute(ctx, "read_active_note", nil, note.ID)
	assert.Contains(t, result, "work in progress")

	result = reg.Execute(ctx, "read_active_note", nil, "")
	assert.Equal(t, "No note is currently open in the editor.", result)
}

func TestRegistryListFolders(t *testing.T) {
	reg, svc, _ := testRegistry(t)
	ctx := context.Background()

	result := reg.Execute(ctx, "list_folders", nil, "")
	assert.Equal(t, "The notebook has no folders.", result)

	_, err := svc.Create(ctx, service.CreateInput{Title: "A", Body: "body", Folder: "work"})
	require.NoError(t, err)

	result = reg.Execute(ctx, "list_folders", nil, "")
	assert.Equal(t, "Folders: work", result)
}

func TestRegistryUnknownToolFailsClosed(t *testing.T) {
	reg, _, _ := testRegistry(t)
	result := reg.Execute(context.Background(), "delete_everything", nil, "")
	assert.True(t, strings.HasPrefix(result, "Error executing delete_everything"))
}

func TestRegistryMissingArgumentFailsClosed(t *testing.T) {
	reg, _, _ := testRegistry(t)
	result := reg.Execute(context.Background(), "create_note", map[string]any{"title": "No content"}, "")
	assert.Contains(t, result, "missing required argument")
}
