package rag

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avholm/smartnotes/internal/models"
	"github.com/avholm/smartnotes/internal/store"
	"github.com/avholm/smartnotes/internal/store/sqlite"
)

type stubSearcher struct {
	calls   int
	results []models.SimilarityResult
	err     error
}

func (s *stubSearcher) Search(_ context.Context, _ string, _ int) ([]models.SimilarityResult, error) {
	s.calls++
	return s.results, s.err
}

func testStore(t *testing.T) store.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "rag-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func saveNote(t *testing.T, st store.Store, id, title, body string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, st.SaveNote(context.Background(), &models.Note{
		ID: id, Title: title, Body: body, CreatedAt: now, UpdatedAt: now,
	}))
}

func TestAssembleActiveNoteFirst(t *testing.T) {
	st := testStore(t)
	saveNote(t, st, "n1", "Alpha", "alpha body")
	saveNote(t, st, "n2", "Beta", "beta body")
	search := &stubSearcher{}
	a := New(st, search)

	res, err := a.Assemble(context.Background(), "tell me about Beta", "n1")
	require.NoError(t, err)

	require.Len(t, res.Notes, 2)
	assert.Equal(t, "n1", res.Notes[0].ID, "active note comes first")
	assert.Equal(t, "n2", res.Notes[1].ID)
	assert.Contains(t, res.Context, "(currently viewing)")
	assert.Contains(t, res.Context, "alpha body")
	assert.Contains(t, res.Context, "beta body")
	assert.Zero(t, search.calls, "no semantic search when notes were found")
}

func TestAssembleMentionSkipsSemanticSearch(t *testing.T) {
	st := testStore(t)
	saveNote(t, st, "n2", "Beta", "beta full body")
	search := &stubSearcher{}
	a := New(st, search)

	res, err := a.Assemble(context.Background(), "@Beta what does it say", "")
	require.NoError(t, err)

	require.Len(t, res.Notes, 1)
	assert.Equal(t, "n2", res.Notes[0].ID)
	assert.Contains(t, res.Context, "beta full body")
	assert.Zero(t, search.calls)
}

func TestAssembleMentionIsCaseSensitive(t *testing.T) {
	st := testStore(t)
	saveNote(t, st, "n2", "Beta", "beta body")
	search := &stubSearcher{}
	a := New(st, search)

	res, err := a.Assemble(context.Background(), "tell me about beta", "")
	require.NoError(t, err)
	assert.Empty(t, res.Notes, "lowercase mention does not match; fallback found nothing")
	assert.Equal(t, 1, search.calls)
}

func TestAssembleLongestTitleWins(t *testing.T) {
	st := testStore(t)
	saveNote(t, st, "short", "Go", "short body")
	saveNote(t, st, "long", "Go Roadmap", "long body")
	search := &stubSearcher{}
	a := New(st, search)

	res, err := a.Assemble(context.Background(), "open Go Roadmap please", "")
	require.NoError(t, err)

	require.Len(t, res.Notes, 1, "prefix title must not match inside the longer one")
	assert.Equal(t, "long", res.Notes[0].ID)
}

func TestAssembleIndependentMentionsBothMatch(t *testing.T) {
	st := testStore(t)
	saveNote(t, st, "short", "Go", "short body")
	saveNote(t, st, "long", "Go Roadmap", "long body")
	search := &stubSearcher{}
	a := New(st, search)

	res, err := a.Assemble(context.Background(), "compare Go Roadmap with my Go note", "")
	require.NoError(t, err)

	require.Len(t, res.Notes, 2)
	assert.Equal(t, "long", res.Notes[0].ID)
	assert.Equal(t, "short", res.Notes[1].ID, "standalone mention outside the consumed span still matches")
}

func TestAssembleSemanticFallback(t *testing.T) {
	st := testStore(t)
	saveNote(t, st, "n1", "Alpha", "alpha body")
	search := &stubSearcher{results: []models.SimilarityResult{{NoteID: "n1", Score: 0.9}}}
	a := New(st, search)

	res, err := a.Assemble(context.Background(), "something unrelated", "")
	require.NoError(t, err)

	assert.Equal(t, 1, search.calls)
	require.Len(t, res.Notes, 1)
	assert.Equal(t, "n1", res.Notes[0].ID)
}

func TestAssembleUngroundedIsExplicit(t *testing.T) {
	st := testStore(t)
	search := &stubSearcher{}
	a := New(st, search)

	res, err := a.Assemble(context.Background(), "anything", "")
	require.NoError(t, err)
	assert.Equal(t, NoContextText, res.Context)
	assert.Empty(t, res.Notes)
}

func TestAssembleSearchFailureDegrades(t *testing.T) {
	st := testStore(t)
	saveNote(t, st, "n1", "Alpha", "alpha body")
	search := &stubSearcher{err: assert.AnError}
	a := New(st, search)

	res, err := a.Assemble(context.Background(), "unrelated query", "")
	require.NoError(t, err, "embed failure degrades instead of propagating")
	assert.True(t, strings.Contains(res.Context, NoContextText))
}
