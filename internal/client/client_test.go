package client

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avholm/smartnotes/internal/api"
	"github.com/avholm/smartnotes/internal/graph"
	"github.com/avholm/smartnotes/internal/index"
	"github.com/avholm/smartnotes/internal/metrics"
	"github.com/avholm/smartnotes/internal/service"
	"github.com/avholm/smartnotes/internal/store/sqlite"
)

type flatEmbedder struct{}

func (flatEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func testClient(t *testing.T, collector *metrics.Collector) *Client {
	t.Helper()
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "client-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ix := index.New(st, flatEmbedder{}, collector)
	linker := graph.NewAutoLinker(st, ix, collector)
	notes := service.NewNotes(st, ix, linker)
	t.Cleanup(notes.Wait)

	srv := httptest.NewServer(api.NewRouter(notes, nil, collector))
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestClientNoteLifecycle(t *testing.T) {
	c := testClient(t, nil)
	ctx := context.Background()

	created, err := c.CreateNote(ctx, "Alpha", "see [[Beta]] #work", "inbox")
	require.NoError(t, err)
	assert.Equal(t, []string{"Beta"}, created.LinkedTitles)

	got, err := c.GetNote(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Title)

	updated, err := c.UpdateNote(ctx, created.ID, "extra line", "append")
	require.NoError(t, err)
	assert.Equal(t, "see [[Beta]] #work\nextra line", updated.Body)

	all, err := c.ListNotes(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	folders, err := c.Folders(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "inbox", folders[0].Name)

	require.NoError(t, c.DeleteNote(ctx, created.ID))
	_, err = c.GetNote(ctx, created.ID)
	assert.ErrorContains(t, err, "404")
}

func TestClientSearchAndGraph(t *testing.T) {
	c := testClient(t, nil)
	ctx := context.Background()

	_, err := c.CreateNote(ctx, "Alpha", "see [[Beta]], about lasagna", "")
	require.NoError(t, err)
	_, err = c.CreateNote(ctx, "Beta", "plain", "")
	require.NoError(t, err)

	results, err := c.Search(ctx, "lasagna")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Alpha", results[0].Title)

	g, err := c.Graph(ctx)
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 2)
	require.NotEmpty(t, g.Links)
	assert.Equal(t, "explicit", g.Links[0].Style)
}

func TestClientChatUnavailable(t *testing.T) {
	c := testClient(t, nil)
	_, err := c.Chat(context.Background(), "hello", nil, "")
	assert.ErrorContains(t, err, "503")
}

func TestClientStats(t *testing.T) {
	collector := metrics.NewCollector()
	c := testClient(t, collector)
	collector.Record(metrics.OpSearch, 3*time.Millisecond)

	snap, err := c.Stats(context.Background())
	require.NoError(t, err)
	op, ok := snap.Operations[metrics.OpSearch]
	require.True(t, ok, "recorded timings are visible over the API")
	assert.EqualValues(t, 1, op.Count)
}
