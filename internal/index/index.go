// Package index maintains one embedding per note and answers top-k
// similarity queries with a brute-force scan. At personal-notebook scale a
// full scan beats maintaining an ANN structure; the interface leaves room to
// swap one in without touching callers.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/avholm/smartnotes/internal/llm"
	"github.com/avholm/smartnotes/internal/metrics"
	"github.com/avholm/smartnotes/internal/models"
	"github.com/avholm/smartnotes/internal/store"
)

// Index generates, stores and searches note embeddings.
type Index struct {
	store     store.Store
	embedder  llm.Embedder
	collector *metrics.Collector
}

// New creates an embedding index over the given store.
func New(st store.Store, embedder llm.Embedder, collector *metrics.Collector) *Index {
	return &Index{store: st, embedder: embedder, collector: collector}
}

// IndexNote refreshes the stored embedding for a note. It never returns an
// error to the save path: empty bodies are skipped, embedding or persistence
// failures are logged and swallowed, and a record that is still fresh is
// left untouched.
func (ix *Index) IndexNote(ctx context.Context, note *models.Note) {
	if strings.TrimSpace(note.Body) == "" {
		slog.Debug("skipping embedding for empty note", "note", note.ID)
		return
	}

	existing, err := ix.store.GetEmbedding(ctx, note.ID)
	if err != nil {
		slog.Warn("embedding lookup failed", "note", note.ID, "error", err)
		return
	}
	if existing != nil && existing.FreshFor(note) {
		return
	}

	vector, err := ix.embedder.Embed(ctx, embeddingText(note))
	if err != nil {
		slog.Warn("embedding generation failed", "note", note.ID, "error", err)
		return
	}

	rec := &models.EmbeddingRecord{
		NoteID:      note.ID,
		Vector:      vector,
		GeneratedAt: time.Now(),
	}
	if err := ix.store.PutEmbedding(ctx, rec); err != nil {
		slog.Warn("embedding store failed", "note", note.ID, "error", err)
	}
}

// ReindexAll refreshes embeddings for every note and returns how many were
// embedded. With force set, freshness checks are bypassed and every
// non-empty note is re-embedded. onProgress, when non-nil, is called after
// each note with the number of notes processed so far and the total.
func (ix *Index) ReindexAll(ctx context.Context, force bool, onProgress func(done, total int)) (int, error) {
	notes, err := ix.store.ListNotes(ctx)
	if err != nil {
		return 0, fmt.Errorf("list notes: %w", err)
	}

	embedded := 0
	for i := range notes {
		did, err := ix.reindexNote(ctx, &notes[i], force)
		if err != nil {
			return embedded, err
		}
		if did {
			embedded++
		}
		if onProgress != nil {
			onProgress(i+1, len(notes))
		}
	}
	return embedded, nil
}

// reindexNote refreshes one note's embedding and reports whether it actually
// embedded anything.
func (ix *Index) reindexNote(ctx context.Context, note *models.Note, force bool) (bool, error) {
	if strings.TrimSpace(note.Body) == "" {
		return false, nil
	}

	if !force {
		existing, err := ix.store.GetEmbedding(ctx, note.ID)
		if err != nil {
			slog.Warn("embedding lookup failed", "note", note.ID, "error", err)
			return false, nil
		}
		if existing != nil && existing.FreshFor(note) {
			return false, nil
		}
	}

	vector, err := ix.embedder.Embed(ctx, embeddingText(note))
	if err != nil {
		return false, fmt.Errorf("embed note %s: %w", note.ID, err)
	}
	rec := &models.EmbeddingRecord{
		NoteID:      note.ID,
		Vector:      vector,
		GeneratedAt: time.Now(),
	}
	if err := ix.store.PutEmbedding(ctx, rec); err != nil {
		return false, fmt.Errorf("store embedding for %s: %w", note.ID, err)
	}
	return true, nil
}

// embeddingText is what gets embedded for a note: the title carries a lot of
// signal for short notes, so it is prepended to the body.
func embeddingText(note *models.Note) string {
	return note.Title + "\n\n" + note.Body
}

// Search embeds the query, scores it against every stored record and returns
// the k best matches, ranked by descending cosine similarity.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]models.SimilarityResult, error) {
	start := time.Now()
	defer func() { ix.collector.Record(metrics.OpSearch, time.Since(start)) }()

	queryVec, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	records, err := ix.store.ListEmbeddings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load embeddings: %w", err)
	}

	results := make([]models.SimilarityResult, 0, len(records))
	for _, rec := range records {
		results = append(results, models.SimilarityResult{
			NoteID: rec.NoteID,
			Score:  CosineSimilarity(queryVec, rec.Vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// CosineSimilarity computes the normalized dot product of two vectors.
// A zero-magnitude vector (or a dimension mismatch) yields 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
