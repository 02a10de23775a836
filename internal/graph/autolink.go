package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avholm/smartnotes/internal/metrics"
	"github.com/avholm/smartnotes/internal/models"
	"github.com/avholm/smartnotes/internal/store"
)

const (
	// minAutoLinkBodyLen is the body length below which auto-linking is
	// skipped entirely; there is nothing to match on.
	minAutoLinkBodyLen = 20

	// autoLinkQueryBodyLen is how much of the body contributes to the
	// similarity query.
	autoLinkQueryBodyLen = 200

	// autoLinkThreshold is the minimum cosine similarity for a candidate.
	autoLinkThreshold = 0.3
)

// AutoLinker refreshes a note's AI-inferred link list after save.
type AutoLinker struct {
	store     store.Store
	searcher  Searcher
	collector *metrics.Collector
}

// NewAutoLinker creates an auto-linker over the given store and index.
func NewAutoLinker(st store.Store, searcher Searcher, collector *metrics.Collector) *AutoLinker {
	return &AutoLinker{store: st, searcher: searcher, collector: collector}
}

// AutoLink runs a similarity search for the note and merges qualifying
// results into its AI-link list.
//
// The note argument is treated as an immutable snapshot of the state that
// was saved; the link-list update is applied read-modify-write against the
// latest persisted copy, last writer wins. New discoveries are kept in
// descending similarity order ahead of surviving previous links, so capping
// at models.MaxAILinks prefers the strongest fresh signal.
func (l *AutoLinker) AutoLink(ctx context.Context, note *models.Note) error {
	start := time.Now()
	defer func() { l.collector.Record(metrics.OpAutoLink, time.Since(start)) }()

	body := []rune(note.Body)
	if len(body) < minAutoLinkBodyLen {
		return nil
	}

	queryBody := body
	if len(queryBody) > autoLinkQueryBodyLen {
		queryBody = queryBody[:autoLinkQueryBodyLen]
	}
	query := note.Title + " " + string(queryBody)

	// One extra result because the note itself usually ranks first.
	hits, err := l.searcher.Search(ctx, query, models.MaxAILinks+1)
	if err != nil {
		return fmt.Errorf("similarity search: %w", err)
	}

	var discovered []string
	for _, hit := range hits {
		if hit.NoteID == note.ID || hit.Score < autoLinkThreshold {
			continue
		}
		discovered = append(discovered, hit.NoteID)
	}

	latest, err := l.store.GetNote(ctx, note.ID)
	if err != nil {
		return fmt.Errorf("reload note: %w", err)
	}

	merged := mergeLinks(discovered, latest.AILinks)
	if equalLinks(merged, latest.AILinks) {
		return nil
	}

	// Only the link list changes; UpdatedAt stays put so the note's
	// embedding does not go stale from its own auto-link.
	latest.AILinks = merged
	if err := l.store.SaveNote(ctx, latest); err != nil {
		return fmt.Errorf("save links: %w", err)
	}

	slog.Debug("auto-link updated", "note", note.ID, "links", len(merged))
	return nil
}

// mergeLinks combines fresh discoveries (already ranked by similarity) with
// previously stored links, deduplicated and capped.
func mergeLinks(discovered, existing []string) []string {
	seen := make(map[string]bool, len(discovered)+len(existing))
	var merged []string
	for _, id := range discovered {
		if !seen[id] {
			seen[id] = true
			merged = append(merged, id)
		}
	}
	for _, id := range existing {
		if !seen[id] {
			seen[id] = true
			merged = append(merged, id)
		}
	}
	if len(merged) > models.MaxAILinks {
		merged = merged[:models.MaxAILinks]
	}
	return merged
}

func equalLinks(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
