// Package rag decides which notes' text gets injected into the model prompt
// and renders the context block.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/avholm/smartnotes/internal/models"
	"github.com/avholm/smartnotes/internal/store"
)

// NoContextText is rendered when no notes qualify. The model must be told
// explicitly that it is not grounded rather than receiving an empty string.
const NoContextText = "No relevant notes were found in the notebook."

const blockDelimiter = "\n\n---\n\n"

// semanticFallbackK is how many notes the semantic fallback pulls in.
const semanticFallbackK = 3

// Searcher is the slice of the embedding index the assembler needs.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]models.SimilarityResult, error)
}

// Result is the assembled context plus the notes that produced it, in
// priority order.
type Result struct {
	Context string
	Notes   []models.Note
}

// Assembler selects and renders note context for a query.
type Assembler struct {
	store    store.Store
	searcher Searcher
}

// New creates a context assembler.
func New(st store.Store, searcher Searcher) *Assembler {
	return &Assembler{store: st, searcher: searcher}
}

// Assemble picks context notes for a query. Priority order:
//
//  1. the active note, if any, labeled "currently viewing";
//  2. notes whose titles appear literally in the query (case-sensitive,
//     longest title first so a short title can't shadow a longer one);
//  3. only when neither produced anything, a semantic search fallback.
//
// Inference-service failure during the fallback degrades to an ungrounded
// context; persistence failures propagate.
func (a *Assembler) Assemble(ctx context.Context, query, activeNoteID string) (Result, error) {
	notes, err := a.store.ListNotes(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list notes: %w", err)
	}

	byID := make(map[string]*models.Note, len(notes))
	for i := range notes {
		byID[notes[i].ID] = &notes[i]
	}

	var used []models.Note
	seen := make(map[string]bool)

	var active *models.Note
	if activeNoteID != "" {
		if n, ok := byID[activeNoteID]; ok {
			active = n
			used = append(used, *n)
			seen[n.ID] = true
		}
	}

	for _, n := range mentionedNotes(query, notes) {
		if seen[n.ID] {
			continue
		}
		used = append(used, n)
		seen[n.ID] = true
	}

	if len(used) == 0 {
		hits, err := a.searcher.Search(ctx, query, semanticFallbackK)
		if err != nil {
			slog.Warn("semantic fallback failed, assembling ungrounded context", "error", err)
		}
		for _, hit := range hits {
			if n, ok := byID[hit.NoteID]; ok && !seen[n.ID] {
				used = append(used, *n)
				seen[n.ID] = true
			}
		}
	}

	return Result{Context: render(used, active), Notes: used}, nil
}

// mentionedNotes returns notes whose titles occur literally in the query,
// longest title first. Matched spans are consumed so a shorter title cannot
// re-match inside a longer one ("Go" inside "Go Roadmap").
func mentionedNotes(query string, notes []models.Note) []models.Note {
	sorted := make([]models.Note, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Title) > len(sorted[j].Title)
	})

	remaining := query
	var out []models.Note
	for _, n := range sorted {
		if n.Title == "" {
			continue
		}
		if strings.Contains(remaining, n.Title) {
			out = append(out, n)
			// The NUL separator keeps the surrounding text from joining
			// into a new accidental title match.
			remaining = strings.ReplaceAll(remaining, n.Title, "\x00")
		}
	}
	return out
}

func render(used []models.Note, active *models.Note) string {
	if len(used) == 0 {
		return NoContextText
	}

	blocks := make([]string, 0, len(used))
	for _, n := range used {
		label := fmt.Sprintf("Note: %q", n.Title)
		if active != nil && n.ID == active.ID {
			label += " (currently viewing)"
		}
		blocks = append(blocks, label+"\n"+n.Body)
	}
	return strings.Join(blocks, blockDelimiter)
}
