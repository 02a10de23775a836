// Package graph computes the deduplicated relationship edge set among notes
// and maintains each note's AI-inferred link list.
package graph

import (
	"context"
	"sort"
	"strings"

	"github.com/avholm/smartnotes/internal/models"
)

// ComputeEdges builds the undirected edge list for visualization. Three
// signal sources contribute, in strict priority order: explicit wikilinks,
// then AI-inferred links, then shared tags. A pair of notes gets exactly one
// edge, styled by the highest-priority source that connects it.
func ComputeEdges(notes []models.Note) []models.Edge {
	byID := make(map[string]*models.Note, len(notes))
	byTitle := make(map[string]*models.Note, len(notes))
	for i := range notes {
		n := &notes[i]
		byID[n.ID] = n
		byTitle[strings.ToLower(n.Title)] = n
	}

	edges := make(map[[2]string]models.EdgeStyle)
	add := func(a, b string, style models.EdgeStyle) {
		if a == b {
			return
		}
		x, y := models.EdgeKey(a, b)
		key := [2]string{x, y}
		if _, exists := edges[key]; exists {
			return
		}
		edges[key] = style
	}

	// (a) explicit cross-references, case-insensitive exact title match.
	for i := range notes {
		n := &notes[i]
		for _, title := range n.LinkedTitles {
			if target, ok := byTitle[strings.ToLower(title)]; ok {
				add(n.ID, target.ID, models.EdgeExplicit)
			}
		}
	}

	// (b) AI-inferred links, only for pairs not already explicit.
	for i := range notes {
		n := &notes[i]
		for _, id := range n.AILinks {
			if _, ok := byID[id]; ok {
				add(n.ID, id, models.EdgeInferred)
			}
		}
	}

	// (c) shared-tag edges for everything still unconnected.
	for i := range notes {
		for j := i + 1; j < len(notes); j++ {
			if len(notes[i].SharedTags(&notes[j])) > 0 {
				add(notes[i].ID, notes[j].ID, models.EdgeTagOverlap)
			}
		}
	}

	out := make([]models.Edge, 0, len(edges))
	for key, style := range edges {
		out = append(out, models.Edge{A: key[0], B: key[1], Style: style})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// Searcher is the slice of the embedding index the auto-linker needs.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]models.SimilarityResult, error)
}
