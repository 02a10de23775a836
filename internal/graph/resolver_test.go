package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avholm/smartnotes/internal/models"
)

func note(id, title string) models.Note {
	now := time.Now()
	return models.Note{ID: id, Title: title, CreatedAt: now, UpdatedAt: now}
}

func TestComputeEdgesPrecedence(t *testing.T) {
	// Alpha links [[Beta]]; Beta and Gamma share the tag "work".
	alpha := note("a", "Alpha")
	alpha.Body = "see [[Beta]]"
	alpha.LinkedTitles = []string{"Beta"}

	beta := note("b", "Beta")
	beta.Tags = []string{"work"}

	gamma := note("c", "Gamma")
	gamma.Tags = []string{"work"}

	edges := ComputeEdges([]models.Note{alpha, beta, gamma})

	require.Len(t, edges, 2)
	assert.Equal(t, models.Edge{A: "a", B: "b", Style: models.EdgeExplicit}, edges[0])
	assert.Equal(t, models.Edge{A: "b", B: "c", Style: models.EdgeTagOverlap}, edges[1])
}

func TestComputeEdgesExplicitBeatsLowerSources(t *testing.T) {
	a := note("a", "Alpha")
	a.LinkedTitles = []string{"beta"} // case-insensitive title match
	a.Tags = []string{"shared"}
	a.AILinks = []string{"b"}

	b := note("b", "Beta")
	b.Tags = []string{"shared"}

	edges := ComputeEdges([]models.Note{a, b})
	require.Len(t, edges, 1)
	assert.Equal(t, models.EdgeExplicit, edges[0].Style)
}

func TestComputeEdgesInferredBeatsTagOverlap(t *testing.T) {
	a := note("a", "Alpha")
	a.Tags = []string{"shared"}
	a.AILinks = []string{"b"}

	b := note("b", "Beta")
	b.Tags = []string{"shared"}

	edges := ComputeEdges([]models.Note{a, b})
	require.Len(t, edges, 1)
	assert.Equal(t, models.EdgeInferred, edges[0].Style)
}

func TestComputeEdgesNoDuplicatePairs(t *testing.T) {
	// Mutual links and mutual AI links still produce one edge.
	a := note("a", "Alpha")
	a.LinkedTitles = []string{"Beta"}
	a.AILinks = []string{"b"}

	b := note("b", "Beta")
	b.LinkedTitles = []string{"Alpha"}
	b.AILinks = []string{"a"}

	edges := ComputeEdges([]models.Note{a, b})
	require.Len(t, edges, 1)
	assert.Equal(t, models.EdgeExplicit, edges[0].Style)
}

func TestComputeEdgesIgnoresDanglingReferences(t *testing.T) {
	a := note("a", "Alpha")
	a.LinkedTitles = []string{"Missing"}
	a.AILinks = []string{"ghost"}

	edges := ComputeEdges([]models.Note{a})
	assert.Empty(t, edges)
}

func TestComputeEdgesSelfReferenceIgnored(t *testing.T) {
	a := note("a", "Alpha")
	a.LinkedTitles = []string{"Alpha"}
	a.AILinks = []string{"a"}

	edges := ComputeEdges([]models.Note{a})
	assert.Empty(t, edges)
}
