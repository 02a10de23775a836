package models

// EdgeStyle records which signal source produced a relationship edge.
type EdgeStyle string

const (
	// EdgeExplicit comes from a [[wikilink]] in a note body.
	EdgeExplicit EdgeStyle = "explicit"
	// EdgeInferred comes from the auto-linker's similarity search.
	EdgeInferred EdgeStyle = "inferred"
	// EdgeTagOverlap comes from two notes sharing at least one tag.
	EdgeTagOverlap EdgeStyle = "tag-overlap"
)

// Edge is an undirected relationship between two notes, computed on demand
// for the graph view. A and B are note IDs in lexicographic order so that
// the pair identifies the edge regardless of direction.
type Edge struct {
	A     string    `json:"a"`
	B     string    `json:"b"`
	Style EdgeStyle `json:"style"`
}

// EdgeKey returns the canonical unordered-pair key for two note IDs.
func EdgeKey(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}
