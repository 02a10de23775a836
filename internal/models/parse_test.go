package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLinks(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"none", "plain text without links", nil},
		{"single", "see [[Beta]] for details", []string{"Beta"}},
		{"alias", "see [[Beta|the beta note]]", []string{"Beta"}},
		{"dedup", "[[Beta]] and again [[Beta]]", []string{"Beta"}},
		{"multiple", "[[Alpha]] then [[Gamma]]", []string{"Alpha", "Gamma"}},
		{"empty target", "[[ ]] is not a link", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractLinks(tt.body))
		})
	}
}

func TestExtractTags(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"inline", "working on #work stuff and #go/projects", []string{"go/projects", "work"}},
		{"dedup", "#work and #work again", []string{"work"}},
		{"frontmatter list", "---\ntags:\n  - work\n  - ideas\n---\nbody", []string{"ideas", "work"}},
		{"frontmatter and inline merged", "---\ntags: [work]\n---\nalso #ideas", []string{"ideas", "work"}},
		{"not a tag mid-word", "c#5 is a chord", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTags(tt.body))
		})
	}
}

func TestSplitFrontmatterInvalidYAML(t *testing.T) {
	body := "---\n: not yaml [\n---\nbody"
	fm, rest := splitFrontmatter(body)
	assert.Nil(t, fm)
	assert.Equal(t, body, rest)
}
