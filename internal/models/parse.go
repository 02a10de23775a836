package models

import (
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	wikilinkRe = regexp.MustCompile(`\[\[(.*?)\]\]`)
	tagRe      = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)
)

// ExtractLinks returns deduplicated wikilink targets from a note body.
// Aliased links ([[Target|Alias]]) resolve to their target.
func ExtractLinks(body string) []string {
	matches := wikilinkRe.FindAllStringSubmatch(body, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		target := m[1]
		if i := strings.Index(target, "|"); i >= 0 {
			target = target[:i]
		}
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}

// ExtractTags collects inline #tags from the body plus any tags declared in
// YAML frontmatter, deduplicated and sorted for stable output. Display order
// of a note's stored tags is preserved elsewhere; this is the parse step.
func ExtractTags(body string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}

	fm, rest := splitFrontmatter(body)
	if fm != nil {
		switch v := fm["tags"].(type) {
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					add(s)
				}
			}
		case string:
			for _, s := range strings.Split(v, ",") {
				add(s)
			}
		}
	}

	for _, m := range tagRe.FindAllStringSubmatch(rest, -1) {
		add(m[1])
	}

	sort.Strings(out)
	return out
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the body. Invalid or absent frontmatter yields a nil map and the
// original body.
func splitFrontmatter(body string) (map[string]any, string) {
	const delim = "---"
	trimmed := strings.TrimLeft(body, "\n\r")
	if !strings.HasPrefix(trimmed, delim) {
		return nil, body
	}

	rest := trimmed[len(delim):]
	idx := strings.Index(rest, "\n"+delim)
	if idx < 0 {
		return nil, body
	}

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(rest[:idx]), &fm); err != nil {
		return nil, body
	}

	after := rest[idx+1+len(delim):]
	return fm, strings.TrimLeft(after, "\n\r")
}
