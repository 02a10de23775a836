package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractToolCallPlainJSON(t *testing.T) {
	call, ok := ExtractToolCall(`{"tool": "search_notes", "arguments": {"query": "groceries"}}`)
	require.True(t, ok)
	assert.Equal(t, "search_notes", call.Tool)
	assert.Equal(t, "groceries", call.Arguments["query"])
}

func TestExtractToolCallWrappedInProse(t *testing.T) {
	text := `Sure, let me look that up.
{"tool": "read_note", "arguments": {"id": "n1"}}
I'll report back shortly.`

	call, ok := ExtractToolCall(text)
	require.True(t, ok)
	assert.Equal(t, "read_note", call.Tool)
	assert.Equal(t, "n1", call.Arguments["id"])
}

func TestExtractToolCallNestedBracesInStrings(t *testing.T) {
	text := `{"tool": "create_note", "arguments": {"title": "Braces", "content": "code: if x { y() } and a quote \" char"}}`

	call, ok := ExtractToolCall(text)
	require.True(t, ok)
	assert.Equal(t, "create_note", call.Tool)
	assert.Equal(t, `code: if x { y() } and a quote " char`, call.Arguments["content"])
}

func TestExtractToolCallPlainText(t *testing.T) {
	_, ok := ExtractToolCall("Your meeting notes mention three action items.")
	assert.False(t, ok)
}

func TestExtractToolCallMalformedJSON(t *testing.T) {
	_, ok := ExtractToolCall(`{"tool": "search_notes", "arguments": {"query": }`)
	assert.False(t, ok)
}

func TestExtractToolCallObjectWithoutToolField(t *testing.T) {
	// JSON in an answer that isn't a tool call stays an answer.
	_, ok := ExtractToolCall(`The config is {"debug": true, "level": "info"}.`)
	assert.False(t, ok)
}

func TestExtractToolCallMissingArguments(t *testing.T) {
	call, ok := ExtractToolCall(`{"tool": "list_folders"}`)
	require.True(t, ok)
	assert.NotNil(t, call.Arguments)
	assert.Empty(t, call.Arguments)
}
