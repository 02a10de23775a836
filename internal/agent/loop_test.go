package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avholm/smartnotes/internal/models"
	"github.com/avholm/smartnotes/internal/rag"
)

// scriptedChatter replays canned replies and records everything it was sent.
type scriptedChatter struct {
	replies []string
	calls   [][]models.ChatMessage
}

func (c *scriptedChatter) Chat(_ context.Context, messages []models.ChatMessage) (string, error) {
	c.calls = append(c.calls, messages)
	i := len(c.calls) - 1
	if i >= len(c.replies) {
		i = len(c.replies) - 1
	}
	return c.replies[i], nil
}

type stubAssembler struct {
	result rag.Result
	err    error
}

func (a *stubAssembler) Assemble(_ context.Context, _, _ string) (rag.Result, error) {
	return a.result, a.err
}

func testLoop(t *testing.T, chatter *scriptedChatter) *Loop {
	t.Helper()
	reg, _, _ := testRegistry(t)
	asm := &stubAssembler{result: rag.Result{Context: rag.NoContextText}}
	return NewLoop(chatter, reg, asm, 5, time.Second, 10)
}

func TestRunTurnPlainAnswer(t *testing.T) {
	chatter := &scriptedChatter{replies: []string{"You have three notes about travel."}}
	loop := testLoop(t, chatter)

	answer, err := loop.RunTurn(context.Background(), nil, "what do I know about travel?", "")
	require.NoError(t, err)
	assert.Equal(t, "You have three notes about travel.", answer)
	assert.Len(t, chatter.calls, 1)
}

func TestRunTurnExecutesToolThenAnswers(t *testing.T) {
	chatter := &scriptedChatter{replies: []string{
		`{"tool": "create_note", "arguments": {"title": "Trip", "content": "pack the charger"}}`,
		"Done, I created the Trip note.",
	}}
	loop := testLoop(t, chatter)

	answer, err := loop.RunTurn(context.Background(), nil, "make a note to pack the charger", "")
	require.NoError(t, err)
	assert.Equal(t, "Done, I created the Trip note.", answer)
	require.Len(t, chatter.calls, 2)

	// The second call sees the raw tool-call reply and the tool result.
	second := chatter.calls[1]
	last := second[len(second)-1]
	assert.Equal(t, models.RoleTool, last.Role)
	assert.Contains(t, last.Content, `Tool result: Created note "Trip"`)
	assert.Equal(t, models.RoleAssistant, second[len(second)-2].Role)
}

func TestRunTurnNeverExceedsMaxCalls(t *testing.T) {
	chatter := &scriptedChatter{replies: []string{
		`{"tool": "list_folders", "arguments": {}}`,
	}}
	loop := testLoop(t, chatter)

	answer, err := loop.RunTurn(context.Background(), nil, "keep going forever", "")
	require.NoError(t, err)
	assert.Equal(t, stuckFallback, answer)
	assert.Len(t, chatter.calls, 5)
}

func TestRunTurnUnknownToolFedBack(t *testing.T) {
	chatter := &scriptedChatter{replies: []string{
		`{"tool": "teleport", "arguments": {}}`,
		"That tool doesn't exist, so here's a plain answer.",
	}}
	loop := testLoop(t, chatter)

	answer, err := loop.RunTurn(context.Background(), nil, "do something odd", "")
	require.NoError(t, err)
	assert.Equal(t, "That tool doesn't exist, so here's a plain answer.", answer)

	second := chatter.calls[1]
	last := second[len(second)-1]
	assert.Contains(t, last.Content, "Error executing teleport")
}

func TestRunTurnChatFailureReturnsText(t *testing.T) {
	reg, _, _ := testRegistry(t)
	asm := &stubAssembler{result: rag.Result{Context: rag.NoContextText}}
	blocked := chatterFunc(func(ctx context.Context, _ []models.ChatMessage) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	loop := NewLoop(blocked, reg, asm, 5, 20*time.Millisecond, 10)

	history := []models.ChatMessage{{Role: models.RoleUser, Content: "earlier"}}
	answer, err := loop.RunTurn(context.Background(), history, "hello", "")
	require.NoError(t, err, "inference failure is an answer, not an error")
	assert.Contains(t, answer, "couldn't reach the language model")
	assert.Equal(t, []models.ChatMessage{{Role: models.RoleUser, Content: "earlier"}}, history)
}

func TestRunTurnHistoryWindowAndSystemPrompt(t *testing.T) {
	chatter := &scriptedChatter{replies: []string{"ok"}}
	reg, _, _ := testRegistry(t)
	asm := &stubAssembler{result: rag.Result{Context: "Note: \"Trip\"\npack the charger"}}
	loop := NewLoop(chatter, reg, asm, 5, time.Second, 2)

	history := []models.ChatMessage{
		{Role: models.RoleUser, Content: "one"},
		{Role: models.RoleAssistant, Content: "two"},
		{Role: models.RoleUser, Content: "three"},
	}
	_, err := loop.RunTurn(context.Background(), history, "latest", "")
	require.NoError(t, err)

	sent := chatter.calls[0]
	// system + last 2 history messages + the new user message
	require.Len(t, sent, 4)
	assert.Equal(t, models.RoleSystem, sent[0].Role)
	assert.Contains(t, sent[0].Content, "pack the charger")
	assert.Contains(t, sent[0].Content, "create_note")
	assert.Equal(t, "two", sent[1].Content)
	assert.Equal(t, "three", sent[2].Content)
	assert.Equal(t, "latest", sent[3].Content)
}

func TestRunTurnAssembleFailurePropagates(t *testing.T) {
	chatter := &scriptedChatter{replies: []string{"ok"}}
	reg, _, _ := testRegistry(t)
	asm := &stubAssembler{err: assert.AnError}
	loop := NewLoop(chatter, reg, asm, 5, time.Second, 10)

	_, err := loop.RunTurn(context.Background(), nil, "hello", "")
	require.Error(t, err)
	assert.Empty(t, chatter.calls)
}

type chatterFunc func(ctx context.Context, messages []models.ChatMessage) (string, error)

func (f chatterFunc) Chat(ctx context.Context, messages []models.ChatMessage) (string, error) {
	return f(ctx, messages)
}
