package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avholm/smartnotes/internal/llm"
	"github.com/avholm/smartnotes/internal/models"
	"github.com/avholm/smartnotes/internal/rag"
)

// stuckFallback is returned verbatim when the model is still asking for
// tools after the last allowed call.
const stuckFallback = "I got stuck in a loop while working on that. Could you rephrase your request?"

// Assembler is the slice of the context assembler the loop needs.
type Assembler interface {
	Assemble(ctx context.Context, query, activeNoteID string) (rag.Result, error)
}

// Loop runs one bounded tool-augmented chat turn. Each model call gets its
// own timeout, and the whole turn makes at most maxTurns calls.
type Loop struct {
	chatter   llm.Chatter
	registry  *Registry
	assembler Assembler

	maxTurns      int
	timeout       time.Duration
	historyWindow int
}

// NewLoop creates an agent loop. maxTurns caps model calls per user
// message, timeout bounds each individual call, and historyWindow is how
// many persisted messages are replayed into the prompt.
func NewLoop(chatter llm.Chatter, registry *Registry, assembler Assembler, maxTurns int, timeout time.Duration, historyWindow int) *Loop {
	return &Loop{
		chatter:       chatter,
		registry:      registry,
		assembler:     assembler,
		maxTurns:      maxTurns,
		timeout:       timeout,
		historyWindow: historyWindow,
	}
}

// RunTurn answers one user message. The flow per call:
//
//  1. assemble note context and render the system prompt;
//  2. send system + recent history + working messages to the model;
//  3. if the reply contains a tool call, execute it and loop with the raw
//     reply and the tool result appended to the working list;
//  4. otherwise the reply text is the answer.
//
// Inference failures and timeouts come back as the answer text, never as an
// error; a turn must not take the app down. history is never mutated, and
// the intermediate tool traffic stays out of it. The error return is for
// persistence failures during context assembly only.
func (l *Loop) RunTurn(ctx context.Context, history []models.ChatMessage, userMessage, activeNoteID string) (string, error) {
	assembled, err := l.assembler.Assemble(ctx, userMessage, activeNoteID)
	if err != nil {
		return "", fmt.Errorf("assemble context: %w", err)
	}

	base := make([]models.ChatMessage, 0, l.historyWindow+2)
	base = append(base, models.ChatMessage{Role: models.RoleSystem, Content: systemPrompt(assembled.Context)})
	base = append(base, models.RecentWindow(history, l.historyWindow)...)
	base = append(base, models.ChatMessage{Role: models.RoleUser, Content: userMessage})

	var working []models.ChatMessage
	for turn := 0; turn < l.maxTurns; turn++ {
		reply, err := l.chat(ctx, append(base, working...))
		if err != nil {
			slog.Warn("chat call failed", "turn", turn, "error", err)
			return fmt.Sprintf("Sorry, I couldn't reach the language model: %v", err), nil
		}

		call, ok := ExtractToolCall(reply)
		if !ok {
			return reply, nil
		}

		slog.Debug("executing tool", "tool", call.Tool, "turn", turn)
		result := l.registry.Execute(ctx, call.Tool, call.Arguments, activeNoteID)

		working = append(working,
			models.ChatMessage{Role: models.RoleAssistant, Content: reply},
			models.ChatMessage{Role: models.RoleTool, Content: "Tool result: " + result},
		)
	}

	slog.Warn("agent hit the tool-call cap", "maxTurns", l.maxTurns)
	return stuckFallback, nil
}

func (l *Loop) chat(ctx context.Context, messages []models.ChatMessage) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return l.chatter.Chat(callCtx, messages)
}
