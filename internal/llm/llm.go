// Package llm provides chat and embedding access to the local inference
// service using langchaingo. The core only depends on the two small
// interfaces below; tests substitute stubs.
package llm

import (
	"context"

	"github.com/avholm/smartnotes/internal/models"
)

// Chatter produces a single non-streaming completion for an ordered list of
// chat messages.
type Chatter interface {
	Chat(ctx context.Context, messages []models.ChatMessage) (string, error)
}

// Embedder generates a fixed-dimension embedding vector for a text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
