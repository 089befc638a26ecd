// Package llm abstracts the streaming language-model transport. The agent
// depends only on the Client interface; the OpenAI-compatible implementation
// lives alongside it.
package llm

import (
	"context"

	"github.com/loom-chat/loom/pkg/models"
)

// Message is one prompt message sent to the model.
type Message struct {
	Role    models.Role
	Content string
}

// Client streams a model completion for a prepared message list.
type Client interface {
	// Stream starts a completion and returns a token channel plus an error
	// channel. The token channel is closed when the stream ends; the error
	// channel carries at most one transport error and is closed afterwards.
	// Tokens delivered before a mid-stream failure remain valid.
	Stream(ctx context.Context, messages []Message) (<-chan string, <-chan error)
}
