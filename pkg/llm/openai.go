package llm

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/loom-chat/loom/pkg/models"
)

// OpenAIClient streams chat completions from an OpenAI-compatible endpoint.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a streaming client. baseURL may be empty to use
// the default API endpoint.
func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	return &OpenAIClient{client: &client, model: model}
}

// Stream starts a chat completion and forwards content deltas as tokens.
func (c *OpenAIClient) Stream(ctx context.Context, messages []Message) (<-chan string, <-chan error) {
	tokens := make(chan string, 100)
	errs := make(chan error, 1)

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: convertMessages(messages),
	}

	go func() {
		defer close(tokens)
		defer close(errs)

		stream := c.client.Chat.Completions.NewStreaming(ctx, params)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			if delta := chunk.Choices[0].Delta.Content; delta != "" {
				select {
				case tokens <- delta:
				case <-ctx.Done():
					errs <- ctx.Err()
					return
				}
			}
		}
		if err := stream.Err(); err != nil {
			slog.Error("Chat completion stream failed", "model", c.model, "error", err)
			errs <- fmt.Errorf("chat completion stream: %w", err)
		}
	}()

	return tokens, errs
}

func convertMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case models.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case models.RoleAI:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
