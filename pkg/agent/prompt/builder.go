// Package prompt composes the message lists sent to the model: the static
// format instructions, the available-tool listing, conversation summary, and
// recent history. Stateless — all state comes from parameters.
package prompt

import (
	"github.com/loom-chat/loom/pkg/llm"
	"github.com/loom-chat/loom/pkg/models"
	"github.com/loom-chat/loom/pkg/tools"
)

// Builder builds prompt messages for the conversation agent. Thread-safe —
// no mutable state.
type Builder struct{}

// NewBuilder creates a Builder.
func NewBuilder() *Builder { return &Builder{} }

// BuildMessages composes the full message list for one model call:
//
//  1. the caller's system prompt, when present
//  2. the running conversation summary, when present
//  3. the recent conversation history, which already ends with the message
//     being answered (or a continuation message on later iterations)
//  4. the format instructions plus the available-tool listing
func (b *Builder) BuildMessages(systemPrompt, summary string, recent []models.MessageEntry, defs []tools.Definition) []llm.Message {
	messages := make([]llm.Message, 0, len(recent)+3)

	if systemPrompt != "" {
		messages = append(messages, llm.Message{Role: models.RoleSystem, Content: systemPrompt})
	}
	if summary != "" {
		messages = append(messages, llm.Message{Role: models.RoleSystem, Content: "Previous conversation summary: " + summary})
	}
	for _, entry := range recent {
		messages = append(messages, llm.Message{Role: entry.Role, Content: entry.Content})
	}
	messages = append(messages, llm.Message{
		Role:    models.RoleSystem,
		Content: formatInstructions + "\n\nAvailable tools:\n" + FormatToolDescriptions(defs),
	})
	return messages
}
