package models

// Role identifies the author of a conversation message.
type Role string

const (
	RoleHuman  Role = "human"
	RoleAI     Role = "ai"
	RoleSystem Role = "system"
)

// MessageEntry is a single message in the conversation history.
type MessageEntry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ConversationContext is the durable, client-facing conversation shape.
// Clients receive it in the final updated_context event and echo it back
// on the next request to preserve continuity. Entries with RoleSystem are
// internal bookkeeping and never appear here.
type ConversationContext struct {
	History []MessageEntry `json:"history"`
	Summary string         `json:"summary"`
}

// AddMessage appends a message to the conversation history.
func (c *ConversationContext) AddMessage(role Role, content string) {
	c.History = append(c.History, MessageEntry{Role: role, Content: content})
}

// ChatRequest is the HTTP request body for POST /openai/chat.
type ChatRequest struct {
	Message      string               `json:"message"`
	SystemPrompt string               `json:"system_prompt"`
	Context      *ConversationContext `json:"context"`
}
