// Package events defines the outbound event stream a chat request produces.
// Every event is serialized as one SSE data line; the stream is strictly
// ordered and terminates with either updated_context or error, never both.
package events

import "github.com/loom-chat/loom/pkg/models"

// Type identifies the kind of outbound event.
type Type string

const (
	// TypeReasoning carries the model's short user-facing notification for
	// the current reasoning step.
	TypeReasoning Type = "reasoning"
	// TypeText carries one user-visible response token.
	TypeText Type = "text"
	// TypeToolStart marks the beginning of one tool invocation.
	TypeToolStart Type = "tool_start"
	// TypeToolEnd marks the completion (or failure) of one tool invocation.
	TypeToolEnd Type = "tool_end"
	// TypeUpdatedContext carries the final conversation context the client
	// must echo back on its next request.
	TypeUpdatedContext Type = "updated_context"
	// TypeError carries a fatal error message; it ends the stream.
	TypeError Type = "error"
)

// Event is one outbound stream element.
type Event struct {
	Type    Type `json:"type"`
	Content any  `json:"content"`
}

// ToolStartPayload is the content of a tool_start event.
type ToolStartPayload struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	UserNotification string `json:"user_notification,omitempty"`
}

// ToolEndPayload is the content of a tool_end event. Exactly one of Result
// or Error is set; the ID pairs it with its tool_start.
type ToolEndPayload struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Reasoning builds a reasoning notification event.
func Reasoning(notification string) Event {
	return Event{Type: TypeReasoning, Content: notification}
}

// Text builds a single-token text event.
func Text(token string) Event {
	return Event{Type: TypeText, Content: token}
}

// ToolStart builds a tool_start event.
func ToolStart(id, name, description, notification string) Event {
	return Event{Type: TypeToolStart, Content: ToolStartPayload{
		ID:               id,
		Name:             name,
		Description:      description,
		UserNotification: notification,
	}}
}

// ToolEnd builds a tool_end event from a recorded tool result.
func ToolEnd(result models.ToolResult) Event {
	return Event{Type: TypeToolEnd, Content: ToolEndPayload{
		ID:     result.ID,
		Name:   result.Name,
		Result: result.Result,
		Error:  result.Error,
	}}
}

// UpdatedContext builds the terminal context event.
func UpdatedContext(ctx models.ConversationContext) Event {
	return Event{Type: TypeUpdatedContext, Content: ctx}
}

// Error builds a fatal error event.
func Error(message string) Event {
	return Event{Type: TypeError, Content: message}
}
