// Package tools provides the tool registry and dispatch layer of the
// conversation agent. Tools are stateless, safe for concurrent invocation,
// and are seen by the agent only through the Tool interface.
package tools

import (
	"context"
	"fmt"
)

// ArgSpec describes one argument a tool accepts. The spec is rendered into
// the model's format instructions and compiled into a JSON Schema used to
// validate arguments before execution.
type ArgSpec struct {
	Description string
	// Type is a JSON Schema primitive type (string, integer, number,
	// boolean, array, object). Empty means unconstrained.
	Type string
	// Items is the element type when Type is "array".
	Items string
	// Required marks the argument as mandatory.
	Required bool
}

// Tool is a named external capability callable from the agent.
type Tool interface {
	// Name returns the unique tool name used in tool payloads.
	Name() string
	// Description is a one-line summary rendered into the prompt.
	Description() string
	// Schema declares the accepted arguments, keyed by argument name.
	// A nil or empty schema means the tool takes no arguments.
	Schema() map[string]ArgSpec
	// Execute runs the tool. The returned string is fed back to the model
	// verbatim. Errors never propagate past the dispatcher: they are folded
	// into an error result instead.
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// ToolError is a recoverable tool failure: it is recorded in the tool
// results and reported to the model on the next iteration, never fatal to
// the request.
type ToolError struct {
	Tool    string
	Message string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s: %s", e.Tool, e.Message)
}

// NotAvailableMessage is the exact error text recorded when the model
// requests a tool that is not registered. The model sees it on the next
// iteration.
func NotAvailableMessage(name string) string {
	return fmt.Sprintf("Tool '%s' is not available.", name)
}
