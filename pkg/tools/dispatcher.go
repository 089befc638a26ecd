package tools

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/loom-chat/loom/pkg/events"
	"github.com/loom-chat/loom/pkg/models"
)

// Dispatcher resolves queued tool calls against the registry, validates
// their arguments, executes them, and folds outcomes (including failures)
// into tool results. Queued tools run concurrently; results are collected in
// completion order.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch runs every queued tool call. emit receives tool_start immediately
// before each call begins and tool_end immediately after it completes;
// lifecycle events from concurrent calls interleave but are serialized, so
// the outbound stream stays ordered. Tool failures never propagate: they
// become error results.
func (d *Dispatcher) Dispatch(ctx context.Context, queue []models.ToolUse, emit func(events.Event)) []models.ToolResult {
	if len(queue) == 0 {
		return nil
	}

	var emitMu sync.Mutex
	serialEmit := func(ev events.Event) {
		emitMu.Lock()
		defer emitMu.Unlock()
		emit(ev)
	}

	results := make([]models.ToolResult, 0, len(queue))
	var resultsMu sync.Mutex
	var wg sync.WaitGroup

	for _, call := range queue {
		wg.Add(1)
		go func(call models.ToolUse) {
			defer wg.Done()
			res := d.runOne(ctx, call, serialEmit)
			resultsMu.Lock()
			results = append(results, res)
			resultsMu.Unlock()
		}(call)
	}
	wg.Wait()

	return results
}

// runOne executes a single tool call, emitting its lifecycle events.
func (d *Dispatcher) runOne(ctx context.Context, call models.ToolUse, emit func(events.Event)) models.ToolResult {
	tool, ok := d.registry.Get(call.Name)
	if !ok {
		slog.Warn("Requested tool is not registered", "tool", call.Name, "call_id", call.ID)
		emit(events.ToolStart(call.ID, call.Name, "", call.UserNotification))
		res := models.ToolResult{ID: call.ID, Name: call.Name, Error: NotAvailableMessage(call.Name)}
		emit(events.ToolEnd(res))
		return res
	}

	emit(events.ToolStart(call.ID, call.Name, tool.Description(), call.UserNotification))

	res := models.ToolResult{ID: call.ID, Name: call.Name}
	if err := d.registry.Validate(call.Name, call.Arguments); err != nil {
		res.Error = err.Error()
		emit(events.ToolEnd(res))
		return res
	}

	output, err := d.execute(ctx, tool, call.Arguments)
	if err != nil {
		res.Error = err.Error()
	} else {
		res.Result = output
	}
	emit(events.ToolEnd(res))
	return res
}

// execute invokes the tool, converting panics into tool errors so a
// misbehaving tool cannot take the request down.
func (d *Dispatcher) execute(ctx context.Context, tool Tool, args map[string]any) (output string, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Tool panicked", "tool", tool.Name(), "panic", r)
			err = &ToolError{Tool: tool.Name(), Message: fmt.Sprintf("tool panicked: %v", r)}
		}
	}()
	return tool.Execute(ctx, args)
}
